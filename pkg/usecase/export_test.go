package usecase

import (
	"time"

	"github.com/memovox/memovox/pkg/domain/types"
)

// Export internal state for testing

// SetClock replaces the time source for deterministic TTL tests
func (uc *UseCases) SetClock(clock func() time.Time) {
	uc.now = clock
}

// WindowSize reports the current length of the user's conversation window
func (uc *UseCases) WindowSize(userID types.UserID) int {
	uc.windows.mu.Lock()
	defer uc.windows.mu.Unlock()

	window, ok := uc.windows.windows[userID]
	if !ok {
		return 0
	}
	return len(window.Turns)
}

// HasPending reports whether a live pending confirmation exists for the user
func (uc *UseCases) HasPending(userID types.UserID) bool {
	uc.pending.mu.Lock()
	defer uc.pending.mu.Unlock()

	pending, ok := uc.pending.entries[userID]
	if !ok {
		return false
	}
	return !pending.Expired(uc.clock(), uc.pending.ttl)
}

var TruncateReply = truncateReply
