package model

import (
	"time"

	"github.com/memovox/memovox/pkg/domain/types"
)

// MaxWindowTurns bounds the rolling conversation window. The oldest turn is
// evicted once the bound is exceeded.
const MaxWindowTurns = 10

// WindowTurn is one exchange held in the short-lived conversation window
type WindowTurn struct {
	Message    string
	Response   string
	ThoughtIDs []types.ThoughtID
	At         time.Time
}

// ConversationWindow is the bounded, time-boxed recent-turn history used for
// short-term continuity. It is never destroyed, only reset after idling past
// its TTL.
type ConversationWindow struct {
	UserID      types.UserID
	Turns       []WindowTurn
	LastUpdated time.Time
}

// Append adds a turn, evicting the oldest once MaxWindowTurns is exceeded
func (x *ConversationWindow) Append(turn WindowTurn) {
	x.Turns = append(x.Turns, turn)
	if len(x.Turns) > MaxWindowTurns {
		x.Turns = x.Turns[len(x.Turns)-MaxWindowTurns:]
	}
	x.LastUpdated = turn.At
}

// Recent returns up to n of the most recent turns, oldest first
func (x *ConversationWindow) Recent(n int) []WindowTurn {
	if n <= 0 || len(x.Turns) == 0 {
		return nil
	}
	if n > len(x.Turns) {
		n = len(x.Turns)
	}
	return x.Turns[len(x.Turns)-n:]
}

// IdleSince reports whether the window has been idle past ttl as of now
func (x *ConversationWindow) IdleSince(now time.Time, ttl time.Duration) bool {
	return now.Sub(x.LastUpdated) > ttl
}

// Reset clears the turn history while keeping the window itself
func (x *ConversationWindow) Reset() {
	x.Turns = nil
}
