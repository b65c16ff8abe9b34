package usecase

import (
	"sync"
	"time"

	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
)

// pendingStore holds at most one live tag confirmation per user. Entries
// past the TTL are treated as absent at lookup time; the associated thought
// stays tagless permanently. There is no reminder or retry of the
// solicitation.
type pendingStore struct {
	mu      sync.Mutex
	entries map[types.UserID]*model.PendingTagConfirmation
	ttl     time.Duration
	clock   func() time.Time
}

func newPendingStore(ttl time.Duration, clock func() time.Time) *pendingStore {
	return &pendingStore{
		entries: map[types.UserID]*model.PendingTagConfirmation{},
		ttl:     ttl,
		clock:   clock,
	}
}

// Put replaces any existing confirmation for the user
func (s *pendingStore) Put(pending model.PendingTagConfirmation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[pending.UserID] = &pending
}

// Consume removes and returns the user's live confirmation. Expired entries
// are dropped and reported as absent.
func (s *pendingStore) Consume(userID types.UserID) (*model.PendingTagConfirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.entries[userID]
	if !ok {
		return nil, false
	}
	delete(s.entries, userID)

	if pending.Expired(s.clock(), s.ttl) {
		return nil, false
	}
	return pending, true
}

// conversationStore keeps the per-user rolling window of recent turns.
// A window idle past the TTL is reset before use.
type conversationStore struct {
	mu      sync.Mutex
	windows map[types.UserID]*model.ConversationWindow
	ttl     time.Duration
	clock   func() time.Time
}

func newConversationStore(ttl time.Duration, clock func() time.Time) *conversationStore {
	return &conversationStore{
		windows: map[types.UserID]*model.ConversationWindow{},
		ttl:     ttl,
		clock:   clock,
	}
}

// Recent returns up to n most recent turns, oldest first, resetting the
// window first when it has been idle past the TTL
func (s *conversationStore) Recent(userID types.UserID, n int) []model.WindowTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	window, ok := s.windows[userID]
	if !ok {
		return nil
	}
	if window.IdleSince(s.clock(), s.ttl) {
		window.Reset()
		return nil
	}
	return window.Recent(n)
}

// Append records a completed turn, evicting the oldest past the cap
func (s *conversationStore) Append(userID types.UserID, turn model.WindowTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	window, ok := s.windows[userID]
	if !ok {
		window = &model.ConversationWindow{UserID: userID}
		s.windows[userID] = window
	}
	if window.IdleSince(s.clock(), s.ttl) {
		window.Reset()
	}
	window.Append(turn)
}

// keyedMutex serializes message handling per user. The pending confirmation
// and conversation window are shared per-user state; the lock is held for
// the whole routing decision and state mutation.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[types.UserID]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: map[types.UserID]*sync.Mutex{},
	}
}

// Lock acquires the user's mutex and returns its unlock function
func (m *keyedMutex) Lock(userID types.UserID) func() {
	m.mu.Lock()
	lock, ok := m.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[userID] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
