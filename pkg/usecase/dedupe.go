package usecase

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/memovox/memovox/pkg/domain/types"
	"github.com/zeebo/blake3"
)

// dedupeFilter drops webhook retries. Gateways resend a webhook when the
// first delivery is slow, and re-running transcription or an LLM call per
// retry is costly and duplicates stored thoughts. This is best-effort cost
// control, not a correctness guarantee.
type dedupeFilter struct {
	mu    sync.Mutex
	seen  map[[32]byte]time.Time
	ttl   time.Duration
	clock func() time.Time
}

func newDedupeFilter(ttl time.Duration, clock func() time.Time) *dedupeFilter {
	return &dedupeFilter{
		seen:  map[[32]byte]time.Time{},
		ttl:   ttl,
		clock: clock,
	}
}

// ShouldProcess reports whether the message is first-seen within the TTL.
// The first sighting records the message; duplicates within the TTL return
// false and must be dropped without a reply.
func (f *dedupeFilter) ShouldProcess(userID types.UserID, content string) bool {
	now := f.clock()
	key := dedupeKey(userID, content, now)

	f.mu.Lock()
	defer f.mu.Unlock()

	for k, seenAt := range f.seen {
		if now.Sub(seenAt) > f.ttl {
			delete(f.seen, k)
		}
	}

	if _, ok := f.seen[key]; ok {
		return false
	}
	f.seen[key] = now
	return true
}

// dedupeKey hashes user, content, and the current hour bucket. Bucket
// truncation means a message at the hour boundary may pass as non-duplicate
// after rollover even within the nominal window; acceptable for a
// best-effort filter.
func dedupeKey(userID types.UserID, content string, now time.Time) [32]byte {
	h := blake3.New()
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write([]byte(content))

	var bucket [8]byte
	binary.BigEndian.PutUint64(bucket[:], uint64(now.UTC().Truncate(time.Hour).Unix()))
	h.Write(bucket[:])

	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}
