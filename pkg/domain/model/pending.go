package model

import (
	"time"

	"github.com/memovox/memovox/pkg/domain/types"
)

// PendingTagConfirmation records that the next text message from a user
// should be interpreted as tag input for a just-stored thought rather than
// as a new query. At most one exists per user; it is consumed by the next
// inbound text message or silently expires.
type PendingTagConfirmation struct {
	UserID        types.UserID
	ThoughtID     types.ThoughtID
	SuggestedTags []types.TagName
	CreatedAt     time.Time
}

// Expired reports whether the confirmation is past its ttl as of now
func (x *PendingTagConfirmation) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(x.CreatedAt) > ttl
}
