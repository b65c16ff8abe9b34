package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/types"
)

// EmbeddingDimension is the dimension of thought embeddings (Gemini
// text-embedding vectors).
const EmbeddingDimension = 768

// NewThoughtID generates a new UUID v4 ThoughtID
func NewThoughtID() types.ThoughtID {
	return types.ThoughtID(uuid.New().String())
}

// Thought is a persisted unit of user-recorded memory: a transcribed voice
// note, optionally tagged and embedded for similarity search. A Thought is
// immutable once its tags are finalized or the confirmation window expires.
type Thought struct {
	ID            types.ThoughtID
	UserID        types.UserID
	AudioRef      string // reference to the archived audio, empty if not archived
	Transcription string
	Tags          []types.TagName
	Embedding     []float32 // empty when no embedding service was available
	CreatedAt     time.Time
}

// Validate checks the invariants required before persistence
func (x *Thought) Validate() error {
	if err := x.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "thought has no user")
	}
	if x.Transcription == "" {
		return goerr.New("thought transcription is empty", goerr.V("id", x.ID))
	}
	return nil
}
