package interfaces

import (
	"context"

	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
)

// ThoughtRepository defines the interface for Thought persistence and
// similarity search. All operations are scoped to a single user; a backend
// must make cross-user access structurally impossible (e.g. per-user
// collections), not merely filtered after the fact.
type ThoughtRepository interface {
	// Create persists a new thought and returns it with ID and CreatedAt set
	Create(ctx context.Context, thought *model.Thought) (*model.Thought, error)

	// Get retrieves a thought by ID
	Get(ctx context.Context, userID types.UserID, thoughtID types.ThoughtID) (*model.Thought, error)

	// ListRecent retrieves up to limit thoughts, newest first
	ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.Thought, error)

	// UpdateTags replaces the tag set of a thought
	UpdateTags(ctx context.Context, userID types.UserID, thoughtID types.ThoughtID, tags []types.TagName) error

	// AttachEmbedding associates an embedding vector with a stored thought.
	// This is a separate write from Create: embedding generation is a soft
	// dependency and may happen after (or never, if unavailable).
	AttachEmbedding(ctx context.Context, userID types.UserID, thoughtID types.ThoughtID, embedding []float32) error

	// FindByEmbedding performs vector similarity search using cosine
	// distance, returning up to limit thoughts most similar to the given
	// embedding. Results are ordered by similarity, ties broken by most
	// recent CreatedAt.
	FindByEmbedding(ctx context.Context, userID types.UserID, embedding []float32, limit int) ([]*model.Thought, error)
}
