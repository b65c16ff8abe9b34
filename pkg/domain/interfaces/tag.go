package interfaces

import (
	"context"

	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
)

// TagRepository defines the interface for the per-user tag vocabulary
type TagRepository interface {
	// Upsert creates a tag with use-count 1, or increments the use-count of
	// an existing tag, and returns the resulting record
	Upsert(ctx context.Context, userID types.UserID, name types.TagName) (*model.Tag, error)

	// List retrieves the user's tag vocabulary, most used first
	List(ctx context.Context, userID types.UserID) ([]*model.Tag, error)
}
