package interfaces

import (
	"context"

	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
)

// ChatTurnRepository defines the interface for the permanent exchange log
type ChatTurnRepository interface {
	// Put appends a turn to the user's exchange log
	Put(ctx context.Context, turn *model.ChatTurn) error

	// ListRecent retrieves up to limit turns, newest first
	ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.ChatTurn, error)
}
