package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/memovox/memovox/pkg/domain/types"
)

// NewTurnID generates a new UUID v7 TurnID. v7 keeps the persistent turn
// log naturally ordered by creation time.
func NewTurnID() types.TurnID {
	return types.TurnID(uuid.Must(uuid.NewV7()).String())
}

// ChatTurn is one answered text message in the permanent exchange log,
// distinct from the short-lived ConversationWindow.
type ChatTurn struct {
	ID                types.TurnID
	UserID            types.UserID
	Message           string
	Response          string
	RelatedThoughtIDs []types.ThoughtID // thoughts retrieved for this answer, in similarity order
	CreatedAt         time.Time
}
