package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
)

type chatTurnRepository struct {
	mu    sync.RWMutex
	turns map[types.UserID][]*model.ChatTurn
}

func newChatTurnRepository() *chatTurnRepository {
	return &chatTurnRepository{
		turns: make(map[types.UserID][]*model.ChatTurn),
	}
}

func copyChatTurn(t *model.ChatTurn) *model.ChatTurn {
	copied := &model.ChatTurn{
		ID:        t.ID,
		UserID:    t.UserID,
		Message:   t.Message,
		Response:  t.Response,
		CreatedAt: t.CreatedAt,
	}
	if t.RelatedThoughtIDs != nil {
		copied.RelatedThoughtIDs = make([]types.ThoughtID, len(t.RelatedThoughtIDs))
		copy(copied.RelatedThoughtIDs, t.RelatedThoughtIDs)
	}
	return copied
}

func (r *chatTurnRepository) Put(ctx context.Context, turn *model.ChatTurn) error {
	if err := turn.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "chat turn has no user")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyChatTurn(turn)
	if stored.ID == "" {
		stored.ID = model.NewTurnID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.turns[stored.UserID] = append(r.turns[stored.UserID], stored)

	return nil
}

func (r *chatTurnRepository) ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.ChatTurn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	log := r.turns[userID]
	result := make([]*model.ChatTurn, 0, len(log))
	for _, t := range log {
		result = append(result, copyChatTurn(t))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
