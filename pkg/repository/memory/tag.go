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

type tagRepository struct {
	mu      sync.RWMutex
	buckets map[types.UserID]map[types.TagName]*model.Tag
}

func newTagRepository() *tagRepository {
	return &tagRepository{
		buckets: make(map[types.UserID]map[types.TagName]*model.Tag),
	}
}

func copyTag(t *model.Tag) *model.Tag {
	copied := *t
	return &copied
}

func (r *tagRepository) Upsert(ctx context.Context, userID types.UserID, name types.TagName) (*model.Tag, error) {
	if name == "" {
		return nil, goerr.New("tag name is empty", goerr.V("userID", userID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.buckets[userID]; !exists {
		r.buckets[userID] = make(map[types.TagName]*model.Tag)
	}

	tag, exists := r.buckets[userID][name]
	if !exists {
		tag = &model.Tag{
			Name:      name,
			UserID:    userID,
			UseCount:  1,
			CreatedAt: time.Now().UTC(),
		}
		r.buckets[userID][name] = tag
	} else {
		tag.UseCount++
	}

	return copyTag(tag), nil
}

func (r *tagRepository) List(ctx context.Context, userID types.UserID) ([]*model.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.buckets[userID]
	result := make([]*model.Tag, 0, len(bucket))
	for _, t := range bucket {
		result = append(result, copyTag(t))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].UseCount != result[j].UseCount {
			return result[i].UseCount > result[j].UseCount
		}
		return result[i].Name < result[j].Name
	})

	return result, nil
}
