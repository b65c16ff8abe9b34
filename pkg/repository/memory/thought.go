package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
)

type thoughtRepository struct {
	mu      sync.RWMutex
	buckets map[types.UserID]map[types.ThoughtID]*model.Thought
}

func newThoughtRepository() *thoughtRepository {
	return &thoughtRepository{
		buckets: make(map[types.UserID]map[types.ThoughtID]*model.Thought),
	}
}

func copyThought(t *model.Thought) *model.Thought {
	copied := &model.Thought{
		ID:            t.ID,
		UserID:        t.UserID,
		AudioRef:      t.AudioRef,
		Transcription: t.Transcription,
		CreatedAt:     t.CreatedAt,
	}
	if t.Tags != nil {
		copied.Tags = make([]types.TagName, len(t.Tags))
		copy(copied.Tags, t.Tags)
	}
	if t.Embedding != nil {
		copied.Embedding = make([]float32, len(t.Embedding))
		copy(copied.Embedding, t.Embedding)
	}
	return copied
}

func (r *thoughtRepository) Create(ctx context.Context, thought *model.Thought) (*model.Thought, error) {
	if err := thought.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid thought")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyThought(thought)
	if created.ID == "" {
		created.ID = model.NewThoughtID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	if _, exists := r.buckets[created.UserID]; !exists {
		r.buckets[created.UserID] = make(map[types.ThoughtID]*model.Thought)
	}
	r.buckets[created.UserID][created.ID] = created

	return copyThought(created), nil
}

func (r *thoughtRepository) Get(ctx context.Context, userID types.UserID, thoughtID types.ThoughtID) (*model.Thought, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	thought, exists := r.buckets[userID][thoughtID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "thought not found", goerr.V("thoughtID", thoughtID))
	}

	return copyThought(thought), nil
}

func (r *thoughtRepository) ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.Thought, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.buckets[userID]
	result := make([]*model.Thought, 0, len(bucket))
	for _, t := range bucket {
		result = append(result, copyThought(t))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *thoughtRepository) UpdateTags(ctx context.Context, userID types.UserID, thoughtID types.ThoughtID, tags []types.TagName) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	thought, exists := r.buckets[userID][thoughtID]
	if !exists {
		return goerr.Wrap(ErrNotFound, "thought not found", goerr.V("thoughtID", thoughtID))
	}

	thought.Tags = make([]types.TagName, len(tags))
	copy(thought.Tags, tags)

	return nil
}

func (r *thoughtRepository) AttachEmbedding(ctx context.Context, userID types.UserID, thoughtID types.ThoughtID, embedding []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	thought, exists := r.buckets[userID][thoughtID]
	if !exists {
		return goerr.Wrap(ErrNotFound, "thought not found", goerr.V("thoughtID", thoughtID))
	}

	thought.Embedding = make([]float32, len(embedding))
	copy(thought.Embedding, embedding)

	return nil
}

func (r *thoughtRepository) FindByEmbedding(ctx context.Context, userID types.UserID, embedding []float32, limit int) ([]*model.Thought, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		thought *model.Thought
		score   float64
	}

	var candidates []scored
	for _, t := range r.buckets[userID] {
		if len(t.Embedding) == 0 {
			continue
		}
		s := cosineSimilarity(embedding, t.Embedding)
		candidates = append(candidates, scored{thought: copyThought(t), score: s})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].thought.CreatedAt.After(candidates[j].thought.CreatedAt)
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}

	result := make([]*model.Thought, limit)
	for i := 0; i < limit; i++ {
		result[i] = candidates[i].thought
	}

	return result, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
