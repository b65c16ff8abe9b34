package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/memovox/memovox/pkg/domain/interfaces"
	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
	"github.com/memovox/memovox/pkg/repository/firestore"
	"github.com/memovox/memovox/pkg/repository/memory"
)

func runThoughtRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	const userID = types.UserID("+15550000001")

	t.Run("Create assigns ID and CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Thought().Create(ctx, &model.Thought{
			UserID:        userID,
			Transcription: "buy milk and eggs",
		})
		gt.NoError(t, err).Required()

		gt.String(t, string(created.ID)).NotEqual("")
		gt.Value(t, created.UserID).Equal(userID)
		gt.Value(t, created.Transcription).Equal("buy milk and eggs")
		gt.Bool(t, created.CreatedAt.IsZero()).False()
	})

	t.Run("Create rejects empty transcription", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Thought().Create(ctx, &model.Thought{
			UserID: userID,
		})
		gt.Value(t, err).NotNil()
	})

	t.Run("Get retrieves stored thought", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Thought().Create(ctx, &model.Thought{
			UserID:        userID,
			Transcription: "remember to call the dentist",
			Tags:          []types.TagName{"health"},
			Embedding:     []float32{0.1, 0.2, 0.3},
		})
		gt.NoError(t, err).Required()

		retrieved, err := repo.Thought().Get(ctx, userID, created.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, retrieved.ID).Equal(created.ID)
		gt.Value(t, retrieved.Transcription).Equal("remember to call the dentist")
		gt.Array(t, retrieved.Tags).Equal([]types.TagName{"health"})
		gt.Array(t, retrieved.Embedding).Length(3)
	})

	t.Run("Get returns ErrNotFound for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Thought().Get(ctx, userID, "non-existent-id")
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)).True()
	})

	t.Run("ListRecent returns newest first with limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var ids []types.ThoughtID
		for i := 0; i < 3; i++ {
			created, err := repo.Thought().Create(ctx, &model.Thought{
				UserID:        userID,
				Transcription: "thought number " + string(rune('A'+i)),
			})
			gt.NoError(t, err).Required()
			ids = append(ids, created.ID)
			time.Sleep(10 * time.Millisecond)
		}

		thoughts, err := repo.Thought().ListRecent(ctx, userID, 2)
		gt.NoError(t, err).Required()

		gt.Array(t, thoughts).Length(2)
		gt.Value(t, thoughts[0].ID).Equal(ids[2])
		gt.Value(t, thoughts[1].ID).Equal(ids[1])
	})

	t.Run("UpdateTags replaces the tag set", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Thought().Create(ctx, &model.Thought{
			UserID:        userID,
			Transcription: "buy milk and eggs",
		})
		gt.NoError(t, err).Required()

		err = repo.Thought().UpdateTags(ctx, userID, created.ID, []types.TagName{"food"})
		gt.NoError(t, err).Required()

		retrieved, err := repo.Thought().Get(ctx, userID, created.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, retrieved.Tags).Equal([]types.TagName{"food"})
	})

	t.Run("AttachEmbedding associates a vector after creation", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Thought().Create(ctx, &model.Thought{
			UserID:        userID,
			Transcription: "ideas for the garden",
		})
		gt.NoError(t, err).Required()

		err = repo.Thought().AttachEmbedding(ctx, userID, created.ID, []float32{0.5, 0.5})
		gt.NoError(t, err).Required()

		retrieved, err := repo.Thought().Get(ctx, userID, created.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, retrieved.Embedding).Length(2)
	})

	t.Run("FindByEmbedding orders by similarity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		near, err := repo.Thought().Create(ctx, &model.Thought{
			UserID:        userID,
			Transcription: "groceries for the week",
			Embedding:     []float32{1, 0, 0},
		})
		gt.NoError(t, err).Required()

		_, err = repo.Thought().Create(ctx, &model.Thought{
			UserID:        userID,
			Transcription: "notes from the meeting",
			Embedding:     []float32{0, 1, 0},
		})
		gt.NoError(t, err).Required()

		results, err := repo.Thought().FindByEmbedding(ctx, userID, []float32{0.9, 0.1, 0}, 1)
		gt.NoError(t, err).Required()

		gt.Array(t, results).Length(1)
		gt.Value(t, results[0].ID).Equal(near.ID)
	})

	t.Run("FindByEmbedding never crosses users", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		otherUser := types.UserID("+15550000002")

		// The other user's thought is an exact match for the query vector
		_, err := repo.Thought().Create(ctx, &model.Thought{
			UserID:        otherUser,
			Transcription: "someone else's secret",
			Embedding:     []float32{1, 0, 0},
		})
		gt.NoError(t, err).Required()

		mine, err := repo.Thought().Create(ctx, &model.Thought{
			UserID:        userID,
			Transcription: "my own note",
			Embedding:     []float32{0, 1, 0},
		})
		gt.NoError(t, err).Required()

		results, err := repo.Thought().FindByEmbedding(ctx, userID, []float32{1, 0, 0}, 10)
		gt.NoError(t, err).Required()

		gt.Array(t, results).Length(1)
		gt.Value(t, results[0].ID).Equal(mine.ID)
		gt.Value(t, results[0].UserID).Equal(userID)
	})

	t.Run("FindByEmbedding skips thoughts without embedding", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Thought().Create(ctx, &model.Thought{
			UserID:        userID,
			Transcription: "stored before the embedder was available",
		})
		gt.NoError(t, err).Required()

		results, err := repo.Thought().FindByEmbedding(ctx, userID, []float32{1, 0, 0}, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(0)
	})
}

func TestMemoryThoughtRepository(t *testing.T) {
	runThoughtRepositoryTest(t, newMemoryRepo)
}

func TestFirestoreThoughtRepository(t *testing.T) {
	runThoughtRepositoryTest(t, newFirestoreRepo)
}
