package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/memovox/memovox/pkg/domain/interfaces"
	"github.com/memovox/memovox/pkg/domain/types"
)

func runTagRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	const userID = types.UserID("+15550000001")

	t.Run("Upsert creates tag with use-count 1", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		tag, err := repo.Tag().Upsert(ctx, userID, "groceries")
		gt.NoError(t, err).Required()

		gt.Value(t, tag.Name).Equal(types.TagName("groceries"))
		gt.Value(t, tag.UserID).Equal(userID)
		gt.Value(t, tag.UseCount).Equal(1)
		gt.Bool(t, tag.CreatedAt.IsZero()).False()
	})

	t.Run("Upsert increments use-count of existing tag", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Tag().Upsert(ctx, userID, "food")
		gt.NoError(t, err).Required()

		tag, err := repo.Tag().Upsert(ctx, userID, "food")
		gt.NoError(t, err).Required()
		gt.Value(t, tag.UseCount).Equal(2)
	})

	t.Run("Upsert rejects empty name", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Tag().Upsert(ctx, userID, "")
		gt.Value(t, err).NotNil()
	})

	t.Run("List returns most used first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			_, err := repo.Tag().Upsert(ctx, userID, "work")
			gt.NoError(t, err).Required()
		}
		_, err := repo.Tag().Upsert(ctx, userID, "ideas")
		gt.NoError(t, err).Required()

		tags, err := repo.Tag().List(ctx, userID)
		gt.NoError(t, err).Required()

		gt.Array(t, tags).Length(2)
		gt.Value(t, tags[0].Name).Equal(types.TagName("work"))
		gt.Value(t, tags[0].UseCount).Equal(3)
		gt.Value(t, tags[1].Name).Equal(types.TagName("ideas"))
	})

	t.Run("List is scoped per user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Tag().Upsert(ctx, types.UserID("+15550000002"), "private")
		gt.NoError(t, err).Required()

		tags, err := repo.Tag().List(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Array(t, tags).Length(0)
	})
}

func TestMemoryTagRepository(t *testing.T) {
	runTagRepositoryTest(t, newMemoryRepo)
}

func TestFirestoreTagRepository(t *testing.T) {
	runTagRepositoryTest(t, newFirestoreRepo)
}
