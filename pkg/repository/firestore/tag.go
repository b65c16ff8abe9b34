package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type tagDoc struct {
	Name      string       `firestore:"Name"`
	UserID    types.UserID `firestore:"UserID"`
	UseCount  int          `firestore:"UseCount"`
	CreatedAt time.Time    `firestore:"CreatedAt"`
}

type tagRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTagRepository(client *firestore.Client) *tagRepository {
	return &tagRepository{client: client}
}

// tagsCollection returns the subcollection path: users/{userID}/tags
func (r *tagRepository) tagsCollection(userID types.UserID) *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix+"users").Doc(string(userID)).
		Collection("tags")
}

func (r *tagRepository) Upsert(ctx context.Context, userID types.UserID, name types.TagName) (*model.Tag, error) {
	if name == "" {
		return nil, goerr.New("tag name is empty", goerr.V("userID", userID))
	}

	docRef := r.tagsCollection(userID).Doc(string(name))

	var result model.Tag
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return goerr.Wrap(err, "failed to get tag", goerr.V("name", name))
			}
			result = model.Tag{
				Name:      name,
				UserID:    userID,
				UseCount:  1,
				CreatedAt: time.Now().UTC(),
			}
			return tx.Set(docRef, &tagDoc{
				Name:      string(result.Name),
				UserID:    result.UserID,
				UseCount:  result.UseCount,
				CreatedAt: result.CreatedAt,
			})
		}

		var d tagDoc
		if err := doc.DataTo(&d); err != nil {
			return goerr.Wrap(err, "failed to unmarshal tag", goerr.V("name", name))
		}

		d.UseCount++
		result = model.Tag{
			Name:      types.TagName(d.Name),
			UserID:    d.UserID,
			UseCount:  d.UseCount,
			CreatedAt: d.CreatedAt,
		}
		return tx.Set(docRef, &d)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upsert tag", goerr.V("name", name))
	}

	return &result, nil
}

func (r *tagRepository) List(ctx context.Context, userID types.UserID) ([]*model.Tag, error) {
	iter := r.tagsCollection(userID).
		OrderBy("UseCount", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	tags := make([]*model.Tag, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate tags")
		}

		var d tagDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal tag")
		}

		tags = append(tags, &model.Tag{
			Name:      types.TagName(d.Name),
			UserID:    d.UserID,
			UseCount:  d.UseCount,
			CreatedAt: d.CreatedAt,
		})
	}

	return tags, nil
}
