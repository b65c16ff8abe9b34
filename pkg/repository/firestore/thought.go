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

// thoughtDoc is the Firestore document representation of model.Thought.
// Embedding is stored as firestore.Vector32 for FindNearest vector search.
type thoughtDoc struct {
	ID            types.ThoughtID    `firestore:"ID"`
	UserID        types.UserID       `firestore:"UserID"`
	AudioRef      string             `firestore:"AudioRef,omitempty"`
	Transcription string             `firestore:"Transcription"`
	Tags          []string           `firestore:"Tags"`
	Embedding     firestore.Vector32 `firestore:"Embedding,omitempty"`
	CreatedAt     time.Time          `firestore:"CreatedAt"`
}

func toThoughtDoc(t *model.Thought) *thoughtDoc {
	doc := &thoughtDoc{
		ID:            t.ID,
		UserID:        t.UserID,
		AudioRef:      t.AudioRef,
		Transcription: t.Transcription,
		Tags:          make([]string, len(t.Tags)),
		CreatedAt:     t.CreatedAt,
	}
	for i, tag := range t.Tags {
		doc.Tags[i] = string(tag)
	}
	if len(t.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(t.Embedding)
	}
	return doc
}

func fromThoughtDoc(d *thoughtDoc) *model.Thought {
	t := &model.Thought{
		ID:            d.ID,
		UserID:        d.UserID,
		AudioRef:      d.AudioRef,
		Transcription: d.Transcription,
		Tags:          make([]types.TagName, len(d.Tags)),
		CreatedAt:     d.CreatedAt,
	}
	for i, tag := range d.Tags {
		t.Tags[i] = types.TagName(tag)
	}
	if len(d.Embedding) > 0 {
		t.Embedding = []float32(d.Embedding)
	}
	return t
}

type thoughtRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newThoughtRepository(client *firestore.Client) *thoughtRepository {
	return &thoughtRepository{client: client}
}

// thoughtsCollection returns the subcollection path:
// users/{userID}/thoughts
func (r *thoughtRepository) thoughtsCollection(userID types.UserID) *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix+"users").Doc(string(userID)).
		Collection("thoughts")
}

func (r *thoughtRepository) Create(ctx context.Context, thought *model.Thought) (*model.Thought, error) {
	if err := thought.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid thought")
	}

	created := *thought
	if created.ID == "" {
		created.ID = model.NewThoughtID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	docRef := r.thoughtsCollection(created.UserID).Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toThoughtDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create thought", goerr.V("thoughtID", created.ID))
	}

	return &created, nil
}

func (r *thoughtRepository) Get(ctx context.Context, userID types.UserID, thoughtID types.ThoughtID) (*model.Thought, error) {
	doc, err := r.thoughtsCollection(userID).Doc(string(thoughtID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "thought not found", goerr.V("thoughtID", thoughtID))
		}
		return nil, goerr.Wrap(err, "failed to get thought", goerr.V("thoughtID", thoughtID))
	}

	var d thoughtDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal thought", goerr.V("thoughtID", thoughtID))
	}

	return fromThoughtDoc(&d), nil
}

func (r *thoughtRepository) ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.Thought, error) {
	q := r.thoughtsCollection(userID).OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	thoughts := make([]*model.Thought, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate thoughts")
		}

		var d thoughtDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal thought")
		}

		thoughts = append(thoughts, fromThoughtDoc(&d))
	}

	return thoughts, nil
}

func (r *thoughtRepository) UpdateTags(ctx context.Context, userID types.UserID, thoughtID types.ThoughtID, tags []types.TagName) error {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = string(tag)
	}

	docRef := r.thoughtsCollection(userID).Doc(string(thoughtID))
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "Tags", Value: names},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "thought not found", goerr.V("thoughtID", thoughtID))
		}
		return goerr.Wrap(err, "failed to update thought tags", goerr.V("thoughtID", thoughtID))
	}

	return nil
}

func (r *thoughtRepository) AttachEmbedding(ctx context.Context, userID types.UserID, thoughtID types.ThoughtID, embedding []float32) error {
	docRef := r.thoughtsCollection(userID).Doc(string(thoughtID))
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "Embedding", Value: firestore.Vector32(embedding)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "thought not found", goerr.V("thoughtID", thoughtID))
		}
		return goerr.Wrap(err, "failed to attach embedding", goerr.V("thoughtID", thoughtID))
	}

	return nil
}

func (r *thoughtRepository) FindByEmbedding(ctx context.Context, userID types.UserID, embedding []float32, limit int) ([]*model.Thought, error) {
	vq := r.thoughtsCollection(userID).
		FindNearest("Embedding", firestore.Vector32(embedding), limit, firestore.DistanceMeasureCosine, nil)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	thoughts := make([]*model.Thought, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate thought vector search results")
		}

		var d thoughtDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal thought from vector search")
		}

		thoughts = append(thoughts, fromThoughtDoc(&d))
	}

	return thoughts, nil
}
