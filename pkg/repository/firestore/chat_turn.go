package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type chatTurnDoc struct {
	ID                types.TurnID `firestore:"ID"`
	UserID            types.UserID `firestore:"UserID"`
	Message           string       `firestore:"Message"`
	Response          string       `firestore:"Response"`
	RelatedThoughtIDs []string     `firestore:"RelatedThoughtIDs"`
	CreatedAt         time.Time    `firestore:"CreatedAt"`
}

func toChatTurnDoc(t *model.ChatTurn) *chatTurnDoc {
	doc := &chatTurnDoc{
		ID:                t.ID,
		UserID:            t.UserID,
		Message:           t.Message,
		Response:          t.Response,
		RelatedThoughtIDs: make([]string, len(t.RelatedThoughtIDs)),
		CreatedAt:         t.CreatedAt,
	}
	for i, id := range t.RelatedThoughtIDs {
		doc.RelatedThoughtIDs[i] = string(id)
	}
	return doc
}

func fromChatTurnDoc(d *chatTurnDoc) *model.ChatTurn {
	t := &model.ChatTurn{
		ID:                d.ID,
		UserID:            d.UserID,
		Message:           d.Message,
		Response:          d.Response,
		RelatedThoughtIDs: make([]types.ThoughtID, len(d.RelatedThoughtIDs)),
		CreatedAt:         d.CreatedAt,
	}
	for i, id := range d.RelatedThoughtIDs {
		t.RelatedThoughtIDs[i] = types.ThoughtID(id)
	}
	return t
}

type chatTurnRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newChatTurnRepository(client *firestore.Client) *chatTurnRepository {
	return &chatTurnRepository{client: client}
}

// turnsCollection returns the subcollection path: users/{userID}/turns
func (r *chatTurnRepository) turnsCollection(userID types.UserID) *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix+"users").Doc(string(userID)).
		Collection("turns")
}

func (r *chatTurnRepository) Put(ctx context.Context, turn *model.ChatTurn) error {
	if err := turn.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "chat turn has no user")
	}

	stored := *turn
	if stored.ID == "" {
		stored.ID = model.NewTurnID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	docRef := r.turnsCollection(stored.UserID).Doc(string(stored.ID))
	if _, err := docRef.Set(ctx, toChatTurnDoc(&stored)); err != nil {
		return goerr.Wrap(err, "failed to put chat turn", goerr.V("turnID", stored.ID))
	}

	return nil
}

func (r *chatTurnRepository) ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.ChatTurn, error) {
	q := r.turnsCollection(userID).OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	turns := make([]*model.ChatTurn, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chat turns")
		}

		var d chatTurnDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chat turn")
		}

		turns = append(turns, fromChatTurnDoc(&d))
	}

	return turns, nil
}
