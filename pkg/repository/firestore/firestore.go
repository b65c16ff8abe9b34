package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = goerr.New("not found")

// Firestore is a repository backed by Cloud Firestore. Each user's data
// lives under its own document (users/{userID}/...), which makes per-user
// scoping structural: a query can not cross user boundaries.
type Firestore struct {
	client   *firestore.Client
	thought  *thoughtRepository
	chatTurn *chatTurnRepository
	tag      *tagRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes the root collection name, used to isolate
// test data from production collections
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.thought.collectionPrefix = prefix
		f.chatTurn.collectionPrefix = prefix
		f.tag.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:   client,
		thought:  newThoughtRepository(client),
		chatTurn: newChatTurnRepository(client),
		tag:      newTagRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Thought() interfaces.ThoughtRepository {
	return f.thought
}

func (f *Firestore) ChatTurn() interfaces.ChatTurnRepository {
	return f.chatTurn
}

func (f *Firestore) Tag() interfaces.TagRepository {
	return f.tag
}

func (f *Firestore) Close() error {
	if err := f.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}
