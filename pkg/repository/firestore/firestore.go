package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/Business010101/aimodbot/pkg/domain/interfaces"
	"github.com/Business010101/aimodbot/pkg/repository/memory"
	"github.com/m-mizutani/goerr/v2"
)

// Firestore persists command history in Firestore. Pending actions stay in an
// in-process store even on this backend: they are advisory, short-lived state
// that must never be served stale across process restarts.
type Firestore struct {
	client  *firestore.Client
	pending *memory.PendingStore
	history *historyRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.history.collectionPrefix = prefix
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
		client:  client,
		pending: memory.NewPendingStore(),
		history: newHistoryRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Pending() interfaces.PendingRepository {
	return f.pending
}

func (f *Firestore) History() interfaces.HistoryRepository {
	return f.history
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
