package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type historyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newHistoryRepository(client *firestore.Client) *historyRepository {
	return &historyRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *historyRepository) historyCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_command_history"
	}
	return "command_history"
}

func (r *historyRepository) Create(ctx context.Context, record *model.CommandRecord) (*model.CommandRecord, error) {
	if record.GuildID == "" {
		return nil, goerr.New("command record requires a guild ID")
	}

	created := *record
	if created.ID == "" {
		created.ID = model.NewCommandRecordID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	docRef := r.client.Collection(r.historyCollection()).Doc(created.ID)
	if _, err := docRef.Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to save command record",
			goerr.V("recordID", created.ID))
	}

	return &created, nil
}

func (r *historyRepository) List(ctx context.Context, guildID string, limit int) ([]*model.CommandRecord, error) {
	query := r.client.Collection(r.historyCollection()).
		Where("guild_id", "==", guildID).
		OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var records []*model.CommandRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate command records",
				goerr.V("guildID", guildID))
		}

		var record model.CommandRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, goerr.Wrap(err, "failed to decode command record",
				goerr.V("docID", doc.Ref.ID))
		}
		records = append(records, &record)
	}

	return records, nil
}
