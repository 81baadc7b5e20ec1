package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type historyRepository struct {
	mu      sync.RWMutex
	records map[string][]*model.CommandRecord
}

func newHistoryRepository() *historyRepository {
	return &historyRepository{
		records: make(map[string][]*model.CommandRecord),
	}
}

func copyCommandRecord(r *model.CommandRecord) *model.CommandRecord {
	copied := &model.CommandRecord{
		ID:          r.ID,
		GuildID:     r.GuildID,
		RequesterID: r.RequesterID,
		Instruction: r.Instruction,
		Confirmed:   r.Confirmed,
		CreatedAt:   r.CreatedAt,
	}
	copied.Actions = make(model.ActionList, len(r.Actions))
	copy(copied.Actions, r.Actions)
	copied.Outcomes = make([]model.ActionOutcome, len(r.Outcomes))
	copy(copied.Outcomes, r.Outcomes)
	return copied
}

func (r *historyRepository) Create(ctx context.Context, record *model.CommandRecord) (*model.CommandRecord, error) {
	if record.GuildID == "" {
		return nil, goerr.New("command record requires a guild ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyCommandRecord(record)
	if created.ID == "" {
		created.ID = model.NewCommandRecordID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.records[created.GuildID] = append(r.records[created.GuildID], created)
	return copyCommandRecord(created), nil
}

func (r *historyRepository) List(ctx context.Context, guildID string, limit int) ([]*model.CommandRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.records[guildID]
	result := make([]*model.CommandRecord, 0, len(records))
	for _, rec := range records {
		result = append(result, copyCommandRecord(rec))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}

	return result, nil
}
