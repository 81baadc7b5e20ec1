package memory

import (
	"github.com/Business010101/aimodbot/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	pending *PendingStore
	history *historyRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		pending: NewPendingStore(),
		history: newHistoryRepository(),
	}
}

func (m *Memory) Pending() interfaces.PendingRepository {
	return m.pending
}

func (m *Memory) History() interfaces.HistoryRepository {
	return m.history
}

func (m *Memory) Close() error {
	return nil
}
