package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/fanta-auction/internal/domain/history"
)

type HistoryRepository struct {
	mu      sync.RWMutex
	entries []history.Entry
	nextID  int64
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{nextID: 1}
}

func (r *HistoryRepository) Append(_ context.Context, entry history.Entry) (int64, error) {
	if err := entry.Validate(); err != nil {
		return 0, fmt.Errorf("append history entry: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, entry)

	return entry.ID, nil
}

func (r *HistoryRepository) List(_ context.Context) ([]history.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]history.Entry, 0, len(r.entries))
	for idx := len(r.entries) - 1; idx >= 0; idx-- {
		out = append(out, r.entries[idx])
	}

	return out, nil
}

func (r *HistoryRepository) GetByID(_ context.Context, id int64) (history.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.entries {
		if entry.ID == id {
			return entry, true, nil
		}
	}

	return history.Entry{}, false, nil
}

func (r *HistoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx, entry := range r.entries {
		if entry.ID == id {
			r.entries = append(r.entries[:idx], r.entries[idx+1:]...)
			return true, nil
		}
	}

	return false, nil
}
