package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fanta-auction/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[string]team.Team
	order []string
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	byID := make(map[string]team.Team, len(teams))
	order := make([]string, 0, len(teams))
	for _, item := range teams {
		if _, ok := byID[item.ID]; ok {
			continue
		}
		byID[item.ID] = item
		order = append(order, item.ID)
	}
	sort.Strings(order)

	return &TeamRepository{teams: byID, order: order}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[teamID]
	return item, ok, nil
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.teams[id])
	}

	return out, nil
}

func (r *TeamRepository) AdjustBudget(_ context.Context, teamID string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.teams[teamID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", team.ErrNotFound, teamID)
	}

	balance := item.Budget + delta
	if balance < 0 {
		return item.Budget, fmt.Errorf("%w: team %s has %d, delta %d", team.ErrBudgetExhausted, teamID, item.Budget, delta)
	}

	item.Budget = balance
	r.teams[teamID] = item

	return balance, nil
}
