package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fanta-auction/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	byName := make(map[string]player.Player, len(players))
	for _, item := range players {
		byName[item.Name] = item
	}

	return &PlayerRepository{players: byName}
}

func (r *PlayerRepository) GetByName(_ context.Context, name string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.players[name]
	return item, ok, nil
}

func (r *PlayerRepository) ListAvailable(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.players))
	for name, item := range r.players {
		if item.Available {
			out = append(out, name)
		}
	}
	sort.Strings(out)

	return out, nil
}

func (r *PlayerRepository) MarkUnavailable(_ context.Context, name string) error {
	return r.setAvailability(name, false)
}

func (r *PlayerRepository) MarkAvailable(_ context.Context, name string) error {
	return r.setAvailability(name, true)
}

// setAvailability is idempotent: flipping to the current state is a no-op,
// and unknown names are ignored the same way re-marking is.
func (r *PlayerRepository) setAvailability(name string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.players[name]
	if !ok || item.Available == available {
		return nil
	}

	item.Available = available
	r.players[name] = item

	return nil
}
