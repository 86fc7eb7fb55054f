package player

import "context"

// Repository describes player pool persistence needs from use cases.
// MarkUnavailable and MarkAvailable are idempotent: re-marking a player
// that is already in the target state is a no-op, which keeps retried
// confirmations from double-applying.
type Repository interface {
	GetByName(ctx context.Context, name string) (Player, bool, error)
	ListAvailable(ctx context.Context) ([]string, error)
	MarkUnavailable(ctx context.Context, name string) error
	MarkAvailable(ctx context.Context, name string) error
}
