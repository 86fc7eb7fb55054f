package team

import (
	"context"
	"errors"
)

// ErrBudgetExhausted is returned by AdjustBudget when the resulting
// balance would drop below zero. The registry never applies a partial
// adjustment.
var ErrBudgetExhausted = errors.New("team budget exhausted")

// ErrNotFound is returned by AdjustBudget for a team that is not
// registered.
var ErrNotFound = errors.New("team not found")

// Repository describes team registry persistence needs from use cases.
// Budgets move only through AdjustBudget, so every change stays tied to
// an auction outcome.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	// AdjustBudget applies delta (negative on a confirmed sale, positive
	// on a refund) and returns the new balance.
	AdjustBudget(ctx context.Context, teamID string, delta int64) (int64, error)
}
