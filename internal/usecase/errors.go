package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnknownTeam          = errors.New("unknown team")
	ErrPlayerNotAvailable   = errors.New("player not available")
	ErrAuctionAlreadyActive = errors.New("an auction is already running")
	ErrAuctionNotActive     = errors.New("no auction is accepting this operation")
	ErrNotAdmin             = errors.New("admin team capability required")
	ErrNotFound             = errors.New("resource not found")
	ErrInsufficientBudget   = errors.New("insufficient budget")
)

// BudgetError carries the rejected bid and the bidder's actual balance
// so the caller can retry with different parameters. It matches
// ErrInsufficientBudget under errors.Is.
type BudgetError struct {
	Needed    int64
	Remaining int64
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("insufficient budget: needed %d, remaining %d", e.Needed, e.Remaining)
}

func (e *BudgetError) Unwrap() error {
	return ErrInsufficientBudget
}
