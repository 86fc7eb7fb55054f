package history

import "context"

// Repository describes sale ledger persistence needs from use cases.
type Repository interface {
	// Append stores the entry and returns its assigned id. Ids are
	// unique and monotonically increasing.
	Append(ctx context.Context, entry Entry) (int64, error)
	// List returns entries most-recent-first (descending id). The order
	// is part of the contract: the newest sale always comes first.
	List(ctx context.Context) ([]Entry, error)
	GetByID(ctx context.Context, id int64) (Entry, bool, error)
	// Delete removes the entry. It reports false when the id is absent,
	// so a repeated delete cannot trigger a second refund upstream.
	Delete(ctx context.Context, id int64) (bool, error)
}
