package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fanta-auction/internal/domain/player"
)

type playerTableModel struct {
	Name      string `db:"name"`
	Available bool   `db:"available"`
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (player.Player, bool, error) {
	var row playerTableModel
	err := querierFrom(ctx, r.db).GetContext(ctx, &row,
		`SELECT name, available FROM players WHERE name = $1`, name)
	if isNotFound(err) {
		return player.Player{}, false, nil
	}
	if err != nil {
		return player.Player{}, false, errors.Wrap(err, "select player")
	}

	return player.Player{Name: row.Name, Available: row.Available}, true, nil
}

func (r *PlayerRepository) ListAvailable(ctx context.Context) ([]string, error) {
	var names []string
	err := querierFrom(ctx, r.db).SelectContext(ctx, &names,
		`SELECT name FROM players WHERE available ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "select available players")
	}

	return names, nil
}

func (r *PlayerRepository) MarkUnavailable(ctx context.Context, name string) error {
	return r.setAvailability(ctx, name, false)
}

func (r *PlayerRepository) MarkAvailable(ctx context.Context, name string) error {
	return r.setAvailability(ctx, name, true)
}

// setAvailability is idempotent: unknown names and re-marks update zero
// rows and succeed.
func (r *PlayerRepository) setAvailability(ctx context.Context, name string, available bool) error {
	_, err := querierFrom(ctx, r.db).ExecContext(ctx,
		`UPDATE players SET available = $2 WHERE name = $1`, name, available)
	if err != nil {
		return errors.Wrap(err, "update player availability")
	}

	return nil
}

// Upsert registers a player without resurrecting one already sold.
func (r *PlayerRepository) Upsert(ctx context.Context, item player.Player) error {
	_, err := querierFrom(ctx, r.db).ExecContext(ctx,
		`INSERT INTO players (name, available)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO NOTHING`,
		item.Name, item.Available)
	if err != nil {
		return errors.Wrap(err, "upsert player")
	}

	return nil
}
