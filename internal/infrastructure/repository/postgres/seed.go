package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fanta-auction/internal/domain/player"
	"github.com/riskibarqy/fanta-auction/internal/domain/team"
)

// Seed registers the configured teams and players in one transaction.
// It is safe to run on every boot: existing budgets and sold players
// are left untouched.
func Seed(ctx context.Context, db *sqlx.DB, teams []team.Team, players []player.Player) error {
	teamRepo := NewTeamRepository(db)
	playerRepo := NewPlayerRepository(db)

	err := NewTxRunner(db).WithinTx(ctx, func(ctx context.Context) error {
		for _, item := range teams {
			if err := teamRepo.Upsert(ctx, item); err != nil {
				return err
			}
		}
		for _, item := range players {
			if err := playerRepo.Upsert(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "seed auction data")
	}

	return nil
}
