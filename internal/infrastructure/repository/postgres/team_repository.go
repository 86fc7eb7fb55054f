package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fanta-auction/internal/domain/team"
)

type teamTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Budget    int64     `db:"budget"`
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:      m.ID,
		Name:    m.Name,
		Budget:  m.Budget,
		IsAdmin: m.IsAdmin,
	}
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	var row teamTableModel
	err := querierFrom(ctx, r.db).GetContext(ctx, &row,
		`SELECT id, name, budget, is_admin, created_at, updated_at FROM teams WHERE id = $1`, teamID)
	if isNotFound(err) {
		return team.Team{}, false, nil
	}
	if err != nil {
		return team.Team{}, false, errors.Wrap(err, "select team")
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	var rows []teamTableModel
	err := querierFrom(ctx, r.db).SelectContext(ctx, &rows,
		`SELECT id, name, budget, is_admin, created_at, updated_at FROM teams ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "select teams")
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// AdjustBudget applies delta atomically. The WHERE guard keeps the
// balance from going negative even under concurrent writers.
func (r *TeamRepository) AdjustBudget(ctx context.Context, teamID string, delta int64) (int64, error) {
	q := querierFrom(ctx, r.db)

	var balance int64
	err := q.GetContext(ctx, &balance,
		`UPDATE teams
		    SET budget = budget + $2, updated_at = now()
		  WHERE id = $1 AND budget + $2 >= 0
		 RETURNING budget`, teamID, delta)
	if err == nil {
		return balance, nil
	}
	if !isNotFound(err) {
		return 0, errors.Wrap(err, "update team budget")
	}

	// No row updated: tell an unknown team apart from a refused debit.
	var current int64
	err = q.GetContext(ctx, &current, `SELECT budget FROM teams WHERE id = $1`, teamID)
	if isNotFound(err) {
		return 0, errors.Wrapf(team.ErrNotFound, "team %s", teamID)
	}
	if err != nil {
		return 0, errors.Wrap(err, "select team budget")
	}

	return current, errors.Wrapf(team.ErrBudgetExhausted, "team %s has %d, delta %d", teamID, current, delta)
}

// Upsert registers a team, keeping an existing balance intact. Seeding
// at startup must not reset budgets already spent.
func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	_, err := querierFrom(ctx, r.db).ExecContext(ctx,
		`INSERT INTO teams (id, name, budget, is_admin)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE
		    SET name = EXCLUDED.name, is_admin = EXCLUDED.is_admin, updated_at = now()`,
		item.ID, item.Name, item.Budget, item.IsAdmin)
	if err != nil {
		return errors.Wrap(err, "upsert team")
	}

	return nil
}
