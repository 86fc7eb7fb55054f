package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fanta-auction/internal/domain/history"
)

type historyTableModel struct {
	ID         int64  `db:"id"`
	Player     string `db:"player"`
	WinnerTeam string `db:"winner_team"`
	Price      int64  `db:"price"`
	Timestamp  int64  `db:"ts"`
}

func (m historyTableModel) toDomain() history.Entry {
	return history.Entry{
		ID:         m.ID,
		Player:     m.Player,
		WinnerTeam: m.WinnerTeam,
		Price:      m.Price,
		Timestamp:  m.Timestamp,
	}
}

type HistoryRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, entry history.Entry) (int64, error) {
	if err := entry.Validate(); err != nil {
		return 0, errors.Wrap(err, "append history entry")
	}

	var id int64
	err := querierFrom(ctx, r.db).GetContext(ctx, &id,
		`INSERT INTO history (player, winner_team, price, ts)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		entry.Player, entry.WinnerTeam, entry.Price, entry.Timestamp)
	if err != nil {
		return 0, errors.Wrap(err, "insert history entry")
	}

	return id, nil
}

func (r *HistoryRepository) List(ctx context.Context) ([]history.Entry, error) {
	var rows []historyTableModel
	err := querierFrom(ctx, r.db).SelectContext(ctx, &rows,
		`SELECT id, player, winner_team, price, ts FROM history ORDER BY id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "select history")
	}

	out := make([]history.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *HistoryRepository) GetByID(ctx context.Context, id int64) (history.Entry, bool, error) {
	var row historyTableModel
	err := querierFrom(ctx, r.db).GetContext(ctx, &row,
		`SELECT id, player, winner_team, price, ts FROM history WHERE id = $1`, id)
	if isNotFound(err) {
		return history.Entry{}, false, nil
	}
	if err != nil {
		return history.Entry{}, false, errors.Wrap(err, "select history entry")
	}

	return row.toDomain(), true, nil
}

func (r *HistoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := querierFrom(ctx, r.db).ExecContext(ctx,
		`DELETE FROM history WHERE id = $1`, id)
	if err != nil {
		return false, errors.Wrap(err, "delete history entry")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected")
	}

	return affected > 0, nil
}
