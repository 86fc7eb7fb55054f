package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fanta-auction/internal/domain/team"
)

func TestTeamRepository_AdjustBudget(t *testing.T) {
	repo := NewTeamRepository([]team.Team{
		{ID: "team-a", Name: "Team A", Budget: 100},
	})
	ctx := t.Context()

	balance, err := repo.AdjustBudget(ctx, "team-a", -40)
	require.NoError(t, err)
	assert.Equal(t, int64(60), balance)

	balance, err = repo.AdjustBudget(ctx, "team-a", 15)
	require.NoError(t, err)
	assert.Equal(t, int64(75), balance)

	// An overdraft is refused outright; nothing is applied.
	_, err = repo.AdjustBudget(ctx, "team-a", -76)
	require.ErrorIs(t, err, team.ErrBudgetExhausted)

	item, ok, err := repo.GetByID(ctx, "team-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(75), item.Budget)

	_, err = repo.AdjustBudget(ctx, "ghost", 10)
	require.ErrorIs(t, err, team.ErrNotFound)
}

func TestTeamRepository_ListIsStable(t *testing.T) {
	repo := NewTeamRepository([]team.Team{
		{ID: "zebra", Name: "Zebra", Budget: 1},
		{ID: "alpha", Name: "Alpha", Budget: 2},
		{ID: "alpha", Name: "Duplicate", Budget: 3},
	})

	teams, err := repo.List(t.Context())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "alpha", teams[0].ID)
	assert.Equal(t, "Alpha", teams[0].Name)
	assert.Equal(t, "zebra", teams[1].ID)
}

func TestTeamRepository_GetByIDMiss(t *testing.T) {
	repo := NewTeamRepository(SeedTeams())

	_, ok, err := repo.GetByID(t.Context(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	item, ok, err := repo.GetByID(t.Context(), AdminTeamID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, item.IsAdmin)
}
