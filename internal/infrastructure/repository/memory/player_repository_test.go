package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fanta-auction/internal/domain/player"
)

func TestPlayerRepository_AvailabilityRoundTrip(t *testing.T) {
	repo := NewPlayerRepository([]player.Player{
		{Name: "Rossi", Available: true},
		{Name: "Bianchi", Available: true},
	})
	ctx := t.Context()

	require.NoError(t, repo.MarkUnavailable(ctx, "Rossi"))
	names, err := repo.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bianchi"}, names)

	// Re-marking is a no-op, as is touching an unknown name.
	require.NoError(t, repo.MarkUnavailable(ctx, "Rossi"))
	require.NoError(t, repo.MarkUnavailable(ctx, "Maldini"))

	require.NoError(t, repo.MarkAvailable(ctx, "Rossi"))
	names, err = repo.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bianchi", "Rossi"}, names)
}

func TestPlayerRepository_GetByName(t *testing.T) {
	repo := NewPlayerRepository(SeedPlayers())

	item, ok, err := repo.GetByName(t.Context(), "Rossi")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, item.Available)

	_, ok, err = repo.GetByName(t.Context(), "Maldini")
	require.NoError(t, err)
	assert.False(t, ok)
}
