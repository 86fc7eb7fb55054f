package memory

import (
	"github.com/riskibarqy/fanta-auction/internal/domain/player"
	"github.com/riskibarqy/fanta-auction/internal/domain/team"
)

const AdminTeamID = "monkey-d-united"

// SeedTeams is the demo league used when AUCTION_TEAMS is not set.
func SeedTeams() []team.Team {
	return []team.Team{
		{ID: AdminTeamID, Name: "Monkey D. United", Budget: 500, IsAdmin: true},
		{ID: "real-madribs", Name: "Real Madribs", Budget: 500},
		{ID: "bayern-monaco", Name: "Bayern Monaco di Baviera", Budget: 500},
		{ID: "atletico-minerale", Name: "Atletico Minerale", Budget: 500},
	}
}

// SeedPlayers is the demo free-agent list used when AUCTION_PLAYERS is
// not set.
func SeedPlayers() []player.Player {
	return []player.Player{
		{Name: "Rossi", Available: true},
		{Name: "Bianchi", Available: true},
		{Name: "Verdi", Available: true},
		{Name: "Esposito", Available: true},
		{Name: "Colombo", Available: true},
		{Name: "Ferrari", Available: true},
		{Name: "Romano", Available: true},
		{Name: "Greco", Available: true},
	}
}
