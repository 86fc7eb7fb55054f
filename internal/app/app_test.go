package app

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/fanta-auction/internal/config"
	"github.com/riskibarqy/fanta-auction/internal/platform/logging"
)

func TestNew_MemoryStore(t *testing.T) {
	cfg := config.Config{
		AppEnv:             config.EnvDev,
		ServiceName:        "fanta-auction-api",
		HTTPAddr:           "127.0.0.1:0",
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		CORSAllowedOrigins: []string{"*"},
		AuctionCountdown:   30 * time.Second,
		EventWorkers:       2,
		Store:              config.StoreMemory,
	}

	application, err := New(t.Context(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}

	if application.Server == nil || application.Server.Handler == nil {
		t.Fatalf("expected a wired http server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := application.Close(ctx); err != nil {
		t.Fatalf("close app: %v", err)
	}
}

func TestNew_ConfiguredLeagueOverridesDemoSeed(t *testing.T) {
	cfg := config.Config{
		CORSAllowedOrigins: []string{"*"},
		HTTPAddr:           "127.0.0.1:0",
		AuctionCountdown:   30 * time.Second,
		EventWorkers:       1,
		Store:              config.StoreMemory,
		Teams: []config.TeamSeed{
			{ID: "Monkey D. United", Budget: 500, IsAdmin: true},
			{ID: "Real Madribs", Budget: 300},
		},
		Players: []string{"Rossi", "Bianchi"},
	}

	teams, players := seedData(cfg)
	if len(teams) != 2 || len(players) != 2 {
		t.Fatalf("expected configured league, got %d teams %d players", len(teams), len(players))
	}
	if !teams[0].IsAdmin || teams[0].ID != "Monkey D. United" {
		t.Fatalf("unexpected admin team: %+v", teams[0])
	}
	if !players[0].Available {
		t.Fatalf("seeded players start available: %+v", players[0])
	}

	empty, demoPlayers := seedData(config.Config{})
	if len(empty) == 0 || len(demoPlayers) == 0 {
		t.Fatalf("expected demo league fallback")
	}
}
