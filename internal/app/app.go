package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/fanta-auction/internal/config"
	"github.com/riskibarqy/fanta-auction/internal/domain/history"
	"github.com/riskibarqy/fanta-auction/internal/domain/player"
	"github.com/riskibarqy/fanta-auction/internal/domain/team"
	"github.com/riskibarqy/fanta-auction/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fanta-auction/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fanta-auction/internal/interfaces/httpapi"
	"github.com/riskibarqy/fanta-auction/internal/platform/logging"
	"github.com/riskibarqy/fanta-auction/internal/usecase"
)

// App owns the auction service, its stores and the HTTP server, and
// tears them down in reverse order on Close.
type App struct {
	Server *http.Server

	logger  *logging.Logger
	service *usecase.AuctionService
	events  *usecase.EventDispatcher
	db      *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	teams, players := seedData(cfg)

	var (
		teamRepo    team.Repository
		playerRepo  player.Repository
		historyRepo history.Repository
		tx          usecase.TxRunner
		db          *sqlx.DB
	)

	switch cfg.Store {
	case config.StorePostgres:
		var err error
		db, err = postgres.Open(ctx, cfg.DBURL, dbNameFromURL(cfg.DBURL))
		if err != nil {
			return nil, err
		}
		if err := postgres.Seed(ctx, db, teams, players); err != nil {
			_ = db.Close()
			return nil, err
		}
		teamRepo = postgres.NewTeamRepository(db)
		playerRepo = postgres.NewPlayerRepository(db)
		historyRepo = postgres.NewHistoryRepository(db)
		tx = postgres.NewTxRunner(db)
	default:
		teamRepo = memory.NewTeamRepository(teams)
		playerRepo = memory.NewPlayerRepository(players)
		historyRepo = memory.NewHistoryRepository()
		tx = usecase.NopTxRunner{}
	}

	events, err := usecase.NewEventDispatcher(cfg.EventWorkers, logger)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("build event dispatcher: %w", err)
	}
	events.Subscribe(func(event usecase.Event) {
		logger.Info("auction event",
			"type", string(event.Type),
			"player", event.Player,
			"team", event.Team,
			"price", event.Price,
			"entry_id", event.EntryID,
		)
	})

	service := usecase.NewAuctionService(
		teamRepo,
		playerRepo,
		historyRepo,
		tx,
		cfg.AuctionCountdown,
		clockwork.NewRealClock(),
		events,
		logger,
	)

	handler := httpapi.NewHandler(service, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		events.Close()
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:  server,
		logger:  logger,
		service: service,
		events:  events,
		db:      db,
	}, nil
}

// Close shuts the HTTP server down gracefully, then stops the engine,
// drains the event pool and releases the database.
func (a *App) Close(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)

	a.service.Close()
	a.events.Close()
	if a.db != nil {
		if closeErr := a.db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	return err
}

// seedData resolves the starting league. Configured teams and players
// win; otherwise the demo league is used so a bare boot is playable.
func seedData(cfg config.Config) ([]team.Team, []player.Player) {
	teams := memory.SeedTeams()
	if len(cfg.Teams) > 0 {
		teams = make([]team.Team, 0, len(cfg.Teams))
		for _, seed := range cfg.Teams {
			teams = append(teams, team.Team{
				ID:      seed.ID,
				Name:    seed.ID,
				Budget:  seed.Budget,
				IsAdmin: seed.IsAdmin,
			})
		}
	}

	players := memory.SeedPlayers()
	if len(cfg.Players) > 0 {
		players = make([]player.Player, 0, len(cfg.Players))
		for _, name := range cfg.Players {
			players = append(players, player.Player{Name: name, Available: true})
		}
	}

	return teams, players
}
