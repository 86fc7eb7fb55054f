package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fanta-auction/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// TeamSeed is a startup team definition: identity, budget, and whether
// this team holds the admin capability.
type TeamSeed struct {
	ID      string
	Budget  int64
	IsAdmin bool
}

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	AuctionCountdown time.Duration
	EventWorkers     int
	// Teams is empty when AUCTION_TEAMS is unset; the app then seeds
	// the demo league.
	Teams   []TeamSeed
	Players []string

	Store string
	DBURL string

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	countdown, err := time.ParseDuration(getEnv("AUCTION_COUNTDOWN", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUCTION_COUNTDOWN: %w", err)
	}
	if countdown <= 0 {
		return Config{}, fmt.Errorf("AUCTION_COUNTDOWN must be > 0")
	}

	eventWorkers, err := getEnvAsInt("AUCTION_EVENT_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUCTION_EVENT_WORKERS: %w", err)
	}
	if eventWorkers < 1 {
		return Config{}, fmt.Errorf("AUCTION_EVENT_WORKERS must be >= 1")
	}

	teams, err := parseTeamBudgets(getEnv("AUCTION_TEAMS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUCTION_TEAMS: %w", err)
	}
	adminTeam := strings.TrimSpace(getEnv("AUCTION_ADMIN_TEAM", ""))
	if len(teams) > 0 {
		if adminTeam == "" {
			return Config{}, fmt.Errorf("AUCTION_ADMIN_TEAM is required when AUCTION_TEAMS is set")
		}
		found := false
		for idx := range teams {
			if teams[idx].ID == adminTeam {
				teams[idx].IsAdmin = true
				found = true
			}
		}
		if !found {
			return Config{}, fmt.Errorf("AUCTION_ADMIN_TEAM %q is not listed in AUCTION_TEAMS", adminTeam)
		}
	}

	store := strings.ToLower(strings.TrimSpace(getEnv("AUCTION_STORE", StoreMemory)))
	switch store {
	case StoreMemory, StorePostgres:
	default:
		return Config{}, fmt.Errorf("invalid AUCTION_STORE %q: valid values are %s, %s", store, StoreMemory, StorePostgres)
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if store == StorePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when AUCTION_STORE=postgres")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "fanta-auction-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		AuctionCountdown: countdown,
		EventWorkers:     eventWorkers,
		Teams:            teams,
		Players:          splitCSV(getEnv("AUCTION_PLAYERS", "")),

		Store: store,
		DBURL: dbURL,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

// parseTeamBudgets reads a "team:budget" CSV, e.g.
// "Monkey D. United:500,Real Madribs:500". Order is preserved.
func parseTeamBudgets(raw string) ([]TeamSeed, error) {
	parts := strings.Split(raw, ",")
	out := make([]TeamSeed, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		idx := strings.LastIndex(item, ":")
		if idx <= 0 || idx == len(item)-1 {
			return nil, fmt.Errorf("invalid item %q, expected team:budget", item)
		}

		id := strings.TrimSpace(item[:idx])
		if id == "" {
			return nil, fmt.Errorf("empty team id in item %q", item)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("duplicate team %q", id)
		}
		budget, err := strconv.ParseInt(strings.TrimSpace(item[idx+1:]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid budget in item %q: %w", item, err)
		}
		if budget < 0 {
			return nil, fmt.Errorf("budget must be >= 0 in item %q", item)
		}

		seen[id] = struct{}{}
		out = append(out, TeamSeed{ID: id, Budget: budget})
	}

	return out, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
