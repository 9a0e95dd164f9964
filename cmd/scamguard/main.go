package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"scamguard-lab/internal/config"
	"scamguard-lab/internal/domain/services"
	"scamguard-lab/internal/infrastructure/database"
	"scamguard-lab/internal/infrastructure/database/repository"
	"scamguard-lab/internal/infrastructure/store"
	"scamguard-lab/pkg/logger"
)

// scamguard reads conversation messages from stdin, one per line, and
// prints the analysis verdict for each as JSON. On EOF it prints the
// session summary together with the cross-session pattern statistics.
func main() {
	var (
		configPath = flag.String("config", "", "path to config file")
		sessionID  = flag.String("session", "cli-session", "session identifier for the conversation")
		backend    = flag.String("backend", "memory", "storage backend: memory, redis or postgres")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("backend", *backend).
		Msg("starting scamguard")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stores, cleanup, err := initStores(ctx, *backend, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer cleanup()

	engine, err := services.NewEngine(cfg, stores, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize engine")
	}

	out := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		result, err := engine.AnalyzeMessage(ctx, line, *sessionID)
		if err != nil {
			log.Error().Err(err).Msg("analysis failed")
			continue
		}
		if err := out.Encode(result); err != nil {
			log.Error().Err(err).Msg("encoding result failed")
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("reading stdin failed")
	}

	printSummary(ctx, engine, *sessionID, out, log)
}

// initStores wires the storage backend. Session state and the
// cross-session registries can live in different backends; the CLI keeps
// it simple and picks one of three fixed layouts.
func initStores(ctx context.Context, backend string, cfg *config.Config, log *logger.Logger) (services.Stores, func(), error) {
	noop := func() {}

	switch backend {
	case "memory":
		return services.MemoryStores(), noop, nil

	case "redis":
		r, err := store.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			return services.Stores{}, noop, fmt.Errorf("connecting to redis: %w", err)
		}
		// The identifier registry has no Redis implementation; it is
		// durable data and belongs in Postgres or, for the CLI, memory.
		return services.Stores{
			RiskStates:  store.NewRedisRiskStateStore(r),
			IntelStates: store.NewRedisIntelStore(r),
			Patterns:    store.NewRedisPatternRegistry(r),
			Identifiers: store.NewMemoryIdentifierRegistry(),
		}, func() { _ = r.Close() }, nil

	case "postgres":
		db, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			return services.Stores{}, noop, fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return services.Stores{}, noop, fmt.Errorf("running migrations: %w", err)
		}
		// Per-session scoring state is ephemeral and stays in memory;
		// only the cross-session registries persist.
		return services.Stores{
			RiskStates:  store.NewMemoryRiskStateStore(),
			IntelStates: store.NewMemoryIntelStore(),
			Patterns:    repository.NewPatternRepository(db.Pool()),
			Identifiers: repository.NewIdentifierRepository(db.Pool()),
		}, db.Close, nil

	default:
		return services.Stores{}, noop, fmt.Errorf("unknown backend %q", backend)
	}
}

func printSummary(ctx context.Context, engine *services.Engine, sessionID string, out *json.Encoder, log *logger.Logger) {
	detection, intel, err := engine.Session(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Msg("fetching session summary failed")
		return
	}
	patterns, err := engine.PatternStats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("fetching pattern stats failed")
		return
	}

	summary := map[string]any{
		"session":      sessionID,
		"detection":    detection,
		"intelligence": intel,
		"patterns":     patterns,
	}
	if err := out.Encode(summary); err != nil {
		log.Error().Err(err).Msg("encoding summary failed")
	}
}
