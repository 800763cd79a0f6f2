package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	judgingservice "encore/contexts/competition/judging-service"
	judgingpostgres "encore/contexts/competition/judging-service/adapters/postgres"
	votingengine "encore/contexts/competition/voting-engine"
	"encore/contexts/competition/voting-engine/adapters/memory"
	votingpostgres "encore/contexts/competition/voting-engine/adapters/postgres"
	workerapp "encore/contexts/competition/voting-engine/application/workers"
	"encore/contexts/competition/voting-engine/ports"
	"encore/internal/platform/config"
	"encore/internal/platform/db"
	"encore/internal/platform/httpserver"
	"encore/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	relayEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	judgingRepo := judgingpostgres.NewRepository(pg.DB, logger)
	judgingModule := judgingservice.NewModule(judgingservice.Dependencies{
		Criteria:  judgingRepo,
		Judgments: judgingRepo,
		Scores:    judgingRepo,
		Clock:     judgingpostgres.SystemClock{},
		IDGen:     judgingpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	votingRepo := votingpostgres.NewRepository(pg.DB, logger)

	// Rubric-scored competitions read mean judge scores from the judging
	// module. The repo fallback keeps tally working when the judging
	// integration is switched off.
	var judgmentScores ports.JudgmentScoreSource = votingRepo
	if cfg.EnableJudgingScoreSource {
		judgmentScores = judgingModule.Scores
	}

	votingModule := votingengine.NewModule(votingengine.Dependencies{
		Competitions:   votingRepo,
		Submissions:    votingRepo,
		Assignments:    votingRepo,
		Groups:         votingRepo,
		Votes:          votingRepo,
		Ballots:        votingRepo,
		Picks:          votingRepo,
		JudgmentScores: judgmentScores,
		Locker:         votingRepo,
		Clock:          votingpostgres.SystemClock{},
		IDGen:          votingpostgres.UUIDGenerator{},
		Shuffler:       memory.RandomShuffler{},
		Outbox:         votingRepo,
		Logger:         logger,
	})

	server := httpserver.New(votingModule, judgingModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := votingpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     votingpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.relayEnabled {
		w.logger.Info("worker idle, outbox relay disabled",
			"event", "bootstrap_worker_idle",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
