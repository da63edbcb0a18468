// Package main is the quota reset job. Run it on a schedule (for
// example a monthly cron) to restore every user's counters to the
// configured defaults.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/promptforge/promptforge/internal/repository"
	"github.com/promptforge/promptforge/internal/service"
)

type jobConfig struct {
	DatabaseURL       string        `env:"DATABASE_URL,required"`
	BasicQuotaDefault int           `env:"BASIC_QUOTA_DEFAULT" envDefault:"25"`
	ProQuotaDefault   int           `env:"PRO_QUOTA_DEFAULT" envDefault:"5"`
	Timeout           time.Duration `env:"RESET_TIMEOUT" envDefault:"5m"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := &jobConfig{}
	if err := env.Parse(cfg); err != nil {
		logger.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	ledger := service.NewQuotaLedger(repo, cfg.BasicQuotaDefault, cfg.ProQuotaDefault, nil)

	affected, err := ledger.Reset(ctx)
	if err != nil {
		logger.Error("quota reset failed", "error", err)
		os.Exit(1)
	}

	logger.Info("quota reset complete",
		"users_affected", affected,
		"basic_default", cfg.BasicQuotaDefault,
		"pro_default", cfg.ProQuotaDefault,
	)
}
