package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/finvolv/lendingplatform/internal/lms/application"
	"github.com/finvolv/lendingplatform/internal/lms/infrastructure/persistence/postgres"
	"github.com/finvolv/lendingplatform/pkg/config"
	"github.com/finvolv/lendingplatform/pkg/db"
	"github.com/finvolv/lendingplatform/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/accrual.toml", "path to the TOML config file")
	runDateArg := flag.String("date", "", "accrual date as YYYY-MM-DD (default: today)")
	post := flag.Bool("post", false, "mark unposted accruals as posted to the ledger after the run")
	flag.Parse()

	if err := run(*configPath, *runDateArg, *post); err != nil {
		fmt.Fprintf(os.Stderr, "accrual: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, runDateArg string, post bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
		WithCaller: cfg.Log.WithCaller,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	runDate := time.Now().UTC().Truncate(24 * time.Hour)
	if runDateArg != "" {
		runDate, err = time.Parse("2006-01-02", runDateArg)
		if err != nil {
			return fmt.Errorf("invalid -date %q: %w", runDateArg, err)
		}
	}

	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer database.Close()

	service := application.NewAccrualService(
		postgres.NewLoanAccountRepository(database.DB),
		postgres.NewInterestAccrualRepository(database.DB),
		postgres.NewAccrualRunLogRepository(database.DB),
		cfg.Accrual.DayCountBasis,
		logger.Get(),
	)

	ctx := context.Background()
	runLog, err := service.RunDaily(ctx, runDate)
	if err != nil {
		return fmt.Errorf("daily accrual run: %w", err)
	}
	logger.Info(ctx, "accrual run recorded",
		"run_date", runDate.Format("2006-01-02"),
		"status", runLog.Status,
		"loans_processed", runLog.LoansProcessed,
		"total_accrued", runLog.TotalAccruedInterest.String())

	if post {
		posted, err := service.PostToLedger(ctx, cfg.Accrual.BatchSize)
		if err != nil {
			return fmt.Errorf("post to ledger: %w", err)
		}
		logger.Info(ctx, "accruals posted to ledger", "count", posted)
	}
	return nil
}
