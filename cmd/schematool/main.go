package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/finvolv/lendingplatform/internal/schema"
	"github.com/finvolv/lendingplatform/pkg/config"
	"github.com/finvolv/lendingplatform/pkg/db"
	"github.com/finvolv/lendingplatform/pkg/logger"
)

const usage = `Usage: schematool -config <path> <command>

Commands:
  migrate   create namespaces and enum types, then migrate all tables
  verify    probe every table for reachability
  reset     drop all five namespaces with CASCADE (requires -yes)
`

func main() {
	configPath := flag.String("config", "configs/schematool.toml", "path to the TOML config file")
	confirm := flag.Bool("yes", false, "confirm destructive commands")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, flag.Arg(0), *confirm); err != nil {
		fmt.Fprintf(os.Stderr, "schematool: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, command string, confirm bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: "stdout",
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
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

	ctx := context.Background()

	switch command {
	case "migrate":
		if err := schema.Migrate(database.DB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info(ctx, "schema migration completed",
			"namespaces", len(schema.Namespaces()),
			"enums", len(schema.Enums()),
			"models", len(schema.Models()))
	case "verify":
		if err := schema.Verify(database.DB); err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		logger.Info(ctx, "schema verification passed", "models", len(schema.Models()))
	case "reset":
		if !confirm {
			return fmt.Errorf("reset drops every namespace; rerun with -yes to confirm")
		}
		if err := schema.Reset(database.DB); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		logger.Warn(ctx, "all namespaces dropped", "namespaces", schema.Namespaces())
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}
