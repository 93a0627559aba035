// Package main provides the entry point for the backtest dashboard server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/backtest-dashboard/internal/config"
	"github.com/yourusername/backtest-dashboard/internal/database"
	"github.com/yourusername/backtest-dashboard/internal/logger"
	"github.com/yourusername/backtest-dashboard/internal/metrics"
	"github.com/yourusername/backtest-dashboard/internal/refdata"
	"github.com/yourusername/backtest-dashboard/internal/repository"
	"github.com/yourusername/backtest-dashboard/internal/server"
	"github.com/yourusername/backtest-dashboard/internal/universe"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Backtest results dashboard server",
	Long:  `Serves the backtest results API: candidate selection, universe promotion, and the read endpoints the chart UI consumes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dashboard %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Backtest dashboard starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// Reference tables are read through a TTL cache refreshed on a schedule.
	refCache := refdata.NewCache(repos.Reference, time.Duration(cfg.RefData.TTLSeconds)*time.Second, appLog)
	repos.Reference = refCache

	refreshCtx, cancelRefresh := context.WithTimeout(ctx, 30*time.Second)
	if err := refCache.Refresh(refreshCtx); err != nil {
		appLog.WithError(err).Warn("Initial reference data load failed; will retry on schedule")
	}
	cancelRefresh()

	refScheduler := refdata.NewScheduler(refCache, appLog)
	if err := refScheduler.Start(cfg.RefData.RefreshSchedule); err != nil {
		return fmt.Errorf("failed to start reference data scheduler: %w", err)
	}
	defer refScheduler.Stop()

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	selector := universe.NewSelector(repos.BacktestRun, repos.Universe, refCache, appLog)
	applier := universe.NewApplier(db, repos.Universe, logger.NewAuditLogger(appLog), appLog)

	srv := server.New(cfg, appLog, repos, selector, applier, db)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	appLog.Info("Backtest dashboard stopped")
	return nil
}
