// Package main provides the recompute CLI: history replays, prediction
// regeneration and parameter maintenance against the rating database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yourusername/football-elo/internal/config"
	"github.com/yourusername/football-elo/internal/database"
	applogger "github.com/yourusername/football-elo/internal/logger"
	"github.com/yourusername/football-elo/internal/models"
	"github.com/yourusername/football-elo/internal/repository"
	"github.com/yourusername/football-elo/internal/service"
)

var (
	configFile string
	logger     *logrus.Logger
	auditLog   *applogger.AuditLogger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Maintenance operations for the rating database",
	Long:  `Replay match history, regenerate predictions and manage the parameter set.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay all completed matches from scratch",
	Long:  `Reset every team to its starting rating, replay completed matches in chronological order and regenerate predictions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReplay(cmd.Context())
	},
}

var predictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "Regenerate predictions for all pending matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegenerate(cmd.Context())
	},
}

var paramsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored parameter set",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showParams(cmd.Context())
	},
}

var paramsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store the default parameter set",
	RunE: func(cmd *cobra.Command, args []string) error {
		return seedParams(cmd.Context())
	},
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Inspect and manage the parameter set",
}

func main() {
	paramsCmd.AddCommand(paramsShowCmd, paramsSeedCmd)
	rootCmd.AddCommand(replayCmd, predictionsCmd, paramsCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger = applogger.NewLogger(cfg.App.LogLevel)
	auditLog = applogger.NewAuditLogger(logger)

	db, err = database.NewDB(context.Background(), &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos = repository.NewRepositories(db)
	return nil
}

func runReplay(ctx context.Context) error {
	start := time.Now()
	predictions := service.NewPredictionService(repos, logger)
	replay := service.NewReplayService(repos, predictions, logger)

	report, err := replay.ReplayHistory(ctx)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	auditLog.LogReplay(report.MatchesReplayed, report.Duration, "recompute-cli")
	logger.WithFields(logrus.Fields{
		"matches":  report.MatchesReplayed,
		"duration": time.Since(start).String(),
	}).Info("Replay complete")

	return printJSON(report)
}

func runRegenerate(ctx context.Context) error {
	predictions := service.NewPredictionService(repos, logger)
	written, err := predictions.RegenerateAll(ctx)
	if err != nil {
		return fmt.Errorf("prediction regeneration failed: %w", err)
	}
	fmt.Printf("Regenerated %d predictions\n", written)
	return nil
}

func showParams(ctx context.Context) error {
	params, err := repos.Parameter.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load parameters: %w", err)
	}
	return printJSON(params)
}

func seedParams(ctx context.Context) error {
	if _, err := repos.Parameter.Get(ctx); err == nil {
		return fmt.Errorf("parameter set already stored; refusing to overwrite")
	}

	params := models.DefaultParameterSet()
	if err := repos.Parameter.Save(ctx, params); err != nil {
		return fmt.Errorf("failed to save parameters: %w", err)
	}

	auditLog.LogParameterChange("all", nil, params, "recompute-cli")
	fmt.Println("Default parameter set stored")
	return printJSON(params)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
