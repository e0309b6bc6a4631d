package main

import (
	"context"
	"everywrite/config"
	"everywrite/config/setup"
	"everywrite/database"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:     "everywrite",
	Short:   "Local note-taking backend with live note lists",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		slog.SetDefault(setupLogger())
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(slog.Default())
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the notes database",
}

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop all notes and users and recreate the schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("refusing to reset %s without --force", config.AppConfig.DBPath)
		}

		db, err := database.New(config.AppConfig.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Reset(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "database reset: %s (schema v%d)\n", config.AppConfig.DBPath, database.SchemaVersion)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of everywrite",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	dbResetCmd.Flags().Bool("force", false, "confirm that all data should be deleted")
	dbCmd.AddCommand(dbResetCmd)
	rootCmd.AddCommand(serveCmd, dbCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(logger *slog.Logger) error {
	cfg := config.AppConfig

	provider, db, err := setup.InitDatabase(cfg.DBPath, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}

	application, err := setup.InitApp(context.Background(), cfg, db, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		provider.Close()
		return err
	}

	fiberApp := setup.NewFiberApp(logger)
	setup.ApplyMiddleware(fiberApp, logger)
	setup.RegisterRoutes(fiberApp, application)

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- fiberApp.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutting down server gracefully")
	case err = <-serverErr:
		logger.Error("server failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	setup.Shutdown(ctx, fiberApp, application, provider, logger)

	logger.Info("server stopped")
	return err
}

func setupLogger() *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     getLogLevel(),
		AddSource: config.AppConfig.Env == "development",
	}

	if config.AppConfig.Env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func getLogLevel() slog.Level {
	switch config.AppConfig.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
