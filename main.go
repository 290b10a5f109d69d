package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jsondump/jsondump/cmd"
	"github.com/jsondump/jsondump/pkg/environment"
	"github.com/jsondump/jsondump/pkg/logging"
	"github.com/spf13/afero"
)

func main() {
	fs := afero.NewOsFs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.GetLogger()

	// A local .env is optional; the OS environment always wins.
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded environment overrides from .env")
	}

	env, err := environment.NewEnvironment(nil)
	if err != nil {
		logger.Error("failed to load environment", "error", err)
		os.Exit(1)
	}

	rootCmd := cmd.NewRootCommand(fs, ctx, env, logger)
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
