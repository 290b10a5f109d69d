package cmd

import (
	"context"
	"fmt"

	"github.com/jsondump/jsondump/pkg/api"
	"github.com/jsondump/jsondump/pkg/config"
	"github.com/jsondump/jsondump/pkg/environment"
	"github.com/jsondump/jsondump/pkg/logging"
	"github.com/jsondump/jsondump/pkg/metrics"
	"github.com/jsondump/jsondump/pkg/storage"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewServeCommand returns the command that runs the HTTP server until the
// context is canceled.
func NewServeCommand(fs afero.Fs, ctx context.Context, env *environment.Environment, logger *logging.Logger) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the jsondump HTTP server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnvironment(env, logger)
			if err != nil {
				return err
			}

			// The directory is created here at startup; the store itself
			// refuses to run without it.
			if err := fs.MkdirAll(cfg.DataDir, 0o750); err != nil {
				return fmt.Errorf("creating storage directory %s: %w", cfg.DataDir, err)
			}

			store, err := storage.NewStore(fs, cfg.DataDir, logger)
			if err != nil {
				return err
			}

			logger.Info("storage ready", "dir", store.Dir(), "maxPayload", cfg.MaxPayloadHuman())

			server := api.NewServer(cfg, store, metrics.NewCollector(), logger)
			return server.Run(ctx)
		},
	}

	serveCmd.Flags().StringVar(&env.DataDir, "dir", env.DataDir, "Directory artifacts are written to.")
	serveCmd.Flags().Int64Var(&env.MaxPayloadSize, "max-size", env.MaxPayloadSize, "Maximum payload size in bytes.")
	serveCmd.Flags().StringVar(&env.HostIP, "host", env.HostIP, "Host IP the server binds to.")
	serveCmd.Flags().IntVar(&env.Port, "port", env.Port, "Port the server listens on.")

	return serveCmd
}
