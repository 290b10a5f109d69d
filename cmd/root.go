package cmd

import (
	"context"

	"github.com/jsondump/jsondump/pkg/environment"
	"github.com/jsondump/jsondump/pkg/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewRootCommand returns the root command with all subcommands attached.
func NewRootCommand(fs afero.Fs, ctx context.Context, env *environment.Environment, logger *logging.Logger) *cobra.Command {
	cobra.EnableCommandSorting = false
	rootCmd := &cobra.Command{
		Use:   "jsondump",
		Short: "HTTP service that persists JSON payloads as files.",
		Long: `Jsondump accepts arbitrary JSON documents over HTTP and durably persists
each one as an individual file with a unique, sortable name. Every artifact
is published atomically: observers either see the complete document or
nothing at all.`,
	}
	rootCmd.AddCommand(NewServeCommand(fs, ctx, env, logger))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
