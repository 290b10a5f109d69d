package cmd

import (
	"github.com/jsondump/jsondump/pkg/version"
	"github.com/spf13/cobra"
)

// NewVersionCommand returns the command that prints build information.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Run: func(cmd *cobra.Command, args []string) {
			if version.Commit != "" {
				cmd.Printf("jsondump %s (%s)\n", version.Version, version.Commit)
				return
			}
			cmd.Printf("jsondump %s\n", version.Version)
		},
	}
}
