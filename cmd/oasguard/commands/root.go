// Package commands provides the CLI commands for oasguard.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/oasguard/oasguard"
)

// RootCmd builds the oasguard command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "oasguard",
		Short:   "oasguard - check HTTP traffic against OpenAPI 3.0 contracts",
		Version: oasguard.Version(),

		// Contract violations are findings, not usage mistakes
		SilenceUsage: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "Config file path (default: oasguard.yaml)")

	root.AddCommand(
		ParseCommand(),
		CheckCommand(),
		MCPCommand(),
	)

	return root
}
