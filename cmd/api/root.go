package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Running it without a subcommand
// starts the server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quillnote",
		Short: "Quillnote - private notes behind session authentication",
		Long: `Quillnote serves a JSON API for registering, logging in and managing
a private collection of text notes. Configuration comes from the environment.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
