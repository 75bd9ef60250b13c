package main

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/support-desk/internal/bootstrap"
	"github.com/spec-kit/support-desk/internal/persistence"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or inspect schema migrations",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{persistence.MigrateUp, persistence.MigrateDown, persistence.MigrateStatus},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := persistence.MigrateUp
		if len(args) == 1 {
			command = args[0]
		}

		storage, err := bootstrap.OpenStorage(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer storage.Close()

		return storage.Migrate(cmd.Context(), command)
	},
}
