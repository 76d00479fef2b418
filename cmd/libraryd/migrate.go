package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := sqlengine.MigrateUp(cfg.Dialect, cfg.DSN); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.Dialect)

		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations, dropping every table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := sqlengine.MigrateDown(cfg.Dialect, cfg.DSN); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s schema reverted\n", cfg.Dialect)

		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}
