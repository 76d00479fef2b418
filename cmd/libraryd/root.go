package main

import (
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "libraryd",
	Short: "Library circulation service",
	Long: `libraryd manages a library catalog, its users and their loans.

Configuration comes from LIBRARY_* environment variables, optionally loaded from a .env file
in the working directory. LIBRARY_JWT_SECRET is always required.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}

// loadConfig is shared by every subcommand so they agree on defaults and validation.
func loadConfig() (config.Config, error) {
	return config.Load()
}
