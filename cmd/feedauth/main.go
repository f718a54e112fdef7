package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/systmms/feedauth/cmd/feedauth/commands"
	"github.com/systmms/feedauth/internal/config"
	"github.com/systmms/feedauth/internal/logging"
	"github.com/systmms/feedauth/internal/metrics"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Cached credentials live in memguard enclaves; wipe them on exit.
	defer memguard.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile     string
		noColor        bool
		debug          bool
		verbose        bool
		nonInteractive bool
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "feedauth",
		Short: "Resolve package-feed credentials via credential provider plugins",
		Long: `feedauth resolves authentication credentials for a package-source URI by
delegating to external credential provider executables that speak the
plugin CLI/JSON protocol.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.New(verbose, debug, noColor)

			cfg.Path = configFile
			cfg.Logger = logger
			cfg.NonInteractive = nonInteractive

			metrics.Init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "feedauth.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log provider invocations and provider stderr")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Forbid providers from prompting")

	// Add commands
	rootCmd.AddCommand(
		commands.NewGetCommand(cfg),
		commands.NewProvidersCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewStoreCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
