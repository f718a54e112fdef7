package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/systmms/feedauth/internal/config"
	ferrors "github.com/systmms/feedauth/internal/errors"
	"github.com/systmms/feedauth/internal/keyringsource"
)

func NewStoreCommand(cfg *config.Config) *cobra.Command {
	var (
		source   string
		username string
		password string
		remove   bool
	)

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Store or remove a fallback credential in the OS keyring",
		Long: `Store a credential for a package source in the operating system keyring.

Stored credentials are used as a fallback when no plugin provider returns
credentials and use_keyring is enabled in the config file. The entry is
keyed by the source URI's host.

Examples:
  # Store a credential (password read from stdin when omitted)
  feedauth store --source https://feed.example/v3/index.json --username ci-bot

  # Remove a stored credential
  feedauth store --source https://feed.example/v3/index.json --delete`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			store := keyringsource.New(cfg.Logger)

			if remove {
				if err := store.Delete(source); err != nil {
					return ferrors.UserError{
						Message:    fmt.Sprintf("Failed to remove keyring entry for %s", source),
						Suggestion: "Check the entry exists with 'feedauth get --source " + source + "'",
						Err:        err,
					}
				}
				cfg.Logger.Info("Removed keyring entry for %s", source)
				return nil
			}

			if username == "" {
				return ferrors.UserError{
					Message:    "--username is required when storing a credential",
					Suggestion: "Pass --username, or --delete to remove an entry",
				}
			}

			if password == "" {
				// Read the password from stdin so it stays out of shell history.
				fmt.Fprint(os.Stderr, "Password: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			if err := store.Set(source, username, password); err != nil {
				return ferrors.UserError{
					Message:    fmt.Sprintf("Failed to store credential for %s", source),
					Suggestion: "Check that an OS keyring backend is available",
					Err:        err,
				}
			}
			cfg.Logger.Info("Stored credential for %s", source)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Package-source URI (required)")
	cmd.Flags().StringVar(&username, "username", "", "Username to store")
	cmd.Flags().StringVar(&password, "password", "", "Password to store (read from stdin when omitted)")
	cmd.Flags().BoolVar(&remove, "delete", false, "Remove the stored credential instead")

	_ = cmd.MarkFlagRequired("source")

	return cmd
}
