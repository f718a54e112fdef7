package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/feedauth/internal/config"
	ferrors "github.com/systmms/feedauth/internal/errors"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var (
		source        string
		isRetry       bool
		canShowDialog bool
		verbosity     string
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Resolve credentials for a package source",
		Long: `Resolve credentials for a package-source URI.

Every discovered credential provider is queried in order; the keyring
fallback is consulted when enabled in the config file. By default the
first credential is printed as username:password, suitable for scripting.

Examples:
  # Resolve credentials for a feed
  feedauth get --source https://feed.example/v3/index.json

  # Force providers to re-prompt after a rejected credential
  feedauth get --source https://feed.example/v3/index.json --is-retry

  # Full credential list with auth types
  feedauth get --source https://feed.example/v3/index.json --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			sources, err := buildSources(cfg, canShowDialog, verbosity)
			if err != nil {
				return err
			}

			ctx := context.Background()
			for _, src := range sources {
				creds, err := src.Get(ctx, source, isRetry)
				if err != nil {
					return err
				}
				if len(creds) == 0 {
					cfg.Logger.Debug("Source %s returned no credentials", src.Name())
					continue
				}

				if jsonOutput {
					type credentialOutput struct {
						Username string `json:"username"`
						Password string `json:"password"`
						AuthType string `json:"authType"`
					}
					output := struct {
						Source      string             `json:"source"`
						From        string             `json:"from"`
						Credentials []credentialOutput `json:"credentials"`
					}{Source: source, From: src.Name()}
					for _, c := range creds {
						output.Credentials = append(output.Credentials, credentialOutput{
							Username: c.Username,
							Password: c.Password,
							AuthType: string(c.AuthType),
						})
					}
					encoder := json.NewEncoder(os.Stdout)
					encoder.SetIndent("", "  ")
					return encoder.Encode(output)
				}

				// The first credential is authoritative.
				fmt.Printf("%s:%s\n", creds[0].Username, creds[0].Password)
				return nil
			}

			return ferrors.UserError{
				Message:    fmt.Sprintf("No credentials available for %s", source),
				Suggestion: "Run 'feedauth providers' to check which providers are discovered",
			}
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Package-source URI (required)")
	cmd.Flags().BoolVar(&isRetry, "is-retry", false, "Previously returned credentials were rejected; bypass the cache")
	cmd.Flags().BoolVar(&canShowDialog, "can-show-dialog", false, "Allow providers to open a dialog")
	cmd.Flags().StringVar(&verbosity, "verbosity", "", "Verbosity forwarded to providers")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output all credentials in JSON format")

	_ = cmd.MarkFlagRequired("source")

	return cmd
}
