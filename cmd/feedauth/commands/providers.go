package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/feedauth/internal/config"
	"github.com/systmms/feedauth/internal/discovery"
)

func NewProvidersCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List discovered credential provider executables",
		Long: `List every credential provider executable discoverable right now, in the
order they will be queried: environment variable paths, config paths, the
per-user provider root, and finally the feedauth installation directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			providers := discovery.New(cfg.Logger, cfg.ProviderPaths()).Discover()
			if len(providers) == 0 {
				cfg.Logger.Warn("No credential providers found")
				cfg.Logger.Info("Install providers under ~/.feedauth/credential-providers or set %s", discovery.EnvProviderPaths)
				return nil
			}

			for _, p := range providers {
				fmt.Println(p)
			}
			return nil
		},
	}

	return cmd
}
