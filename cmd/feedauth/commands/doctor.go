package commands

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/systmms/feedauth/internal/config"
	ferrors "github.com/systmms/feedauth/internal/errors"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	var timeoutSec int

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that credential providers are discoverable and runnable",
		Long: `Verify the provider setup: discovers every provider executable and checks,
concurrently, that each one still exists and is executable. Exits non-zero
if any check fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			orch, err := newOrchestrator(cfg, false, "")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
			defer cancel()

			if err := orch.Validate(ctx); err != nil {
				return err
			}
			providers := orch.Providers()

			g, _ := errgroup.WithContext(ctx)
			for _, providerPath := range providers {
				providerPath := providerPath
				g.Go(func() error {
					if err := checkProvider(providerPath); err != nil {
						cfg.Logger.Error("%s: %v", providerPath, err)
						return err
					}
					cfg.Logger.Info("%s", providerPath)
					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return ferrors.UserError{
					Message:    "one or more credential providers failed the check",
					Suggestion: "Reinstall the failing provider or remove it from the search path",
				}
			}
			fmt.Printf("%d provider(s) healthy\n", len(providers))
			return nil
		},
	}

	cmd.Flags().IntVar(&timeoutSec, "timeout", 30, "Overall check timeout in seconds")

	return cmd
}

func checkProvider(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file")
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("not executable")
	}
	return nil
}
