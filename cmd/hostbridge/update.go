package main

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/hostbridge"
	"github.com/aretw0/hostbridge/internal/config"
	"github.com/aretw0/hostbridge/pkg/adapters/inproc"
	"github.com/aretw0/hostbridge/pkg/adapters/native"
	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/env"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check the configured GitHub repository for a newer release",
	Long: `Checks app.update_repo ("owner/repo") for a release newer than this binary,
using the native host capabilities. With --open the release page is opened in the
default browser.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		bridge, err := nativeBridge(cfg, logger)
		if err != nil {
			return err
		}

		update, err := bridge.Capabilities().Updater.Check(cmd.Context())
		if domain.IsUnsupported(err) {
			return fmt.Errorf("update checks are disabled: set app.update_repo in %s", configPath(cmd))
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if update == nil {
			fmt.Fprintf(out, "hostbridge %s is up to date\n", hostbridge.Version)
			return nil
		}
		fmt.Fprintf(out, "update available: %s -> %s\n%s\n", update.CurrentVersion, update.Version, update.URL)

		if open, _ := cmd.Flags().GetBool("open"); open && update.URL != "" {
			return bridge.Capabilities().Opener.OpenURL(cmd.Context(), update.URL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().Bool("open", false, "Open the release page when an update is available")
}

// nativeBridge builds an embedded bridge backed by the OS collaborators. It has no
// commands registered; only its capabilities are used.
func nativeBridge(cfg config.Config, logger *slog.Logger) (*hostbridge.Bridge, error) {
	host := native.NewHost(native.HostConfig{
		AppName:        cfg.App.Name,
		CurrentVersion: hostbridge.Version,
		UpdateRepo:     cfg.App.UpdateRepo,
		Launchers:      cfg.Launchers,
	})
	return hostbridge.New(
		hostbridge.WithEnvironment(env.Embedded()),
		hostbridge.WithChannel(inproc.NewRegistry(inproc.WithRegistryLogger(logger))),
		hostbridge.WithEventBus(inproc.NewBus(inproc.WithBusLogger(logger))),
		hostbridge.WithHost(host),
		hostbridge.WithLogger(logger),
	)
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
