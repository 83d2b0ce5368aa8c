package main

import (
	"fmt"

	"github.com/aretw0/hostbridge/pkg/env"
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the detected environment and effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "environment: %s (%s set: %t)\n", env.Detect(), env.MarkerEnv, env.Detect().IsEmbedded())
		fmt.Fprintf(out, "api base:    %s\n", cfg.APIBase)
		fmt.Fprintf(out, "listen:      %s\n", cfg.Addr())
		fmt.Fprintf(out, "store:       %s\n", cfg.Store.Driver)
		fmt.Fprintf(out, "log level:   %s\n", cfg.Log.Level)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}
