package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/hostbridge"
	"github.com/aretw0/hostbridge/pkg/env"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <command>",
	Short: "Invoke a command and print its JSON result",
	Long: `Invokes a named command against a running server (default) or against an
in-process registry (--local) and prints the result as JSON.

Example:
  hostbridge invoke greet --args '{"name":"Ada"}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		rawArgs, _ := cmd.Flags().GetString("args")
		cmdArgs, err := parseArgs(rawArgs)
		if err != nil {
			return err
		}

		opts := []hostbridge.Option{hostbridge.WithLogger(logger)}
		if local, _ := cmd.Flags().GetBool("local"); local {
			be, err := newBackend(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer be.close()
			opts = append(opts,
				hostbridge.WithEnvironment(env.Embedded()),
				hostbridge.WithChannel(be.registry),
				hostbridge.WithEventBus(be.bus),
			)
		} else {
			apiBase := cfg.APIBase
			if cmd.Flags().Changed("api-base") {
				apiBase, _ = cmd.Flags().GetString("api-base")
			}
			opts = append(opts,
				hostbridge.WithEnvironment(env.Networked()),
				hostbridge.WithAPIBase(apiBase),
			)
		}

		bridge, err := hostbridge.New(opts...)
		if err != nil {
			return err
		}

		result, err := bridge.Invoke(cmd.Context(), args[0], cmdArgs)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), result, isTerminal(cmd.OutOrStdout()))
	},
}

func init() {
	rootCmd.AddCommand(invokeCmd)
	invokeCmd.Flags().String("args", "", "Command arguments as a JSON object")
	invokeCmd.Flags().String("api-base", "", "Server API base URL (overrides config)")
	invokeCmd.Flags().Bool("local", false, "Run the command in-process instead of calling a server")
}

// parseArgs decodes a JSON object; an empty string means no arguments.
func parseArgs(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var out map[string]any
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("--args must be a JSON object: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// printResult writes v as JSON, indented when pretty.
func printResult(w io.Writer, v any, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
