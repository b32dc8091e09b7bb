// Command feather is a CLI front end for the feather interpreter: run a
// script, drop into an interactive REPL, or just check a script for syntax
// errors without evaluating it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/feather-lang/feather"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "feather",
		Short:         "Run and explore feather scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a feather config file (YAML)")

	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newReplCmd(&configPath))
	root.AddCommand(newCheckCmd())
	return root
}

// newInterp builds an interpreter and applies the config file's variable
// presets, if any were loaded.
func newInterp(configPath string) (*feather.Interp, Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, cfg, err
	}
	i := feather.New()
	if len(cfg.Vars) > 0 {
		i.SetVars(cfg.Vars)
	}
	return i, cfg, nil
}

func newRunCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Evaluate a script file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			i, _, err := newInterp(*configPath)
			if err != nil {
				return err
			}
			defer i.Close()

			result, err := i.Eval(string(src))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if s := result.String(); s != "" {
				fmt.Println(s)
			}
			return nil
		},
	}
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <script>",
		Short: "Check a script for syntax errors without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			i := feather.New()
			defer i.Close()

			pr := i.Parse(string(src))
			switch pr.Status {
			case feather.ParseOK:
				fmt.Println("ok")
				return nil
			case feather.ParseIncomplete:
				return fmt.Errorf("%s: incomplete script: %s", args[0], pr.Message)
			default:
				return fmt.Errorf("%s: %s", args[0], pr.Message)
			}
		},
	}
}

func newReplCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive feather session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			i, cfg, err := newInterp(*configPath)
			if err != nil {
				return err
			}
			defer i.Close()
			return runRepl(i, cfg)
		},
	}
}
