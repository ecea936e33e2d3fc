// Package config provides the "ttreport config" commands.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deeemdeeem/tt-report-automation/internal/config"
	"github.com/deeemdeeem/tt-report-automation/internal/output"
)

// NewCommand returns the config command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ttreport configuration",
		Long: `Set up, view, and change where ttreport finds its template and worksheet,
where decks are written, and how the server and watcher behave.

Settings live in ~/.ttreport/config.yaml (or the file given with --config) and
can be overridden with TTREPORT_* environment variables, e.g.
TTREPORT_SERVER_ADDR for server.addr.

Keys: ` + strings.Join(config.Keys(), ", "),
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newResetCmd())
	cmd.AddCommand(newPathCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newEnvCmd())

	return cmd
}

func newInitCmd() *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file, prompting for the main paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				if err := config.WizardNonInteractive(); err != nil {
					return err
				}
				output.Success(os.Stdout, "Wrote defaults to %s", config.ConfigPath())
			} else if err := config.Wizard(cmd.InOrStdin()); err != nil {
				return err
			}

			// Point out what still blocks a first build.
			for _, issue := range config.Validate() {
				if issue.Severity != "info" {
					output.Warn(os.Stdout, "%s (fix: %s)", issue.Message, issue.Fix)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Skip prompts and write the defaults")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			if !jsonFlag {
				fmt.Print(config.ShowConfig())
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return output.PrintJSON("config.show", cfg)
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Example: `  ttreport config set template ~/decks/TT_report.pptx
  ttreport config set server.addr :8080
  ttreport config set history false`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.Keys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := config.Set(key, args[1]); err != nil {
				return err
			}
			val, _ := config.Get(key)
			output.Success(os.Stdout, "%s = %s", key, val)

			switch key {
			case "template", "worksheet", "layout":
				if _, err := os.Stat(val); err != nil {
					output.Warn(os.Stdout, "%s does not exist yet", val)
				}
			}
			return nil
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Print a configuration value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := config.Get(args[0])
			if err != nil {
				return err
			}
			// Bare value so it can be used in scripts: $(ttreport config get template)
			fmt.Println(val)
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the config file and go back to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ResetConfig(); err != nil {
				return err
			}
			output.Success(os.Stdout, "Configuration reset to defaults")
			return nil
		},
	}
}

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.ConfigPath())
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the configured files exist and values make sense",
		RunE: func(cmd *cobra.Command, args []string) error {
			issues := config.Validate()

			jsonFlag, _ := cmd.Flags().GetBool("json")
			if jsonFlag {
				return output.PrintJSON("config.validate", issues)
			}

			failed := 0
			for _, issue := range issues {
				switch issue.Severity {
				case "error":
					failed++
					output.Fail(os.Stdout, "%s: %s", issue.Key, issue.Message)
				case "warning":
					output.Warn(os.Stdout, "%s: %s", issue.Key, issue.Message)
				default:
					output.Success(os.Stdout, "%s: %s", issue.Key, issue.Message)
				}
				if issue.Fix != "" && issue.Severity != "info" {
					fmt.Printf("      fix: %s\n", issue.Fix)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d configuration error(s)", failed)
			}
			return nil
		},
	}
}

func newEnvCmd() *cobra.Command {
	var shell string
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print the configuration as TTREPORT_* environment variables",
		Long:  "Useful for running 'ttreport serve' under a process manager or in a container without a config file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.ToEnv()

			jsonFlag, _ := cmd.Flags().GetBool("json")
			if jsonFlag {
				return output.PrintJSON("config.env", env)
			}

			keys := make([]string, 0, len(env))
			for k := range env {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, k := range keys {
				switch shell {
				case "fish":
					fmt.Printf("set -gx %s %q\n", k, env[k])
				case "dotenv":
					fmt.Printf("%s=%s\n", k, env[k])
				default:
					fmt.Printf("export %s=%q\n", k, env[k])
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&shell, "format", "sh", "Output format: sh | fish | dotenv")
	return cmd
}
