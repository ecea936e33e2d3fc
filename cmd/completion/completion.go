// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

var installHints = map[string]string{
	"bash":       "ttreport completion bash > /etc/bash_completion.d/ttreport",
	"zsh":        "ttreport completion zsh > ~/.zsh/completions/_ttreport",
	"fish":       "ttreport completion fish > ~/.config/fish/completions/ttreport.fish",
	"powershell": "ttreport completion powershell >> $PROFILE",
}

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for ttreport.

Install instructions:
  Bash:       ttreport completion bash > /etc/bash_completion.d/ttreport
              echo 'source <(ttreport completion bash)' >> ~/.bashrc
  Zsh:        ttreport completion zsh > ~/.zsh/completions/_ttreport
  Fish:       ttreport completion fish > ~/.config/fish/completions/ttreport.fish
  PowerShell: ttreport completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hint, ok := installHints[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# ttreport %s completion\n", args[0])
			fmt.Fprintf(out, "# Install: %s\n\n", hint)

			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			default:
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
	return cmd
}
