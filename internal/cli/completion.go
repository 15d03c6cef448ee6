package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for roomforge.

To load completions:

Bash:
  $ source <(roomforge completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ roomforge completion bash > /etc/bash_completion.d/roomforge
  # macOS:
  $ roomforge completion bash > $(brew --prefix)/etc/bash_completion.d/roomforge

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ roomforge completion zsh > "${fpath[1]}/_roomforge"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ roomforge completion fish | source

  # To load completions for each session, execute once:
  $ roomforge completion fish > ~/.config/fish/completions/roomforge.fish

PowerShell:
  PS> roomforge completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> roomforge completion powershell > roomforge.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
