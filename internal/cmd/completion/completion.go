// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type shell struct {
	name    string
	title   string
	install string
	gen     func(root *cobra.Command, w io.Writer) error
}

// Install instructions use {{bin}} for the binary name.
var shells = []shell{
	{
		name:  "bash",
		title: "bash",
		install: `To load completions in your current shell session:

  source <({{bin}} completion bash)

To load completions for every new session:

  # Linux
  {{bin}} completion bash > /etc/bash_completion.d/{{bin}}

  # macOS (requires bash-completion)
  {{bin}} completion bash > $(brew --prefix)/etc/bash_completion.d/{{bin}}`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletion(w) },
	},
	{
		name:  "zsh",
		title: "zsh",
		install: `If shell completion is not already enabled in your environment,
enable it once with:

  echo "autoload -U compinit; compinit" >> ~/.zshrc

To load completions for every new session:

  {{bin}} completion zsh > "${fpath[1]}/_{{bin}}"`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	{
		name:  "fish",
		title: "fish",
		install: `To load completions in your current shell session:

  {{bin}} completion fish | source

To load completions for every new session:

  {{bin}} completion fish > ~/.config/fish/completions/{{bin}}.fish`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
	{
		name:  "powershell",
		title: "PowerShell",
		install: `To load completions in your current shell session:

  {{bin}} completion powershell | Out-String | Invoke-Expression

To load completions for every new session, add the output to your profile:

  {{bin}} completion powershell >> $PROFILE`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

// NewCmdCompletion creates the completion command. bin is the binary name
// used in the install instructions.
func NewCmdCompletion(bin string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: fmt.Sprintf(`Generate shell completion scripts for %s.

These scripts enable tab-completion for commands, flags, and arguments.
See each sub-command's help for installation instructions.`, bin),
	}

	for _, sh := range shells {
		cmd.AddCommand(newCmdShell(sh, bin))
	}

	return cmd
}

func newCmdShell(sh shell, bin string) *cobra.Command {
	return &cobra.Command{
		Use:                   sh.name,
		Short:                 fmt.Sprintf("Generate %s completion script", sh.title),
		Long:                  fmt.Sprintf("Generate %s completion script for %s.\n\n%s", sh.title, bin, strings.ReplaceAll(sh.install, "{{bin}}", bin)),
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sh.gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}
