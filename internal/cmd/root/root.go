// Package root provides the root command for the mfl CLI.
package root

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/internal/cmd/completion"
	"github.com/open-cli-collective/media-filter-cli/internal/cmd/configcmd"
	"github.com/open-cli-collective/media-filter-cli/internal/cmd/content"
	"github.com/open-cli-collective/media-filter-cli/internal/cmd/file"
	initcmd "github.com/open-cli-collective/media-filter-cli/internal/cmd/init"
	"github.com/open-cli-collective/media-filter-cli/internal/cmd/progresscmd"
	"github.com/open-cli-collective/media-filter-cli/internal/cmd/session"
	"github.com/open-cli-collective/media-filter-cli/internal/version"
)

const binName = "mfl"

// NewCmdRoot creates the root command for mfl.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   binName,
		Short: "Round-trip media embeds between stored markup and the editor",
		Long: `mfl translates media embed tokens in stored content into editable
markup and back again.

"content attach" turns [[{...}]] tokens into the HTML an editor shows and
remembers what it replaced. "content detach" turns the edited HTML back into
tokens, keeping every token the editor did not touch byte-for-byte.
Sessions are kept between runs so a detach can follow an attach.

Get started by running: mfl init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				log.SetOutput(cmd.ErrOrStderr())
				return
			}
			log.SetOutput(io.Discard)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/mfl/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log translation diagnostics to stderr")

	cmd.SetVersionTemplate(binName + " version " + version.String() + "\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(content.NewCmdContent())
	cmd.AddCommand(file.NewCmdFile())
	cmd.AddCommand(session.NewCmdSession())
	cmd.AddCommand(progresscmd.NewCmdProgress())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion(binName))

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewCmdRoot()
	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln("Error:", err)
		return 1
	}
	return 0
}

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}
