package configcmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/config"
)

type clearOptions struct {
	noColor    bool
	configPath string

	stdout io.Writer
}

// NewCmdClear creates the config clear command.
func NewCmdClear() *cobra.Command {
	opts := &clearOptions{}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored configuration",
		Long:  `Delete the mfl configuration file. Environment variables will still be used if set. Saved sessions are kept.`,
		Example: `  # Clear config
  mfl config clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath = cmdutil.ConfigPath(cmd)
			return runClear(opts)
		},
	}

	return cmd
}

func runClear(opts *clearOptions) error {
	if opts.noColor {
		color.NoColor = true
	}
	out := opts.stdout
	if out == nil {
		out = os.Stdout
	}
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	err := os.Remove(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}

	green := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	if os.IsNotExist(err) {
		_, _ = green.Fprintf(out, "✓ No config file to remove\n")
	} else {
		_, _ = green.Fprintf(out, "✓ Configuration cleared from %s\n", configPath)
	}

	envVars := []string{"MFL_URL", "MFL_USER", "MFL_API_TOKEN", "MFL_SESSION_DB", "MFL_DO_LINK_TEXT",
		"DRUPAL_URL", "DRUPAL_USER", "DRUPAL_API_TOKEN"}
	var activeVars []string
	for _, v := range envVars {
		if os.Getenv(v) != "" {
			activeVars = append(activeVars, v)
		}
	}

	if len(activeVars) > 0 {
		_, _ = dim.Fprintf(out, "\nNote: Environment variables will still be used: %v\n", activeVars)
	}

	return nil
}
