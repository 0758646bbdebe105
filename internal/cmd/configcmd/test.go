package configcmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/api"
	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
)

type testOptions struct {
	noColor    bool
	configPath string

	stdout io.Writer
}

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	opts := &testOptions{}

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test connectivity with configured credentials",
		Long:  `Test that mfl can reach the file-display service with the current configuration.`,
		Example: `  # Test connection
  mfl config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath = cmdutil.ConfigPath(cmd)
			return runTest(cmd.Context(), opts, nil)
		},
	}

	return cmd
}

func runTest(ctx context.Context, opts *testOptions, client *api.Client) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.noColor {
		color.NoColor = true
	}
	out := opts.stdout
	if out == nil {
		out = os.Stdout
	}

	env := cmdutil.NewEnv(opts.configPath, client, nil)
	client, err := env.APIClient()
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	fmt.Fprintf(out, "Testing connection to %s...\n", client.BaseURL())

	if err := cmdutil.Verify(ctx, client); err != nil {
		_, _ = red.Fprintln(out, "✗", err)
		fmt.Fprintln(out, "\nCheck your settings with: mfl config show")
		fmt.Fprintln(out, "Reconfigure with: mfl init")
		return err
	}

	_, _ = green.Fprintln(out, "✓ Authentication successful")
	_, _ = green.Fprintln(out, "✓ File API reachable")

	return nil
}
