// Package progresscmd provides the command that follows a batch job.
package progresscmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/api"
	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/progress"
	"github.com/open-cli-collective/media-filter-cli/internal/view"
)

type watchOptions struct {
	method     string
	delay      time.Duration
	timeout    time.Duration
	output     string
	noColor    bool
	configPath string

	stdout io.Writer
	stderr io.Writer
}

// NewCmdProgress creates the progress command.
func NewCmdProgress() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "progress <uri>",
		Short: "Follow a batch job until it completes",
		Long: `Poll a batch progress endpoint and draw a progress bar until the job
reaches 100%, reports a failure, or the command is interrupted.

The endpoint answers with JSON carrying "status", "percentage", "message"
and "data". A status of 0 or false is a failure; "data" then holds the
error. The URI may be a site path or an absolute URL.`,
		Example: `  # Follow a batch
  mfl progress /batch?id=42&op=do

  # Poll with POST every two seconds, for at most ten minutes
  mfl progress /batch?id=42&op=do --method POST --delay 2s --timeout 10m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath = cmdutil.ConfigPath(cmd)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWatch(ctx, args[0], opts, nil)
		},
	}

	cmd.Flags().StringVarP(&opts.method, "method", "X", "GET", "HTTP method for each ping: GET or POST")
	cmd.Flags().DurationVarP(&opts.delay, "delay", "d", progress.DefaultDelay, "Pause between pings")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Give up after this long (default: no limit)")

	return cmd
}

func runWatch(ctx context.Context, uri string, opts *watchOptions, client *api.Client) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	env := cmdutil.NewEnv(opts.configPath, client, nil)
	client, err := env.APIClient()
	if err != nil {
		return err
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}
	if opts.stderr != nil {
		renderer.SetErrWriter(opts.stderr)
	}

	monitor := progress.New(client, uri, opts.method, opts.delay)
	var last progress.Update
	monitor.OnUpdate = func(u progress.Update) {
		last = u
		if renderer.Format() == view.FormatJSON {
			_ = renderer.RenderJSON(u)
		} else {
			renderer.Progress(u.Percent, u.Message)
		}
		if u.Percent >= 100 {
			monitor.Stop()
		}
	}

	err = monitor.Run(ctx)
	if renderer.Format() != view.FormatJSON {
		renderer.EndProgress()
	}

	var batchErr *progress.BatchError
	switch {
	case err == nil:
	case errors.As(err, &batchErr):
		return fmt.Errorf("batch failed: %w", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("gave up after %s at %.0f%%", opts.timeout, last.Percent)
	default:
		return err
	}

	if renderer.Format() != view.FormatJSON {
		renderer.Success("Batch complete")
	}
	return nil
}
