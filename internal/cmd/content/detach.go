package content

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/store"
	"github.com/open-cli-collective/media-filter-cli/internal/view"
	"github.com/open-cli-collective/media-filter-cli/pkg/media"
)

type detachOptions struct {
	file       string
	outFile    string
	session    string
	format     string
	output     string
	noColor    bool
	configPath string

	stdin  io.Reader // For testing; defaults to os.Stdin
	stdout io.Writer
	stderr io.Writer
}

// NewCmdDetach creates the content detach command.
func NewCmdDetach() *cobra.Command {
	opts := &detachOptions{}

	cmd := &cobra.Command{
		Use:   "detach [file]",
		Short: "Replace editor placeholders with media macros",
		Long: `Read editor markup and replace every placeholder element with its
[[...]] media macro. Everything outside the placeholders is copied through
byte for byte.

Placeholders are resolved against a session, by default the most recently
saved one. Placeholders the session does not know stay as markup and are
reported as warnings.`,
		Example: `  # Detach against the latest session
  mfl content detach editor.html > body.html

  # Detach against a given session and write markdown
  mfl content detach editor.html --session 01HQ3Z6V8N2M0K4W7T9X5B1C3D --format markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.file = args[0]
			}
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath = cmdutil.ConfigPath(cmd)
			return runDetach(cmd.Context(), opts, nil)
		},
	}

	cmd.Flags().StringVar(&opts.session, "session", "", "Session ID (default: latest session)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: html, markdown (default: html)")
	cmd.Flags().StringVar(&opts.outFile, "out", "", "Write the result to a file instead of stdout")

	return cmd
}

func runDetach(ctx context.Context, opts *detachOptions, st *store.Store) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}
	format, err := cmdutil.ContentFormat(opts.format, opts.outFile)
	if err != nil {
		return err
	}

	env := cmdutil.NewEnv(opts.configPath, nil, st)
	defer func() { _ = env.Close() }()

	content, err := cmdutil.ReadInput(opts.file, opts.stdin)
	if err != nil {
		return err
	}

	sessions, err := env.SessionStore(ctx)
	if err != nil {
		return err
	}
	sess, id, err := cmdutil.LoadSession(ctx, sessions, opts.session, cmdutil.LatestSession, env.MediaOptions())
	if err != nil {
		return err
	}

	result := sess.RestoreTokens(content)
	out := result.Content
	if format == cmdutil.FormatMarkdown {
		if out, err = media.EditorToMarkdown(out); err != nil {
			return err
		}
		out += "\n"
	}

	if err := sessions.Save(ctx, id, "", sess); err != nil {
		return err
	}

	renderer := newRenderer(opts.output, opts.noColor, opts.stdout, opts.stderr)
	return renderTranslation(renderer, opts.outFile, translation{
		Session:  id,
		Replaced: result.Replaced,
		Warnings: result.Warnings,
		Content:  out,
	})
}
