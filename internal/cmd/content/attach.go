package content

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/api"
	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/store"
	"github.com/open-cli-collective/media-filter-cli/internal/view"
	"github.com/open-cli-collective/media-filter-cli/pkg/media"
)

type attachOptions struct {
	file       string
	outFile    string
	session    string
	label      string
	format     string
	noResolve  bool
	output     string
	noColor    bool
	configPath string

	stdin  io.Reader // For testing; defaults to os.Stdin
	stdout io.Writer
	stderr io.Writer
}

// translation is the JSON form of an attach or detach result.
type translation struct {
	Session  string   `json:"session"`
	Replaced int      `json:"replaced"`
	Warnings []string `json:"warnings"`
	Content  string   `json:"content"`
}

// NewCmdAttach creates the content attach command.
func NewCmdAttach() *cobra.Command {
	opts := &attachOptions{}

	cmd := &cobra.Command{
		Use:   "attach [file]",
		Short: "Replace media macros with editor placeholders",
		Long: `Read stored content and replace every [[...]] media macro with the
placeholder element an editor displays.

Files the session does not know yet are looked up on the configured site.
Macros that cannot be resolved stay in place and are reported as warnings.
Markdown input (--format markdown or a .md file) is rendered to HTML first.`,
		Example: `  # Attach a stored body and start a new session
  mfl content attach body.html > editor.html

  # Continue an existing session
  mfl content attach body.html --session 01HQ3Z6V8N2M0K4W7T9X5B1C3D

  # Markdown from stdin, without site lookups
  cat notes.md | mfl content attach --format markdown --no-resolve`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.file = args[0]
			}
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath = cmdutil.ConfigPath(cmd)
			return runAttach(cmd.Context(), opts, nil, nil)
		},
	}

	cmd.Flags().StringVar(&opts.session, "session", "", "Session ID to continue (default: new session)")
	cmd.Flags().StringVar(&opts.label, "label", "", "Session label (default: input file name)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Input format: html, markdown (default: from file extension)")
	cmd.Flags().StringVar(&opts.outFile, "out", "", "Write the result to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.noResolve, "no-resolve", false, "Do not look up unknown files on the site")

	return cmd
}

func runAttach(ctx context.Context, opts *attachOptions, client *api.Client, st *store.Store) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}
	format, err := cmdutil.ContentFormat(opts.format, opts.file)
	if err != nil {
		return err
	}

	env := cmdutil.NewEnv(opts.configPath, client, st)
	defer func() { _ = env.Close() }()

	content, err := cmdutil.ReadInput(opts.file, opts.stdin)
	if err != nil {
		return err
	}
	if format == cmdutil.FormatMarkdown {
		if content, err = media.MarkdownToEditor([]byte(content)); err != nil {
			return err
		}
	}

	sessions, err := env.SessionStore(ctx)
	if err != nil {
		return err
	}
	sess, id, err := cmdutil.LoadSession(ctx, sessions, opts.session, cmdutil.NewSession, env.MediaOptions())
	if err != nil {
		return err
	}

	renderer := newRenderer(opts.output, opts.noColor, opts.stdout, opts.stderr)

	var warnings []string
	if !opts.noResolve {
		c, err := env.APIClient()
		if err != nil {
			renderer.Warning(fmt.Sprintf("skipping file lookups: %v", err))
		} else {
			warnings = append(warnings, resolveSources(ctx, c, sess, content)...)
		}
	}

	result := sess.ReplaceTokens(content)
	warnings = append(warnings, result.Warnings...)

	label := opts.label
	if label == "" && opts.file != "" && opts.file != "-" {
		label = filepath.Base(opts.file)
	}
	if err := sessions.Save(ctx, id, label, sess); err != nil {
		return err
	}

	return renderTranslation(renderer, opts.outFile, translation{
		Session:  id,
		Replaced: result.Replaced,
		Warnings: warnings,
		Content:  result.Content,
	})
}

func newRenderer(output string, noColor bool, stdout, stderr io.Writer) *view.Renderer {
	renderer := view.NewRenderer(view.Format(output), noColor)
	if stdout != nil {
		renderer.SetWriter(stdout)
	}
	if stderr != nil {
		renderer.SetErrWriter(stderr)
	}
	return renderer
}

// renderTranslation writes converted content. JSON output wraps it with the
// session details; other formats write the content as-is and report the
// session on stderr.
func renderTranslation(renderer *view.Renderer, outFile string, t translation) error {
	if t.Warnings == nil {
		t.Warnings = []string{}
	}
	if outFile != "" {
		if err := cmdutil.WriteOutput(outFile, nil, t.Content); err != nil {
			return err
		}
	}

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(t)
	}

	for _, w := range t.Warnings {
		renderer.Warning(w)
	}
	if outFile == "" {
		renderer.RenderRaw(t.Content)
	}
	renderer.Info(fmt.Sprintf("session %s: %d replaced", t.Session, t.Replaced))
	return nil
}
