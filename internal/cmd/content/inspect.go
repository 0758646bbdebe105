package content

import (
	"context"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/store"
	"github.com/open-cli-collective/media-filter-cli/internal/view"
	"github.com/open-cli-collective/media-filter-cli/pkg/media"
)

// Macro states reported by inspect.
const (
	statusCached    = "cached"
	statusSource    = "source"
	statusUnknown   = "unknown"
	statusMalformed = "malformed"
	statusNoFID     = "no fid"
)

type inspectOptions struct {
	file       string
	session    string
	output     string
	noColor    bool
	configPath string

	stdin  io.Reader // For testing; defaults to os.Stdin
	stdout io.Writer
}

type macroRow struct {
	Offset   int
	FID      string
	ViewMode string
	Alt      string
	Title    string
	Status   string
}

// NewCmdInspect creates the content inspect command.
func NewCmdInspect() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "List the media macros in stored content",
		Long: `List every distinct media macro in stored content and whether the
session can turn it into a placeholder: from its cached markup, from a known
file source, or not at all.`,
		Example: `  # Inspect against the latest session, if any
  mfl content inspect body.html

  # JSON output
  mfl content inspect body.html -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.file = args[0]
			}
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath = cmdutil.ConfigPath(cmd)
			return runInspect(cmd.Context(), opts, nil)
		},
	}

	cmd.Flags().StringVar(&opts.session, "session", "", "Session ID (default: latest session)")

	return cmd
}

func runInspect(ctx context.Context, opts *inspectOptions, st *store.Store) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := view.ValidateFormat(opts.output); err != nil {
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
	sess, _, err := cmdutil.LoadSession(ctx, sessions, opts.session, cmdutil.LatestOrNewSession, env.MediaOptions())
	if err != nil {
		return err
	}

	rows := inspectMacros(sess, content)

	renderer := newRenderer(opts.output, opts.noColor, opts.stdout, nil)
	if len(rows) == 0 && opts.output != "json" {
		renderer.RenderText("No media macros found.")
		return nil
	}

	headers := []string{"OFFSET", "FID", "VIEW MODE", "ALT", "TITLE", "STATUS"}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			strconv.Itoa(r.Offset),
			r.FID,
			r.ViewMode,
			view.Truncate(r.Alt, 30),
			view.Truncate(r.Title, 30),
			r.Status,
		})
	}
	renderer.RenderTable(headers, table)
	return nil
}

func inspectMacros(sess *media.Session, content string) []macroRow {
	var rows []macroRow
	for _, tok := range media.MediaMacros(content) {
		row := macroRow{Offset: tok.Position}

		info, err := media.ParseMacro(tok.Text)
		if err != nil {
			row.Status = statusMalformed
			rows = append(rows, row)
			continue
		}

		row.FID = string(info.FID)
		row.ViewMode = info.ViewMode
		row.Alt = info.Attributes["alt"]
		row.Title = info.Attributes["title"]

		_, cached := sess.Tags.Lookup(tok.Text)
		switch {
		case cached:
			row.Status = statusCached
		case info.FID == "":
			row.Status = statusNoFID
		case sess.HasSource(row.FID):
			row.Status = statusSource
		default:
			row.Status = statusUnknown
		}
		rows = append(rows, row)
	}
	return rows
}
