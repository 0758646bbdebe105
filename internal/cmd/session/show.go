package session

import (
	"context"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/store"
	"github.com/open-cli-collective/media-filter-cli/internal/view"
)

type showOptions struct {
	output     string
	noColor    bool
	configPath string

	stdout io.Writer
}

type fileSummary struct {
	FID      string `json:"fid"`
	ViewMode string `json:"view_mode,omitempty"`
	Embeds   int    `json:"embeds"`
	Source   string `json:"source,omitempty"`
}

// NewCmdShow creates the session show command.
func NewCmdShow() *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show [session-id]",
		Short: "Show a saved session",
		Long:  `Show a saved session and the files it knows about. Without an ID the latest session is shown.`,
		Example: `  # Show the latest session
  mfl session show

  # Show a given session as JSON
  mfl session show 01HQ3Z6V8N2M0K4W7T9X5B1C3D -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath = cmdutil.ConfigPath(cmd)
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			return runShow(cmd.Context(), id, opts, nil)
		},
	}

	return cmd
}

func runShow(ctx context.Context, id string, opts *showOptions, st *store.Store) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	env := cmdutil.NewEnv(opts.configPath, nil, st)
	defer func() { _ = env.Close() }()

	sessions, err := env.SessionStore(ctx)
	if err != nil {
		return err
	}
	sess, id, err := cmdutil.LoadSession(ctx, sessions, id, cmdutil.LatestSession, env.MediaOptions())
	if err != nil {
		return err
	}
	rec, err := sessions.Get(ctx, id)
	if err != nil {
		return err
	}

	fids := make([]string, 0, len(sess.Data))
	for fid := range sess.Data {
		fids = append(fids, fid)
	}
	sort.Slice(fids, func(i, j int) bool {
		a, errA := strconv.Atoi(fids[i])
		b, errB := strconv.Atoi(fids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return fids[i] < fids[j]
	})

	files := make([]fileSummary, 0, len(fids))
	for _, fid := range fids {
		entry, _ := sess.Entry(fid)
		summary := fileSummary{FID: fid}
		if entry != nil {
			summary.ViewMode = entry.ViewMode
			summary.Embeds = len(entry.FieldDeltas)
		}
		if src, ok := sess.Sources[fid]; ok {
			summary.Source = src.TagName
			if src.Src != "" {
				summary.Source += " " + src.Src
			}
		}
		files = append(files, summary)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}

	if opts.output == "json" {
		return renderer.RenderJSON(struct {
			*store.Record
			MaxDelta int           `json:"max_delta"`
			FileList []fileSummary `json:"file_list"`
		}{rec, sess.Deltas.Max(), files})
	}

	renderer.RenderKeyValue("ID", rec.ID)
	if rec.Label != "" {
		renderer.RenderKeyValue("Label", rec.Label)
	}
	renderer.RenderKeyValue("Created", rec.CreatedAt.Local().Format(timeFormat))
	renderer.RenderKeyValue("Updated", rec.UpdatedAt.Local().Format(timeFormat))
	renderer.RenderKeyValue("Cached tags", strconv.Itoa(rec.Tags))
	renderer.RenderKeyValue("Highest delta", strconv.Itoa(sess.Deltas.Max()))

	if len(files) == 0 {
		return nil
	}
	renderer.RenderText("")
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f.FID, f.ViewMode, strconv.Itoa(f.Embeds), f.Source})
	}
	renderer.RenderTable([]string{"FID", "VIEW MODE", "EMBEDS", "SOURCE"}, rows)
	return nil
}
