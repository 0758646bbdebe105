package session

import (
	"context"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/store"
	"github.com/open-cli-collective/media-filter-cli/internal/view"
)

const timeFormat = "2006-01-02 15:04:05"

type listOptions struct {
	output     string
	noColor    bool
	configPath string

	stdout io.Writer
}

// NewCmdList creates the session list command.
func NewCmdList() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved sessions",
		Long:    `List saved sessions, most recently saved first.`,
		Example: `  mfl session list`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath = cmdutil.ConfigPath(cmd)
			return runList(cmd.Context(), opts, nil)
		},
	}

	return cmd
}

func runList(ctx context.Context, opts *listOptions, st *store.Store) error {
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
	records, err := sessions.List(ctx)
	if err != nil {
		return err
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}

	if opts.output == "json" {
		if records == nil {
			records = []store.Record{}
		}
		return renderer.RenderJSON(records)
	}

	if len(records) == 0 {
		renderer.RenderText("No sessions found.")
		return nil
	}

	headers := []string{"ID", "LABEL", "TAGS", "FILES", "UPDATED"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.ID,
			view.Truncate(rec.Label, 40),
			strconv.Itoa(rec.Tags),
			strconv.Itoa(rec.Files),
			rec.UpdatedAt.Local().Format(timeFormat),
		})
	}
	renderer.RenderTable(headers, rows)
	return nil
}
