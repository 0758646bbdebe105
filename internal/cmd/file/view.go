package file

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/api"
	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/view"
)

type viewOptions struct {
	output     string
	noColor    bool
	configPath string

	stdout io.Writer
}

// NewCmdView creates the file view command.
func NewCmdView() *cobra.Command {
	opts := &viewOptions{}

	cmd := &cobra.Command{
		Use:   "view <fid>",
		Short: "Show a file and its view modes",
		Long:  `Show the details of a managed file and the view modes it can be displayed in.`,
		Example: `  # View a file
  mfl file view 5

  # As JSON
  mfl file view 5 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath = cmdutil.ConfigPath(cmd)
			return runView(cmd.Context(), args[0], opts, nil)
		},
	}

	return cmd
}

func runView(ctx context.Context, fid string, opts *viewOptions, client *api.Client) error {
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

	file, err := client.GetFile(ctx, fid)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}
	modes, err := client.ListViewModes(ctx, fid)
	if err != nil {
		return fmt.Errorf("failed to list view modes: %w", err)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}

	if opts.output == "json" {
		return renderer.RenderJSON(struct {
			*api.File
			ViewModes []api.ViewMode `json:"view_modes"`
		}{file, modes})
	}

	renderer.RenderKeyValue("FID", string(file.FID))
	renderer.RenderKeyValue("Filename", file.Filename)
	renderer.RenderKeyValue("Type", file.Type)
	renderer.RenderKeyValue("Mime", file.Mime)
	renderer.RenderKeyValue("Size", formatFileSize(file.Size))
	renderer.RenderKeyValue("URL", file.URL)
	if !file.Created.IsZero() {
		renderer.RenderKeyValue("Created", file.Created.Format("2006-01-02 15:04"))
	}

	if len(file.Attrs) > 0 {
		names := make([]string, 0, len(file.Attrs))
		for name := range file.Attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		pairs := make([]string, 0, len(names))
		for _, name := range names {
			pairs = append(pairs, name+"="+file.Attrs[name])
		}
		renderer.RenderKeyValue("Attributes", strings.Join(pairs, ", "))
	}

	renderer.RenderText("")
	if len(modes) == 0 {
		renderer.RenderText("No view modes available.")
		return nil
	}
	rows := make([][]string, 0, len(modes))
	for _, m := range modes {
		rows = append(rows, []string{m.Name, m.DisplayLabel()})
	}
	renderer.RenderTable([]string{"VIEW MODE", "LABEL"}, rows)
	return nil
}
