package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/api"
	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/view"
)

type listOptions struct {
	limit      int
	cursor     string
	fileType   string
	output     string
	noColor    bool
	configPath string

	stdout io.Writer
	stderr io.Writer
}

// NewCmdList creates the file list command.
func NewCmdList() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List managed files",
		Long:    `List the site's managed files, newest first.`,
		Example: `  # List files
  mfl file list

  # Only images, 50 at a time
  mfl file list --type image --limit 50

  # Continue from a previous page
  mfl file list --cursor abc`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath = cmdutil.ConfigPath(cmd)
			return runList(cmd.Context(), opts, nil)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 25, "Maximum number of files to return")
	cmd.Flags().StringVar(&opts.cursor, "cursor", "", "Pagination cursor from a previous listing")
	cmd.Flags().StringVarP(&opts.fileType, "type", "t", "", "Only files of this type (image, document, ...)")

	return cmd
}

func runList(ctx context.Context, opts *listOptions, client *api.Client) error {
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

	result, err := client.ListFiles(ctx, &api.ListFilesOptions{
		Limit:  opts.limit,
		Cursor: opts.cursor,
		Type:   opts.fileType,
	})
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}

	if len(result.Results) == 0 && opts.output != "json" {
		renderer.RenderText("No files found.")
		return nil
	}

	headers := []string{"FID", "Filename", "Type", "Mime", "Size", "Created"}
	var rows [][]string
	for _, f := range result.Results {
		created := ""
		if !f.Created.IsZero() {
			created = f.Created.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			string(f.FID),
			view.Truncate(f.Filename, 40),
			f.Type,
			f.Mime,
			formatFileSize(f.Size),
			created,
		})
	}

	renderer.RenderList(headers, rows, result.HasMore())

	if result.HasMore() && opts.output != "json" {
		stderr := opts.stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		fmt.Fprintf(stderr, "\n(showing first %d results, use --limit or --cursor to see more)\n", len(result.Results))
	}

	return nil
}

func formatFileSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
