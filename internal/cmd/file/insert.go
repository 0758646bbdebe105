package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/api"
	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/store"
	"github.com/open-cli-collective/media-filter-cli/internal/view"
	"github.com/open-cli-collective/media-filter-cli/pkg/media"
)

type insertOptions struct {
	viewMode    string
	session     string
	linkText    string
	output      string
	noColor     bool
	configPath  string
	interactive bool

	stdout io.Writer
	stderr io.Writer
}

type insertion struct {
	Session  string `json:"session"`
	FID      string `json:"fid"`
	ViewMode string `json:"view_mode"`
	Macro    string `json:"macro"`
	Markup   string `json:"markup"`
}

// pickViewMode asks which view mode to insert the file in.
var pickViewMode = func(file *api.File, modes []api.ViewMode) (string, error) {
	options := make([]huh.Option[string], 0, len(modes))
	for _, m := range modes {
		options = append(options, huh.NewOption(m.DisplayLabel(), m.Name))
	}

	choice := modes[0].Name
	err := huh.NewSelect[string]().
		Title(fmt.Sprintf("Display %s as", file.Filename)).
		Options(options...).
		Value(&choice).
		Run()
	return choice, err
}

// NewCmdInsert creates the file insert command.
func NewCmdInsert() *cobra.Command {
	opts := &insertOptions{}

	cmd := &cobra.Command{
		Use:   "insert <fid>",
		Short: "Print the editor placeholder for a file",
		Long: `Render a managed file in a view mode and print the placeholder element
to paste into editor content. The embed is recorded in a session, by default
the most recently saved one, so that a later detach turns it into a macro.

Without --view-mode the view mode is picked interactively on a terminal, and
otherwise the first one the site offers is used.`,
		Example: `  # Insert file 5, choosing the view mode
  mfl file insert 5

  # Insert as a teaser into a given session
  mfl file insert 5 --view-mode teaser --session 01HQ3Z6V8N2M0K4W7T9X5B1C3D

  # Insert as a link around selected text
  mfl file insert 12 --view-mode default --link-text "the annual report"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath = cmdutil.ConfigPath(cmd)
			opts.interactive = cmdutil.IsTerminal(os.Stdin) && cmdutil.IsTerminal(os.Stdout)
			return runInsert(cmd.Context(), args[0], opts, nil, nil)
		},
	}

	cmd.Flags().StringVarP(&opts.viewMode, "view-mode", "m", "", "View mode to render the file in")
	cmd.Flags().StringVar(&opts.session, "session", "", "Session ID (default: latest session, or a new one)")
	cmd.Flags().StringVar(&opts.linkText, "link-text", "", "Text the embed links from")

	return cmd
}

func runInsert(ctx context.Context, fid string, opts *insertOptions, client *api.Client, st *store.Store) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	env := cmdutil.NewEnv(opts.configPath, client, st)
	defer func() { _ = env.Close() }()

	client, err := env.APIClient()
	if err != nil {
		return err
	}

	file, err := client.GetFile(ctx, fid)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	mode := opts.viewMode
	if mode == "" {
		modes, err := client.ListViewModes(ctx, fid)
		if err != nil {
			return fmt.Errorf("failed to list view modes: %w", err)
		}
		switch {
		case len(modes) == 0:
		case opts.interactive && len(modes) > 1:
			if mode, err = pickViewMode(file, modes); err != nil {
				return err
			}
		default:
			mode = modes[0].Name
		}
	}

	formatted, err := client.GetFormattedMedia(ctx, fid, mode)
	if err != nil {
		return fmt.Errorf("failed to format file: %w", err)
	}
	if formatted.Type != "" {
		mode = formatted.Type
	}

	sessions, err := env.SessionStore(ctx)
	if err != nil {
		return err
	}
	sess, id, err := cmdutil.LoadSession(ctx, sessions, opts.session, cmdutil.LatestOrNewSession, env.MediaOptions())
	if err != nil {
		return err
	}

	info := media.FileInfo{
		Type:       media.TypeMedia,
		FID:        file.FID,
		ViewMode:   mode,
		Fields:     formatted.Options,
		Attributes: media.Attributes(file.Attrs),
	}
	if info.FID == "" {
		info.FID = media.FID(fid)
	}
	if info.Attributes == nil {
		info.Attributes = media.Attributes{}
	}
	if opts.linkText != "" {
		info.LinkText = media.NewLinkText(opts.linkText)
	}

	markup, err := sess.Insert(formatted.HTML, info)
	if err != nil {
		return fmt.Errorf("failed to build placeholder: %w", err)
	}
	macro := sess.RestoreTokens(markup).Content

	if err := sessions.Save(ctx, id, "", sess); err != nil {
		return err
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}
	if opts.stderr != nil {
		renderer.SetErrWriter(opts.stderr)
	}

	if opts.output == "json" {
		return renderer.RenderJSON(insertion{
			Session:  id,
			FID:      string(info.FID),
			ViewMode: mode,
			Macro:    macro,
			Markup:   markup,
		})
	}

	renderer.RenderText(markup)
	renderer.Info(fmt.Sprintf("session %s: %s", id, macro))
	return nil
}
