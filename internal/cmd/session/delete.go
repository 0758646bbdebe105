package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/store"
	"github.com/open-cli-collective/media-filter-cli/internal/view"
)

type deleteOptions struct {
	force      bool
	output     string
	noColor    bool
	configPath string

	stdin  io.Reader // injectable for testing
	stdout io.Writer
}

// NewCmdDelete creates the session delete command.
func NewCmdDelete() *cobra.Command {
	opts := &deleteOptions{}

	cmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a saved session",
		Long:  `Delete a saved session. Content attached in it can no longer be detached with its cached markup.`,
		Example: `  # Delete a session
  mfl session delete 01HQ3Z6V8N2M0K4W7T9X5B1C3D

  # Delete without confirmation
  mfl session delete 01HQ3Z6V8N2M0K4W7T9X5B1C3D --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath = cmdutil.ConfigPath(cmd)
			opts.stdin = os.Stdin
			return runDelete(cmd.Context(), args[0], opts, nil)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runDelete(ctx context.Context, id string, opts *deleteOptions, st *store.Store) error {
	if ctx == nil {
		ctx = context.Background()
	}

	env := cmdutil.NewEnv(opts.configPath, nil, st)
	defer func() { _ = env.Close() }()

	sessions, err := env.SessionStore(ctx)
	if err != nil {
		return err
	}
	rec, err := sessions.Get(ctx, id)
	if err != nil {
		return err
	}

	stdout := opts.stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(stdout)

	if !opts.force {
		label := rec.Label
		if label == "" {
			label = "unlabeled"
		}
		fmt.Fprintf(stdout, "About to delete session: %s (%s, %d tags)\n", rec.ID, label, rec.Tags)
		fmt.Fprint(stdout, "Are you sure? [y/N]: ")

		stdin := opts.stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		scanner := bufio.NewScanner(stdin)
		var confirm string
		if scanner.Scan() {
			confirm = scanner.Text()
		}

		if confirm != "y" && confirm != "Y" {
			fmt.Fprintln(stdout, "Deletion cancelled.")
			return nil
		}
	}

	if err := sessions.Delete(ctx, id); err != nil {
		return err
	}

	if opts.output == "json" {
		return renderer.RenderJSON(map[string]string{
			"status":     "deleted",
			"session_id": id,
		})
	}

	renderer.Success(fmt.Sprintf("Deleted session: %s", id))
	return nil
}
