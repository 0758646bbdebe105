// Package init provides the init command for mfl.
package init

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/api"
	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/config"
)

const verifyTimeout = 10 * time.Second

type initOptions struct {
	url        string
	user       string
	noVerify   bool
	configPath string

	stdout io.Writer
}

// runForm fills cfg interactively. Replaced in tests.
var runForm = func(cfg *config.Config) error {
	return newForm(cfg).Run()
}

// confirmOverwrite asks before replacing an existing file. Replaced in tests.
var confirmOverwrite = func(path string) (bool, error) {
	var overwrite bool
	err := huh.NewConfirm().
		Title("Configuration already exists").
		Description(fmt.Sprintf("Overwrite %s?", path)).
		Value(&overwrite).
		Run()
	return overwrite, err
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize mfl configuration",
		Long: `Initialize mfl with the credentials of your site's file-display service.

This command will guide you through setting up the site URL, your user name,
and an API token. The configuration will be saved to ~/.config/mfl/config.yml.
Sessions are stored in ~/.local/share/mfl/sessions.db unless you choose
another location.`,
		Example: `  # Interactive setup
  mfl init

  # Pre-populate URL
  mfl init --url https://cms.example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath = cmdutil.ConfigPath(cmd)
			return runInit(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "Site URL (e.g., https://cms.example.com)")
	cmd.Flags().StringVar(&opts.user, "user", "", "Your site user name")
	cmd.Flags().BoolVar(&opts.noVerify, "no-verify", false, "Skip connection verification")

	return cmd
}

func newForm(cfg *config.Config) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Site URL").
				Description("The site that serves the file-display API").
				Placeholder("https://cms.example.com").
				Value(&cfg.URL).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("URL is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("User").
				Description("Your site user name").
				Value(&cfg.User).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("user is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("API Token").
				Description("Generate one on your user profile page").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.APIToken).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("API token is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Session database (optional)").
				Description("Where editing sessions are kept").
				Placeholder(config.DefaultSessionDBPath()).
				Value(&cfg.SessionDB),
		),
	)
}

func runInit(ctx context.Context, opts *initOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := opts.stdout
	if out == nil {
		out = os.Stdout
	}
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := confirmOverwrite(configPath)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{URL: opts.url, User: opts.user}
	if err := runForm(cfg); err != nil {
		return err
	}

	cfg.NormalizeURL()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !opts.noVerify {
		fmt.Fprint(out, "Verifying connection... ")
		if err := verifyConnection(ctx, cfg); err != nil {
			fmt.Fprintln(out, "failed!")
			return fmt.Errorf("connection verification failed: %w", err)
		}
		fmt.Fprintln(out, "success!")
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(out, "\nYou're all set! Try running:")
	fmt.Fprintln(out, "  mfl file list")
	fmt.Fprintln(out, "  mfl content attach body.html")

	return nil
}

func verifyConnection(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()
	return cmdutil.Verify(ctx, api.NewClient(cfg.URL, cfg.User, cfg.APIToken))
}
