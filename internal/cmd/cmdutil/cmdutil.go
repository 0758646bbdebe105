// Package cmdutil holds the plumbing shared by mfl commands.
package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/api"
	"github.com/open-cli-collective/media-filter-cli/internal/config"
	"github.com/open-cli-collective/media-filter-cli/internal/store"
	"github.com/open-cli-collective/media-filter-cli/pkg/media"
)

const initHint = "(run 'mfl init' to configure)"

// ConfigPath returns the --config flag value or the default path.
func ConfigPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

// Env carries the dependencies of a command. Members left nil are built
// from configuration the first time they are needed.
type Env struct {
	ConfigPath string
	Client     *api.Client
	Store      *store.Store

	cfg       *config.Config
	ownsStore bool
}

// NewEnv creates an Env. Injected client and store are used as-is.
func NewEnv(configPath string, client *api.Client, st *store.Store) *Env {
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	return &Env{ConfigPath: configPath, Client: client, Store: st}
}

// Config loads the configuration once, applying environment overrides.
func (e *Env) Config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := config.LoadWithEnv(e.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w %s", err, initHint)
	}
	e.cfg = cfg
	return cfg, nil
}

// APIClient returns the injected client or one built from configuration.
func (e *Env) APIClient() (*api.Client, error) {
	if e.Client != nil {
		return e.Client, nil
	}
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w %s", err, initHint)
	}
	e.Client = api.NewClient(cfg.URL, cfg.User, cfg.APIToken)
	return e.Client, nil
}

// SessionStore returns the injected store or opens the configured one.
func (e *Env) SessionStore(ctx context.Context) (*store.Store, error) {
	if e.Store != nil {
		return e.Store, nil
	}
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.SessionDBPath())
	if err != nil {
		return nil, err
	}
	e.Store = st
	e.ownsStore = true
	return st, nil
}

// MediaOptions returns the configured media options, falling back to the
// defaults when no configuration can be read.
func (e *Env) MediaOptions() media.Options {
	cfg, err := e.Config()
	if err != nil {
		return media.DefaultOptions()
	}
	return cfg.MediaOptions()
}

// Close releases a store opened by the Env.
func (e *Env) Close() error {
	if e.ownsStore && e.Store != nil {
		return e.Store.Close()
	}
	return nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ReadInput reads content from file, from r, or from stdin when it is not a
// terminal. "-" means stdin.
func ReadInput(file string, r io.Reader) (string, error) {
	if file != "" && file != "-" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}

	if r == nil {
		if IsTerminal(os.Stdin) {
			return "", fmt.Errorf("no input: pass a file or pipe content on stdin")
		}
		r = os.Stdin
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// WriteOutput writes content to file, or to w when file is empty or "-".
func WriteOutput(file string, w io.Writer, content string) error {
	if file != "" && file != "-" {
		if err := os.WriteFile(file, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return nil
	}
	if w == nil {
		w = os.Stdout
	}
	_, err := io.WriteString(w, content)
	return err
}

// Content formats accepted by --format.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// ContentFormat resolves --format, auto-detecting from the file extension.
// Stdin defaults to HTML.
func ContentFormat(flag, file string) (string, error) {
	switch strings.ToLower(flag) {
	case "":
	case FormatHTML:
		return FormatHTML, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("invalid content format %q (valid: html, markdown)", flag)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".md", ".markdown":
		return FormatMarkdown, nil
	}
	return FormatHTML, nil
}

// Verify pings the site and turns auth failures into actionable errors.
func Verify(ctx context.Context, client *api.Client) error {
	err := client.Ping(ctx)
	if err == nil {
		return nil
	}
	switch code := api.StatusCode(err); {
	case code == 401:
		return fmt.Errorf("authentication failed - check your user and API token")
	case code == 403:
		return fmt.Errorf("access denied - check your permissions")
	case code != 0:
		return fmt.Errorf("unexpected status code: %d", code)
	}
	return fmt.Errorf("connection failed: %w", err)
}
