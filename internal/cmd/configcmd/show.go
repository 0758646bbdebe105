package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/config"
)

type showOptions struct {
	noColor    bool
	configPath string

	stdout io.Writer
}

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current mfl configuration with credential source indicators.`,
		Example: `  # Show current config
  mfl config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath = cmdutil.ConfigPath(cmd)
			return runShow(opts)
		},
	}

	return cmd
}

func runShow(opts *showOptions) error {
	if opts.noColor {
		color.NoColor = true
	}
	out := opts.stdout
	if out == nil {
		out = os.Stdout
	}
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue string, envVars ...string) {
		_, _ = bold.Fprintf(out, "%-14s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(out, "-")
			return
		}

		display := value
		if strings.Contains(strings.ToLower(label), "token") {
			display = maskToken(value)
		}
		fmt.Fprint(out, display)

		source := "config"
		if fileErr != nil {
			source = "-"
		}
		for _, envVar := range envVars {
			if v := os.Getenv(envVar); v != "" && v == value {
				source = envVar
				break
			}
		}
		if fileValue != value && source == "config" {
			source = "-"
		}

		_, _ = dim.Fprintf(out, "  (source: %s)\n", source)
	}

	printField("URL", cfg.URL, fileCfg.URL, "MFL_URL", "DRUPAL_URL")
	printField("User", cfg.User, fileCfg.User, "MFL_USER", "DRUPAL_USER")
	printField("API Token", cfg.APIToken, fileCfg.APIToken, "MFL_API_TOKEN", "DRUPAL_API_TOKEN")
	printField("Session DB", cfg.SessionDB, fileCfg.SessionDB, "MFL_SESSION_DB")
	printField("Link text", boolField(cfg.Media.DoLinkText), boolField(fileCfg.Media.DoLinkText), "MFL_DO_LINK_TEXT")

	mediaOpts := cfg.MediaOptions()
	_, _ = bold.Fprintf(out, "%-14s", "Mirrored:")
	fmt.Fprintln(out, strings.Join(mediaOpts.Mirrored(), ", "))
	_, _ = bold.Fprintf(out, "%-14s", "Alt field:")
	fmt.Fprintln(out, mediaOpts.AltField)
	_, _ = bold.Fprintf(out, "%-14s", "Title field:")
	fmt.Fprintln(out, mediaOpts.TitleField)

	fmt.Fprintln(out)
	_, _ = dim.Fprintf(out, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(out, "(file not found)")
	}
	_, _ = dim.Fprintf(out, "Sessions:    %s\n", cfg.SessionDBPath())

	return nil
}

func maskToken(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

func boolField(b bool) string {
	if !b {
		return ""
	}
	return strconv.FormatBool(b)
}
