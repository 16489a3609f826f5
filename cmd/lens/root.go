package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"MarketLens/internal/config"
	"MarketLens/internal/logger"
	"MarketLens/internal/render"
)

type rootFlags struct {
	configPath string
	logLevel   string
	color      string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "lens",
		Short:         "MarketLens computes price indicators and colors text by rules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", defaultConfig, "Path to the YAML config file")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override the configured log level")
	cmd.PersistentFlags().StringVar(&flags.color, "color", "auto", "Color output: auto, always or never")

	cmd.AddCommand(newStyleCmd(flags))
	cmd.AddCommand(newSeriesCmd(flags))
	cmd.AddCommand(newDatesCmd())
	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig reads and validates the config and builds the logger it describes.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(logger.Options{
		Level:         cfg.Log.Level,
		HumanReadable: cfg.Log.Human,
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, log, nil
}

// newTheme builds a theme for w. In "auto" mode only a terminal gets color;
// lipgloss picks the profile.
func newTheme(w io.Writer, mode string) (*render.Theme, error) {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case "auto":
		if !isTerminal(w) {
			r.SetColorProfile(termenv.Ascii)
		}
	case "always":
		r.SetColorProfile(termenv.ANSI256)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	default:
		return nil, fmt.Errorf("invalid --color %q: want auto, always or never", mode)
	}
	return render.NewTheme(r), nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
