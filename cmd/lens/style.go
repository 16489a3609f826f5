package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"MarketLens/internal/report"
	"MarketLens/internal/styler"
)

type styleOptions struct {
	rules string
}

func newStyleCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &styleOptions{}

	cmd := &cobra.Command{
		Use:   "style [file]",
		Short: "Color a text file with style rules",
		Long: "Color a text file (or stdin) with style rules. Rules come from --rules,\n" +
			"then styles.rules_file in the config, then the built-in report rules.\n" +
			"Malformed rules are reported and the text is printed uncolored.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStyle(cmd, rootFlags, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.rules, "rules", "r", "", "Path to a YAML or JSON rules file")

	return cmd
}

func runStyle(cmd *cobra.Command, rootFlags *rootFlags, opts *styleOptions, args []string) error {
	cfg, log, err := loadConfig(cmd, rootFlags)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	rules := report.DefaultRules
	switch {
	case opts.rules != "":
		data, err := os.ReadFile(opts.rules)
		if err != nil {
			return fmt.Errorf("read rules: %w", err)
		}
		rules = string(data)
	case cfg.Styles.RulesFile != "":
		if rules, err = cfg.StyleRules(); err != nil {
			return err
		}
	}

	// A parse error is logged by styler.New and leaves s without rules.
	s, _ := styler.New(rules, log)

	theme, err := newTheme(cmd.OutOrStdout(), rootFlags.color)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), theme.Render(text, s.Style(text)))
	return err
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
