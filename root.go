package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Single-page portfolio with a live typewriter and section tracking",
		Long: `portfolio serves a single-page portfolio. Each open page gets a live
session on the server that runs the hero typewriter and tracks which
section is on screen, pushing the result to the browser over SSE.

The same page can be previewed in a terminal, exported as a Markdown
resume, or checked for content mistakes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "",
		"Config file (default: config.yaml in the XDG config dir or the working directory)")
	cmd.PersistentFlags().String("content", "",
		"Portfolio content file (default: the bundled portfolio)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewPreviewCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewCheckCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSettings reads the config file and applies the --content override.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("content") {
		cfg.Content.Path, _ = cmd.Flags().GetString("content")
	}
	return cfg, nil
}

// loadPortfolio reads the content named by --content, or the bundled one.
// It does not need a config file.
func loadPortfolio(cmd *cobra.Command) (*content.Portfolio, error) {
	path, err := cmd.Flags().GetString("content")
	if err != nil {
		return nil, err
	}
	p, err := content.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return p, nil
}
