package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/preview"
	"github.com/Zachkp/portfolio/internal/resume"
	"github.com/Zachkp/portfolio/internal/sections"
)

// NewPreviewCmd creates the preview command.
func NewPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the portfolio in the terminal",
		Long: `Renders the portfolio in the terminal. Scroll with j/k or the arrow
keys; the navigation bar follows the section on screen just like the web
page does. Press c to copy the email address (OSC 52) and q to quit.`,
		Args: cobra.NoArgs,
		RunE: runPreviewCmd,
	}
	cmd.Flags().Bool("topmost", false,
		"Highlight the topmost visible section instead of the last one reported")
	return cmd
}

func runPreviewCmd(cmd *cobra.Command, _ []string) error {
	p, err := loadPortfolio(cmd)
	if err != nil {
		return err
	}
	topmost, err := cmd.Flags().GetBool("topmost")
	if err != nil {
		return err
	}
	opts := preview.Options{}
	if topmost {
		opts.Policy = sections.Topmost
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return preview.Run(ctx, p, opts)
}

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the portfolio as a Markdown resume",
		Example: `  portfolio export
  portfolio export -o dist/resume.md
  portfolio export --content me.yaml -o resume.md`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}
	cmd.Flags().StringP("output", "o", "",
		"Write to the given file instead of stdout (creates directories if needed)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	p, err := loadPortfolio(cmd)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if output == "" {
		return resume.Write(cmd.OutOrStdout(), p)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := resume.Write(f, p); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a portfolio content file",
		Long: `Loads a portfolio content file and reports every problem found:
unknown keys, missing phrases, bad timings, an invalid email, and section
ids the page cannot render. Without a file the --content flag or the
bundled portfolio is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheckCmd,
	}
}

// errInvalidContent is returned by check after the problems were printed.
var errInvalidContent = errors.New("content is invalid")

func runCheckCmd(cmd *cobra.Command, args []string) error {
	path, err := cmd.Flags().GetString("content")
	if err != nil {
		return err
	}
	if len(args) == 1 {
		path = args[0]
	}
	name := path
	if name == "" {
		name = "bundled portfolio"
	}

	p, err := content.Load(path)
	if err != nil {
		out := cmd.ErrOrStderr()
		fmt.Fprintf(out, "%s:\n", name)
		for _, problem := range splitErrors(err) {
			fmt.Fprintf(out, "  - %v\n", problem)
		}
		return errInvalidContent
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d sections, %d phrases)\n",
		name, len(p.Sections), len(p.Hero.Phrases))
	return nil
}

// splitErrors unwraps joined errors so each problem prints on its own line.
func splitErrors(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, splitErrors(e)...)
		}
		return out
	}
	return []error{err}
}
