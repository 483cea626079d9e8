package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/chime/internal/sfx"
	"github.com/zjrosen/chime/internal/sound"
	"github.com/zjrosen/chime/internal/ui/soundboard"
	"github.com/zjrosen/chime/internal/ui/styles"
)

var loadMarkdown bool

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the manifest and report the sound table",
	Long: `Runs the full loading pipeline (manifest, descriptors, audio) and prints
every loaded sound plus the outcome of each descriptor.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().BoolVar(&loadMarkdown, "markdown", false, "render the report as markdown")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	sys, err := startSystem(cmd.Context(), cfg.Sound, nil)
	if err != nil {
		return err
	}
	sum, err := sys.Wait(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if loadMarkdown {
		return writeMarkdownReport(out, sys, sum)
	}
	writeReport(out, sys, sum)
	return nil
}

// writeReport prints a styled table. Colors are dropped when w is not a
// terminal.
func writeReport(w io.Writer, sys *sfx.System, sum sound.Summary) {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Foreground(styles.TextPrimaryColor)
	muted := r.NewStyle().Foreground(styles.TextMutedColor)
	okStyle := r.NewStyle().Foreground(styles.StatusSuccessColor)
	errStyle := r.NewStyle().Foreground(styles.StatusErrorColor)

	fmt.Fprintln(w, header.Render(fmt.Sprintf("Sounds (%d loaded, %d failed, %s)", sum.Loaded, sum.Failed, sum.Elapsed.Round(time.Millisecond))))
	rows := soundboard.RowsFromTable(sys.Table())
	if len(rows) == 0 {
		fmt.Fprintln(w, muted.Render("  (none)"))
	}
	keyWidth := 0
	for _, row := range rows {
		keyWidth = max(keyWidth, len(row.Key))
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-*s  %s  %s\n", keyWidth, row.Key, styles.FormatVolume(row.Volume), muted.Render(row.Source))
	}
	if sum.HasClick {
		fmt.Fprintln(w, muted.Render("  default → click"))
	} else {
		fmt.Fprintln(w, errStyle.Render("  no click sound: untagged controls stay silent"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, header.Render("Descriptors"))
	for _, d := range sys.Descriptors() {
		if d.Err != nil {
			fmt.Fprintf(w, "  %s %s  %s\n", errStyle.Render("✗"), d.Location, muted.Render(d.Err.Error()))
			continue
		}
		fmt.Fprintf(w, "  %s %s  %s\n", okStyle.Render("✓"), d.Location, muted.Render(fmt.Sprintf("%d keys", len(d.Entries))))
	}
}

// markdownReport builds the report as a markdown document.
func markdownReport(sys *sfx.System, sum sound.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sounds\n\n%d loaded, %d failed in %s.\n\n", sum.Loaded, sum.Failed, sum.Elapsed.Round(time.Millisecond))

	b.WriteString("| Key | Source | Volume |\n|---|---|---|\n")
	for _, row := range soundboard.RowsFromTable(sys.Table()) {
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", row.Key, row.Source, strings.TrimSpace(styles.FormatVolume(row.Volume)))
	}
	if sum.HasClick {
		b.WriteString("\n`default` plays `click`.\n")
	} else {
		b.WriteString("\n> No `click` sound: controls without a preset stay silent.\n")
	}

	b.WriteString("\n## Descriptors\n\n| Descriptor | Result |\n|---|---|\n")
	for _, d := range sys.Descriptors() {
		result := fmt.Sprintf("%d keys", len(d.Entries))
		if d.Err != nil {
			result = "failed: " + d.Err.Error()
		}
		fmt.Fprintf(&b, "| %s | %s |\n", d.Location, result)
	}
	return b.String()
}

func writeMarkdownReport(w io.Writer, sys *sfx.System, sum sound.Summary) error {
	style := "notty"
	if out := termenv.NewOutput(w); out.ColorProfile() != termenv.Ascii {
		style = "light"
		if out.HasDarkBackground() {
			style = "dark"
		}
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(markdownReport(sys, sum))
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	_, err = io.WriteString(w, rendered)
	return err
}
