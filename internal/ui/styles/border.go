package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Panel describes a bordered box with a title on the left of the top border
// and an optional status on the right.
type Panel struct {
	Title   string
	Status  string
	Width   int
	Height  int
	Focused bool
}

// Render draws content inside the panel. Content is clipped to the inner
// area and short lines are padded so the right border aligns.
func (p Panel) Render(content string) string {
	borderColor := lipgloss.TerminalColor(BorderDefaultColor)
	if p.Focused {
		borderColor = BorderFocusColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(true)
	statusStyle := lipgloss.NewStyle().Foreground(TextMutedColor)

	innerWidth := max(p.Width-2, 1)
	innerHeight := max(p.Height-2, 1)

	lines := strings.Split(content, "\n")
	body := make([]string, innerHeight)
	for i := range body {
		var line string
		if i < len(lines) {
			line = truncate.String(lines[i], uint(innerWidth))
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		body[i] = borderStyle.Render(borderVertical) + line + borderStyle.Render(borderVertical)
	}

	var b strings.Builder
	b.WriteString(topBorder(p.Title, p.Status, innerWidth, borderStyle, titleStyle, statusStyle))
	b.WriteString("\n")
	b.WriteString(strings.Join(body, "\n"))
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight))
	return b.String()
}

// topBorder renders ╭─ Title ───── Status ─╮, dropping the status first and
// then truncating the title when space runs out.
func topBorder(title, status string, innerWidth int, borderStyle, titleStyle, statusStyle lipgloss.Style) string {
	plain := func() string {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}
	if title == "" || innerWidth < 4 {
		return plain()
	}

	// "─ " + title + " " + dashes(>=1) + " " + status + " ─"
	if status != "" && innerWidth < lipgloss.Width(title)+lipgloss.Width(status)+7 {
		status = ""
	}
	title = TruncateString(title, innerWidth-4)

	used := 3 + lipgloss.Width(title)
	if status != "" {
		used += lipgloss.Width(status) + 3
	}
	dashes := max(innerWidth-used, 1)

	var b strings.Builder
	b.WriteString(borderStyle.Render(borderTopLeft + borderHorizontal + " "))
	b.WriteString(titleStyle.Render(title))
	b.WriteString(borderStyle.Render(" " + strings.Repeat(borderHorizontal, dashes)))
	if status != "" {
		b.WriteString(" " + statusStyle.Render(status) + " ")
		b.WriteString(borderStyle.Render(borderHorizontal))
	}
	b.WriteString(borderStyle.Render(borderTopRight))
	return b.String()
}

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return truncate.StringWithTail(s, uint(maxWidth), "...")
}
