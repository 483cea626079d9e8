package soundboard

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/chime/internal/assets"
	"github.com/zjrosen/chime/internal/ui/styles"
)

// emptyView is shown instead of the table when the sound system could not
// start.
func (m Model) emptyView() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.TextPrimaryColor)

	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextDescriptionColor).
		Width(max(m.width-4, 10)).
		Align(lipgloss.Center)

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor).
		Italic(true).
		MarginTop(2)

	var content strings.Builder
	content.WriteString(titleStyle.Render("No sounds to play"))
	content.WriteString("\n\n")
	content.WriteString(messageStyle.Render(m.err.Error()))
	content.WriteString("\n\n")

	if errors.Is(m.err, assets.ErrManifest) {
		content.WriteString(messageStyle.Render("Try one of these options:"))
		content.WriteString("\n\n")
		content.WriteString(messageStyle.Render("1. Run chime from the story directory"))
		content.WriteString("\n")
		content.WriteString(messageStyle.Render("2. Set sound.manifest or sound.asset_dir in .chime/config.yaml"))
		content.WriteString("\n")
		content.WriteString(messageStyle.Render("3. Run 'chime init --scaffold' to create a starter manifest"))
		content.WriteString("\n")
	}
	content.WriteString(hintStyle.Render("Press q to quit"))

	containerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	return containerStyle.Render(content.String())
}
