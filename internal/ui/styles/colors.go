// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette used by every chime view. Adaptive colors pick the light or dark
// variant from the terminal background.
var (
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1E1E2E", Dark: "#CDD6F4"}
	TextDescriptionColor = lipgloss.AdaptiveColor{Light: "#4C4F69", Dark: "#A6ADC8"}
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#8C8FA1", Dark: "#6C7086"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#BCC0CC", Dark: "#45475A"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}

	SelectionBackgroundColor = lipgloss.AdaptiveColor{Light: "#DCE0E8", Dark: "#313244"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"}
)
