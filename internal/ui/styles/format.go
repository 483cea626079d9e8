package styles

import (
	"fmt"
	"strings"
)

// FormatVolume renders a volume in [0, 1] as a whole percentage.
func FormatVolume(v float64) string {
	return fmt.Sprintf("%3.0f%%", clamp01(v)*100)
}

// VolumeBar renders a volume as a fixed-width bar of filled and empty cells.
func VolumeBar(v float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(clamp01(v)*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
