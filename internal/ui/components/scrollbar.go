package components

import (
	"strings"

	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar returns a vertical track of the given height whose thumb
// shows which slice [offset, offset+visible) of total rows is on screen.
// It returns "" when everything fits.
func RenderScrollbar(styles ui.Styles, height, total, visible, offset int) string {
	if total <= visible || height < 1 || visible < 1 {
		return ""
	}

	t := styles.Theme

	thumbSize := max(1, min(height, height*visible/total))

	maxOffset := height - thumbSize
	thumbStart := 0
	if span := total - visible; span > 0 {
		thumbStart = maxOffset * min(max(offset, 0), span) / span
	}

	thumbStyle := lipgloss.NewStyle().Foreground(t.Primary)
	trackStyle := lipgloss.NewStyle().Foreground(t.Border)

	var b strings.Builder
	b.Grow(height * 4)
	for i := range height {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i >= thumbStart && i < thumbStart+thumbSize {
			b.WriteString(thumbStyle.Render("█"))
		} else {
			b.WriteString(trackStyle.Render("░"))
		}
	}
	return b.String()
}
