package components

import (
	"strings"
	"unicode/utf8"

	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// TabInfo describes a single tab for rendering.
type TabInfo struct {
	Name     string
	Icon     string
	Shortcut string
	Active   bool
}

// TabZone is the half-open X range a rendered tab occupies, for mouse hits.
type TabZone struct {
	Index      int
	Start, End int
}

// TabBarRows is the number of screen rows the tab bar occupies: the tab
// row plus its underline.
const TabBarRows = 2

// safeIconWidth returns a conservative width estimate for a Unicode icon.
// Some terminals render symbols like ◆ and ≡ double-width even though
// runewidth reports 1, so any non-ASCII rune counts as 2 cells.
func safeIconWidth(icon string) int {
	w := 0
	for _, r := range icon {
		if r < 128 {
			w++
		} else {
			w += 2
		}
	}
	return w
}

// tabLabelWidth is the width of " icon Name " (or " icon " when iconOnly).
func tabLabelWidth(tab TabInfo, iconOnly bool) int {
	iw := safeIconWidth(tab.Icon)
	if iconOnly {
		return 1 + iw + 1
	}
	return 1 + iw + 1 + utf8.RuneCountInString(tab.Name) + 1
}

// iconOnly reports whether the full labels overflow width.
func iconOnly(tabs []TabInfo, width int) bool {
	w := 1
	for _, tab := range tabs {
		w += tabLabelWidth(tab, false)
	}
	return w > width
}

// TabZones returns the hit zones of tabs as RenderTabs lays them out.
func TabZones(tabs []TabInfo, width int) []TabZone {
	compact := iconOnly(tabs, width)
	zones := make([]TabZone, 0, len(tabs))
	col := 1
	for i, tab := range tabs {
		w := tabLabelWidth(tab, compact)
		zones = append(zones, TabZone{Index: i, Start: col, End: col + w})
		col += w
	}
	return zones
}

// RenderTabs renders a single-row tab bar. Labels collapse to icons when
// the terminal is too narrow. The active tab gets a bold accent underline.
func RenderTabs(styles ui.Styles, tabs []TabInfo, width int) string {
	t := styles.Theme
	compact := iconOnly(tabs, width)

	activeStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var row strings.Builder
	row.WriteByte(' ')
	activeStart, activeEnd := -1, -1
	for i, zone := range TabZones(tabs, width) {
		tab := tabs[i]
		label := tab.Icon
		if !compact {
			label += " " + tab.Name
		}
		if tab.Active {
			row.WriteString(" " + activeStyle.Render(label) + " ")
			activeStart, activeEnd = zone.Start, zone.End
		} else {
			row.WriteString(" " + inactiveStyle.Render(label) + " ")
		}
	}

	rendered := lipgloss.NewStyle().
		Width(width).
		MaxWidth(width).
		Background(t.Bg).
		Render(row.String())

	borderStyle := lipgloss.NewStyle().Foreground(t.Border)
	accentStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)

	underline := buildUnderline(width, activeStart, activeEnd, borderStyle, accentStyle)

	hint := lipgloss.NewStyle().Foreground(t.TextSubtle).Faint(true).Render("tab  ?help")
	if hintW := lipgloss.Width(hint); hintW+4 < width && activeEnd < width-hintW-1 {
		underline = buildUnderline(width-hintW-1, activeStart, activeEnd, borderStyle, accentStyle) + " " + hint
	}

	return lipgloss.JoinVertical(lipgloss.Left, rendered, lipgloss.NewStyle().Width(width).Render(underline))
}

// buildUnderline builds a width-wide underline with a bold accent segment
// over activeStart..activeEnd and thin segments elsewhere.
func buildUnderline(width, activeStart, activeEnd int, borderSt, accentSt lipgloss.Style) string {
	const thin, bold = "─", "━"
	if activeStart < 0 || activeEnd < 0 {
		return borderSt.Render(strings.Repeat(thin, max(width, 0)))
	}
	activeEnd = min(activeEnd, width)
	activeStart = min(activeStart, width)

	var b strings.Builder
	if activeStart > 0 {
		b.WriteString(borderSt.Render(strings.Repeat(thin, activeStart)))
	}
	if seg := activeEnd - activeStart; seg > 0 {
		b.WriteString(accentSt.Render(strings.Repeat(bold, seg)))
	}
	if rem := width - activeEnd; rem > 0 {
		b.WriteString(borderSt.Render(strings.Repeat(thin, rem)))
	}
	return b.String()
}
