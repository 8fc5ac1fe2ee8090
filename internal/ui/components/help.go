package components

import (
	"strings"

	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// HelpEntry is a single key-description pair for the help overlay.
type HelpEntry struct {
	Key  string
	Desc string
}

// helpOrder is the section order of the help overlay. Unknown sections are
// not shown.
var helpOrder = []string{"Navigation", "Tabs", "Dashboard", "Surveys", "Form", "General"}

// RenderHelp renders a full-screen help overlay.
func RenderHelp(styles ui.Styles, title string, sections map[string][]HelpEntry, width, height int) string {
	t := styles.Theme

	titleStr := lipgloss.NewStyle().
		Foreground(t.Primary).Bold(true).
		Align(lipgloss.Center).
		Width(width - 4).
		Render(title)

	var body strings.Builder
	body.WriteString(titleStr + "\n\n")

	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Width(16).Align(lipgloss.Right)
	descStyle := lipgloss.NewStyle().Foreground(t.Text)

	for _, section := range helpOrder {
		entries, ok := sections[section]
		if !ok || len(entries) == 0 {
			continue
		}
		body.WriteString(sectionStyle.Render(section) + "\n")
		for _, e := range entries {
			body.WriteString("  " + keyStyle.Render(e.Key) + "  " + descStyle.Render(e.Desc) + "\n")
		}
		body.WriteString("\n")
	}

	overlay := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Primary).
		Padding(1, 3).
		Width(min(70, width-4)).
		MaxHeight(height - 2).
		Render(body.String())

	return ui.PlaceCentre(width, height, overlay)
}

// GlobalHelpEntries returns the help entries for global keybindings.
func GlobalHelpEntries() map[string][]HelpEntry {
	return map[string][]HelpEntry{
		"Navigation": {
			{Key: "j / ↓", Desc: "Move down"},
			{Key: "k / ↑", Desc: "Move up"},
			{Key: "g / Home", Desc: "First row"},
			{Key: "G / End", Desc: "Last row"},
			{Key: "← / →", Desc: "Previous / next page"},
			{Key: "esc", Desc: "Back / cancel"},
		},
		"Tabs": {
			{Key: "tab", Desc: "Next tab"},
			{Key: "shift+tab", Desc: "Previous tab"},
			{Key: "click on bar", Desc: "Switch tab (mouse)"},
			{Key: "alt+d", Desc: "Dashboard"},
			{Key: "alt+s", Desc: "Surveys"},
		},
		"General": {
			{Key: "r", Desc: "Refresh data"},
			{Key: "?", Desc: "Toggle this help"},
			{Key: "q / ctrl+c", Desc: "Quit"},
		},
	}
}
