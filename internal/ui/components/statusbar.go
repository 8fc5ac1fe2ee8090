package components

import (
	"fmt"
	"strings"

	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// StatusBarData carries the info displayed in the bottom status bar.
type StatusBarData struct {
	Source   string // "api" or "file"
	Endpoint string
	Surveys  int  // records loaded in the table, -1 when unknown
	Busy     bool // a backend call is in flight
	Message  string
	Detail   string
	IsError  bool
	IsOK     bool
}

// RenderStatusBar renders the bottom status bar with visual sections
// separated by dim vertical bars.
//
// Wide (>= 60):   API  │  42 surveys  │  ⟳            http://localhost:8000
// Narrow (< 60):  API  │  42 surveys
//
// A toast replaces the right section while it is showing.
func RenderStatusBar(styles ui.Styles, data StatusBarData, width int) string {
	t := styles.Theme

	sepStyle := lipgloss.NewStyle().Foreground(t.Border).Faint(true)
	sep := sepStyle.Render(" │ ")

	// ── Left sections ────────────────────────────────────────────

	source := strings.ToUpper(data.Source)
	if source == "" {
		source = "API"
	}
	left := " " + lipgloss.NewStyle().
		Foreground(t.TextInverse).
		Background(t.Secondary).
		Bold(true).
		Padding(0, 1).
		Render(source)

	if data.Surveys >= 0 {
		noun := "surveys"
		if data.Surveys == 1 {
			noun = "survey"
		}
		left += sep + lipgloss.NewStyle().Foreground(t.Text).
			Render(fmt.Sprintf("%s %s", ui.FormatCount(data.Surveys), noun))
	}
	if data.Busy {
		left += sep + lipgloss.NewStyle().Foreground(t.Warning).Render("⟳ saving")
	}

	// ── Right section ────────────────────────────────────────────

	var right string
	switch {
	case data.Message != "":
		fg := t.Info
		switch {
		case data.IsError:
			fg = t.Error
		case data.IsOK:
			fg = t.Success
		}
		msg := lipgloss.NewStyle().Foreground(fg).Bold(true).Render(data.Message)
		if data.Detail != "" && width >= 80 {
			msg += " " + lipgloss.NewStyle().Foreground(t.TextMuted).Render(data.Detail)
		}
		right = msg + " "
	case width >= 60 && data.Endpoint != "":
		right = lipgloss.NewStyle().Foreground(t.TextSubtle).Render(data.Endpoint) + " "
	}

	// ── Assemble ─────────────────────────────────────────────────

	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	gap := width - leftW - rightW
	if gap < 0 {
		avail := width - leftW - 2
		if avail > 4 && data.Message != "" {
			right = ui.Truncate(data.Message, avail) + " "
			gap = width - leftW - lipgloss.Width(right)
		} else {
			gap = 1
			right = ""
		}
	}

	content := left + strings.Repeat(" ", max(gap, 1)) + right

	return styles.StatusBar.Width(width).Render(content)
}
