package components

import (
	"github.com/Akashdeep-Patra/sdash/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DialogResult is sent when the user answers the dialog.
type DialogResult struct {
	Confirmed bool
	Tag       string // arbitrary tag to identify which dialog this was
}

// Dialog is a modal Yes/No confirmation. Answering does not close it; the
// owner closes it once the confirmed action has resolved, so a failure can
// leave it open for a retry.
type Dialog struct {
	Title    string
	Message  string
	Tag      string
	BusyText string
	focused  int // 0 = yes, 1 = no
	busy     bool
	styles   ui.Styles
	visible  bool
}

// NewConfirmDialog creates a Yes/No confirmation dialog. Focus starts on No.
func NewConfirmDialog(styles ui.Styles, title, message, tag string) Dialog {
	return Dialog{
		Title:    title,
		Message:  message,
		Tag:      tag,
		BusyText: "Working…",
		focused:  1,
		styles:   styles,
		visible:  true,
	}
}

// Visible returns whether the dialog is showing.
func (d Dialog) Visible() bool { return d.visible }

// Busy reports whether the confirmed action is still running.
func (d Dialog) Busy() bool { return d.busy }

// SetBusy toggles the in-progress state. A busy dialog ignores input.
func (d *Dialog) SetBusy(b bool) { d.busy = b }

// Close hides the dialog.
func (d *Dialog) Close() { d.visible = false }

// Update handles key events for the dialog.
func (d Dialog) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	if !d.visible || d.busy {
		return d, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	tag := d.Tag
	switch keyMsg.String() {
	case "esc", "n", "N":
		return d, func() tea.Msg { return DialogResult{Tag: tag} }
	case "y", "Y":
		return d, func() tea.Msg { return DialogResult{Confirmed: true, Tag: tag} }
	case "enter":
		confirmed := d.focused == 0
		return d, func() tea.Msg { return DialogResult{Confirmed: confirmed, Tag: tag} }
	case "tab", "left", "right", "h", "l":
		d.focused = 1 - d.focused
	}
	return d, nil
}

// View renders the dialog.
func (d Dialog) View() string {
	if !d.visible {
		return ""
	}
	t := d.styles.Theme

	title := lipgloss.NewStyle().Foreground(t.Text).Bold(true).Render(d.Title)
	message := lipgloss.NewStyle().Foreground(t.TextMuted).Width(48).Render(d.Message)

	var footer string
	if d.busy {
		footer = lipgloss.NewStyle().Foreground(t.Warning).Render(d.BusyText)
	} else {
		yes := "  Yes  "
		no := "  No   "
		activeBtn := lipgloss.NewStyle().Foreground(t.TextInverse).Background(t.Error).Bold(true)
		inactiveBtn := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		if d.focused == 0 {
			yes = activeBtn.Render(yes)
			no = inactiveBtn.Render(no)
		} else {
			yes = inactiveBtn.Render(yes)
			no = activeBtn.Render(no)
		}
		footer = lipgloss.JoinHorizontal(lipgloss.Top, yes, "  ", no)
	}
	content := title + "\n\n" + message + "\n\n" + footer

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Error).
		Padding(1, 3).
		Width(56).
		Render(content)
}
