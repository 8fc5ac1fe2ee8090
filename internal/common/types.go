package common

import (
	"github.com/Akashdeep-Patra/sdash/internal/ui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// ── Tab identifiers ─────────────────────────────────────────────────────────

// TabID identifies which view/tab is active.
type TabID int

const (
	TabDashboard TabID = iota
	TabSurveys
)

// TabMeta describes a tab for display purposes.
type TabMeta struct {
	ID       TabID
	Name     string // Display name shown in the tab bar.
	Icon     string
	Shortcut string // Alt+key shortcut hint.
}

// AllTabs is the ordered list of all tabs.
var AllTabs = []TabMeta{
	{TabDashboard, "Dashboard", "◆", "d"},
	{TabSurveys, "Surveys", "≡", "s"},
}

// ── Custom messages ─────────────────────────────────────────────────────────

// RefreshMsg signals views to reload data.
type RefreshMsg struct{}

// ErrMsg carries an error to be displayed.
type ErrMsg struct{ Err error }

// InfoMsg carries an informational message.
type InfoMsg struct{ Text string }

// Tone selects the colour of a toast.
type Tone int

const (
	ToneInfo Tone = iota
	ToneSuccess
	ToneError
)

// ToastMsg is a titled notification shown in the status bar.
type ToastMsg struct {
	Title  string
	Detail string
	Tone   Tone
}

// SwitchTabMsg requests a tab switch.
type SwitchTabMsg struct{ Tab TabID }

// CmdRefresh returns a RefreshMsg (use as return from tea.Cmd).
func CmdRefresh() tea.Msg { return RefreshMsg{} }

// CmdErr creates a tea.Cmd that sends an ErrMsg.
func CmdErr(err error) tea.Cmd {
	return func() tea.Msg { return ErrMsg{Err: err} }
}

// CmdInfo creates a tea.Cmd that sends an InfoMsg.
func CmdInfo(text string) tea.Cmd {
	return func() tea.Msg { return InfoMsg{Text: text} }
}

// CmdToast creates a tea.Cmd that sends a ToastMsg.
func CmdToast(title, detail string, tone Tone) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Title: title, Detail: detail, Tone: tone} }
}

// ── View interface ──────────────────────────────────────────────────────────

// View is the interface every tab view must implement.
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	SetSize(width, height int)
	ShortHelp() []components.HelpEntry

	// InputCapture returns true when the view is in a text-input mode
	// (search, form editing, confirmation) and wants every key instead of
	// letting the app handle them for tab switching.
	InputCapture() bool

	// Overlay returns a modal to draw centred over the whole screen, or "".
	Overlay() string
}
