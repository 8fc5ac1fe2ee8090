package ui

import (
	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"github.com/charmbracelet/lipgloss"
)

// Theme holds all colours for the application.
type Theme struct {
	Bg            lipgloss.Color
	Surface       lipgloss.Color
	SurfaceHover  lipgloss.Color
	Border        lipgloss.Color
	BorderFocused lipgloss.Color

	Text        lipgloss.Color
	TextMuted   lipgloss.Color
	TextSubtle  lipgloss.Color
	TextInverse lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	StatusActive lipgloss.Color
	StatusDraft  lipgloss.Color
	StatusClosed lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// ChartColors colour distribution bars in order.
	ChartColors []lipgloss.Color
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Bg:            lipgloss.Color("#1e1e2e"),
		Surface:       lipgloss.Color("#282840"),
		SurfaceHover:  lipgloss.Color("#313152"),
		Border:        lipgloss.Color("#3b3b5c"),
		BorderFocused: lipgloss.Color("#f5a3b8"),

		Text:        lipgloss.Color("#cdd6f4"),
		TextMuted:   lipgloss.Color("#9399b2"),
		TextSubtle:  lipgloss.Color("#6c7086"),
		TextInverse: lipgloss.Color("#1e1e2e"),

		Primary:   lipgloss.Color("#f5a3b8"),
		Secondary: lipgloss.Color("#cba6f7"),
		Accent:    lipgloss.Color("#89b4fa"),

		StatusActive: lipgloss.Color("#89b4fa"),
		StatusDraft:  lipgloss.Color("#9399b2"),
		StatusClosed: lipgloss.Color("#f38ba8"),

		Success: lipgloss.Color("#a6e3a1"),
		Warning: lipgloss.Color("#f9e2af"),
		Error:   lipgloss.Color("#f38ba8"),
		Info:    lipgloss.Color("#89b4fa"),

		ChartColors: []lipgloss.Color{
			"#f5a3b8", "#cba6f7", "#89b4fa", "#a6e3a1", "#6c7086",
		},
	}
}

// LightTheme returns a light variant for bright terminals.
func LightTheme() Theme {
	t := DarkTheme()
	t.Bg = lipgloss.Color("#eff1f5")
	t.Surface = lipgloss.Color("#e6e9ef")
	t.SurfaceHover = lipgloss.Color("#dce0e8")
	t.Border = lipgloss.Color("#bcc0cc")
	t.Text = lipgloss.Color("#4c4f69")
	t.TextMuted = lipgloss.Color("#6c6f85")
	t.TextSubtle = lipgloss.Color("#8c8fa1")
	t.TextInverse = lipgloss.Color("#eff1f5")
	t.Primary = lipgloss.Color("#d20f39")
	t.BorderFocused = t.Primary
	t.StatusActive = lipgloss.Color("#1e66f5")
	t.StatusDraft = lipgloss.Color("#6c6f85")
	t.StatusClosed = lipgloss.Color("#d20f39")
	return t
}

// Styles holds pre-computed lipgloss styles derived from a Theme.
type Styles struct {
	Theme Theme

	// Layout
	TabBar    lipgloss.Style
	StatusBar lipgloss.Style

	// Panels
	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	PanelTitle   lipgloss.Style

	// List items
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	KeyBind  lipgloss.Style
	KeyDesc  lipgloss.Style
	ErrorMsg lipgloss.Style

	// Table
	TableHeader lipgloss.Style
	SortMarker  lipgloss.Style

	Spinner lipgloss.Style
}

// NewStyles builds all styles from the given theme.
func NewStyles(t Theme) Styles {
	s := Styles{Theme: t}

	s.TabBar = lipgloss.NewStyle().Padding(0, 1).Background(t.Surface)
	s.StatusBar = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Padding(0, 1)

	s.Panel = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1)
	s.PanelFocused = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderFocused).Padding(0, 1)
	s.PanelTitle = lipgloss.NewStyle().Foreground(t.Text).Bold(true)

	s.ListItem = lipgloss.NewStyle().Foreground(t.Text)
	s.ListSelected = lipgloss.NewStyle().Foreground(t.Text).Background(t.SurfaceHover).Bold(true)

	s.Title = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	s.Subtitle = lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	s.Body = lipgloss.NewStyle().Foreground(t.Text)
	s.Muted = lipgloss.NewStyle().Foreground(t.TextMuted)
	s.Bold = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	s.KeyBind = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	s.KeyDesc = lipgloss.NewStyle().Foreground(t.TextMuted)
	s.ErrorMsg = lipgloss.NewStyle().Foreground(t.Error)

	s.TableHeader = lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	s.SortMarker = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)

	s.Spinner = lipgloss.NewStyle().Foreground(t.Primary)

	return s
}

// StatusColor is the badge colour of a survey status. Unknown statuses
// render like Draft.
func (s Styles) StatusColor(st survey.Status) lipgloss.Color {
	switch st {
	case survey.StatusActive:
		return s.Theme.StatusActive
	case survey.StatusClosed:
		return s.Theme.StatusClosed
	}
	return s.Theme.StatusDraft
}

// DefaultStyles returns styles using the dark theme.
func DefaultStyles() Styles {
	return NewStyles(DarkTheme())
}

// StylesFor returns styles for a theme name ("dark" or "light").
func StylesFor(name string) Styles {
	if name == "light" {
		return NewStyles(LightTheme())
	}
	return DefaultStyles()
}
