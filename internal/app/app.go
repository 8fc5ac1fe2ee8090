package app

import (
	"time"

	"github.com/Akashdeep-Patra/sdash/internal/common"
	"github.com/Akashdeep-Patra/sdash/internal/config"
	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/Akashdeep-Patra/sdash/internal/ui/components"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is the top-level Bubbletea model that orchestrates tabs and views.
type Model struct {
	cfg       *config.Config
	styles    ui.Styles
	keys      KeyMap
	width     int
	height    int
	activeTab common.TabID
	views     map[common.TabID]common.View
	showHelp  bool

	toast    toast
	toastSeq int
	now      func() time.Time

	// barData holds the static part of the status bar; per-frame fields are
	// filled in View.
	barData components.StatusBarData

	// viewStale tracks which views need a refresh on next switch.
	viewStale map[common.TabID]bool
}

type toast struct {
	title   string
	detail  string
	tone    common.Tone
	expires time.Time
}

// toastExpiredMsg clears the toast with the same sequence number.
type toastExpiredMsg struct{ seq int }

// statusReporter is implemented by views that contribute to the status bar.
type statusReporter interface {
	StatusInfo() (count int, busy bool)
}

// closer is implemented by views that must drop late backend results.
type closer interface {
	Close()
}

// New creates a new application model. source is "api" or "file" and
// endpoint is the base URL or data file shown in the status bar.
func New(cfg *config.Config, styles ui.Styles, source, endpoint string, views map[common.TabID]common.View) Model {
	return Model{
		cfg:       cfg,
		styles:    styles,
		keys:      DefaultKeyMap(),
		activeTab: common.TabSurveys,
		views:     views,
		now:       time.Now,
		barData:   components.StatusBarData{Source: source, Endpoint: endpoint, Surveys: -1},
		viewStale: make(map[common.TabID]bool),
	}
}

// Init initialises the active view.
func (m Model) Init() tea.Cmd {
	return m.initActiveView()
}

// Update processes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentH := m.contentHeight()
		for _, v := range m.views {
			v.SetSize(m.width, contentH)
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		// A view editing text gets every key, including the ones used for
		// tab switching below.
		if v, ok := m.views[m.activeTab]; ok && v.InputCapture() {
			updated, cmd := v.Update(msg)
			m.views[m.activeTab] = updated
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.closeViews()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refreshActive()
		case key.Matches(msg, m.keys.NextTab):
			return m, m.cycleTab(1)
		case key.Matches(msg, m.keys.PrevTab):
			return m, m.cycleTab(-1)
		case key.Matches(msg, m.keys.TabDashboard):
			return m, m.switchTo(common.TabDashboard)
		case key.Matches(msg, m.keys.TabSurveys):
			return m, m.switchTo(common.TabSurveys)
		case key.Matches(msg, m.keys.Back):
			if m.showHelp {
				m.showHelp = false
				return m, nil
			}
		}
		if m.showHelp {
			return m, nil
		}
		// Keys not handled globally go to the active view only.
		if v, ok := m.views[m.activeTab]; ok {
			updated, cmd := v.Update(msg)
			m.views[m.activeTab] = updated
			return m, cmd
		}
		return m, nil

	case common.RefreshMsg:
		// Only the active view reloads now; the others reload when shown.
		cmd := m.refreshActive()
		for id := range m.views {
			if id != m.activeTab {
				m.viewStale[id] = true
			}
		}
		return m, cmd

	case common.ToastMsg:
		return m, m.showToast(msg.Title, msg.Detail, msg.Tone)

	case common.ErrMsg:
		return m, m.showToast(msg.Err.Error(), "", common.ToneError)

	case common.InfoMsg:
		return m, m.showToast(msg.Text, "", common.ToneInfo)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = toast{}
		}
		return m, nil

	case common.SwitchTabMsg:
		return m, m.switchTo(msg.Tab)
	}

	// Everything else is a result or tick addressed to some view, which may
	// not be the active one: deliver it to all of them.
	for id, v := range m.views {
		updated, cmd := v.Update(msg)
		m.views[id] = updated
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// showToast displays a notification and schedules its removal. Errors stay
// twice as long as other toasts.
func (m *Model) showToast(title, detail string, tone common.Tone) tea.Cmd {
	d := m.cfg.ToastDuration()
	if d <= 0 {
		d = time.Duration(config.DefaultToastSeconds) * time.Second
	}
	if tone == common.ToneError {
		d *= 2
	}
	m.toastSeq++
	seq := m.toastSeq
	m.toast = toast{title: title, detail: detail, tone: tone, expires: m.now().Add(d)}
	return tea.Tick(d, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

// View renders the entire UI. This is a pure function; no I/O.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showHelp {
		sections := components.GlobalHelpEntries()
		if v, ok := m.views[m.activeTab]; ok {
			sections[m.tabName(m.activeTab)] = v.ShortHelp()
		}
		return components.RenderHelp(m.styles, "Keyboard Shortcuts", sections, m.width, m.height)
	}

	tabBar := components.RenderTabs(m.styles, m.buildTabInfos(), m.width)

	content := ""
	overlay := ""
	if v, ok := m.views[m.activeTab]; ok {
		content = v.View()
		overlay = v.Overlay()
	}
	content = lipgloss.NewStyle().Width(m.width).Height(m.contentHeight()).MaxHeight(m.contentHeight()).Render(content)

	statusBar := components.RenderStatusBar(m.styles, m.statusBarData(), m.width)

	screen := lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
	if overlay != "" {
		screen = ui.PlaceCentre(m.width, m.height, overlay)
	}
	return screen
}

func (m Model) statusBarData() components.StatusBarData {
	data := m.barData
	if v, ok := m.views[common.TabSurveys].(statusReporter); ok {
		data.Surveys, data.Busy = v.StatusInfo()
	}
	if m.toast.title != "" && m.now().Before(m.toast.expires) {
		data.Message = m.toast.title
		data.Detail = m.toast.detail
		data.IsError = m.toast.tone == common.ToneError
		data.IsOK = m.toast.tone == common.ToneSuccess
	}
	return data
}

func (m Model) contentHeight() int {
	// height - tab bar - status bar(1) - bottom padding(1)
	return max(m.height-components.TabBarRows-2, 1)
}

func (m Model) tabName(id common.TabID) string {
	for _, t := range common.AllTabs {
		if t.ID == id {
			return t.Name
		}
	}
	return ""
}

// tabIndex returns the index of the active tab in AllTabs.
func (m Model) tabIndex() int {
	for i, t := range common.AllTabs {
		if t.ID == m.activeTab {
			return i
		}
	}
	return 0
}

func (m *Model) cycleTab(delta int) tea.Cmd {
	n := len(common.AllTabs)
	next := (m.tabIndex() + delta + n) % n
	return m.switchTo(common.AllTabs[next].ID)
}

// switchTo changes the active tab, initialising the view on first show and
// refreshing it when a RefreshMsg arrived while it was hidden.
func (m *Model) switchTo(tab common.TabID) tea.Cmd {
	m.activeTab = tab
	if m.viewStale[tab] {
		delete(m.viewStale, tab)
		return tea.Batch(m.initActiveView(), m.refreshActive())
	}
	return m.initActiveView()
}

// initActiveView calls Init on the current tab to load its data.
func (m Model) initActiveView() tea.Cmd {
	if v, ok := m.views[m.activeTab]; ok {
		return v.Init()
	}
	return nil
}

// refreshActive sends a RefreshMsg to the active view.
func (m Model) refreshActive() tea.Cmd {
	v, ok := m.views[m.activeTab]
	if !ok {
		return nil
	}
	updated, cmd := v.Update(common.RefreshMsg{})
	m.views[m.activeTab] = updated
	return cmd
}

func (m Model) closeViews() {
	for _, v := range m.views {
		if c, ok := v.(closer); ok {
			c.Close()
		}
	}
}

// handleMouse processes mouse events: tab clicks, scroll wheel, and click-through.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m, nil
	}
	tabBarH := components.TabBarRows

	if msg.Y < tabBarH {
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			return m, m.cycleTab(-1)
		case msg.Button == tea.MouseButtonWheelDown:
			return m, m.cycleTab(1)
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if tab, ok := m.tabAt(msg.X); ok && tab != m.activeTab {
				return m, m.switchTo(tab)
			}
		}
		return m, nil
	}

	// Adjust Y to be relative to the content area, then forward.
	msg.Y -= tabBarH
	if v, ok := m.views[m.activeTab]; ok {
		updated, cmd := v.Update(msg)
		m.views[m.activeTab] = updated
		return m, cmd
	}
	return m, nil
}

// tabAt determines which tab was clicked given a screen X coordinate.
func (m Model) tabAt(x int) (common.TabID, bool) {
	for _, zone := range components.TabZones(m.buildTabInfos(), m.width) {
		if x >= zone.Start && x < zone.End {
			return common.AllTabs[zone.Index].ID, true
		}
	}
	return 0, false
}

func (m Model) buildTabInfos() []components.TabInfo {
	infos := make([]components.TabInfo, len(common.AllTabs))
	for i, t := range common.AllTabs {
		infos[i] = components.TabInfo{
			Name:     t.Name,
			Icon:     t.Icon,
			Shortcut: t.Shortcut,
			Active:   t.ID == m.activeTab,
		}
	}
	return infos
}
