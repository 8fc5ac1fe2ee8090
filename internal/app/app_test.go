package app

import (
	"testing"
	"time"

	"github.com/Akashdeep-Patra/sdash/internal/common"
	"github.com/Akashdeep-Patra/sdash/internal/config"
	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/Akashdeep-Patra/sdash/internal/ui/components"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubView struct {
	name     string
	capture  bool
	overlay  string
	inits    int
	refresh  int
	received []tea.Msg
	closed   bool
}

func (s *stubView) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubView) Update(msg tea.Msg) (common.View, tea.Cmd) {
	if _, ok := msg.(common.RefreshMsg); ok {
		s.refresh++
	}
	s.received = append(s.received, msg)
	return s, nil
}

func (s *stubView) View() string { return s.name + " content" }
func (s *stubView) SetSize(int, int) {}
func (s *stubView) ShortHelp() []components.HelpEntry { return nil }
func (s *stubView) InputCapture() bool { return s.capture }
func (s *stubView) Overlay() string { return s.overlay }
func (s *stubView) Close() { s.closed = true }
func (s *stubView) StatusInfo() (count int, busy bool) { return 7, false }

type customMsg struct{}

func newModel(t *testing.T) (Model, *stubView, *stubView) {
	t.Helper()
	dash := &stubView{name: "dashboard"}
	surveys := &stubView{name: "surveys"}
	cfg := &config.Config{ToastSeconds: 3}
	m := New(cfg, ui.DefaultStyles(), "file", "surveys.json", map[common.TabID]common.View{
		common.TabDashboard: dash,
		common.TabSurveys:   surveys,
	})
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), dash, surveys
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestStartsOnSurveys(t *testing.T) {
	m, _, surveys := newModel(t)
	m.Init()
	assert.Equal(t, common.TabSurveys, m.activeTab)
	assert.Equal(t, 1, surveys.inits)
	assert.Contains(t, m.View(), "surveys content")
	assert.Contains(t, m.View(), "7 surveys")
}

func TestTabSwitching(t *testing.T) {
	m, dash, _ := newModel(t)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d"), Alt: true})
	assert.Equal(t, common.TabDashboard, m.activeTab)
	assert.Equal(t, 1, dash.inits)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, common.TabSurveys, m.activeTab)
	m, _ = step(t, m, common.SwitchTabMsg{Tab: common.TabDashboard})
	assert.Equal(t, common.TabDashboard, m.activeTab)
}

func TestInputCaptureGetsGlobalKeys(t *testing.T) {
	m, _, surveys := newModel(t)
	surveys.capture = true

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Nil(t, cmd, "q is typed, not quit")
	assert.Equal(t, common.TabSurveys, m.activeTab)
	require.NotEmpty(t, surveys.received)
	assert.Equal(t, "q", surveys.received[len(surveys.received)-1].(tea.KeyMsg).String())
	assert.False(t, surveys.closed)
}

func TestQuitClosesViews(t *testing.T) {
	m, dash, surveys := newModel(t)
	_, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, dash.closed)
	assert.True(t, surveys.closed)
}

func TestRefreshMarksHiddenViewsStale(t *testing.T) {
	m, dash, surveys := newModel(t)

	m, _ = step(t, m, common.RefreshMsg{})
	assert.Equal(t, 1, surveys.refresh)
	assert.Equal(t, 0, dash.refresh)

	m, _ = step(t, m, common.SwitchTabMsg{Tab: common.TabDashboard})
	assert.Equal(t, 1, dash.refresh, "stale view refreshes when shown")

	m, _ = step(t, m, common.SwitchTabMsg{Tab: common.TabSurveys})
	_, _ = step(t, m, common.SwitchTabMsg{Tab: common.TabDashboard})
	assert.Equal(t, 1, dash.refresh)
}

func TestResultsReachInactiveViews(t *testing.T) {
	m, dash, surveys := newModel(t)
	_, _ = step(t, m, customMsg{})
	assert.Contains(t, dash.received, tea.Msg(customMsg{}))
	assert.Contains(t, surveys.received, tea.Msg(customMsg{}))
}

func TestToastExpiry(t *testing.T) {
	m, _, _ := newModel(t)

	m, cmd := step(t, m, common.ToastMsg{Title: "Survey created", Tone: common.ToneSuccess})
	require.NotNil(t, cmd)
	first := m.toastSeq
	assert.Equal(t, m.now().Add(3*time.Second), m.toast.expires)
	assert.Contains(t, m.View(), "Survey created")

	m, _ = step(t, m, common.ToastMsg{Title: "Error saving survey", Tone: common.ToneError})
	assert.Equal(t, m.now().Add(6*time.Second), m.toast.expires, "errors stay twice as long")

	// The first toast's timer must not clear the second.
	m, _ = step(t, m, toastExpiredMsg{seq: first})
	assert.Equal(t, "Error saving survey", m.toast.title)

	m, _ = step(t, m, toastExpiredMsg{seq: m.toastSeq})
	assert.Empty(t, m.toast.title)
}

func TestOverlayReplacesScreen(t *testing.T) {
	m, _, surveys := newModel(t)
	surveys.overlay = "Delete survey?"
	out := m.View()
	assert.Contains(t, out, "Delete survey?")
	assert.NotContains(t, out, "surveys content")
}

func TestHelpToggle(t *testing.T) {
	m, _, _ := newModel(t)
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestTabClick(t *testing.T) {
	m, _, _ := newModel(t)
	zones := components.TabZones(m.buildTabInfos(), m.width)
	require.Len(t, zones, 2)

	m, _ = step(t, m, tea.MouseMsg{X: zones[0].Start, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, common.TabDashboard, m.activeTab)
}
