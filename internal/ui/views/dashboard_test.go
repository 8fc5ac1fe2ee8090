package views

import (
	"errors"
	"testing"
	"time"

	"github.com/Akashdeep-Patra/sdash/internal/api"
	"github.com/Akashdeep-Patra/sdash/internal/common"
	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"github.com/Akashdeep-Patra/sdash/internal/table"
	"github.com/Akashdeep-Patra/sdash/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feed delivers the dashboard's own result messages back to it.
func feed(v *DashboardView, cmd tea.Cmd) []common.ToastMsg {
	var toasts []common.ToastMsg
	for _, msg := range exec(cmd) {
		switch m := msg.(type) {
		case overviewMsg:
			_, next := v.Update(m)
			for _, out := range exec(next) {
				if t, ok := out.(common.ToastMsg); ok {
					toasts = append(toasts, t)
				}
			}
		case common.ToastMsg:
			toasts = append(toasts, m)
		}
	}
	return toasts
}

func TestDashboardView_RendersOverview(t *testing.T) {
	f := newFake(0)
	f.overview = survey.Overview{
		ActiveUsers:        1200,
		TotalRoutines:      3400,
		AvgRoutinesPerUser: 2.83,
		GenderDistribution: map[string]int{"male": 400, "female": 780},
	}
	v := NewDashboardView(f, ui.DefaultStyles(), time.Second, nil)
	v.SetSize(160, 40)

	assert.Contains(t, v.View(), "Loading dashboard")
	assert.Empty(t, feed(v, v.Init()))
	assert.Nil(t, v.Init(), "loads once")
	assert.Equal(t, 1, f.count("overview"))

	out := v.View()
	assert.Contains(t, out, "Active Users")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "2.83")
	assert.Contains(t, out, "Female")
	assert.Contains(t, out, "No responses yet", "empty age distribution")
}

func TestDashboardView_LoadError(t *testing.T) {
	f := newFake(0)
	f.fail["overview"] = errors.New("connection refused")
	v := NewDashboardView(f, ui.DefaultStyles(), time.Second, nil)
	v.SetSize(120, 30)

	toasts := feed(v, v.Init())
	require.Len(t, toasts, 1)
	assert.Equal(t, "Error loading dashboard", toasts[0].Title)
	assert.Contains(t, v.View(), "Failed to load dashboard data.")

	delete(f.fail, "overview")
	_, cmd := v.Update(common.RefreshMsg{})
	feed(v, cmd)
	assert.Equal(t, 2, f.count("overview"))
	assert.Contains(t, v.View(), "Active Users")
}

func TestDashboardView_RefreshBypassesReadCache(t *testing.T) {
	f := newFake(0)
	f.overview = survey.Overview{ActiveUsers: 10}
	v := NewDashboardView(api.NewCachedService(f, time.Hour), ui.DefaultStyles(), time.Second, nil)
	v.SetSize(160, 40)
	feed(v, v.Init())

	f.mu.Lock()
	f.overview = survey.Overview{ActiveUsers: 4321}
	f.mu.Unlock()

	_, cmd := v.Update(common.RefreshMsg{})
	feed(v, cmd)
	assert.Equal(t, 2, f.count("overview"))
	assert.Contains(t, v.View(), "4,321")
}

func TestDashboardView_SurveyCountCard(t *testing.T) {
	f := newFake(0)
	ctrl := table.New(table.DefaultViewState(10), nil)
	v := NewDashboardView(f, ui.DefaultStyles(), time.Second, nil).WithSurveys(ctrl)
	v.SetSize(160, 40)
	feed(v, v.Init())

	out := v.View()
	assert.Contains(t, out, "Surveys")
	assert.Contains(t, out, "…", "count pending until the table loads")

	require.True(t, ctrl.BeginLoad())
	ctrl.ApplyLoad([]survey.Survey{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil)
	out = v.View()
	assert.Contains(t, out, "Surveys")
	assert.Contains(t, out, "3")
}
