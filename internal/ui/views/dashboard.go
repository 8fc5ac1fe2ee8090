package views

import (
	"context"
	"time"

	"github.com/Akashdeep-Patra/sdash/internal/api"
	"github.com/Akashdeep-Patra/sdash/internal/common"
	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"github.com/Akashdeep-Patra/sdash/internal/table"
	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/Akashdeep-Patra/sdash/internal/ui/components"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// DashboardView shows the backend's pre-aggregated overview: KPI cards and
// the gender, age and skin-type distributions. With WithSurveys it also
// shows the size of the survey collection.
type DashboardView struct {
	svc     api.Service
	surveys *table.Controller
	styles  ui.Styles
	log     *zap.Logger
	timeout time.Duration
	width   int
	height  int

	started  bool
	loading  bool
	loaded   bool
	err      error
	overview survey.Overview
	spinner  spinner.Model
}

type overviewMsg struct {
	overview survey.Overview
	err      error
}

// NewDashboardView creates a DashboardView.
func NewDashboardView(svc api.Service, styles ui.Styles, timeout time.Duration, log *zap.Logger) *DashboardView {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardView{
		svc:     svc,
		styles:  styles,
		log:     log,
		timeout: timeout,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner)),
	}
}

// WithSurveys adds a survey count card read from ctrl, the controller the
// survey table shares.
func (v *DashboardView) WithSurveys(ctrl *table.Controller) *DashboardView {
	v.surveys = ctrl
	return v
}

// Init fetches the overview once; later tab switches reuse it.
func (v *DashboardView) Init() tea.Cmd {
	if v.started {
		return nil
	}
	v.started = true
	return v.load()
}

func (v *DashboardView) load() tea.Cmd {
	v.loading = true
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
		defer cancel()
		o, err := v.svc.Overview(ctx)
		return overviewMsg{overview: o, err: err}
	})
}

func (v *DashboardView) SetSize(w, h int) {
	v.width = w
	v.height = h
}

func (v *DashboardView) Update(msg tea.Msg) (common.View, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			v.log.Warn("load overview failed", zap.Error(msg.err))
			return v, common.CmdToast("Error loading dashboard", "Failed to load dashboard data.", common.ToneError)
		}
		v.err = nil
		v.loaded = true
		v.overview = msg.overview
		return v, nil

	case common.RefreshMsg:
		if v.loading {
			return v, nil
		}
		v.started = true
		api.DropCache(v.svc)
		return v, v.load()

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *DashboardView) View() string {
	t := v.styles.Theme

	if !v.loaded {
		if v.err != nil && !v.loading {
			msg := lipgloss.JoinVertical(lipgloss.Center,
				v.styles.ErrorMsg.Bold(true).Render("Failed to load dashboard data."),
				v.styles.Muted.Render(ui.Truncate(v.err.Error(), max(v.width-4, 10))),
				"",
				ui.RenderHints(v.styles, "r", "retry"))
			return ui.PlaceCentre(v.width, v.height, msg)
		}
		return ui.PlaceCentre(v.width, v.height,
			v.spinner.View()+" "+lipgloss.NewStyle().Foreground(t.TextMuted).Render("Loading dashboard…"))
	}

	title := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render("  Dashboard Overview")
	if v.loading {
		title += " " + v.spinner.View()
	}
	tiles := components.OverviewCards(v.overview)
	if v.surveys != nil {
		count := "…"
		if v.surveys.Loaded() {
			count = ui.FormatCount(v.surveys.Len())
		}
		tiles = append([]components.Card{{Label: "Surveys", Value: count}}, tiles...)
	}
	cards := components.RenderCards(v.styles, tiles, v.width-2)

	charts := []struct {
		title   string
		buckets []survey.Bucket
	}{
		{"Gender", v.overview.Genders()},
		{"Age", v.overview.Ages()},
		{"Skin Type", v.overview.SkinTypes()},
	}

	var chartRow string
	if v.width >= 96 {
		w := (v.width - 2) / len(charts)
		rendered := make([]string, len(charts))
		for i, c := range charts {
			rendered[i] = components.RenderBarChart(v.styles, c.title, c.buckets, w)
		}
		chartRow = lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	} else {
		rendered := make([]string, len(charts))
		for i, c := range charts {
			rendered[i] = components.RenderBarChart(v.styles, c.title, c.buckets, v.width-2)
		}
		chartRow = lipgloss.JoinVertical(lipgloss.Left, rendered...)
	}

	indent := lipgloss.NewStyle().PaddingLeft(1)
	return lipgloss.JoinVertical(lipgloss.Left, title, "", indent.Render(cards), "", indent.Render(chartRow))
}

func (v *DashboardView) ShortHelp() []components.HelpEntry {
	return []components.HelpEntry{
		{Key: "r", Desc: "Reload overview"},
	}
}

func (v *DashboardView) InputCapture() bool { return false }

func (v *DashboardView) Overlay() string { return "" }
