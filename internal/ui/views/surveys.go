package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/sdash/internal/api"
	"github.com/Akashdeep-Patra/sdash/internal/common"
	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"github.com/Akashdeep-Patra/sdash/internal/table"
	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/Akashdeep-Patra/sdash/internal/ui/components"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const deleteDialogTag = "delete-survey"

// SurveysView is the survey table: search, status filter, sortable columns,
// pagination, and the create/edit/delete flows. All collection state lives
// in the table.Controller; the view only renders it and issues backend calls.
type SurveysView struct {
	svc     api.Service
	ctrl    *table.Controller
	styles  ui.Styles
	log     *zap.Logger
	timeout time.Duration
	width   int
	height  int
	cursor  int // row within the current page
	offset  int // first page row on screen when the page is taller than the view

	searching bool
	search    textinput.Model

	form    *components.SurveyForm
	confirm *components.Dialog
	spinner spinner.Model
}

type (
	surveysLoadedMsg struct {
		records []survey.Survey
		err     error
	}
	surveyCreatedMsg struct {
		draft   survey.Draft
		created survey.Survey
		err     error
	}
	surveyUpdatedMsg struct {
		id      string
		draft   survey.Draft
		updated survey.Survey
		err     error
	}
	surveyDeletedMsg struct {
		target survey.Survey
		err    error
	}
)

// columnTitles are the header labels of table.Columns.
var columnTitles = map[table.Column]string{
	table.ColumnCode:        "Code",
	table.ColumnName:        "Survey Name",
	table.ColumnCategory:    "Category",
	table.ColumnStatus:      "Status",
	table.ColumnStartDate:   "Start Date",
	table.ColumnEndDate:     "End Date",
	table.ColumnRespondents: "Respondents",
	table.ColumnCost:        "Cost",
}

// fixedWidths are the cell widths of every column but the name, which
// takes the remaining space.
var fixedWidths = map[table.Column]int{
	table.ColumnCode:        10,
	table.ColumnCategory:    12,
	table.ColumnStatus:      8,
	table.ColumnStartDate:   17,
	table.ColumnEndDate:     17,
	table.ColumnRespondents: 11,
	table.ColumnCost:        8,
}

// tableTop is the number of lines above the first row: toolbar, blank,
// header, rule.
const tableTop = 4

// NewSurveysView creates a SurveysView over ctrl. timeout bounds each
// backend call.
func NewSurveysView(svc api.Service, ctrl *table.Controller, styles ui.Styles, timeout time.Duration, log *zap.Logger) *SurveysView {
	if log == nil {
		log = zap.NewNop()
	}
	ti := textinput.New()
	ti.Placeholder = "search…"
	ti.CharLimit = 100
	ti.Width = 30
	ti.Prompt = ""
	return &SurveysView{
		svc:     svc,
		ctrl:    ctrl,
		styles:  styles,
		log:     log,
		timeout: timeout,
		search:  ti,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner)),
	}
}

// Init fetches the collection the first time the view is shown.
func (v *SurveysView) Init() tea.Cmd {
	if !v.ctrl.BeginLoad() {
		return nil
	}
	return tea.Batch(v.spinner.Tick, v.fetch())
}

func (v *SurveysView) SetSize(w, h int) {
	v.width = w
	v.height = h
	v.clampCursor()
}

// Close discards backend results that arrive after the view is gone.
func (v *SurveysView) Close() { v.ctrl.Close() }

// StatusInfo reports the collection size and whether a save is in flight.
func (v *SurveysView) StatusInfo() (count int, busy bool) {
	busy = v.ctrl.Busy(table.OpCreate) || v.ctrl.Busy(table.OpUpdate) || v.ctrl.Busy(table.OpDelete)
	if !v.ctrl.Loaded() {
		return -1, busy
	}
	return v.ctrl.Len(), busy
}

// ── Backend calls ───────────────────────────────────────────────────────────

func (v *SurveysView) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), v.timeout)
}

func (v *SurveysView) fetch() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := v.callContext()
		defer cancel()
		records, err := v.svc.ListSurveys(ctx)
		return surveysLoadedMsg{records: records, err: err}
	}
}

func (v *SurveysView) create(d survey.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := v.callContext()
		defer cancel()
		created, err := v.svc.CreateSurvey(ctx, d)
		return surveyCreatedMsg{draft: d, created: created, err: err}
	}
}

func (v *SurveysView) update(id string, d survey.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := v.callContext()
		defer cancel()
		updated, err := v.svc.UpdateSurvey(ctx, id, d)
		return surveyUpdatedMsg{id: id, draft: d, updated: updated, err: err}
	}
}

func (v *SurveysView) remove(target survey.Survey) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := v.callContext()
		defer cancel()
		return surveyDeletedMsg{target: target, err: v.svc.DeleteSurvey(ctx, target.ID)}
	}
}

// toast turns a resolved Result into a status bar notification.
func toast(res table.Result) tea.Cmd {
	if res.Title == "" {
		return nil
	}
	tone := common.ToneSuccess
	if res.Outcome == table.Failed {
		tone = common.ToneError
	}
	return common.CmdToast(res.Title, res.Detail, tone)
}

// ── Update ──────────────────────────────────────────────────────────────────

func (v *SurveysView) Update(msg tea.Msg) (common.View, tea.Cmd) {
	switch msg := msg.(type) {
	case surveysLoadedMsg:
		res := v.ctrl.ApplyLoad(msg.records, msg.err)
		v.clampCursor()
		if res.Outcome == table.Failed {
			return v, toast(res)
		}
		return v, nil

	case surveyCreatedMsg:
		res := v.ctrl.ResolveCreate(msg.draft, msg.created, msg.err)
		return v, v.afterSave(res)

	case surveyUpdatedMsg:
		res := v.ctrl.ResolveUpdate(msg.id, msg.draft, msg.updated, msg.err)
		return v, v.afterSave(res)

	case surveyDeletedMsg:
		res := v.ctrl.ResolveDelete(msg.target, msg.err)
		if res.Outcome == table.Discarded {
			return v, nil
		}
		if v.confirm != nil {
			v.confirm.SetBusy(false)
			if res.OK() {
				v.confirm = nil
			}
		}
		v.clampCursor()
		return v, toast(res)

	case components.FormResult:
		return v, v.handleFormResult(msg)

	case components.DialogResult:
		if msg.Tag == deleteDialogTag {
			return v, v.handleDeleteAnswer(msg.Confirmed)
		}
		return v, nil

	case common.RefreshMsg:
		if !v.ctrl.Reload() {
			return v, nil
		}
		api.DropCache(v.svc)
		return v, tea.Batch(v.spinner.Tick, v.fetch())

	case spinner.TickMsg:
		if !v.ctrl.Loading() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.MouseMsg:
		return v.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case v.confirm != nil:
			d, cmd := v.confirm.Update(msg)
			v.confirm = &d
			return v, cmd
		case v.form != nil:
			f, cmd := v.form.Update(msg)
			v.form = &f
			return v, cmd
		case v.searching:
			return v.updateSearch(msg)
		}
		return v.updateNormal(msg)
	}

	if v.form != nil {
		f, cmd := v.form.Update(msg)
		v.form = &f
		return v, cmd
	}
	if v.searching {
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return v, cmd
	}
	return v, nil
}

// afterSave closes the form on success and keeps it open on failure.
func (v *SurveysView) afterSave(res table.Result) tea.Cmd {
	if res.Outcome == table.Discarded {
		return nil
	}
	if v.form != nil {
		v.form.SetSubmitting(false)
		if res.OK() {
			v.form = nil
		}
	}
	v.clampCursor()
	return toast(res)
}

func (v *SurveysView) handleFormResult(msg components.FormResult) tea.Cmd {
	if v.form == nil {
		return nil
	}
	if !msg.Submitted {
		if !v.form.Submitting() {
			v.form = nil
		}
		return nil
	}
	if v.form.Submitting() {
		return nil
	}

	d, err := v.form.Draft()
	v.form.SetErrors(err)
	if err != nil {
		v.log.Debug("survey form rejected", zap.Error(err))
		return nil
	}

	var cmd tea.Cmd
	if v.form.Mode == components.FormEdit {
		id := v.form.ID
		err = v.ctrl.BeginUpdate(id, d)
		cmd = v.update(id, d)
	} else {
		err = v.ctrl.BeginCreate(d)
		cmd = v.create(d)
	}
	switch {
	case errors.Is(err, table.ErrBusy):
		return nil
	case errors.Is(err, table.ErrNotFound):
		v.form = nil
		return common.CmdToast("Error saving survey", "The survey no longer exists.", common.ToneError)
	case err != nil:
		v.form.SetErrors(err)
		return nil
	}
	v.form.SetSubmitting(true)
	return cmd
}

func (v *SurveysView) handleDeleteAnswer(confirmed bool) tea.Cmd {
	if v.confirm == nil {
		return nil
	}
	if !confirmed {
		if v.ctrl.CancelDelete() {
			v.confirm = nil
		}
		return nil
	}
	target, err := v.ctrl.ConfirmDelete()
	if err != nil {
		return nil
	}
	v.confirm.SetBusy(true)
	return v.remove(target)
}

func (v *SurveysView) updateNormal(msg tea.KeyMsg) (common.View, tea.Cmd) {
	page := v.ctrl.View()
	switch msg.String() {
	case "j", "down":
		if v.cursor < len(page.Rows)-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "g", "home":
		v.cursor = 0
	case "G", "end":
		v.cursor = max(len(page.Rows)-1, 0)
	case "l", "right", "]", "pgdown":
		v.ctrl.NextPage()
		v.cursor = 0
	case "h", "left", "[", "pgup":
		v.ctrl.PrevPage()
		v.cursor = 0

	case "/":
		v.searching = true
		v.search.SetValue(v.ctrl.State().SearchTerm)
		v.search.CursorEnd()
		return v, v.search.Focus()
	case "f":
		v.ctrl.ToggleSearchField()
		v.cursor = 0
	case "s":
		v.ctrl.CycleStatusFilter()
		v.cursor = 0
	case "p":
		v.ctrl.CyclePageSize()
		v.cursor = 0
	case "0":
		v.ctrl.ClearSort()
		v.cursor = 0
	case "1", "2", "3", "4", "5", "6", "7", "8":
		col := table.Columns[msg.String()[0]-'1']
		v.ctrl.ToggleSort(col)
		v.cursor = 0

	case "n":
		f := components.NewSurveyForm(v.styles)
		v.form = &f
		return v, f.Init()
	case "e", "enter":
		if s, ok := v.selected(page); ok {
			f := components.EditSurveyForm(v.styles, s)
			v.form = &f
			return v, f.Init()
		}
	case "d", "x", "delete":
		if s, ok := v.selected(page); ok {
			if err := v.ctrl.RequestDelete(s.ID); err != nil {
				return v, nil
			}
			d := components.NewConfirmDialog(v.styles, "Delete survey",
				fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", s.Name),
				deleteDialogTag)
			d.BusyText = "Deleting…"
			v.confirm = &d
		}
	}
	v.clampCursor()
	return v, nil
}

// updateSearch applies the term as it is typed. Enter keeps it, esc clears it.
func (v *SurveysView) updateSearch(msg tea.KeyMsg) (common.View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v.searching = false
		v.search.Blur()
		return v, nil
	case "esc":
		v.searching = false
		v.search.Blur()
		v.search.SetValue("")
		v.ctrl.SetSearchTerm("")
		v.cursor = 0
		return v, nil
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	if v.search.Value() != v.ctrl.State().SearchTerm {
		v.ctrl.SetSearchTerm(v.search.Value())
		v.cursor = 0
	}
	return v, cmd
}

func (v *SurveysView) handleMouse(msg tea.MouseMsg) (common.View, tea.Cmd) {
	if v.form != nil || v.confirm != nil {
		return v, nil
	}
	page := v.ctrl.View()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if v.cursor > 0 {
			v.cursor--
		}
	case tea.MouseButtonWheelDown:
		if v.cursor < len(page.Rows)-1 {
			v.cursor++
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress {
			idx := v.offset + msg.Y - tableTop
			if idx >= 0 && idx < len(page.Rows) && msg.Y >= tableTop {
				v.cursor = idx
			}
		}
	}
	v.clampCursor()
	return v, nil
}

func (v *SurveysView) selected(page table.Page) (survey.Survey, bool) {
	if v.cursor < 0 || v.cursor >= len(page.Rows) {
		return survey.Survey{}, false
	}
	return page.Rows[v.cursor], true
}

// clampCursor keeps the cursor on an existing row and scrolls it on screen.
func (v *SurveysView) clampCursor() {
	n := len(v.ctrl.View().Rows)
	v.cursor = max(0, min(v.cursor, n-1))
	avail := v.visibleRows()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+avail {
		v.offset = v.cursor - avail + 1
	}
	v.offset = max(0, min(v.offset, n-1))
}

// visibleRows is the number of table rows that fit under the toolbar,
// header and rule, above the pagination footer.
func (v *SurveysView) visibleRows() int {
	return max(v.height-tableTop-3, 1)
}

// ── View ────────────────────────────────────────────────────────────────────

func (v *SurveysView) View() string {
	t := v.styles.Theme

	if !v.ctrl.Loaded() {
		if err := v.ctrl.LoadErr(); err != nil && !v.ctrl.Loading() {
			msg := lipgloss.JoinVertical(lipgloss.Center,
				v.styles.ErrorMsg.Bold(true).Render("Failed to load surveys"),
				v.styles.Muted.Render(ui.Truncate(err.Error(), max(v.width-4, 10))),
				"",
				ui.RenderHints(v.styles, "r", "retry"))
			return ui.PlaceCentre(v.width, v.height, msg)
		}
		return ui.PlaceCentre(v.width, v.height,
			v.spinner.View()+" "+lipgloss.NewStyle().Foreground(t.TextMuted).Render("Loading surveys…"))
	}

	page := v.ctrl.View()
	var b strings.Builder
	b.WriteString(v.renderToolbar() + "\n\n")

	widths := v.columnWidths()
	b.WriteString(v.renderHeader(widths) + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", max(v.width-1, 0))) + "\n")

	avail := v.visibleRows()
	if len(page.Rows) == 0 {
		empty := "No surveys match the current filters."
		if v.ctrl.Len() == 0 {
			empty = "No surveys yet. Press n to create one."
		}
		b.WriteString(v.styles.Muted.Render("  "+empty) + "\n")
	} else {
		start := min(v.offset, len(page.Rows)-1)
		end := min(start+avail, len(page.Rows))
		var rows strings.Builder
		for i := start; i < end; i++ {
			if i > start {
				rows.WriteByte('\n')
			}
			rows.WriteString(v.renderRow(page.Rows[i], widths, i == v.cursor))
		}
		body := rows.String()
		if bar := components.RenderScrollbar(v.styles, end-start, len(page.Rows), avail, start); bar != "" {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, bar)
		}
		b.WriteString(body + "\n")
	}

	b.WriteString("\n" + "  " + components.RenderPagination(v.styles, page, v.width-2) + "\n")
	b.WriteString(v.styles.Muted.Render("  ") + ui.RenderHints(v.styles,
		"/", "search", "f", "field", "s", "status", "1-8", "sort", "p", "rows",
		"n", "new", "e", "edit", "d", "delete"))
	return b.String()
}

func (v *SurveysView) renderToolbar() string {
	t := v.styles.Theme
	st := v.ctrl.State()

	label := lipgloss.NewStyle().Foreground(t.TextMuted)
	value := lipgloss.NewStyle().Foreground(t.Text).Bold(true)

	var term string
	switch {
	case v.searching:
		term = v.search.View()
	case st.SearchTerm != "":
		term = value.Render(st.SearchTerm)
	default:
		term = lipgloss.NewStyle().Foreground(t.TextSubtle).Render("none")
	}
	search := label.Render("  Search "+st.SearchField.Label()+": ") + term

	status := label.Render("Status: ")
	if st.StatusFilter == table.StatusAll {
		status += value.Render("All")
	} else {
		status += lipgloss.NewStyle().Foreground(v.styles.StatusColor(survey.Status(st.StatusFilter))).Bold(true).
			Render(st.StatusFilter)
	}

	sort := label.Render("Sort: ")
	if st.SortDirection == table.SortNone {
		sort += value.Render("None")
	} else {
		sort += value.Render(columnTitles[st.SortColumn] + " " + st.SortDirection.String())
	}

	return search + "   " + status + "   " + sort
}

func (v *SurveysView) columnWidths() map[table.Column]int {
	widths := make(map[table.Column]int, len(table.Columns))
	used := 2 // cursor gutter
	for col, w := range fixedWidths {
		widths[col] = w
		used += w + 1
	}
	widths[table.ColumnName] = max(v.width-used-2, 12)
	return widths
}

func (v *SurveysView) renderHeader(widths map[table.Column]int) string {
	st := v.ctrl.State()
	cells := make([]string, 0, len(table.Columns))
	for i, col := range table.Columns {
		title := fmt.Sprintf("%d %s", i+1, columnTitles[col])
		marker := ""
		if col == st.SortColumn {
			switch st.SortDirection {
			case table.SortAsc:
				marker = " ▲"
			case table.SortDesc:
				marker = " ▼"
			}
		}
		w := widths[col]
		text := ui.Truncate(title, max(w-lipgloss.Width(marker), 1))
		cell := v.styles.TableHeader.Render(text) + v.styles.SortMarker.Render(marker)
		if col == table.ColumnRespondents || col == table.ColumnCost {
			cell = ui.PadLeft(cell, w)
		} else {
			cell = ui.PadRight(cell, w)
		}
		cells = append(cells, cell)
	}
	return "  " + strings.Join(cells, " ")
}

func (v *SurveysView) renderRow(s survey.Survey, widths map[table.Column]int, selected bool) string {
	badge := lipgloss.NewStyle().Foreground(v.styles.StatusColor(s.Status)).Bold(true).
		Render(ui.Cell(string(s.Status), widths[table.ColumnStatus]))

	cells := []string{
		ui.Cell(s.Code, widths[table.ColumnCode]),
		ui.Cell(s.Name, widths[table.ColumnName]),
		ui.Cell(s.Category, widths[table.ColumnCategory]),
		badge,
		ui.Cell(survey.FormatDate(s.StartDate), widths[table.ColumnStartDate]),
		ui.Cell(survey.FormatDate(s.EndDate), widths[table.ColumnEndDate]),
		ui.PadLeft(ui.Truncate(s.Respondents, widths[table.ColumnRespondents]), widths[table.ColumnRespondents]),
		ui.PadLeft(ui.Truncate(survey.FormatCost(s.Currency, s.Cost), widths[table.ColumnCost]), widths[table.ColumnCost]),
	}
	line := strings.Join(cells, " ")
	if selected {
		return v.styles.ListSelected.Render("▸ " + line)
	}
	return "  " + v.styles.ListItem.Render(line)
}

// Overlay draws the open form or delete confirmation.
func (v *SurveysView) Overlay() string {
	switch {
	case v.confirm != nil:
		return v.confirm.View()
	case v.form != nil:
		return v.form.View()
	}
	return ""
}

func (v *SurveysView) ShortHelp() []components.HelpEntry {
	return []components.HelpEntry{
		{Key: "/", Desc: "Search (enter keep, esc clear)"},
		{Key: "f", Desc: "Search by name / category"},
		{Key: "s", Desc: "Cycle status filter"},
		{Key: "1-8", Desc: "Sort by column (again flips)"},
		{Key: "0", Desc: "Clear sort"},
		{Key: "p", Desc: "Cycle rows per page"},
		{Key: "[ / ]", Desc: "Previous / next page"},
		{Key: "n", Desc: "New survey"},
		{Key: "e / enter", Desc: "Edit survey"},
		{Key: "d", Desc: "Delete survey"},
	}
}

func (v *SurveysView) InputCapture() bool {
	return v.searching || v.form != nil || v.confirm != nil
}
