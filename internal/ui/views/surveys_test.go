package views

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Akashdeep-Patra/sdash/internal/api"
	"github.com/Akashdeep-Patra/sdash/internal/common"
	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"github.com/Akashdeep-Patra/sdash/internal/table"
	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/Akashdeep-Patra/sdash/internal/ui/components"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fake backend ────────────────────────────────────────────────────────────

type fakeService struct {
	mu       sync.Mutex
	surveys  []survey.Survey
	overview survey.Overview
	calls    map[string]int
	fail     map[string]error
	lastSave survey.Draft
	nextID   int
}

var _ api.Service = (*fakeService)(nil)

func newFake(n int) *fakeService {
	f := &fakeService{calls: map[string]int{}, fail: map[string]error{}}
	for i := range n {
		f.surveys = append(f.surveys, survey.Survey{
			ID:          fmt.Sprintf("id-%02d", i),
			Code:        fmt.Sprintf("S%02d", i),
			Name:        fmt.Sprintf("Survey %02d", i),
			Category:    "Skincare",
			Status:      survey.StatusActive,
			StartDate:   time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Respondents: "100",
			Cost:        4000,
			Currency:    survey.CurrencyDollar,
		})
	}
	return f
}

func (f *fakeService) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeService) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeService) Endpoint() string { return "fake://" }

func (f *fakeService) ListSurveys(context.Context) ([]survey.Survey, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]survey.Survey(nil), f.surveys...), nil
}

func (f *fakeService) CreateSurvey(_ context.Context, d survey.Draft) (survey.Survey, error) {
	if err := f.record("create"); err != nil {
		return survey.Survey{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.lastSave = d
	s := d.WithID(fmt.Sprintf("new-%d", f.nextID))
	f.surveys = append(f.surveys, s)
	return s, nil
}

func (f *fakeService) UpdateSurvey(_ context.Context, id string, d survey.Draft) (survey.Survey, error) {
	if err := f.record("update"); err != nil {
		return survey.Survey{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSave = d
	return d.WithID(id), nil
}

func (f *fakeService) DeleteSurvey(context.Context, string) error {
	return f.record("delete")
}

func (f *fakeService) Overview(context.Context) (survey.Overview, error) {
	if err := f.record("overview"); err != nil {
		return survey.Overview{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overview, nil
}

// ── Message plumbing ────────────────────────────────────────────────────────

// exec runs cmd and returns the messages it produces. Commands that block
// (cursor blink, spinner frames) are dropped.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, exec(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// settle runs cmd, feeds the view its own result messages until none are
// left, and returns the toasts raised along the way.
func settle(v *SurveysView, cmd tea.Cmd) []common.ToastMsg {
	var toasts []common.ToastMsg
	queue := exec(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		switch m := msg.(type) {
		case common.ToastMsg:
			toasts = append(toasts, m)
		case surveysLoadedMsg, surveyCreatedMsg, surveyUpdatedMsg, surveyDeletedMsg,
			components.FormResult, components.DialogResult:
			_, next := v.Update(m)
			queue = append(queue, exec(next)...)
		}
	}
	return toasts
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys one by one and settles each resulting command.
func press(v *SurveysView, keys ...string) []common.ToastMsg {
	var toasts []common.ToastMsg
	for _, k := range keys {
		_, cmd := v.Update(keyMsg(k))
		toasts = append(toasts, settle(v, cmd)...)
	}
	return toasts
}

func newLoadedView(t *testing.T, f *fakeService, pageSize int) *SurveysView {
	t.Helper()
	ctrl := table.New(table.DefaultViewState(pageSize), nil)
	v := NewSurveysView(f, ctrl, ui.DefaultStyles(), time.Second, nil)
	v.SetSize(160, 40)
	settle(v, v.Init())
	require.True(t, ctrl.Loaded())
	return v
}

// ── Tests ───────────────────────────────────────────────────────────────────

func TestSurveysView_LoadsOnce(t *testing.T) {
	f := newFake(3)
	v := newLoadedView(t, f, 10)

	assert.Nil(t, v.Init(), "second mount must not refetch")
	assert.Equal(t, 1, f.count("list"))
	assert.Equal(t, 3, v.ctrl.Len())
	assert.Contains(t, v.View(), "Showing 1 to 3 of 3 surveys")

	_, cmd := v.Update(common.RefreshMsg{})
	settle(v, cmd)
	assert.Equal(t, 2, f.count("list"), "explicit refresh reloads")
}

func TestSurveysView_LoadFailureToast(t *testing.T) {
	f := newFake(0)
	f.fail["list"] = errors.New("boom")
	ctrl := table.New(table.DefaultViewState(10), nil)
	v := NewSurveysView(f, ctrl, ui.DefaultStyles(), time.Second, nil)
	v.SetSize(120, 30)

	toasts := settle(v, v.Init())
	require.Len(t, toasts, 1)
	assert.Equal(t, "Error loading surveys", toasts[0].Title)
	assert.Equal(t, common.ToneError, toasts[0].Tone)
	assert.Contains(t, v.View(), "Failed to load surveys")
}

func TestSurveysView_SearchAndPaging(t *testing.T) {
	f := newFake(25)
	v := newLoadedView(t, f, 10)

	press(v, "]")
	assert.Equal(t, 2, v.ctrl.State().CurrentPage)

	press(v, "/")
	require.True(t, v.InputCapture())
	press(v, "Survey 2")
	assert.Equal(t, 1, v.ctrl.State().CurrentPage, "typing resets to page 1")
	assert.Equal(t, "Survey 2", v.ctrl.State().SearchTerm)
	// Survey 20..24
	assert.Equal(t, 5, v.ctrl.View().Total)

	press(v, "esc")
	assert.False(t, v.InputCapture())
	assert.Empty(t, v.ctrl.State().SearchTerm)
}

func TestSurveysView_SortKeys(t *testing.T) {
	f := newFake(5)
	v := newLoadedView(t, f, 10)

	press(v, "5") // start date
	st := v.ctrl.State()
	assert.Equal(t, table.ColumnStartDate, st.SortColumn)
	assert.Equal(t, table.SortAsc, st.SortDirection)

	press(v, "5")
	assert.Equal(t, table.SortDesc, v.ctrl.State().SortDirection)
	assert.Equal(t, "id-04", v.ctrl.View().Rows[0].ID)

	press(v, "0")
	assert.Equal(t, table.SortNone, v.ctrl.State().SortDirection)
}

func fillCreateForm(v *SurveysView) {
	press(v, "n")
	press(v, "S9", "tab", "New Survey", "tab", "Haircare", "tab", "tab",
		"2025-06-01", "tab", "2025-07-01", "tab", "300", "tab", "tab", "4")
}

func TestSurveysView_CreateFlow(t *testing.T) {
	f := newFake(2)
	v := newLoadedView(t, f, 10)

	fillCreateForm(v)
	require.NotNil(t, v.form)

	_, cmd := v.Update(components.FormResult{Submitted: true})
	require.NotNil(t, cmd)
	assert.True(t, v.form.Submitting())

	// A second submit while the first is in flight is a no-op.
	_, again := v.Update(components.FormResult{Submitted: true})
	assert.Nil(t, again)
	_, again = v.Update(keyMsg("ctrl+s"))
	assert.Nil(t, again)

	toasts := settle(v, cmd)
	assert.Equal(t, 1, f.count("create"))
	require.Len(t, toasts, 1)
	assert.Equal(t, "Survey created", toasts[0].Title)
	assert.Equal(t, `Survey "New Survey" has been successfully created.`, toasts[0].Detail)
	assert.Nil(t, v.form, "form closes on success")
	assert.Equal(t, 3, v.ctrl.Len())

	assert.Equal(t, 4000.0, f.lastSave.Cost, "cost is typed in thousands")
	assert.Equal(t, survey.StatusDraft, f.lastSave.Status)
	assert.Equal(t, survey.CurrencyRupee, f.lastSave.Currency)
}

func TestSurveysView_CreateFailureKeepsForm(t *testing.T) {
	f := newFake(1)
	f.fail["create"] = errors.New("500")
	v := newLoadedView(t, f, 10)

	fillCreateForm(v)
	toasts := press(v, "ctrl+s")

	require.Len(t, toasts, 1)
	assert.Equal(t, "Error saving survey", toasts[0].Title)
	require.NotNil(t, v.form, "form stays open for a retry")
	assert.False(t, v.form.Submitting())
	assert.Equal(t, 1, v.ctrl.Len())
}

func TestSurveysView_InvalidFormDoesNotCallBackend(t *testing.T) {
	f := newFake(1)
	v := newLoadedView(t, f, 10)

	press(v, "n", "ctrl+s")
	assert.Equal(t, 0, f.count("create"))
	require.NotNil(t, v.form)
	assert.Contains(t, v.Overlay(), "Code is required")
}

func TestSurveysView_EditFlow(t *testing.T) {
	f := newFake(2)
	v := newLoadedView(t, f, 10)

	press(v, "j", "e")
	require.NotNil(t, v.form)
	assert.Equal(t, "id-01", v.form.ID)

	toasts := press(v, "tab", "tab", "tab", "right", "ctrl+s")
	require.Len(t, toasts, 1)
	assert.Equal(t, "Survey updated", toasts[0].Title)
	assert.Equal(t, 1, f.count("update"))
	assert.Equal(t, survey.StatusClosed, f.lastSave.Status)
	assert.Equal(t, 4000.0, f.lastSave.Cost, "stored cost survives the round trip")

	got, ok := v.ctrl.Find("id-01")
	require.True(t, ok)
	assert.Equal(t, survey.StatusClosed, got.Status)
}

func TestSurveysView_DeleteNeedsConfirmation(t *testing.T) {
	f := newFake(3)
	v := newLoadedView(t, f, 10)

	press(v, "d")
	require.NotNil(t, v.confirm)
	assert.True(t, v.InputCapture())

	press(v, "n")
	assert.Nil(t, v.confirm)
	assert.Equal(t, 0, f.count("delete"))

	press(v, "d")
	toasts := press(v, "y")
	assert.Equal(t, 1, f.count("delete"))
	require.Len(t, toasts, 1)
	assert.Equal(t, "Survey deleted", toasts[0].Title)
	assert.Nil(t, v.confirm)
	assert.Equal(t, 2, v.ctrl.Len())
	_, ok := v.ctrl.Find("id-00")
	assert.False(t, ok)
}

func TestSurveysView_DeleteFailureKeepsDialog(t *testing.T) {
	f := newFake(2)
	f.fail["delete"] = errors.New("nope")
	v := newLoadedView(t, f, 10)

	press(v, "d")
	toasts := press(v, "y")
	require.Len(t, toasts, 1)
	assert.Equal(t, "Error deleting survey", toasts[0].Title)
	require.NotNil(t, v.confirm, "dialog stays open after a failed delete")
	assert.False(t, v.confirm.Busy())
	assert.Equal(t, 2, v.ctrl.Len())

	// Retry succeeds.
	delete(f.fail, "delete")
	toasts = press(v, "y")
	require.Len(t, toasts, 1)
	assert.Equal(t, "Survey deleted", toasts[0].Title)
	assert.Equal(t, 1, v.ctrl.Len())
}

func TestSurveysView_DeleteWhileInFlightIgnoresAnswers(t *testing.T) {
	f := newFake(2)
	v := newLoadedView(t, f, 10)

	press(v, "d")
	_, cmd := v.Update(components.DialogResult{Confirmed: true, Tag: deleteDialogTag})
	require.NotNil(t, cmd)
	assert.True(t, v.confirm.Busy())

	_, again := v.Update(components.DialogResult{Confirmed: true, Tag: deleteDialogTag})
	assert.Nil(t, again)
	_, _ = v.Update(components.DialogResult{Tag: deleteDialogTag})
	assert.NotNil(t, v.confirm, "cancel is refused while deleting")

	settle(v, cmd)
	assert.Equal(t, 1, f.count("delete"))
}

func TestSurveysView_ClosedDiscardsLateResults(t *testing.T) {
	f := newFake(1)
	v := newLoadedView(t, f, 10)

	fillCreateForm(v)
	_, cmd := v.Update(components.FormResult{Submitted: true})
	require.NotNil(t, cmd)
	v.Close()

	toasts := settle(v, cmd)
	assert.Empty(t, toasts)
	assert.Equal(t, 1, v.ctrl.Len())
}

func TestSurveysView_RefreshBypassesReadCache(t *testing.T) {
	f := newFake(2)
	cached := api.NewCachedService(f, time.Hour)
	ctrl := table.New(table.DefaultViewState(10), nil)
	v := NewSurveysView(cached, ctrl, ui.DefaultStyles(), time.Second, nil)
	v.SetSize(160, 40)
	settle(v, v.Init())
	require.Equal(t, 2, ctrl.Len())

	// The data changes behind the cache's back, as with an edit to the
	// fixture file.
	f.mu.Lock()
	f.surveys = f.surveys[:1]
	f.mu.Unlock()

	_, cmd := v.Update(common.RefreshMsg{})
	settle(v, cmd)
	assert.Equal(t, 2, f.count("list"))
	assert.Equal(t, 1, ctrl.Len())
}
