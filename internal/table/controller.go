// Package table implements the survey table's view controller: it owns the
// in-memory survey collection and derives the visible page from it through
// filter → sort → paginate. The controller is UI-agnostic; views drive it
// through setters and read the derived Page.
package table

import (
	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"go.uber.org/zap"
)

// ViewState holds the user's view choices. It never affects which records
// the collection contains.
type ViewState struct {
	SearchTerm    string
	SearchField   SearchField
	StatusFilter  string // StatusAll or a survey.Status
	SortColumn    Column
	SortDirection Direction
	PageSize      int
	CurrentPage   int
}

// DefaultViewState returns the state of a freshly mounted table.
func DefaultViewState(pageSize int) ViewState {
	if pageSize < 1 {
		pageSize = PageSizes[0]
	}
	return ViewState{
		SearchField:  SearchByName,
		StatusFilter: StatusAll,
		PageSize:     pageSize,
		CurrentPage:  1,
	}
}

// Page is the derived, read-only projection shown to the user.
type Page struct {
	Rows        []survey.Survey
	Total       int // records matching filter and search
	TotalPages  int // ceil(Total / PageSize); 0 when Total is 0
	CurrentPage int
	PageSize    int
	Start, End  int // half-open index range of Rows within the sorted result
}

// ShowPagination reports whether page controls should be rendered.
func (p Page) ShowPagination() bool { return p.TotalPages > 1 }

// Controller is the survey table's state owner. It is not safe for
// concurrent use; the Bubbletea update loop is its only writer.
type Controller struct {
	records []survey.Survey
	state   ViewState

	loadStarted bool
	loading     bool
	loaded      bool
	loadErr     error

	inFlight      map[Op]bool
	pendingDelete *survey.Survey
	closed        bool

	log *zap.Logger
}

// New creates a controller with an empty collection.
func New(state ViewState, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if state.PageSize < 1 {
		state.PageSize = PageSizes[0]
	}
	if !state.SearchField.Valid() {
		state.SearchField = SearchByName
	}
	if state.StatusFilter == "" {
		state.StatusFilter = StatusAll
	}
	state.CurrentPage = max(1, state.CurrentPage)
	return &Controller{
		state:    state,
		inFlight: make(map[Op]bool, 3),
		log:      log,
	}
}

// State returns a copy of the current view state.
func (c *Controller) State() ViewState { return c.state }

// Records returns a copy of the collection in insertion order.
func (c *Controller) Records() []survey.Survey {
	out := make([]survey.Survey, len(c.records))
	copy(out, c.records)
	return out
}

// Len is the collection size.
func (c *Controller) Len() int { return len(c.records) }

// Find returns the record with the given id.
func (c *Controller) Find(id string) (survey.Survey, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.records[i], true
	}
	return survey.Survey{}, false
}

// ── Derived view ────────────────────────────────────────────────────────────

// Filtered returns the filtered and sorted records across all pages.
func (c *Controller) Filtered() []survey.Survey {
	s := c.state
	return Sort(Filter(c.records, s.SearchTerm, s.SearchField, s.StatusFilter), s.SortColumn, s.SortDirection)
}

// View derives the current page. It never mutates the controller.
func (c *Controller) View() Page {
	sorted := c.Filtered()
	total := TotalPages(len(sorted), c.state.PageSize)
	page := ClampPage(c.state.CurrentPage, total)
	rows, start, end := Paginate(sorted, c.state.PageSize, page)
	return Page{
		Rows:        rows,
		Total:       len(sorted),
		TotalPages:  total,
		CurrentPage: page,
		PageSize:    c.state.PageSize,
		Start:       start,
		End:         end,
	}
}

// StatusOptions lists the distinct statuses present in the collection in
// first-seen order.
func (c *Controller) StatusOptions() []survey.Status {
	seen := make(map[survey.Status]bool, 3)
	var out []survey.Status
	for _, r := range c.records {
		if !seen[r.Status] {
			seen[r.Status] = true
			out = append(out, r.Status)
		}
	}
	return out
}

// ── View setters ────────────────────────────────────────────────────────────

// SetSearchTerm sets the search term and returns to page 1.
func (c *Controller) SetSearchTerm(term string) {
	c.state.SearchTerm = term
	c.state.CurrentPage = 1
}

// SetSearchField chooses the searched field and returns to page 1.
// Unknown fields are ignored.
func (c *Controller) SetSearchField(f SearchField) {
	if !f.Valid() {
		return
	}
	c.state.SearchField = f
	c.state.CurrentPage = 1
}

// ToggleSearchField flips between name and category search.
func (c *Controller) ToggleSearchField() {
	if c.state.SearchField == SearchByName {
		c.SetSearchField(SearchByCategory)
	} else {
		c.SetSearchField(SearchByName)
	}
}

// SetStatusFilter filters by status ("" or StatusAll clears it) and returns
// to page 1.
func (c *Controller) SetStatusFilter(status string) {
	if status == "" {
		status = StatusAll
	}
	c.state.StatusFilter = status
	c.state.CurrentPage = 1
}

// CycleStatusFilter steps through "all" followed by StatusOptions().
func (c *Controller) CycleStatusFilter() {
	opts := []string{StatusAll}
	for _, s := range c.StatusOptions() {
		opts = append(opts, string(s))
	}
	next := 0
	for i, o := range opts {
		if o == c.state.StatusFilter {
			next = (i + 1) % len(opts)
			break
		}
	}
	c.SetStatusFilter(opts[next])
}

// SetSort sets the sort column and direction and returns to page 1.
func (c *Controller) SetSort(col Column, dir Direction) {
	if col == ColumnNone {
		dir = SortNone
	}
	if dir == SortNone {
		col = ColumnNone
	}
	c.state.SortColumn = col
	c.state.SortDirection = dir
	c.state.CurrentPage = 1
}

// ToggleSort sorts by col: a new column starts ascending, the active column
// flips between ascending and descending.
func (c *Controller) ToggleSort(col Column) {
	if col == c.state.SortColumn && c.state.SortDirection == SortAsc {
		c.SetSort(col, SortDesc)
		return
	}
	c.SetSort(col, SortAsc)
}

// ClearSort restores insertion order.
func (c *Controller) ClearSort() { c.SetSort(ColumnNone, SortNone) }

// SetPageSize changes rows per page (values below 1 are ignored) and returns
// to page 1.
func (c *Controller) SetPageSize(n int) {
	if n < 1 {
		return
	}
	c.state.PageSize = n
	c.state.CurrentPage = 1
}

// CyclePageSize steps through PageSizes.
func (c *Controller) CyclePageSize() {
	next := PageSizes[0]
	for i, n := range PageSizes {
		if n == c.state.PageSize {
			next = PageSizes[(i+1)%len(PageSizes)]
			break
		}
	}
	c.SetPageSize(next)
}

// SetPage moves to page, clamped into [1, max(1, totalPages)]. It returns
// the page actually selected.
func (c *Controller) SetPage(page int) int {
	total := TotalPages(len(Filter(c.records, c.state.SearchTerm, c.state.SearchField, c.state.StatusFilter)), c.state.PageSize)
	c.state.CurrentPage = ClampPage(page, total)
	return c.state.CurrentPage
}

// NextPage advances one page, staying on the last page.
func (c *Controller) NextPage() int { return c.SetPage(c.state.CurrentPage + 1) }

// PrevPage goes back one page, staying on page 1.
func (c *Controller) PrevPage() int { return c.SetPage(c.state.CurrentPage - 1) }

// clampPage re-applies the page bounds after the collection changed.
func (c *Controller) clampPage() { c.SetPage(c.state.CurrentPage) }
