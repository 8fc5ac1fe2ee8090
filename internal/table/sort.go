package table

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/Akashdeep-Patra/sdash/internal/survey"
)

// Column identifies a sortable survey column.
type Column string

const (
	ColumnNone        Column = ""
	ColumnCode        Column = "code"
	ColumnName        Column = "name"
	ColumnCategory    Column = "category"
	ColumnStatus      Column = "status"
	ColumnStartDate   Column = "startDate"
	ColumnEndDate     Column = "endDate"
	ColumnRespondents Column = "respondents"
	ColumnCost        Column = "cost"
)

// Columns lists the data columns in display order.
var Columns = []Column{
	ColumnCode, ColumnName, ColumnCategory, ColumnStatus,
	ColumnStartDate, ColumnEndDate, ColumnRespondents, ColumnCost,
}

// ParseColumn maps a column identifier (case-insensitive) to a Column.
func ParseColumn(s string) (Column, bool) {
	for _, c := range Columns {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return ColumnNone, false
}

// Direction is the sort direction of the active column.
type Direction int

const (
	SortNone Direction = iota
	SortAsc
	SortDesc
)

func (d Direction) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	}
	return "none"
}

// Sort returns a stably sorted copy of records. With SortNone or no column
// the input order is kept. Equal keys keep their relative input order in
// both directions.
func Sort(records []survey.Survey, col Column, dir Direction) []survey.Survey {
	out := slices.Clone(records)
	if dir == SortNone || col == ColumnNone {
		return out
	}
	compare := comparator(col)
	if compare == nil {
		return out
	}
	if dir == SortDesc {
		slices.SortStableFunc(out, func(a, b survey.Survey) int { return -compare(a, b) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

func comparator(col Column) func(a, b survey.Survey) int {
	switch col {
	case ColumnCode:
		return func(a, b survey.Survey) int { return compareText(a.Code, b.Code) }
	case ColumnName:
		return func(a, b survey.Survey) int { return compareText(a.Name, b.Name) }
	case ColumnCategory:
		return func(a, b survey.Survey) int { return compareText(a.Category, b.Category) }
	case ColumnStatus:
		return func(a, b survey.Survey) int { return compareText(string(a.Status), string(b.Status)) }
	case ColumnStartDate:
		return func(a, b survey.Survey) int { return a.StartDate.Compare(b.StartDate) }
	case ColumnEndDate:
		return func(a, b survey.Survey) int { return a.EndDate.Compare(b.EndDate) }
	case ColumnRespondents:
		return func(a, b survey.Survey) int { return compareMixed(a.Respondents, b.Respondents) }
	case ColumnCost:
		return func(a, b survey.Survey) int { return cmp.Compare(a.Cost, b.Cost) }
	}
	return nil
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareMixed orders numeric strings numerically and falls back to text.
// Respondents is free-form ("120", "500+"), so numbers sort before text.
func compareMixed(a, b string) int {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(fa, fb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return compareText(a, b)
}
