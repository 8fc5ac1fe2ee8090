package table

import (
	"strings"

	"github.com/Akashdeep-Patra/sdash/internal/survey"
)

// SearchField names the record field the search term is matched against.
type SearchField string

const (
	SearchByName     SearchField = "name"
	SearchByCategory SearchField = "category"
)

// Label is the human name shown next to the search input.
func (f SearchField) Label() string {
	if f == SearchByCategory {
		return "Category"
	}
	return "Survey Name"
}

// Valid reports whether f is a searchable field.
func (f SearchField) Valid() bool { return f == SearchByName || f == SearchByCategory }

// StatusAll disables the status filter.
const StatusAll = "all"

func (f SearchField) value(s survey.Survey) string {
	if f == SearchByCategory {
		return s.Category
	}
	return s.Name
}

// Filter returns the records matching both the status filter and the search
// term, in their original order. An empty (or all-blank) term matches every
// record. Matching is case-insensitive substring containment.
func Filter(records []survey.Survey, term string, field SearchField, status string) []survey.Survey {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]survey.Survey, 0, len(records))
	for _, r := range records {
		if status != "" && status != StatusAll && string(r.Status) != status {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(field.value(r)), term) {
			continue
		}
		out = append(out, r)
	}
	return out
}
