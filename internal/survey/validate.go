package survey

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ValidationError lists the fields of a Draft that failed validation.
// Fields maps field name to a human-readable message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = e.Fields[k]
	}
	return "invalid survey: " + strings.Join(parts, "; ")
}

// Validate checks the required-field and enum constraints of d. It returns
// nil or a *ValidationError. Start and end order is not checked.
func Validate(d Draft) error {
	fields := make(map[string]string)
	required := []struct {
		name, label, value string
	}{
		{"code", "Code", d.Code},
		{"name", "Survey name", d.Name},
		{"category", "Category", d.Category},
		{"respondents", "Respondents", d.Respondents},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			fields[r.name] = r.label + " is required"
		}
	}
	if !d.Status.Valid() {
		fields["status"] = fmt.Sprintf("Unknown status %q", d.Status)
	}
	if !d.Currency.Valid() {
		fields["currency"] = fmt.Sprintf("Unknown currency %q", d.Currency)
	}
	if d.StartDate.IsZero() {
		fields["startDate"] = "Start date is required"
	}
	if d.EndDate.IsZero() {
		fields["endDate"] = "End date is required"
	}
	if d.Cost < 0 || math.IsNaN(d.Cost) || math.IsInf(d.Cost, 0) {
		fields["cost"] = "Cost must be 0 or greater"
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
