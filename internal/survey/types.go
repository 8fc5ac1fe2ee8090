// Package survey defines the survey record, the dashboard overview aggregate,
// and the formatting conventions shared by the table, the form and the CLI.
package survey

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a survey.
type Status string

const (
	StatusActive Status = "Active"
	StatusDraft  Status = "Draft"
	StatusClosed Status = "Closed"
)

// AllStatuses lists statuses in form order (Draft is the default).
var AllStatuses = []Status{StatusDraft, StatusActive, StatusClosed}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusDraft, StatusClosed:
		return true
	}
	return false
}

// Currency is the symbol a cost is expressed in.
type Currency string

const (
	CurrencyRupee  Currency = "₹"
	CurrencyDollar Currency = "$"
	CurrencyEuro   Currency = "€"
	CurrencyPound  Currency = "£"
)

// AllCurrencies lists currencies in form order (Rupee is the default).
var AllCurrencies = []Currency{CurrencyRupee, CurrencyDollar, CurrencyEuro, CurrencyPound}

// Valid reports whether c is one of the known currencies.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyRupee, CurrencyDollar, CurrencyEuro, CurrencyPound:
		return true
	}
	return false
}

// Survey is one record of the survey collection.
type Survey struct {
	ID          string    `json:"_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Status      Status    `json:"status"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Respondents string    `json:"respondents"`
	Cost        float64   `json:"cost"`
	Currency    Currency  `json:"currency"`
}

// Draft is the payload for create and update calls. It carries no ID; the
// backend assigns one on create and the path names it on update.
type Draft struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Status      Status    `json:"status"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Respondents string    `json:"respondents"`
	Cost        float64   `json:"cost"`
	Currency    Currency  `json:"currency"`
}

// Draft returns the editable fields of s.
func (s Survey) Draft() Draft {
	return Draft{
		Code:        s.Code,
		Name:        s.Name,
		Category:    s.Category,
		Status:      s.Status,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		Respondents: s.Respondents,
		Cost:        s.Cost,
		Currency:    s.Currency,
	}
}

// WithID builds a Survey from d under the given id.
func (d Draft) WithID(id string) Survey {
	return Survey{
		ID:          id,
		Code:        d.Code,
		Name:        d.Name,
		Category:    d.Category,
		Status:      d.Status,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Respondents: d.Respondents,
		Cost:        d.Cost,
		Currency:    d.Currency,
	}
}

// dateLayouts are the wire formats accepted for startDate/endDate.
var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", DateInputLayout}

// DateInputLayout is the format the form edits dates in.
const DateInputLayout = "2006-01-02"

// ParseDate parses any of the accepted wire or input date formats.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// UnmarshalJSON accepts dates as RFC3339 timestamps or plain YYYY-MM-DD.
func (s *Survey) UnmarshalJSON(data []byte) error {
	type plain Survey
	aux := struct {
		*plain
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if aux.StartDate != "" {
		if s.StartDate, err = ParseDate(aux.StartDate); err != nil {
			return fmt.Errorf("startDate: %w", err)
		}
	}
	if aux.EndDate != "" {
		if s.EndDate, err = ParseDate(aux.EndDate); err != nil {
			return fmt.Errorf("endDate: %w", err)
		}
	}
	return nil
}

// FormatDate renders t as DD-Month-YYYY, e.g. "04-March-2025".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02-January-2006")
}

// ── Dashboard overview ──────────────────────────────────────────────────────

// Bucket is one labelled value of a distribution, in display order.
type Bucket struct {
	Label string
	Value int
}

// Overview is the pre-aggregated dashboard data supplied by the backend.
type Overview struct {
	ActiveUsers           int            `json:"activeUsers"`
	TotalRoutines         int            `json:"totalRoutines"`
	AvgRoutinesPerUser    float64        `json:"avgRoutinesPerUser"`
	AvgProductsPerRoutine float64        `json:"avgProductsPerRoutine"`
	GenderDistribution    map[string]int `json:"genderDistribution"`
	AgeDistribution       map[string]int `json:"ageDistribution"`
	SkinTypeDistribution  map[string]int `json:"skinTypeDistribution"`
}

var (
	genderKeys   = []Bucket{{"Male", 0}, {"Female", 0}, {"Unknown", 0}}
	ageKeys      = []Bucket{{"18-24", 0}, {"25-32", 0}, {"33-50", 0}, {"51+", 0}, {"Unknown", 0}}
	skinTypeKeys = []Bucket{{"Dry", 0}, {"Normal", 0}, {"Oil", 0}, {"Combination", 0}, {"Unknown", 0}}
)

// Genders returns the gender distribution in fixed order.
func (o Overview) Genders() []Bucket { return buckets(genderKeys, o.GenderDistribution) }

// Ages returns the age distribution in fixed order.
func (o Overview) Ages() []Bucket { return buckets(ageKeys, o.AgeDistribution) }

// SkinTypes returns the skin-type distribution in fixed order.
func (o Overview) SkinTypes() []Bucket { return buckets(skinTypeKeys, o.SkinTypeDistribution) }

// buckets looks up each label by its lowercased form, the way the backend
// keys its distributions ("male", "dry", "unknown"). Absent keys count as zero.
func buckets(keys []Bucket, m map[string]int) []Bucket {
	out := make([]Bucket, len(keys))
	for i, k := range keys {
		out[i] = Bucket{Label: k.Label, Value: m[strings.ToLower(k.Label)]}
	}
	return out
}
