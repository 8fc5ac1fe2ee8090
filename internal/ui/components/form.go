package components

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FormMode tells a create form from an edit form.
type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

// FormResult is sent when the user submits or cancels the form. The form
// stays open either way; the owner decides when to close it.
type FormResult struct {
	Submitted bool
}

type formField int

const (
	fieldCode formField = iota
	fieldName
	fieldCategory
	fieldStatus
	fieldStart
	fieldEnd
	fieldRespondents
	fieldCurrency
	fieldCost
	fieldCount
)

// fieldKeys are the ValidationError keys of each field.
var fieldKeys = [fieldCount]string{
	"code", "name", "category", "status", "startDate", "endDate", "respondents", "currency", "cost",
}

var fieldLabels = [fieldCount]string{
	"Code", "Survey Name", "Category", "Status", "Start Date", "End Date", "Respondents", "Currency", "Cost (in K)",
}

func (f formField) isSelect() bool { return f == fieldStatus || f == fieldCurrency }

// SurveyForm is the modal create/edit form for one survey. Cost is shown
// and typed in thousands; Draft converts it back to base units.
type SurveyForm struct {
	Mode FormMode
	ID   string // edit target; empty for create

	inputs     [fieldCount]textinput.Model
	status     survey.Status
	currency   survey.Currency
	focus      formField
	errors     map[string]string
	submitting bool
	styles     ui.Styles
}

// NewSurveyForm opens an empty create form with status Draft and currency ₹.
func NewSurveyForm(styles ui.Styles) SurveyForm {
	f := SurveyForm{
		Mode:     FormCreate,
		status:   survey.StatusDraft,
		currency: survey.CurrencyRupee,
		styles:   styles,
	}
	f.initInputs()
	return f
}

// EditSurveyForm opens a form prefilled from s.
func EditSurveyForm(styles ui.Styles, s survey.Survey) SurveyForm {
	f := SurveyForm{
		Mode:     FormEdit,
		ID:       s.ID,
		status:   s.Status,
		currency: s.Currency,
		styles:   styles,
	}
	if !f.status.Valid() {
		f.status = survey.StatusDraft
	}
	if !f.currency.Valid() {
		f.currency = survey.CurrencyRupee
	}
	f.initInputs()
	f.inputs[fieldCode].SetValue(s.Code)
	f.inputs[fieldName].SetValue(s.Name)
	f.inputs[fieldCategory].SetValue(s.Category)
	f.inputs[fieldStart].SetValue(inputDate(s.StartDate.IsZero(), s.StartDate.Format(survey.DateInputLayout)))
	f.inputs[fieldEnd].SetValue(inputDate(s.EndDate.IsZero(), s.EndDate.Format(survey.DateInputLayout)))
	f.inputs[fieldRespondents].SetValue(s.Respondents)
	f.inputs[fieldCost].SetValue(survey.FormatDisplay(s.Cost))
	return f
}

func inputDate(zero bool, s string) string {
	if zero {
		return ""
	}
	return s
}

func (f *SurveyForm) initInputs() {
	placeholders := [fieldCount]string{
		fieldCode:        "SRV-001",
		fieldName:        "Morning routine check-in",
		fieldCategory:    "Skincare",
		fieldStart:       "YYYY-MM-DD",
		fieldEnd:         "YYYY-MM-DD",
		fieldRespondents: "250",
		fieldCost:        "4 for 4K",
	}
	for i := range fieldCount {
		if i.isSelect() {
			continue
		}
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 120
		ti.Width = 36
		ti.Prompt = ""
		f.inputs[i] = ti
	}
	f.inputs[fieldStart].CharLimit = len(survey.DateInputLayout)
	f.inputs[fieldEnd].CharLimit = len(survey.DateInputLayout)
	f.setFocus(fieldCode)
}

// Init focuses the first field.
func (f SurveyForm) Init() tea.Cmd { return textinput.Blink }

// Submitting reports whether a save is in flight.
func (f SurveyForm) Submitting() bool { return f.submitting }

// SetSubmitting toggles the in-flight state. A submitting form ignores input.
func (f *SurveyForm) SetSubmitting(b bool) { f.submitting = b }

// SetErrors shows per-field messages from err when it is a
// *survey.ValidationError, and clears them when err is nil.
func (f *SurveyForm) SetErrors(err error) {
	f.errors = nil
	var ve *survey.ValidationError
	if errors.As(err, &ve) {
		f.errors = ve.Fields
	}
}

// Draft reads the form into a Draft. A non-nil error is a
// *survey.ValidationError covering unparsable dates and Validate.
func (f SurveyForm) Draft() (survey.Draft, error) {
	d := survey.Draft{
		Code:        strings.TrimSpace(f.inputs[fieldCode].Value()),
		Name:        strings.TrimSpace(f.inputs[fieldName].Value()),
		Category:    strings.TrimSpace(f.inputs[fieldCategory].Value()),
		Status:      f.status,
		Respondents: strings.TrimSpace(f.inputs[fieldRespondents].Value()),
		Cost:        survey.DisplayToBase(f.inputs[fieldCost].Value()),
		Currency:    f.currency,
	}

	fields := map[string]string{}
	d.StartDate = f.dateValue(fieldStart, fields)
	d.EndDate = f.dateValue(fieldEnd, fields)

	var ve *survey.ValidationError
	if err := survey.Validate(d); errors.As(err, &ve) {
		for k, v := range ve.Fields {
			if _, seen := fields[k]; !seen {
				fields[k] = v
			}
		}
	}
	if len(fields) > 0 {
		return d, &survey.ValidationError{Fields: fields}
	}
	return d, nil
}

// dateValue parses a date field. An empty field yields the zero time, which
// Validate reports as missing; a malformed one records its own message.
func (f SurveyForm) dateValue(field formField, fields map[string]string) time.Time {
	raw := strings.TrimSpace(f.inputs[field].Value())
	if raw == "" {
		return time.Time{}
	}
	t, err := survey.ParseDate(raw)
	if err != nil {
		fields[fieldKeys[field]] = fieldLabels[field] + " must be YYYY-MM-DD"
		return time.Time{}
	}
	return t
}

func (f *SurveyForm) setFocus(to formField) {
	if !f.focus.isSelect() {
		f.inputs[f.focus].Blur()
	}
	f.focus = (to + fieldCount) % fieldCount
	if !f.focus.isSelect() {
		f.inputs[f.focus].Focus()
	}
}

func (f *SurveyForm) cycleSelect(delta int) {
	switch f.focus {
	case fieldStatus:
		f.status = cycle(survey.AllStatuses, f.status, delta)
	case fieldCurrency:
		f.currency = cycle(survey.AllCurrencies, f.currency, delta)
	}
}

func cycle[T comparable](opts []T, cur T, delta int) T {
	i := slices.Index(opts, cur)
	n := len(opts)
	return opts[((i+delta)%n+n)%n]
}

// Update handles key events for the form.
func (f SurveyForm) Update(msg tea.Msg) (SurveyForm, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if f.focus.isSelect() {
			return f, nil
		}
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return f, cmd
	}
	if f.submitting {
		return f, nil
	}

	switch keyMsg.String() {
	case "esc":
		return f, func() tea.Msg { return FormResult{} }
	case "ctrl+s":
		return f, func() tea.Msg { return FormResult{Submitted: true} }
	case "enter":
		if f.focus == fieldCount-1 {
			return f, func() tea.Msg { return FormResult{Submitted: true} }
		}
		f.setFocus(f.focus + 1)
		return f, nil
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return f, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return f, nil
	}

	if f.focus.isSelect() {
		switch keyMsg.String() {
		case "left", "h":
			f.cycleSelect(-1)
		case "right", "l", " ":
			f.cycleSelect(1)
		}
		return f, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// View renders the form.
func (f SurveyForm) View() string {
	t := f.styles.Theme

	title := "Create Survey"
	if f.Mode == FormEdit {
		title = "Edit Survey"
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Width(14)
	focusLabel := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Width(14)
	errStyle := lipgloss.NewStyle().Foreground(t.Error).PaddingLeft(16)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(t.Text).Bold(true).Render(title) + "\n\n")

	for i := range fieldCount {
		ls := labelStyle
		marker := "  "
		if i == f.focus {
			ls = focusLabel
			marker = f.styles.KeyBind.Render("▸ ")
		}
		var value string
		switch i {
		case fieldStatus:
			value = lipgloss.NewStyle().Foreground(f.styles.StatusColor(f.status)).Bold(true).
				Render(fmt.Sprintf("‹ %s ›", f.status))
		case fieldCurrency:
			value = lipgloss.NewStyle().Foreground(t.Text).Bold(true).
				Render(fmt.Sprintf("‹ %s ›", f.currency))
		default:
			value = f.inputs[i].View()
		}
		b.WriteString(marker + ls.Render(fieldLabels[i]) + value + "\n")
		if msg, ok := f.errors[fieldKeys[i]]; ok {
			b.WriteString(errStyle.Render(msg) + "\n")
		}
	}

	b.WriteString("\n")
	if f.submitting {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Warning).Render("Saving…"))
	} else {
		submit := "Create"
		if f.Mode == FormEdit {
			submit = "Update"
		}
		b.WriteString(ui.RenderHints(f.styles, "ctrl+s", submit, "tab", "next field", "←/→", "change option", "esc", "cancel"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Primary).
		Padding(1, 3).
		Width(64).
		Render(b.String())
}
