// Package export writes a survey view to a spreadsheet.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"github.com/xuri/excelize/v2"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "xlsx" or "csv" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want xlsx or csv)", s)
}

// FormatFromPath infers the format from a file extension, defaulting to xlsx.
func FormatFromPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return FormatCSV
	}
	return FormatXLSX
}

const sheetName = "Surveys"

var header = []string{"Code", "Survey Name", "Category", "Status", "Start Date", "End Date", "Respondents", "Cost", "Currency"}

// Write encodes records in the given format. Cost is exported in base units.
func Write(w io.Writer, f Format, records []survey.Survey) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, records)
	case FormatXLSX:
		return writeXLSX(w, records)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

func row(s survey.Survey) []string {
	return []string{
		s.Code, s.Name, s.Category, string(s.Status),
		date(s.StartDate.IsZero(), s.StartDate.Format(survey.DateInputLayout)),
		date(s.EndDate.IsZero(), s.EndDate.Format(survey.DateInputLayout)),
		s.Respondents,
		strconv.FormatFloat(s.Cost, 'f', -1, 64),
		string(s.Currency),
	}
}

func date(zero bool, formatted string) string {
	if zero {
		return ""
	}
	return formatted
}

func writeCSV(w io.Writer, records []survey.Survey) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range records {
		if err := cw.Write(row(s)); err != nil {
			return fmt.Errorf("write csv row %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, records []survey.Survey) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &cells); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, s := range records {
		values := row(s)
		cells := make([]any, len(values))
		for j, v := range values {
			cells[j] = v
		}
		// Cost stays numeric so spreadsheet formulas work.
		cells[7] = s.Cost
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
