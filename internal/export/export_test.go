package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func records() []survey.Survey {
	return []survey.Survey{
		{ID: "1", Code: "S1", Name: "Skin Routine", Category: "Skincare", Status: survey.StatusActive,
			StartDate: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			Respondents: "120", Cost: 4000, Currency: survey.CurrencyDollar},
		{ID: "2", Code: "S2", Name: "Hair, Habits", Category: "Haircare", Status: survey.StatusDraft,
			Respondents: "80", Cost: 0.5, Currency: survey.CurrencyRupee},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, records()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, []string{"S1", "Skin Routine", "Skincare", "Active", "2025-03-04", "2025-05-01", "120", "4000", "$"}, rows[1])
	assert.Equal(t, "Hair, Habits", rows[2][1])
	assert.Equal(t, "", rows[2][4])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, records()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Survey Name", rows[0][1])
	assert.Equal(t, "Skin Routine", rows[1][1])
	assert.Equal(t, "4000", rows[1][7])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	_, err = ParseFormat("pdf")
	assert.Error(t, err)
	assert.Equal(t, FormatCSV, FormatFromPath("out.CSV"))
	assert.Equal(t, FormatXLSX, FormatFromPath("out"))
}
