package components

import (
	"strconv"

	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// Card is one KPI tile.
type Card struct {
	Label string
	Value string
}

// RenderCards lays cards out in a row, wrapping to two columns when the
// terminal cannot fit them side by side.
func RenderCards(styles ui.Styles, cards []Card, width int) string {
	if len(cards) == 0 {
		return ""
	}
	t := styles.Theme

	perRow := len(cards)
	const minCard = 22
	for perRow > 1 && width/perRow < minCard {
		perRow = (perRow + 1) / 2
	}
	cardW := max(width/perRow-2, 10)

	label := lipgloss.NewStyle().Foreground(t.TextMuted)
	value := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	box := styles.Panel.Width(cardW)

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		var tiles []string
		for _, c := range cards[i:min(i+perRow, len(cards))] {
			tiles = append(tiles, box.Render(label.Render(ui.Truncate(c.Label, cardW-2))+"\n"+value.Render(c.Value)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// OverviewCards returns the dashboard KPI tiles.
func OverviewCards(o survey.Overview) []Card {
	return []Card{
		{Label: "Active Users", Value: ui.FormatCount(o.ActiveUsers)},
		{Label: "Total Routines", Value: ui.FormatCount(o.TotalRoutines)},
		{Label: "Avg Routines / User", Value: formatAverage(o.AvgRoutinesPerUser)},
		{Label: "Avg Products / Routine", Value: formatAverage(o.AvgProductsPerRoutine)},
	}
}

func formatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
