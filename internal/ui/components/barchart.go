package components

import (
	"strings"

	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// RenderBarChart renders a titled horizontal bar chart of buckets inside a
// panel of the given width. Bars are scaled to the largest bucket and keep
// the bucket order.
//
//	Gender
//	Male     ██████████████  420
//	Female   ████████████████████  610
//	Unknown  ██  35
func RenderBarChart(styles ui.Styles, title string, buckets []survey.Bucket, width int) string {
	t := styles.Theme

	labelW := 0
	peak := 0
	valueW := 1
	for _, b := range buckets {
		labelW = max(labelW, lipgloss.Width(b.Label))
		peak = max(peak, b.Value)
		valueW = max(valueW, len(ui.FormatCount(b.Value)))
	}

	inner := max(width-4, 10) // panel border + padding
	barMax := max(inner-labelW-valueW-3, 1)

	var sb strings.Builder
	sb.WriteString(styles.PanelTitle.Render(title) + "\n")
	for i, b := range buckets {
		n := 0
		if peak > 0 {
			n = b.Value * barMax / peak
		}
		if n == 0 && b.Value > 0 {
			n = 1
		}
		colour := t.TextSubtle
		if len(t.ChartColors) > 0 {
			colour = t.ChartColors[i%len(t.ChartColors)]
		}
		bar := lipgloss.NewStyle().Foreground(colour).Render(strings.Repeat("█", n))
		sb.WriteString(styles.Muted.Render(ui.PadRight(b.Label, labelW)) + " " + bar + " " +
			styles.Body.Render(ui.FormatCount(b.Value)))
		if i < len(buckets)-1 {
			sb.WriteByte('\n')
		}
	}
	if peak == 0 {
		sb.WriteString("\n" + styles.Muted.Render("No responses yet"))
	}
	return styles.Panel.Width(max(width-2, 12)).Render(sb.String())
}
