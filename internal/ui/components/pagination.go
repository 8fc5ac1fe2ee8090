package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Akashdeep-Patra/sdash/internal/table"
	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// ShowingText is the "Showing X to Y of N surveys" summary for a page.
func ShowingText(p table.Page) string {
	if p.Total == 0 {
		return "No surveys found"
	}
	return fmt.Sprintf("Showing %d to %d of %d surveys", p.Start+1, p.End, p.Total)
}

// RenderPagination renders the footer under the survey table: the showing
// summary, the rows-per-page choice and, when there is more than one page,
// the page window.
//
//	Showing 11 to 20 of 95 surveys   Rows 10   ‹ 1 … 2 [3] 4 … 10 ›
func RenderPagination(styles ui.Styles, p table.Page, width int) string {
	t := styles.Theme
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	current := lipgloss.NewStyle().Foreground(t.TextInverse).Background(t.Primary).Bold(true)
	normal := lipgloss.NewStyle().Foreground(t.Text)
	disabled := lipgloss.NewStyle().Foreground(t.TextSubtle).Faint(true)

	left := muted.Render(ShowingText(p))
	rows := muted.Render("Rows ") + normal.Bold(true).Render(strconv.Itoa(p.PageSize))

	parts := []string{left, rows}
	if p.ShowPagination() {
		var b strings.Builder
		prev, next := normal, normal
		if p.CurrentPage <= 1 {
			prev = disabled
		}
		if p.CurrentPage >= p.TotalPages {
			next = disabled
		}
		b.WriteString(prev.Render("‹"))
		for _, item := range table.PageWindow(p.CurrentPage, p.TotalPages) {
			b.WriteByte(' ')
			switch {
			case item.Ellipsis:
				b.WriteString(muted.Render("…"))
			case item.Current:
				b.WriteString(current.Render(" " + strconv.Itoa(item.Page) + " "))
			default:
				b.WriteString(normal.Render(strconv.Itoa(item.Page)))
			}
		}
		b.WriteString(" " + next.Render("›"))
		parts = append(parts, b.String())
	}

	line := strings.Join(parts, "   ")
	if lipgloss.Width(line) > width && len(parts) > 2 {
		// Narrow terminals keep the page window, which is what the user steers by.
		line = strings.Join([]string{rows, parts[2]}, "   ")
	}
	return line
}
