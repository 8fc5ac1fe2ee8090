// Package ui provides shared TUI styling, layout helpers, and theme definitions.
package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PlaceCentre centres content both horizontally and vertically within the given dimensions.
func PlaceCentre(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Truncate truncates s to maxLen runes, appending "…" if truncated.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}

// PadRight pads s with spaces to the given display width.
func PadRight(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// PadLeft right-aligns s within the given display width.
func PadLeft(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}

// Cell truncates then pads s to exactly width cells.
func Cell(s string, width int) string {
	return PadRight(Truncate(s, width), width)
}

// RenderKeyValue renders a "key: value" pair with styles.
func RenderKeyValue(styles Styles, key, value string) string {
	return styles.KeyBind.Render(key) + " " + styles.KeyDesc.Render(value)
}

// RenderHints renders a row of key hints, e.g. "n new  e edit".
func RenderHints(styles Styles, pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, RenderKeyValue(styles, pairs[i], pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

// FormatCount renders n with thousands separators: 1234567 → "1,234,567".
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
