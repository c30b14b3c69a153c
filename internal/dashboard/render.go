package dashboard

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bar is one labelled value of a bar chart
type bar struct {
	label string
	value int
}

// renderTable lays rows out in padded columns under a bold header
func renderTable(t Theme, headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return t.Subtitle.Render("No rows.")
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var b strings.Builder
	b.WriteString(t.Header.Render(line(headers)))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(line(row))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderBarChart draws horizontal bars scaled to the largest value
func renderBarChart(t Theme, bars []bar, width int) string {
	if len(bars) == 0 {
		return t.Subtitle.Render("No data.")
	}

	labelWidth, top := 0, 0
	for _, b := range bars {
		if w := lipgloss.Width(b.label); w > labelWidth {
			labelWidth = w
		}
		if b.value > top {
			top = b.value
		}
	}

	barWidth := width - labelWidth - 8
	if barWidth < 10 {
		barWidth = 10
	}

	var out strings.Builder
	for _, b := range bars {
		n := 0
		if top > 0 {
			n = b.value * barWidth / top
		}
		if n == 0 && b.value > 0 {
			n = 1
		}
		out.WriteString(b.label + strings.Repeat(" ", labelWidth-lipgloss.Width(b.label)))
		out.WriteString(" │")
		out.WriteString(t.Bar.Render(strings.Repeat("█", n)))
		out.WriteString(" " + strconv.Itoa(b.value))
		out.WriteString("\n")
	}
	return strings.TrimRight(out.String(), "\n")
}
