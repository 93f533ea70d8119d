package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tuiwbs/internal/gantt"
	"tuiwbs/internal/model"
	"tuiwbs/internal/view"
)

func columnLabel(id string) string {
	for _, c := range model.BuiltinColumns() {
		if c.ID == id {
			return c.DisplayName
		}
	}
	if id == "" {
		return ""
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

func (m *appModel) renderTable(cfg model.ViewConfig) string {
	var b strings.Builder
	rows := m.visibleRows()
	widths := columnWidths(rows, cfg.Columns)

	var header strings.Builder
	rowWidth := 0
	for _, col := range cfg.Columns {
		header.WriteString(padTo(columnLabel(col), widths[col]))
		header.WriteString("  ")
		rowWidth += widths[col] + 2
	}
	b.WriteString(styleMuted().Render(header.String()))
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(strings.Repeat(glyphHRule(), rowWidth)))
	b.WriteString("\n")

	for _, r := range rows {
		line := m.renderRow(r, cfg.Columns, widths)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *appModel) renderRow(r view.DisplayRow, cols []string, widths map[string]int) string {
	var line strings.Builder
	indent := strings.Repeat("  ", r.Depth-1)
	for i, col := range cols {
		val := r.Cells[col]
		if i == 0 {
			marker := glyphBullet()
			if r.Node != nil && len(r.Node.Children) > 0 {
				if m.collapsed[r.NodeID] {
					marker = glyphTwistyCollapsed()
				} else {
					marker = glyphTwistyExpanded()
				}
			}
			val = indent + marker + " " + val
		}
		if col == "progress" {
			if pct, err := strconv.Atoi(val); err == nil {
				val = progressBar(pct, 10)
			}
		}
		line.WriteString(padTo(val, widths[col]))
		line.WriteString("  ")
	}
	s := line.String()
	style := lipgloss.NewStyle()
	if r.NodeID == m.cursorID {
		style = style.Background(colorSelectedBg).Foreground(colorSelectedFg)
	} else if r.Delayed {
		style = style.Foreground(colorFlashErrorBg)
	}
	return style.Render(s)
}

func columnWidths(rows []view.DisplayRow, cols []string) map[string]int {
	widths := make(map[string]int, len(cols))
	for _, col := range cols {
		w := len(columnLabel(col))
		for _, r := range rows {
			if len(r.Cells[col]) > w {
				w = len(r.Cells[col])
			}
		}
		widths[col] = w
	}
	return widths
}

func padTo(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func (m *appModel) renderTableGantt(cfg model.ViewConfig) string {
	table := m.renderTable(cfg)
	grid := m.layoutGrid(cfg)
	return table + "\n" + renderGanttGrid(grid, m.cursorID)
}

func renderGanttGrid(g gantt.Grid, cursorID string) string {
	var b strings.Builder
	for _, band := range g.Header.Bands {
		b.WriteString(strings.Repeat(" ", band.Start))
		b.WriteString(band.Label)
	}
	b.WriteString("\n")
	for _, lbl := range g.Header.Labels {
		b.WriteString(lbl)
	}
	b.WriteString("\n")

	rowsByIndex := map[int][]gantt.Bar{}
	rowCount := 0
	for _, bar := range g.Bars {
		rowsByIndex[bar.RowIndex] = append(rowsByIndex[bar.RowIndex], bar)
		if bar.RowIndex+1 > rowCount {
			rowCount = bar.RowIndex + 1
		}
	}
	for i := 0; i < rowCount; i++ {
		line := make([]rune, g.Columns)
		for j := range line {
			line[j] = ' '
			if g.Weekendcols[j] || g.Holidaycols[j] {
				line[j] = '·'
			}
		}
		for _, bar := range rowsByIndex[i] {
			glyph := '█'
			if bar.Milestone {
				glyph = '◆'
			}
			for c := bar.StartCol; c <= bar.EndCol && c < len(line); c++ {
				line[c] = glyph
			}
		}
		if g.TodayCol >= 0 && g.TodayCol < len(line) {
			line[g.TodayCol] = '┆'
		}
		b.WriteString(string(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *appModel) renderKanban(cfg model.ViewConfig) string {
	columns := map[string][]view.DisplayRow{}
	var order []string
	seen := map[string]bool{}
	for _, r := range m.visibleRows() {
		g := r.GroupName
		if !seen[g] {
			seen[g] = true
			order = append(order, g)
		}
		columns[g] = append(columns[g], r)
	}

	colWidth := 28
	var headers, bodies []string
	maxRows := 0
	for _, g := range order {
		headers = append(headers, padTo(g, colWidth))
		if len(columns[g]) > maxRows {
			maxRows = len(columns[g])
		}
	}
	for i := 0; i < maxRows; i++ {
		var line strings.Builder
		for _, g := range order {
			cell := ""
			if i < len(columns[g]) {
				r := columns[g][i]
				cell = r.Cells["title"]
				if r.NodeID == m.cursorID {
					cell = "> " + cell
				}
			}
			line.WriteString(padTo(cell, colWidth))
			line.WriteString(" ")
		}
		bodies = append(bodies, line.String())
	}

	var b strings.Builder
	b.WriteString(styleMuted().Render(strings.Join(headers, " ")))
	b.WriteString("\n")
	for _, row := range bodies {
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func progressBar(pct int, width int) string {
	if width <= 0 {
		return ""
	}
	filled := width * pct / 100
	return strconv.Itoa(pct) + "% [" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
