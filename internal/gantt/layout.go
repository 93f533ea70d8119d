// Package gantt implements a date-to-column layout engine: it projects
// nodes to a 2-D character grid decoupled from any terminal rendering
// library; the TUI's renderer turns the grid into styled text.
package gantt

import (
	"strconv"
	"time"

	"tuiwbs/internal/model"
	"tuiwbs/internal/view"
)

const dateLayout = "2006-01-02"

// Header describes one column's header label at a given scale: the band
// text (month/year, merged across a run of columns) and the per-column
// label beneath it.
type Header struct {
	Bands  []Band
	Labels []string // one per column, e.g. "01", "W03", "Jan"
	Weekdays []string // week scale only: one-letter weekday strip, "" otherwise
}

// Band is a merged run of columns sharing one header label (a month or
// year band).
type Band struct {
	Label string
	Start int // first column index
	Width int // number of columns the band spans
}

// Grid is the finished Gantt layout for a set of rows: one Bar (or none)
// per row, plus overlay metadata a renderer can use to pick colors.
type Grid struct {
	Origin     time.Time
	CellWidth  int
	Columns    int
	Header     Header
	Bars       []Bar
	TodayCol   int
	Milestones []int // column indices carrying a milestone vertical rule
	Weekendcols map[int]bool
	Holidaycols map[int]bool
}

// Bar is one row's rendered span.
type Bar struct {
	RowIndex      int
	NodeID        string
	StartCol      int
	EndCol        int // inclusive
	Milestone     bool
	Progress      int
	DependencyHue string // predecessor's color hint, "" if none
}

// Layout computes a Grid for rows at the given scale, anchored so that
// scale_origin is the Monday on/before the earliest start date across rows
// (day/week) or the first day of the covering calendar unit (month/quarter/
// year), per 4.5.
func Layout(rows []view.DisplayRow, cfg model.ProjectConfig, scale model.GanttScale, today time.Time) Grid {
	cellWidth := cellWidthFor(cfg.GanttWidths, scale)
	origin := scaleOrigin(rows, scale, today)

	g := Grid{
		Origin:      origin,
		CellWidth:   cellWidth,
		Weekendcols: map[int]bool{},
		Holidaycols: map[int]bool{},
	}

	maxCol := 0
	for i, r := range rows {
		n := r.Node
		if n == nil || n.Start == "" {
			continue
		}
		start, err := time.Parse(dateLayout, n.Start)
		if err != nil {
			continue
		}
		startCol := dateToCol(start, origin, scale, cellWidth)
		bar := Bar{RowIndex: i, NodeID: n.ID, StartCol: startCol, Progress: n.ComputedProgress()}
		if n.Milestone {
			bar.Milestone = true
			bar.EndCol = startCol
		} else if n.End != "" {
			end, err := time.Parse(dateLayout, n.End)
			if err == nil {
				bar.EndCol = dateToCol(end.AddDate(0, 0, 1), origin, scale, cellWidth) - 1
			} else {
				bar.EndCol = startCol
			}
		} else {
			bar.EndCol = startCol
		}
		if len(n.Depends) > 0 {
			bar.DependencyHue = n.Depends[0]
		}
		g.Bars = append(g.Bars, bar)
		if bar.EndCol > maxCol {
			maxCol = bar.EndCol
		}
	}
	g.Columns = maxCol + 1
	g.TodayCol = dateToCol(today, origin, scale, cellWidth)

	if scale == model.ScaleDay || scale == model.ScaleWeek {
		markWeekends(&g, origin, scale, cellWidth)
	}
	markHolidays(&g, cfg.Holidays, origin, scale, cellWidth)
	for _, b := range g.Bars {
		if b.Milestone {
			g.Milestones = append(g.Milestones, b.StartCol)
		}
	}
	g.Header = buildHeader(g.Columns, origin, scale, cellWidth)
	return g
}

func cellWidthFor(w model.GanttWidths, scale model.GanttScale) int {
	switch scale {
	case model.ScaleDay:
		return w.Day
	case model.ScaleWeek:
		return w.Week
	case model.ScaleMonth:
		return w.Month
	case model.ScaleQuarter:
		return w.Quarter
	case model.ScaleYear:
		return w.Year
	default:
		return w.Day
	}
}

// scaleOrigin returns the Monday on/before the earliest row start (day/week
// scales) or the first day of the covering calendar unit (month/quarter/
// year scales), falling back to today if no row has a start date.
func scaleOrigin(rows []view.DisplayRow, scale model.GanttScale, today time.Time) time.Time {
	earliest := today
	found := false
	for _, r := range rows {
		if r.Node == nil || r.Node.Start == "" {
			continue
		}
		t, err := time.Parse(dateLayout, r.Node.Start)
		if err != nil {
			continue
		}
		if !found || t.Before(earliest) {
			earliest = t
			found = true
		}
	}

	switch scale {
	case model.ScaleDay, model.ScaleWeek:
		return mondayOnOrBefore(earliest)
	case model.ScaleMonth:
		return time.Date(earliest.Year(), earliest.Month(), 1, 0, 0, 0, 0, time.UTC)
	case model.ScaleQuarter:
		qMonth := time.Month(((int(earliest.Month())-1)/3)*3 + 1)
		return time.Date(earliest.Year(), qMonth, 1, 0, 0, 0, 0, time.UTC)
	case model.ScaleYear:
		return time.Date(earliest.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return earliest
	}
}

func mondayOnOrBefore(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return t.AddDate(0, 0, -(wd - 1))
}

// dateToCol implements _date_to_col: cell index * cell_width, plus an
// in-cell day offset for the week scale.
func dateToCol(date, origin time.Time, scale model.GanttScale, cellWidth int) int {
	switch scale {
	case model.ScaleDay:
		days := daysBetween(origin, date)
		return days * cellWidth
	case model.ScaleWeek:
		days := daysBetween(origin, date)
		week := days / 7
		offset := days % 7
		if offset < 0 {
			offset += 7
		}
		return week*cellWidth + offset
	case model.ScaleMonth:
		months := monthsBetween(origin, date)
		return months * cellWidth
	case model.ScaleQuarter:
		months := monthsBetween(origin, date)
		return (months / 3) * cellWidth
	case model.ScaleYear:
		years := date.Year() - origin.Year()
		return years * cellWidth
	default:
		return 0
	}
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func markWeekends(g *Grid, origin time.Time, scale model.GanttScale, cellWidth int) {
	for col := 0; col < g.Columns; col++ {
		d := colToApproxDate(col, origin, scale, cellWidth)
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			g.Weekendcols[col] = true
		}
	}
}

func markHolidays(g *Grid, holidays []string, origin time.Time, scale model.GanttScale, cellWidth int) {
	for _, h := range holidays {
		t, err := time.Parse(dateLayout, h)
		if err != nil {
			continue
		}
		col := dateToCol(t, origin, scale, cellWidth)
		if col >= 0 && col < g.Columns {
			g.Holidaycols[col] = true
		}
	}
}

// colToApproxDate inverts dateToCol for the day/week scales only (the only
// scales weekend shading applies to, per 4.5).
func colToApproxDate(col int, origin time.Time, scale model.GanttScale, cellWidth int) time.Time {
	switch scale {
	case model.ScaleDay:
		return origin.AddDate(0, 0, col/cellWidth)
	case model.ScaleWeek:
		week := col / cellWidth
		offset := col % cellWidth
		return origin.AddDate(0, 0, week*7+offset)
	default:
		return origin
	}
}

func buildHeader(columns int, origin time.Time, scale model.GanttScale, cellWidth int) Header {
	h := Header{}
	if columns <= 0 {
		return h
	}
	n := (columns + cellWidth - 1) / cellWidth
	switch scale {
	case model.ScaleDay:
		h.Labels = make([]string, n)
		for i := 0; i < n; i++ {
			d := origin.AddDate(0, 0, i)
			h.Labels[i] = d.Format("02")
		}
		h.Bands = dayMonthBands(origin, n, 1)
	case model.ScaleWeek:
		h.Labels = make([]string, n)
		h.Weekdays = make([]string, n)
		for i := 0; i < n; i++ {
			weekStart := origin.AddDate(0, 0, i*7)
			_, week := weekStart.ISOWeek()
			h.Labels[i] = "W" + itoa2(week)
			h.Weekdays[i] = "MTWTFSS"
		}
		h.Bands = dayMonthBands(origin, n, 7)
	case model.ScaleMonth:
		h.Labels = make([]string, n)
		for i := 0; i < n; i++ {
			d := origin.AddDate(0, i, 0)
			h.Labels[i] = d.Format("Jan")
		}
		h.Bands = yearBands(origin, n, 1)
	case model.ScaleQuarter:
		h.Labels = make([]string, n)
		for i := 0; i < n; i++ {
			d := origin.AddDate(0, i*3, 0)
			h.Labels[i] = "Q" + strconv.Itoa((int(d.Month())-1)/3+1)
		}
		h.Bands = yearBands(origin, n, 3)
	case model.ScaleYear:
		h.Labels = make([]string, n)
		for i := 0; i < n; i++ {
			h.Labels[i] = itoa4(origin.Year() + i)
		}
		h.Bands = []Band{{Label: "", Start: 0, Width: n}}
	}
	return h
}

// dayMonthBands merges day/week-scale columns into month bands. Each
// column i covers daysPerCell days starting at origin, the same unit the
// day/week Labels loops above use, not months.
func dayMonthBands(origin time.Time, n, daysPerCell int) []Band {
	var bands []Band
	for i := 0; i < n; i++ {
		d := origin.AddDate(0, 0, i*daysPerCell)
		label := d.Format("Jan 2006")
		if len(bands) > 0 && bands[len(bands)-1].Label == label {
			bands[len(bands)-1].Width++
			continue
		}
		bands = append(bands, Band{Label: label, Start: i, Width: 1})
	}
	return bands
}

func yearBands(origin time.Time, n, monthsPerCell int) []Band {
	var bands []Band
	for i := 0; i < n; i++ {
		d := origin.AddDate(0, i*monthsPerCell, 0)
		label := itoa4(d.Year())
		if len(bands) > 0 && bands[len(bands)-1].Label == label {
			bands[len(bands)-1].Width++
			continue
		}
		bands = append(bands, Band{Label: label, Start: i, Width: 1})
	}
	return bands
}

func itoa2(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	if len(s) > 2 {
		return s[len(s)-2:]
	}
	return s
}

func itoa4(n int) string {
	return strconv.Itoa(n)
}
