package gantt

import (
	"testing"
	"time"

	"tuiwbs/internal/model"
	"tuiwbs/internal/view"
)

func TestLayoutDayScaleBar(t *testing.T) {
	n := &model.Node{ID: "a", Title: "A", Start: "2026-01-05", End: "2026-01-07", Progress: 50}
	rows := []view.DisplayRow{{NodeID: "a", Node: n}}
	cfg := model.DefaultProjectConfig("p")
	today := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	g := Layout(rows, cfg, model.ScaleDay, today)
	if len(g.Bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(g.Bars))
	}
	bar := g.Bars[0]
	if bar.EndCol <= bar.StartCol {
		t.Fatalf("expected end col after start col, got start=%d end=%d", bar.StartCol, bar.EndCol)
	}
	wantSpan := 3 * cellWidthFor(cfg.GanttWidths, model.ScaleDay)
	gotSpan := bar.EndCol - bar.StartCol + 1
	if gotSpan != wantSpan {
		t.Fatalf("expected 3-day span of %d cols, got %d", wantSpan, gotSpan)
	}
}

func TestLayoutMilestoneSingleColumn(t *testing.T) {
	n := &model.Node{ID: "m", Title: "Launch", Start: "2026-02-01", Milestone: true}
	rows := []view.DisplayRow{{NodeID: "m", Node: n}}
	cfg := model.DefaultProjectConfig("p")
	g := Layout(rows, cfg, model.ScaleDay, time.Now())
	if len(g.Milestones) != 1 {
		t.Fatalf("expected 1 milestone column, got %d", len(g.Milestones))
	}
	if g.Bars[0].StartCol != g.Bars[0].EndCol {
		t.Fatalf("expected milestone bar to be a single column")
	}
}

func TestLayoutDayScaleMonthBandsAdvanceByDaysNotMonths(t *testing.T) {
	n := &model.Node{ID: "a", Title: "A", Start: "2026-01-05", End: "2026-01-07"}
	rows := []view.DisplayRow{{NodeID: "a", Node: n}}
	cfg := model.DefaultProjectConfig("p")

	g := Layout(rows, cfg, model.ScaleDay, time.Now())
	if len(g.Header.Bands) != 1 {
		t.Fatalf("expected every day-scale column in this span to merge into one January band, got %+v", g.Header.Bands)
	}
	if g.Header.Bands[0].Label != "Jan 2026" {
		t.Fatalf("expected band label Jan 2026, got %q", g.Header.Bands[0].Label)
	}
	if g.Header.Bands[0].Width != len(g.Header.Labels) {
		t.Fatalf("expected the single band to span every column, got width=%d of %d columns",
			g.Header.Bands[0].Width, len(g.Header.Labels))
	}
}

func TestLayoutWeekScaleMonthBandsAdvanceByDaysNotMonths(t *testing.T) {
	n := &model.Node{ID: "a", Title: "A", Start: "2026-01-05", End: "2026-02-20"}
	rows := []view.DisplayRow{{NodeID: "a", Node: n}}
	cfg := model.DefaultProjectConfig("p")

	g := Layout(rows, cfg, model.ScaleWeek, time.Now())
	var total int
	for _, b := range g.Header.Bands {
		total += b.Width
	}
	if total != len(g.Header.Labels) {
		t.Fatalf("expected band widths to cover every column (%d), got total=%d across %+v",
			len(g.Header.Labels), total, g.Header.Bands)
	}
	if g.Header.Bands[0].Label != "Jan 2026" {
		t.Fatalf("expected first band to be Jan 2026, got %q", g.Header.Bands[0].Label)
	}
	last := g.Header.Bands[len(g.Header.Bands)-1]
	if last.Label != "Feb 2026" {
		t.Fatalf("expected last band to be Feb 2026 (a month away, not seven months), got %q", last.Label)
	}
}

func TestLayoutWeekendShadingOnlyDayWeek(t *testing.T) {
	n := &model.Node{ID: "a", Title: "A", Start: "2026-01-05", End: "2026-01-12"}
	rows := []view.DisplayRow{{NodeID: "a", Node: n}}
	cfg := model.DefaultProjectConfig("p")

	g := Layout(rows, cfg, model.ScaleMonth, time.Now())
	if len(g.Weekendcols) != 0 {
		t.Fatalf("expected no weekend shading at month scale")
	}

	g = Layout(rows, cfg, model.ScaleDay, time.Now())
	if len(g.Weekendcols) == 0 {
		t.Fatalf("expected weekend shading at day scale")
	}
}
