package parser

import (
	"tuiwbs/internal/model"
)

// applyMilestoneGeometry enforces end == start for every milestone node,
// per the milestone-geometry invariant (3.2). Duration is left untouched
// on disk but is semantically ignored by every consumer.
func applyMilestoneGeometry(roots []*model.Node) {
	for _, r := range roots {
		r.Walk(func(n *model.Node) {
			if n.Milestone && n.Start != "" {
				n.End = n.Start
			}
		})
	}
}

// applyDateArithmetic fills in the third of {start, end, duration} when
// exactly two are set and consistent, and emits a warning (never an error)
// when all three are set but inconsistent.
func applyDateArithmetic(roots []*model.Node, warnings *[]model.ParseWarning) {
	for _, r := range roots {
		r.Walk(func(n *model.Node) {
			reconcileNodeDates(n, warnings)
		})
	}
}

func reconcileNodeDates(n *model.Node, warnings *[]model.ParseWarning) {
	if n.Milestone {
		return
	}
	start, hasStart := parseDate(n.Start)
	end, hasEnd := parseDate(n.End)
	days, hasDuration := durationDays(n.Duration)

	switch {
	case hasStart && hasEnd && hasDuration:
		expectedEnd := start.AddDate(0, 0, days-1)
		if !expectedEnd.Equal(end) {
			*warnings = append(*warnings, model.ParseWarning{
				File: n.SourceFile, Kind: "DateConflict",
				Message: "start/end/duration are inconsistent for " + n.Title,
			})
		}
	case hasStart && hasEnd && !hasDuration:
		d := int(end.Sub(start).Hours()/24) + 1
		if d > 0 {
			n.Duration = formatDuration(d)
		}
	case hasStart && hasDuration && !hasEnd:
		n.End = formatDate(start.AddDate(0, 0, days-1))
	case hasEnd && hasDuration && !hasStart:
		n.Start = formatDate(end.AddDate(0, 0, -(days - 1)))
	}
}

// applyProgressReconciliation sets every node's Progress to its computed
// value per the progress-reconciliation invariant (3.2).
func applyProgressReconciliation(roots []*model.Node) {
	for _, r := range roots {
		r.Walk(func(n *model.Node) {
			n.Progress = n.ComputedProgress()
		})
	}
}
