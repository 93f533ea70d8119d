package view

import (
	"sort"
	"strconv"

	"tuiwbs/internal/model"
)

// sortNodes orders a single sibling list by desc, preserving original
// document order as the tie-break (sort.SliceStable keeps that for free).
func sortNodes(nodes []*model.Node, desc *model.SortDescriptor) []*model.Node {
	if desc == nil {
		return nodes
	}
	out := append([]*model.Node(nil), nodes...)
	less := lessFunc(desc.Column)
	sort.SliceStable(out, func(i, j int) bool {
		if desc.Direction == model.SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(column string) func(a, b *model.Node) bool {
	switch column {
	case "status":
		return func(a, b *model.Node) bool { return a.Status.Rank() < b.Status.Rank() }
	case "priority":
		return func(a, b *model.Node) bool { return a.Priority.Rank() < b.Priority.Rank() }
	case "progress":
		return func(a, b *model.Node) bool { return a.ComputedProgress() < b.ComputedProgress() }
	case "milestone":
		return func(a, b *model.Node) bool { return !a.Milestone && b.Milestone }
	default:
		return func(a, b *model.Node) bool {
			av, aok := numeric(cellValue(a, column))
			bv, bok := numeric(cellValue(b, column))
			if aok && bok {
				return av < bv
			}
			return cellValue(a, column) < cellValue(b, column)
		}
	}
}

func numeric(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// applyGroupBy buckets rows by the GroupName derived from their group
// column's cell value. enumOrder, if non-nil, is the column's declared enum
// order; otherwise buckets are ordered by first-appearance among rows.
func applyGroupBy(rows []DisplayRow, groupColumn string, enumOrder []string) []DisplayRow {
	var order []string
	if enumOrder != nil {
		order = append(order, enumOrder...)
	}
	seen := map[string]bool{}
	for _, v := range order {
		seen[v] = true
	}
	for i, r := range rows {
		v := r.Cells[groupColumn]
		rows[i].GroupName = v
		if !seen[v] {
			seen[v] = true
			order = append(order, v)
		}
	}
	groupIndex := make(map[string]int, len(order))
	for i, name := range order {
		groupIndex[name] = i
	}
	out := append([]DisplayRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return groupIndex[out[i].GroupName] < groupIndex[out[j].GroupName]
	})
	return out
}
