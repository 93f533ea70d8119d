// Package view implements a pure Project→rows projection: filtering,
// sorting, grouping, depth capping, and the delayed-start highlight, none
// of which mutate the underlying Project.
package view

import (
	"strconv"
	"strings"
	"time"

	"tuiwbs/internal/model"
)

// DisplayRow is one rendered row of a projected view.
type DisplayRow struct {
	NodeID    string
	Depth     int
	Cells     map[string]string
	Delayed   bool
	Node      *model.Node
	GroupName string // set only when the view groups rows (kanban)
}

const dateLayout = "2006-01-02"

// Project renders p through cfg into an ordered row sequence. today is
// passed in explicitly (rather than time.Now()) so callers control what
// "today" means for the delayed-start highlight, keeping this function pure.
func Project(p *model.Project, cfg model.ViewConfig, today time.Time) []DisplayRow {
	cols := resolveColumns(p, cfg)
	var rows []DisplayRow
	for _, doc := range p.Documents {
		rows = append(rows, projectSiblings(doc.Roots, 1, cfg, cols, today)...)
	}
	if cfg.Type == model.ViewKanban && cfg.GroupBy != "" {
		rows = applyGroupBy(rows, cfg.GroupBy, groupEnumOrder(p, cfg.GroupBy))
	}
	return rows
}

// projectSiblings recurses depth-first, applying filter+sort within each
// sibling list (so the tree structure survives sorting, per 4.4) and the
// gantt depth cap when cfg.Type is table+gantt.
func projectSiblings(nodes []*model.Node, depth int, cfg model.ViewConfig, cols []model.ColumnDef, today time.Time) []DisplayRow {
	filtered := filterNodes(nodes, cfg.Filters)
	ordered := sortNodes(filtered, cfg.Sort)

	var rows []DisplayRow
	for _, n := range ordered {
		if cfg.Type == model.ViewTableGantt && cfg.Gantt.MaxDepth > 0 && depth > cfg.Gantt.MaxDepth {
			continue
		}
		rows = append(rows, DisplayRow{
			NodeID:  n.ID,
			Depth:   depth,
			Cells:   renderCells(n, cols),
			Delayed: isDelayed(n, today),
			Node:    n,
		})
		rows = append(rows, projectSiblings(n.Children, depth+1, cfg, cols, today)...)
	}
	return rows
}

func isDelayed(n *model.Node, today time.Time) bool {
	if n.Status != model.StatusTodo || n.Start == "" {
		return false
	}
	start, err := time.Parse(dateLayout, n.Start)
	if err != nil {
		return false
	}
	return !start.After(today)
}

// groupEnumOrder returns the declared enum order for column, or nil if it
// is not an enum column (group-by then falls back to first-appearance).
func groupEnumOrder(p *model.Project, column string) []string {
	for _, c := range p.Config.AllColumns() {
		if c.ID == column {
			if c.Type == model.ColumnEnum {
				return c.EnumValues
			}
			return nil
		}
	}
	return nil
}

func resolveColumns(p *model.Project, cfg model.ViewConfig) []model.ColumnDef {
	all := p.Config.AllColumns()
	byID := make(map[string]model.ColumnDef, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	cols := make([]model.ColumnDef, 0, len(cfg.Columns))
	for _, id := range cfg.Columns {
		if c, ok := byID[id]; ok {
			cols = append(cols, c)
		}
	}
	return cols
}

func renderCells(n *model.Node, cols []model.ColumnDef) map[string]string {
	cells := make(map[string]string, len(cols))
	for _, c := range cols {
		cells[c.ID] = cellValue(n, c.ID)
	}
	return cells
}

func cellValue(n *model.Node, column string) string {
	switch column {
	case "title":
		return n.Title
	case "status":
		return n.Status.String()
	case "assignee":
		return n.Assignee
	case "duration":
		return n.Duration
	case "priority":
		return n.Priority.String()
	case "start":
		return n.Start
	case "end":
		return n.End
	case "progress":
		return strconv.Itoa(n.ComputedProgress())
	case "depends":
		return strings.Join(n.Depends, "; ")
	case "milestone":
		return strconv.FormatBool(n.Milestone)
	case "memo":
		return firstLine(n.Memo)
	case "file":
		return n.SourceFile
	default:
		for _, cf := range n.Custom {
			if cf.Name == column {
				return cf.Value
			}
		}
		return ""
	}
}

func firstLine(memo []byte) string {
	s := strings.TrimSpace(string(memo))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
