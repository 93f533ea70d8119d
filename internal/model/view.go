package model

// ViewType selects the shape of the view.
type ViewType string

const (
	ViewTable       ViewType = "table"
	ViewTableGantt  ViewType = "table+gantt"
	ViewKanban      ViewType = "kanban"
)

// FilterOp is a comparison operator usable in a FilterPredicate.
type FilterOp string

const (
	OpEq      FilterOp = "eq"
	OpNe      FilterOp = "ne"
	OpIn      FilterOp = "in"
	OpNotIn   FilterOp = "not_in"
	OpContains FilterOp = "contains"
	OpLt      FilterOp = "lt"
	OpLe      FilterOp = "le"
	OpGt      FilterOp = "gt"
	OpGe      FilterOp = "ge"
	OpBetween FilterOp = "between"
)

// FilterPredicate is one AND-combined clause of a view's filter list.
type FilterPredicate struct {
	Column  string   `toml:"column"`
	Op      FilterOp `toml:"op"`
	Literal []string `toml:"literal"` // single value for most ops; two for "between"; any number for "in"/"not_in"
}

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortDescriptor orders rows by one column within each parent's child list.
type SortDescriptor struct {
	Column    string        `toml:"column"`
	Direction SortDirection `toml:"direction"`
}

// GanttScale is the time unit one Gantt column represents.
type GanttScale string

const (
	ScaleDay     GanttScale = "day"
	ScaleWeek    GanttScale = "week"
	ScaleMonth   GanttScale = "month"
	ScaleQuarter GanttScale = "quarter"
	ScaleYear    GanttScale = "year"
)

// GanttOptions are the Gantt-specific knobs of a ViewConfig.
type GanttOptions struct {
	Scale      GanttScale `toml:"scale"`
	MaxDepth   int        `toml:"max_depth"` // 0 means unlimited
}

// ViewConfig declaratively describes one saved view.
type ViewConfig struct {
	ID      string   `toml:"id"`
	Name    string   `toml:"name"`
	Type    ViewType `toml:"type"`
	Columns []string `toml:"columns"`

	Filters []FilterPredicate `toml:"filters,omitempty"`
	Sort    *SortDescriptor   `toml:"sort,omitempty"`
	GroupBy string            `toml:"group_by,omitempty"`

	Gantt GanttOptions `toml:"gantt,omitempty"`
}

// DefaultViewConfig returns the view created for a brand-new project.
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		ID:      "default",
		Name:    "Table",
		Type:    ViewTable,
		Columns: []string{"title", "status", "assignee", "priority", "start", "end", "progress"},
	}
}
