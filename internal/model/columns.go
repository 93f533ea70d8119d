package model

// ColumnType is the scalar type a ColumnDef's values take.
type ColumnType string

const (
	ColumnString  ColumnType = "string"
	ColumnEnum    ColumnType = "enum"
	ColumnDate    ColumnType = "date"
	ColumnNumber  ColumnType = "number"
	ColumnBoolean ColumnType = "boolean"
)

// ColumnDef describes one column, built-in or custom.
type ColumnDef struct {
	ID           string     `toml:"id"`
	DisplayName  string     `toml:"display_name"`
	Type         ColumnType `toml:"type"`
	EnumValues   []string   `toml:"enum_values,omitempty"`
	Required     bool       `toml:"required,omitempty"`
}

// BuiltinColumnIDs lists the fixed built-in column ids, in their canonical
// display order.
var BuiltinColumnIDs = []string{
	"title", "status", "assignee", "duration", "priority",
	"start", "end", "progress", "depends", "milestone", "memo", "file",
}

// BuiltinColumns returns the ColumnDef for every built-in column id.
func BuiltinColumns() []ColumnDef {
	return []ColumnDef{
		{ID: "title", DisplayName: "Title", Type: ColumnString, Required: true},
		{ID: "status", DisplayName: "Status", Type: ColumnEnum, EnumValues: []string{"TODO", "IN_PROGRESS", "DONE"}},
		{ID: "assignee", DisplayName: "Assignee", Type: ColumnString},
		{ID: "duration", DisplayName: "Duration", Type: ColumnString},
		{ID: "priority", DisplayName: "Priority", Type: ColumnEnum, EnumValues: []string{"HIGH", "MEDIUM", "LOW"}},
		{ID: "start", DisplayName: "Start", Type: ColumnDate},
		{ID: "end", DisplayName: "End", Type: ColumnDate},
		{ID: "progress", DisplayName: "Progress", Type: ColumnNumber},
		{ID: "depends", DisplayName: "Depends", Type: ColumnString},
		{ID: "milestone", DisplayName: "Milestone", Type: ColumnBoolean},
		{ID: "memo", DisplayName: "Memo", Type: ColumnString},
		{ID: "file", DisplayName: "File", Type: ColumnString},
	}
}

func IsBuiltinColumn(id string) bool {
	for _, c := range BuiltinColumnIDs {
		if c == id {
			return true
		}
	}
	return false
}
