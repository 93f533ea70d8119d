package model

// DateFormatPreset selects how dates render in table cells (parsing and
// storage are always YYYY-MM-DD; this only affects display).
type DateFormatPreset string

const (
	DateFormatISO   DateFormatPreset = "iso"        // 2026-03-06
	DateFormatUS    DateFormatPreset = "us"         // 03/06/2026
	DateFormatLong  DateFormatPreset = "long"       // Mar 6, 2026
)

// GanttWidths holds the per-scale column width (in characters) the Gantt
// layout uses unless config.toml overrides it. See DESIGN.md for how the
// default week width was chosen.
type GanttWidths struct {
	Day     int `toml:"day"`
	Week    int `toml:"week"`
	Month   int `toml:"month"`
	Quarter int `toml:"quarter"`
	Year    int `toml:"year"`
}

func DefaultGanttWidths() GanttWidths {
	return GanttWidths{Day: 2, Week: 7, Month: 6, Quarter: 6, Year: 6}
}

// ThemePreference and GlyphPreference are ambient shell preferences that
// may be declared in config.toml but are always overridable by environment
// variables at process start.
type ThemePreference string

const (
	ThemeAuto  ThemePreference = "auto"
	ThemeLight ThemePreference = "light"
	ThemeDark  ThemePreference = "dark"
)

type GlyphPreference string

const (
	GlyphUnicode GlyphPreference = "unicode"
	GlyphASCII   GlyphPreference = "ascii"
)

// ProjectConfig is the per-project settings value read from and written to
// .tui-wbs/config.toml (or the legacy .tui-wbs.toml fallback).
type ProjectConfig struct {
	Name           string            `toml:"name"`
	DefaultViewID  string            `toml:"default_view_id"`
	DefaultColumns []string          `toml:"default_columns"`
	CustomColumns  []ColumnDef       `toml:"custom_columns,omitempty"`
	Holidays       []string          `toml:"holidays,omitempty"` // YYYY-MM-DD
	DateFormat     DateFormatPreset  `toml:"date_format"`
	GanttWidths    GanttWidths       `toml:"gantt_widths"`
	Views          []ViewConfig      `toml:"views"`

	Theme  ThemePreference `toml:"theme,omitempty"`
	Glyphs GlyphPreference `toml:"glyphs,omitempty"`
}

// DefaultProjectConfig is what a freshly initialized project gets.
func DefaultProjectConfig(name string) ProjectConfig {
	dv := DefaultViewConfig()
	return ProjectConfig{
		Name:           name,
		DefaultViewID:  dv.ID,
		DefaultColumns: append([]string(nil), dv.Columns...),
		DateFormat:     DateFormatISO,
		GanttWidths:    DefaultGanttWidths(),
		Views:          []ViewConfig{dv},
		Theme:          ThemeAuto,
		Glyphs:         GlyphUnicode,
	}
}

// ViewByID returns the view with the given id (DefaultViewID when id is
// empty); if no view has that id it returns the first configured view, and
// false only if there are no views at all.
func (c ProjectConfig) ViewByID(id string) (ViewConfig, bool) {
	if id == "" {
		id = c.DefaultViewID
	}
	for _, v := range c.Views {
		if v.ID == id {
			return v, true
		}
	}
	if len(c.Views) > 0 {
		return c.Views[0], true
	}
	return ViewConfig{}, false
}

// AllColumns returns the built-in columns followed by the project's custom
// columns, in config-declared order — the order the writer uses for custom
// fields in the canonical metadata comment.
func (c ProjectConfig) AllColumns() []ColumnDef {
	cols := BuiltinColumns()
	return append(cols, c.CustomColumns...)
}
