// Package config reads and writes the per-project settings file:
// .tui-wbs/config.toml, falling back to a legacy .tui-wbs.toml in the
// project root. Loading a missing file yields the default config rather
// than an error.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"tuiwbs/internal/model"
)

const primaryRelPath = ".tui-wbs/config.toml"
const legacyRelPath = ".tui-wbs.toml"

// Path returns the config file Load/Save will use for dir: the primary
// location if it exists, else the legacy fallback, else the primary
// location (so a fresh project gets the modern layout).
func Path(dir string) string {
	primary := filepath.Join(dir, primaryRelPath)
	if _, err := os.Stat(primary); err == nil {
		return primary
	}
	legacy := filepath.Join(dir, legacyRelPath)
	if _, err := os.Stat(legacy); err == nil {
		return legacy
	}
	return primary
}

// Load reads the project config for dir. A missing file is equivalent to
// the default config for a project named after dir's base name.
func Load(dir string) (model.ProjectConfig, error) {
	path := Path(dir)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultProjectConfig(filepath.Base(dir)), nil
		}
		return model.ProjectConfig{}, model.IoError{Path: path, Err: err}
	}
	var cfg model.ProjectConfig
	if _, err := toml.Decode(string(b), &cfg); err != nil {
		return model.ProjectConfig{}, model.IoError{Path: path, Err: err}
	}
	if len(cfg.Views) == 0 {
		cfg.Views = []model.ViewConfig{model.DefaultViewConfig()}
	}
	return cfg, nil
}

// Save writes cfg to dir's config path atomically, via the same
// temp-file-then-rename pattern the writer package uses for documents.
//
// The top-level scalar settings (name, default_view_id, default_columns,
// holidays, date_format, theme, glyphs) are patched into the existing file
// text in place, so hand-added comments, key order, and any key this
// package doesn't recognize survive a save untouched — see patchScalars in
// toml_patch.go. The nested sections (gantt_widths, custom_columns, views)
// are always re-emitted in full, since they're edited through the TUI
// rather than by hand; see DESIGN.md.
func Save(dir string, cfg model.ProjectConfig) error {
	path := Path(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.IoError{Path: filepath.Dir(path), Err: err}
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return model.IoError{Path: path, Err: err}
	}

	nested, err := encodeNestedSections(cfg)
	if err != nil {
		return model.IoError{Path: path, Err: err}
	}
	out := patchScalars(existing, cfg)
	if out != "" {
		out += "\n"
	}
	out += nested

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return model.IoError{Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(out); err != nil {
		tmp.Close()
		return model.IoError{Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return model.IoError{Path: tmpPath, Err: err}
	}
	return os.Rename(tmpPath, path)
}

// EnsureInitialized writes a default config to dir if none exists yet,
// returning the effective config either way.
func EnsureInitialized(dir string) (model.ProjectConfig, error) {
	path := Path(dir)
	if _, err := os.Stat(path); err == nil {
		return Load(dir)
	}
	cfg := model.DefaultProjectConfig(filepath.Base(dir))
	if err := Save(dir, cfg); err != nil {
		return model.ProjectConfig{}, err
	}
	return cfg, nil
}
