package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tuiwbs/internal/model"
)

func TestLoadMissingReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != filepath.Base(dir) {
		t.Fatalf("expected default name %q, got %q", filepath.Base(dir), cfg.Name)
	}
	if len(cfg.Views) == 0 {
		t.Fatalf("expected default view config")
	}
}

func TestSaveLoadRoundTripsValues(t *testing.T) {
	dir := t.TempDir()
	cfg := model.DefaultProjectConfig("demo")
	cfg.Views = append(cfg.Views, model.ViewConfig{Name: "Board", Type: model.ViewKanban, GroupBy: "status"})

	if err := Save(dir, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "demo" {
		t.Fatalf("expected name demo, got %q", got.Name)
	}
	found := false
	for _, v := range got.Views {
		if v.Name == "Board" && v.Type == model.ViewKanban && v.GroupBy == "status" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Board kanban view to round trip, got %+v", got.Views)
	}
}

func TestSavePreservesCommentsKeyOrderAndUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, primaryRelPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	original := "" +
		"# project settings\n" +
		"date_format = \"iso\" # keep ISO dates\n" +
		"name = \"old-name\"\n" +
		"default_view_id = \"default\"\n" +
		"default_columns = [\"title\", \"status\"]\n" +
		"workspace_color = \"teal\"\n" +
		"\n" +
		"[gantt_widths]\n" +
		"day = 2\n" +
		"week = 7\n" +
		"month = 6\n" +
		"quarter = 6\n" +
		"year = 6\n" +
		"\n" +
		"[[views]]\n" +
		"id = \"default\"\n" +
		"name = \"Table\"\n" +
		"type = \"table\"\n" +
		"columns = [\"title\", \"status\"]\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatalf("write seed config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.Name = "new-name"

	if err := Save(dir, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	got := string(out)

	if !strings.Contains(got, "# project settings") {
		t.Fatalf("expected leading comment to survive, got:\n%s", got)
	}
	if !strings.Contains(got, "date_format = \"iso\" # keep ISO dates") {
		t.Fatalf("expected date_format line with its trailing comment to survive unchanged, got:\n%s", got)
	}
	if !strings.Contains(got, "workspace_color = \"teal\"") {
		t.Fatalf("expected unrecognized key to round-trip untouched, got:\n%s", got)
	}
	if !strings.Contains(got, "name = \"new-name\"") {
		t.Fatalf("expected updated name to be written, got:\n%s", got)
	}
	if strings.Contains(got, "old-name") {
		t.Fatalf("expected stale name value to be replaced, got:\n%s", got)
	}

	dateIdx := strings.Index(got, "date_format")
	nameIdx := strings.Index(got, "name = ")
	if dateIdx < 0 || nameIdx < 0 || dateIdx > nameIdx {
		t.Fatalf("expected date_format to keep its original position before name, got:\n%s", got)
	}
}

func TestPathPrefersPrimaryThenLegacy(t *testing.T) {
	dir := t.TempDir()
	if got := Path(dir); got != filepath.Join(dir, primaryRelPath) {
		t.Fatalf("expected primary path fallback, got %q", got)
	}

	legacy := filepath.Join(dir, legacyRelPath)
	if err := os.WriteFile(legacy, []byte(""), 0o644); err != nil {
		t.Fatalf("write legacy: %v", err)
	}
	if got := Path(dir); got != legacy {
		t.Fatalf("expected legacy path once present, got %q", got)
	}

	primary := filepath.Join(dir, primaryRelPath)
	if err := os.MkdirAll(filepath.Dir(primary), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(primary, []byte(""), 0o644); err != nil {
		t.Fatalf("write primary: %v", err)
	}
	if got := Path(dir); got != primary {
		t.Fatalf("expected primary path once present, got %q", got)
	}
}

func TestEnsureInitializedCreatesDefaultOnce(t *testing.T) {
	dir := t.TempDir()
	cfg, err := EnsureInitialized(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != filepath.Base(dir) {
		t.Fatalf("unexpected name %q", cfg.Name)
	}
	if _, err := os.Stat(Path(dir)); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}

	cfg.Name = "renamed"
	if err := Save(dir, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	again, err := EnsureInitialized(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Name != "renamed" {
		t.Fatalf("expected EnsureInitialized to preserve existing config, got %q", again.Name)
	}
}
