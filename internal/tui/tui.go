package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"tuiwbs/internal/config"
	"tuiwbs/internal/lock"
	"tuiwbs/internal/parser"
)

// Run loads the project rooted at dir, acquires the advisory lock, and
// launches the interactive shell.
func Run(dir string) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference()

	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	lh, lockWarn, err := lock.Acquire(dir)
	if err != nil {
		return err
	}
	defer lh.Release()

	p, err := parser.ScanDir(dir, cfg)
	if err != nil {
		return err
	}
	p.LockHeld = true

	m := newAppModel(dir, p, lh, lockWarn)

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
