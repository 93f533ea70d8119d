// Package cli implements a thin cobra shell: launching the interactive TUI
// by default, and a headless `export` subcommand for one-way
// Markdown/Mermaid generation.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tuiwbs/internal/config"
	"tuiwbs/internal/model"
	"tuiwbs/internal/parser"
	"tuiwbs/internal/tui"
)

// ExitError carries the process exit code a failure should produce:
// 2 unrecoverable parse, 3 locked, 4 I/O error during save.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

func NewRootCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:          "wbs [dir]",
		Short:        "Terminal work breakdown structure editor",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveDir(dir, args)
			if err != nil {
				return err
			}
			if err := tui.Run(target); err != nil {
				return classifyErr(err, 2)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&dir, "dir", "", "Project directory (default: current directory)")
	cmd.AddCommand(newExportCmd())

	return cmd
}

func resolveDir(dir string, args []string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return os.Getwd()
}

// classifyErr wraps err in an ExitError. Locked/LockLost always exit 3
// regardless of phase; everything else takes defaultCode, which the caller
// picks based on whether err came from loading (2) or saving (4).
func classifyErr(err error, defaultCode int) error {
	switch err.(type) {
	case model.LockedError, model.LockLostError:
		return &ExitError{Code: 3, Err: err}
	default:
		return &ExitError{Code: defaultCode, Err: err}
	}
}

// logFailure emits a structured stderr record for a non-interactive
// failure: level, kind, and message.
func logFailure(kind string, err error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Error("command failed", "kind", kind, "message", err.Error(), "time", time.Now().Format(time.RFC3339))
}

// Execute runs the root command and returns the process exit code to use.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		code := 2
		if ee, ok := err.(*ExitError); ok {
			code = ee.Code
			logFailure(fmt.Sprintf("exit-%d", code), ee.Err)
		} else {
			logFailure("unknown", err)
		}
		return code
	}
	return 0
}

// loadHeadless parses dir without acquiring the interactive lock, for
// commands (export) that only read the project.
func loadHeadless(dir string) (*model.Project, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	p, err := parser.ScanDir(dir, cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}
