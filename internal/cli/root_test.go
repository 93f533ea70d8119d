package cli

import (
	"errors"
	"testing"

	"tuiwbs/internal/model"
)

func TestResolveDirPrefersExplicitFlagOverArgs(t *testing.T) {
	got, err := resolveDir("/flag/dir", []string{"/arg/dir"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/flag/dir" {
		t.Fatalf("expected flag dir to win, got=%q", got)
	}
}

func TestResolveDirFallsBackToPositionalArg(t *testing.T) {
	got, err := resolveDir("", []string{"/arg/dir"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/arg/dir" {
		t.Fatalf("expected positional arg, got=%q", got)
	}
}

func TestResolveDirFallsBackToWorkingDirectory(t *testing.T) {
	got, err := resolveDir("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == "" {
		t.Fatalf("expected a non-empty working directory")
	}
}

func TestClassifyErrMapsLockedToExitThreeRegardlessOfDefault(t *testing.T) {
	err := classifyErr(model.LockedError{HolderPID: 42}, 4)
	ee, ok := err.(*ExitError)
	if !ok {
		t.Fatalf("expected *ExitError, got %T", err)
	}
	if ee.Code != 3 {
		t.Fatalf("expected exit code 3 for LockedError, got %d", ee.Code)
	}
}

func TestClassifyErrMapsLockLostToExitThree(t *testing.T) {
	err := classifyErr(model.LockLostError{Reason: "stale"}, 2)
	ee, ok := err.(*ExitError)
	if !ok {
		t.Fatalf("expected *ExitError, got %T", err)
	}
	if ee.Code != 3 {
		t.Fatalf("expected exit code 3 for LockLostError, got %d", ee.Code)
	}
}

func TestClassifyErrUsesCallerDefaultForOtherErrors(t *testing.T) {
	err := classifyErr(errors.New("boom"), 4)
	ee, ok := err.(*ExitError)
	if !ok {
		t.Fatalf("expected *ExitError, got %T", err)
	}
	if ee.Code != 4 {
		t.Fatalf("expected caller-supplied default exit code 4, got %d", ee.Code)
	}
}
