package lock

import (
	"fmt"
	"os"
	"testing"
	"time"

	"tuiwbs/internal/model"
)

func TestAcquireReleaseRoundTrip(t *testing.T) {
	dir := t.TempDir()
	h, warning, err := Acquire(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warning != "" {
		t.Fatalf("expected no warning on fresh acquire, got %q", warning)
	}
	if _, err := os.Stat(lockPath(dir)); err != nil {
		t.Fatalf("expected lock file to exist: %v", err)
	}
	if err := h.Verify(); err != nil {
		t.Fatalf("expected verify to pass for own lock: %v", err)
	}
	if err := h.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := os.Stat(lockPath(dir)); !os.IsNotExist(err) {
		t.Fatalf("expected lock file removed after release")
	}
}

func TestAcquireLiveHolderReturnsLockedError(t *testing.T) {
	dir := t.TempDir()
	first, _, err := Acquire(dir)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer first.Release()

	_, _, err = Acquire(dir)
	if err == nil {
		t.Fatalf("expected second acquire to fail while first holds the lock")
	}
	var lockedErr model.LockedError
	if !asLockedError(err, &lockedErr) {
		t.Fatalf("expected LockedError, got %v (%T)", err, err)
	}
	if lockedErr.HolderPID != os.Getpid() {
		t.Fatalf("expected holder pid %d, got %d", os.Getpid(), lockedErr.HolderPID)
	}
}

func TestAcquireTakesOverStaleDeadPidLock(t *testing.T) {
	dir := t.TempDir()
	path := lockPath(dir)
	if err := os.MkdirAll(path[:len(path)-len("/.lock")], 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	deadPID := 999999
	content := fmt.Sprintf("%d\n%s\n", deadPID, time.Now().Format(time.RFC3339))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write stale lock: %v", err)
	}

	h, warning, err := Acquire(dir)
	if err != nil {
		t.Fatalf("expected stale lock takeover to succeed, got %v", err)
	}
	if warning != "StaleLockTakenOver" {
		t.Fatalf("expected StaleLockTakenOver warning, got %q", warning)
	}
	if err := h.Verify(); err != nil {
		t.Fatalf("expected new holder to verify, got %v", err)
	}
}

func asLockedError(err error, out *model.LockedError) bool {
	le, ok := err.(model.LockedError)
	if !ok {
		return false
	}
	*out = le
	return true
}
