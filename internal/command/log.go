package command

import "tuiwbs/internal/model"

// maxUndoDepth caps the undo stack; the oldest entry is dropped once it is
// exceeded.
const maxUndoDepth = 200

// Log is the undo/redo stack over a sequence of Project snapshots. It never
// mutates a Project in place: Apply/Undo/Redo each replace Log.current with
// a freshly produced snapshot from a Command's Apply.
type Log struct {
	current *model.Project
	undo    []Command
	redo    []Command
}

// NewLog starts a fresh log positioned at initial.
func NewLog(initial *model.Project) *Log {
	return &Log{current: initial}
}

// Current returns the project snapshot the log is positioned at.
func (l *Log) Current() *model.Project {
	return l.current
}

// Apply runs cmd against the current snapshot, advances the log on success,
// and clears the redo stack (a fresh command invalidates any redo history).
func (l *Log) Apply(cmd Command) error {
	next, inverse, err := cmd.Apply(l.current)
	if err != nil {
		return err
	}
	l.current = next
	l.undo = append(l.undo, inverse)
	if len(l.undo) > maxUndoDepth {
		l.undo = l.undo[len(l.undo)-maxUndoDepth:]
	}
	l.redo = nil
	return nil
}

// CanUndo reports whether Undo has anything to do.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether Redo has anything to do.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// Undo replays the most recent inverse command, pushing its own inverse
// (the forward command) onto the redo stack.
func (l *Log) Undo() error {
	if !l.CanUndo() {
		return nil
	}
	inverse := l.undo[len(l.undo)-1]
	next, forward, err := inverse.Apply(l.current)
	if err != nil {
		return err
	}
	l.undo = l.undo[:len(l.undo)-1]
	l.current = next
	l.redo = append(l.redo, forward)
	return nil
}

// Redo reapplies the most recently undone command.
func (l *Log) Redo() error {
	if !l.CanRedo() {
		return nil
	}
	cmd := l.redo[len(l.redo)-1]
	next, inverse, err := cmd.Apply(l.current)
	if err != nil {
		return err
	}
	l.redo = l.redo[:len(l.redo)-1]
	l.current = next
	l.undo = append(l.undo, inverse)
	return nil
}
