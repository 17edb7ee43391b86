package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/script-engine/pkg/script"
)

// Status is the lifecycle of one script thread.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusWaiting
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusWaiting:
		return "waiting"
	case StatusCompleted:
		return "completed"
	}
	return "unknown"
}

// Frame is one call-stack entry: the script and line of a RunScript call
// site. Return pops the frame and resumes at Line+1.
type Frame struct {
	Script *script.ScriptData
	Line   int
}

// ScriptState is the live execution cursor of one script thread. The
// parsed script it points at is shared and read-only; all mutation
// happens here.
type ScriptState struct {
	ID     uuid.UUID
	Script *script.ScriptData
	Line   int
	Status Status

	// CallStack holds nested RunScript invocations, innermost last.
	CallStack []Frame

	// BelongObject tags the NPC/Object/Good whose interaction started
	// this script. Commands that omit an actor name default to it.
	BelongObject string

	// startAt delays the first step of a parallel thread, measured
	// against the engine clock.
	startAt time.Duration

	// moved is set when a handler repositions the cursor (goto, call,
	// return), suppressing the executor's default advance for that line.
	moved bool
}

// NewScriptState binds a fresh thread to a parsed script.
func NewScriptState(data *script.ScriptData, belong string) *ScriptState {
	return &ScriptState{
		ID:           uuid.New(),
		Script:       data,
		Status:       StatusRunning,
		BelongObject: belong,
	}
}

// Active reports whether the thread still has work to do or is waiting
// on an event.
func (s *ScriptState) Active() bool {
	return s.Status == StatusRunning || s.Status == StatusWaiting
}

// FileName returns the current script's file name, for diagnostics.
func (s *ScriptState) FileName() string {
	if s.Script == nil {
		return ""
	}
	return s.Script.FileName
}
