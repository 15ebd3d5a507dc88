// Package models defines the data types shared across the roadline pipeline:
// tasks, dependencies, durations, and the relative-anchor range expressions
// used to place a task on the time axis.
package models

import "time"

// TaskId identifies a task within a single Graph/Arena. Ids are small and
// dense (at most 256 tasks per roadline).
type TaskId uint8

// DependencyId identifies a dependency edge from one task onto another.
type DependencyId struct {
	From TaskId
	To   TaskId
}

// Dependency is the payload the Arena stores for a dependency edge. It
// carries no data beyond its identity today, but is kept as a distinct
// entity (rather than folding into Predicate) so a description or kind can
// be attached later without reshaping the graph.
type Dependency struct {
	ID DependencyId
}

// Title is a task's short display name.
type Title struct {
	Text string
}

// Summary is a longer, derived description of a task (title plus subtask
// count, when present).
type Summary struct {
	Text string
}

// Subtask is a single line item embedded in a task's content.
type Subtask struct {
	Title Title
}

// EmbeddedSubtask pairs a Subtask with its position within the task so
// subtasks can be recovered in source order even though they are stored in
// an order-independent set.
type EmbeddedSubtask struct {
	Position int
	Subtask  Subtask
}

// Less orders two embedded subtasks by (Position, Title) for deterministic
// iteration over a set of subtasks.
func (e EmbeddedSubtask) Less(other EmbeddedSubtask) bool {
	if e.Position != other.Position {
		return e.Position < other.Position
	}
	return e.Subtask.Title.Text < other.Subtask.Title.Text
}

// TargetDate expresses a relative anchor: an offset past the end of
// another task (or, for root tasks, past the root date).
type TargetDate struct {
	PointOfReference TaskId
	Offset           time.Duration
}

// Start is a task's start anchor, relative to the end of the referenced
// task (or, for roots, to the root date).
type Start struct {
	Target TargetDate
}

// End is a task's duration past its Start.
type End struct {
	Duration time.Duration
}

// Range is a task's (Start, End) pair as written in source form, before
// RangeAlgebra resolves it to an absolute Span.
type Range struct {
	Start Start
	End   End
}

// Task is a single node in the roadmap graph.
type Task struct {
	ID           TaskId
	Title        Title
	Summary      Summary
	Subtasks     []EmbeddedSubtask
	Dependencies map[TaskId]struct{}
	Range        Range
}

// NewTask constructs a Task, copying the dependency set.
func NewTask(id TaskId, title Title, dependencies map[TaskId]struct{}, subtasks []EmbeddedSubtask, summary Summary, rng Range) Task {
	deps := make(map[TaskId]struct{}, len(dependencies))
	for d := range dependencies {
		deps[d] = struct{}{}
	}
	return Task{
		ID:           id,
		Title:        title,
		Summary:      summary,
		Subtasks:     subtasks,
		Dependencies: deps,
		Range:        rng,
	}
}

// IsRoot reports whether the task has no declared dependencies — the
// graph-structural notion of a root, independent of what its start anchor
// happens to point at.
func (t Task) IsRoot() bool {
	return len(t.Dependencies) == 0
}

// SelfReferences reports whether the task's start anchor points at itself.
// Only root tasks may legally do this (spec: OnlyRootTasksCanSelfReference).
func (t Task) SelfReferences() bool {
	return t.Range.Start.Target.PointOfReference == t.ID
}

// DependsOn reports whether the task declares a dependency on the given id.
func (t Task) DependsOn(id TaskId) bool {
	_, ok := t.Dependencies[id]
	return ok
}
