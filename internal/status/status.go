// Package status derives a task's display status from its resolved span
// and the current time. It holds no state of its own: the same (span,
// asOf) pair always yields the same status.
package status

import (
	"time"

	"github.com/ramate-io/roadline-go/internal/roadline/rangealgebra"
)

// Status is a task's derived position relative to "now", mirroring the
// four-way split a roadmap renderer needs: not yet underway, underway,
// finished cleanly, or finished too late to keep a dependent on schedule.
type Status int

const (
	// NotStarted means asOf is before the task's span begins.
	NotStarted Status = iota
	// InProgress means asOf falls within the task's span.
	InProgress
	// Completed means the task's span has ended by asOf, with no
	// dependent left waiting on it.
	Completed
	// Missed means the task's span ended after a dependent's span had
	// already started — the task ran behind the schedule downstream work
	// assumed.
	Missed
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	case Missed:
		return "missed"
	default:
		return "unknown"
	}
}

// Of derives a task's status from its span as of the given time.
// earliestDependentStart is the earliest start among the task's direct
// dependents, if any have been resolved; pass a zero time.Time when the
// task has no dependents (or none have been computed yet).
func Of(span rangealgebra.Span, asOf time.Time, earliestDependentStart time.Time) Status {
	if asOf.Before(span.Start) {
		return NotStarted
	}
	if asOf.Before(span.End) {
		return InProgress
	}
	if !earliestDependentStart.IsZero() && span.End.After(earliestDependentStart) {
		return Missed
	}
	return Completed
}
