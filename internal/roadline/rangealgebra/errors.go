package rangealgebra

import (
	"fmt"
	"strings"
	"time"

	"github.com/ramate-io/roadline-go/pkg/models"
)

// ErrorKind enumerates the ways RangeAlgebra computation can fail.
type ErrorKind int

const (
	TaskNotFound ErrorKind = iota
	InvalidRange
	InvalidReference
	InvalidRootRange
	TooEarlyForDependency
	NoRootTasks
	OnlyRootTasksCanSelfReference
	GraphHasCycles
	Multiple
)

// Error is the error type returned by RangeAlgebra computation. Kind
// selects which of the other fields are populated.
type Error struct {
	Kind ErrorKind

	TaskID        models.TaskId
	ReferenceID   models.TaskId
	DependencyID  models.TaskId
	SelfReference time.Duration
	Cycles        [][]models.TaskId
	Errors        []error
}

func (e *Error) Error() string {
	switch e.Kind {
	case TaskNotFound:
		return fmt.Sprintf("rangealgebra: task %d not found", e.TaskID)
	case InvalidRange:
		return fmt.Sprintf("rangealgebra: task %d has an invalid range specification", e.TaskID)
	case InvalidReference:
		return fmt.Sprintf("rangealgebra: task %d references non-existent task %d in its range", e.TaskID, e.ReferenceID)
	case InvalidRootRange:
		return fmt.Sprintf("rangealgebra: root task %d has a negative start offset", e.TaskID)
	case TooEarlyForDependency:
		return fmt.Sprintf("rangealgebra: task %d dependency not satisfied: dependency %d must end before the task starts", e.TaskID, e.DependencyID)
	case NoRootTasks:
		return "rangealgebra: no root tasks found in graph"
	case OnlyRootTasksCanSelfReference:
		return fmt.Sprintf("rangealgebra: root task %d has invalid offset %s: only root tasks can self-reference their start date", e.TaskID, e.SelfReference)
	case GraphHasCycles:
		var parts []string
		for i, cycle := range e.Cycles {
			parts = append(parts, fmt.Sprintf("cycle %d: %v", i+1, cycle))
		}
		return fmt.Sprintf("rangealgebra: graph contains cycles: %s", strings.Join(parts, "; "))
	case Multiple:
		var parts []string
		for i, err := range e.Errors {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, err))
		}
		return fmt.Sprintf("rangealgebra: multiple errors occurred: %s", strings.Join(parts, "; "))
	default:
		return "rangealgebra: unknown error"
	}
}

func newTaskNotFound(id models.TaskId) error {
	return &Error{Kind: TaskNotFound, TaskID: id}
}

func newInvalidReference(taskID, referenceID models.TaskId) error {
	return &Error{Kind: InvalidReference, TaskID: taskID, ReferenceID: referenceID}
}

func newTooEarlyForDependency(taskID, dependencyID models.TaskId) error {
	return &Error{Kind: TooEarlyForDependency, TaskID: taskID, DependencyID: dependencyID}
}

func newOnlyRootTasksCanSelfReference(taskID models.TaskId, offset time.Duration) error {
	return &Error{Kind: OnlyRootTasksCanSelfReference, TaskID: taskID, SelfReference: offset}
}

func newGraphHasCycles(cycles [][]models.TaskId) error {
	return &Error{Kind: GraphHasCycles, Cycles: cycles}
}

func newMultiple(errs []error) error {
	return &Error{Kind: Multiple, Errors: errs}
}

func newNoRootTasks() error {
	return &Error{Kind: NoRootTasks}
}
