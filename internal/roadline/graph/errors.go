package graph

import (
	"fmt"

	"github.com/ramate-io/roadline-go/pkg/models"
)

// ErrorKind enumerates the ways a graph operation can fail.
type ErrorKind int

const (
	// TaskNotFound indicates an operation referenced a task id the graph
	// does not contain.
	TaskNotFound ErrorKind = iota
)

// Error is the error type returned by graph operations.
type Error struct {
	Kind   ErrorKind
	TaskID models.TaskId
}

func (e *Error) Error() string {
	switch e.Kind {
	case TaskNotFound:
		return fmt.Sprintf("graph: task %d not found", e.TaskID)
	default:
		return "graph: unknown error"
	}
}

func newTaskNotFound(id models.TaskId) error {
	return &Error{Kind: TaskNotFound, TaskID: id}
}
