package graph

import "github.com/ramate-io/roadline-go/pkg/models"

// Predicate is a single dependency fact: TaskID depends on the task under
// which it is stored, via the edge identified by DependencyID.
type Predicate struct {
	DependencyID models.DependencyId
	TaskID       models.TaskId
}

// Graph is a typed DAG of tasks: an Arena of full payloads plus a facts
// table mapping each task id to the predicates recorded under it (the set
// of tasks that depend on it). An entry for a task with no dependents is an
// empty (possibly nil) slice, not a missing key, once the task has been
// added via AddTask or AddDependency.
type Graph struct {
	arena *Arena
	facts map[models.TaskId][]Predicate
}

// New builds an empty Graph.
func New() *Graph {
	return &Graph{
		arena: NewArena(),
		facts: make(map[models.TaskId][]Predicate),
	}
}

// NewWithCapacity builds an empty Graph pre-sized for the given number of
// tasks.
func NewWithCapacity(capacity int) *Graph {
	return &Graph{
		arena: NewArenaWithCapacity(capacity),
		facts: make(map[models.TaskId][]Predicate, capacity),
	}
}

// Arena returns the graph's backing arena.
func (g *Graph) Arena() *Arena {
	return g.arena
}
