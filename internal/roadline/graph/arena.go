// Package graph implements the typed dependency graph at the base of the
// roadline pipeline: an Arena owning task and dependency payloads, and a
// Graph of Predicate facts over task ids.
package graph

import "github.com/ramate-io/roadline-go/pkg/models"

// Arena owns every Task and Dependency by value, indexed by id. The Graph
// never stores payloads directly — only ids and the Predicate facts that
// relate them — so a task can be looked up in O(1) without walking edges.
type Arena struct {
	tasks        map[models.TaskId]models.Task
	dependencies map[models.DependencyId]models.Dependency
}

// NewArena builds an empty Arena.
func NewArena() *Arena {
	return &Arena{
		tasks:        make(map[models.TaskId]models.Task),
		dependencies: make(map[models.DependencyId]models.Dependency),
	}
}

// NewArenaWithCapacity builds an empty Arena pre-sized for the given number
// of tasks.
func NewArenaWithCapacity(capacity int) *Arena {
	return &Arena{
		tasks:        make(map[models.TaskId]models.Task, capacity),
		dependencies: make(map[models.DependencyId]models.Dependency),
	}
}

// PutTask stores or replaces a task.
func (a *Arena) PutTask(t models.Task) {
	a.tasks[t.ID] = t
}

// Task looks up a task by id.
func (a *Arena) Task(id models.TaskId) (models.Task, bool) {
	t, ok := a.tasks[id]
	return t, ok
}

// RemoveTask deletes a task from the arena.
func (a *Arena) RemoveTask(id models.TaskId) {
	delete(a.tasks, id)
}

// PutDependency stores or replaces a dependency.
func (a *Arena) PutDependency(d models.Dependency) {
	a.dependencies[d.ID] = d
}

// Dependency looks up a dependency by id.
func (a *Arena) Dependency(id models.DependencyId) (models.Dependency, bool) {
	d, ok := a.dependencies[id]
	return d, ok
}

// RemoveDependency deletes a dependency from the arena.
func (a *Arena) RemoveDependency(id models.DependencyId) {
	delete(a.dependencies, id)
}

// TaskCount returns the number of tasks stored.
func (a *Arena) TaskCount() int {
	return len(a.tasks)
}
