package graph

import (
	"sort"

	"github.com/ramate-io/roadline-go/pkg/models"
)

// GetPredicates returns the predicates recorded directly under id — the
// tasks that depend on id — in insertion order.
func (g *Graph) GetPredicates(id models.TaskId) []Predicate {
	return g.facts[id]
}

// GetDependents returns the ids that depend directly on id, in insertion
// order. This is an O(1) lookup since facts[id] stores exactly this set.
func (g *Graph) GetDependents(id models.TaskId) []models.TaskId {
	predicates := g.facts[id]
	ids := make([]models.TaskId, 0, len(predicates))
	for _, p := range predicates {
		ids = append(ids, p.TaskID)
	}
	return ids
}

// GetDependencies returns the ids id depends on directly, sorted ascending.
// Facts are stored prerequisite-to-dependent, so recovering a task's own
// dependencies requires scanning every other task's facts for a predicate
// targeting id.
func (g *Graph) GetDependencies(id models.TaskId) []models.TaskId {
	var dependencies []models.TaskId
	for from, predicates := range g.facts {
		for _, p := range predicates {
			if p.TaskID == id {
				dependencies = append(dependencies, from)
				break
			}
		}
	}
	sort.Slice(dependencies, func(i, j int) bool { return dependencies[i] < dependencies[j] })
	return dependencies
}

// Tasks returns every task id in the graph, sorted ascending.
func (g *Graph) Tasks() []models.TaskId {
	ids := make([]models.TaskId, 0, len(g.facts))
	for id := range g.facts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.facts)
}

// DependencyCount returns the total number of dependency edges across all
// tasks.
func (g *Graph) DependencyCount() int {
	count := 0
	for _, predicates := range g.facts {
		count += len(predicates)
	}
	return count
}

// ContainsTask reports whether id is present in the graph.
func (g *Graph) ContainsTask(id models.TaskId) bool {
	_, ok := g.facts[id]
	return ok
}

// HasDependency reports whether task declares a dependency on dependency,
// i.e. whether dependency directly precedes task.
func (g *Graph) HasDependency(task, dependency models.TaskId) bool {
	for _, p := range g.facts[dependency] {
		if p.TaskID == task {
			return true
		}
	}
	return false
}

// Task returns the full task payload for id.
func (g *Graph) Task(id models.TaskId) (models.Task, error) {
	t, ok := g.arena.Task(id)
	if !ok {
		return models.Task{}, newTaskNotFound(id)
	}
	return t, nil
}

// Dependency returns the full dependency payload for id.
func (g *Graph) Dependency(id models.DependencyId) (models.Dependency, error) {
	d, ok := g.arena.Dependency(id)
	if !ok {
		return models.Dependency{}, newTaskNotFound(id.To)
	}
	return d, nil
}

// RootTasks returns every task id with no dependencies of its own — the
// tasks that never appear as a predicate target anywhere in the graph —
// sorted ascending.
func (g *Graph) RootTasks() []models.TaskId {
	isTarget := make(map[models.TaskId]bool, len(g.facts))
	for _, predicates := range g.facts {
		for _, p := range predicates {
			isTarget[p.TaskID] = true
		}
	}
	var roots []models.TaskId
	for id := range g.facts {
		if !isTarget[id] {
			roots = append(roots, id)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	return roots
}

// LeafTasks returns every task id that nothing depends on — an empty own
// facts entry — sorted ascending.
func (g *Graph) LeafTasks() []models.TaskId {
	var leaves []models.TaskId
	for id, predicates := range g.facts {
		if len(predicates) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i] < leaves[j] })
	return leaves
}
