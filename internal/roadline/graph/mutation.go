package graph

import "github.com/ramate-io/roadline-go/pkg/models"

// AddTask inserts a task into the arena and wires a predicate, under each
// of its declared prerequisites, pointing at this task — so facts[id]
// always holds the set of tasks that depend on id, letting topological
// order and RootTasks/LeafTasks fall out of a single representation. A
// task with no prerequisites still gets an (empty) facts entry.
func (g *Graph) AddTask(t models.Task) {
	g.arena.PutTask(t)
	if _, ok := g.facts[t.ID]; !ok {
		g.facts[t.ID] = nil
	}
	for prerequisite := range t.Dependencies {
		g.addEdge(prerequisite, models.DependencyId{From: prerequisite, To: t.ID}, t.ID)
	}
}

// AddDependency records that dependent depends on prerequisite via dep,
// storing the dependency payload in the arena and ensuring both endpoints
// have a facts entry.
func (g *Graph) AddDependency(prerequisite models.TaskId, dep models.Dependency, dependent models.TaskId) {
	g.arena.PutDependency(dep)
	g.addEdge(prerequisite, dep.ID, dependent)
}

func (g *Graph) addEdge(prerequisite models.TaskId, depID models.DependencyId, dependent models.TaskId) {
	g.facts[prerequisite] = append(g.facts[prerequisite], Predicate{DependencyID: depID, TaskID: dependent})
	if _, ok := g.facts[dependent]; !ok {
		g.facts[dependent] = nil
	}
}

// RemoveTask deletes a task from the graph: its own facts entry, its arena
// payload, and every predicate elsewhere that references it as a
// dependent.
func (g *Graph) RemoveTask(id models.TaskId) {
	delete(g.facts, id)
	g.arena.RemoveTask(id)
	for prerequisite, predicates := range g.facts {
		filtered := predicates[:0:0]
		for _, p := range predicates {
			if p.TaskID != id {
				filtered = append(filtered, p)
			}
		}
		g.facts[prerequisite] = filtered
	}
}

// RemoveDependency removes every predicate recording that dependent
// depends on prerequisite.
func (g *Graph) RemoveDependency(prerequisite, dependent models.TaskId) {
	predicates, ok := g.facts[prerequisite]
	if !ok {
		return
	}
	filtered := predicates[:0:0]
	for _, p := range predicates {
		if p.TaskID != dependent {
			filtered = append(filtered, p)
		}
	}
	g.facts[prerequisite] = filtered
}
