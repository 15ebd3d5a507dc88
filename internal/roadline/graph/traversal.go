package graph

import "github.com/ramate-io/roadline-go/pkg/models"

// Visit is called once per task visited during a traversal, in visit
// order, with the task's depth from the start node (the start node itself
// is depth 0).
type Visit func(id models.TaskId, depth int)

// DFS walks the dependency edges reachable from start depth-first,
// visiting each task at most once, and calls visit for each in visit
// order. A task's dependents are pushed onto the walk stack in reverse
// declaration order so that, once popped, they are visited left-to-right
// in declaration order.
func (g *Graph) DFS(start models.TaskId, visit Visit) error {
	if !g.ContainsTask(start) {
		return newTaskNotFound(start)
	}

	type frame struct {
		id    models.TaskId
		depth int
	}

	visited := make(map[models.TaskId]bool)
	stack := []frame{{id: start, depth: 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[top.id] {
			continue
		}
		visited[top.id] = true
		visit(top.id, top.depth)

		deps := g.GetDependents(top.id)
		for i := len(deps) - 1; i >= 0; i-- {
			if !visited[deps[i]] {
				stack = append(stack, frame{id: deps[i], depth: top.depth + 1})
			}
		}
	}
	return nil
}

// BFS walks the dependency edges reachable from start breadth-first,
// visiting each task at most once, and calls visit for each in visit
// order.
func (g *Graph) BFS(start models.TaskId, visit Visit) error {
	if !g.ContainsTask(start) {
		return newTaskNotFound(start)
	}

	type frame struct {
		id    models.TaskId
		depth int
	}

	visited := map[models.TaskId]bool{start: true}
	queue := []frame{{id: start, depth: 0}}

	for len(queue) > 0 {
		top := queue[0]
		queue = queue[1:]
		visit(top.id, top.depth)

		for _, dep := range g.GetDependents(top.id) {
			if !visited[dep] {
				visited[dep] = true
				queue = append(queue, frame{id: dep, depth: top.depth + 1})
			}
		}
	}
	return nil
}

// buildReverseAdjacency maps each task to the tasks that directly depend on
// it reversed, i.e. for task t, the tasks t itself depends on. Built fresh
// on each call since facts are stored prerequisite-to-dependent and callers
// of RevDFS/RevBFS are expected to be infrequent relative to GetDependents.
func (g *Graph) buildReverseAdjacency() map[models.TaskId][]models.TaskId {
	reverse := make(map[models.TaskId][]models.TaskId, len(g.facts))
	for parent, predicates := range g.facts {
		for _, p := range predicates {
			reverse[p.TaskID] = append(reverse[p.TaskID], parent)
		}
	}
	return reverse
}

// RevDFS walks the dependency edges reachable from start depth-first in
// reverse: from a task to the tasks it depends on, rather than to the tasks
// that depend on it. Visits each task at most once and calls visit for each
// in visit order.
func (g *Graph) RevDFS(start models.TaskId, visit Visit) error {
	if !g.ContainsTask(start) {
		return newTaskNotFound(start)
	}

	type frame struct {
		id    models.TaskId
		depth int
	}

	reverse := g.buildReverseAdjacency()
	visited := make(map[models.TaskId]bool)
	stack := []frame{{id: start, depth: 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[top.id] {
			continue
		}
		visited[top.id] = true
		visit(top.id, top.depth)

		parents := reverse[top.id]
		for i := len(parents) - 1; i >= 0; i-- {
			if !visited[parents[i]] {
				stack = append(stack, frame{id: parents[i], depth: top.depth + 1})
			}
		}
	}
	return nil
}

// RevBFS walks the dependency edges reachable from start breadth-first in
// reverse: from a task to the tasks it depends on, rather than to the tasks
// that depend on it. Visits each task at most once and calls visit for each
// in visit order.
func (g *Graph) RevBFS(start models.TaskId, visit Visit) error {
	if !g.ContainsTask(start) {
		return newTaskNotFound(start)
	}

	type frame struct {
		id    models.TaskId
		depth int
	}

	reverse := g.buildReverseAdjacency()
	visited := map[models.TaskId]bool{start: true}
	queue := []frame{{id: start, depth: 0}}

	for len(queue) > 0 {
		top := queue[0]
		queue = queue[1:]
		visit(top.id, top.depth)

		for _, parent := range reverse[top.id] {
			if !visited[parent] {
				visited[parent] = true
				queue = append(queue, frame{id: parent, depth: top.depth + 1})
			}
		}
	}
	return nil
}

// ReachableTasks returns every task reachable from start via dependency
// edges (not including start's own cycles back to itself beyond the first
// visit), in DFS visit order.
func (g *Graph) ReachableTasks(start models.TaskId) ([]models.TaskId, error) {
	var reached []models.TaskId
	err := g.DFS(start, func(id models.TaskId, _ int) {
		reached = append(reached, id)
	})
	if err != nil {
		return nil, err
	}
	return reached, nil
}

// ShortestPath returns the shortest dependency-edge path from "from" to
// "to" (inclusive of both endpoints), or nil if "to" is unreachable from
// "from". A task is always reachable from itself: ShortestPath(x, x)
// returns []TaskId{x}.
func (g *Graph) ShortestPath(from, to models.TaskId) ([]models.TaskId, error) {
	if !g.ContainsTask(from) {
		return nil, newTaskNotFound(from)
	}
	if !g.ContainsTask(to) {
		return nil, newTaskNotFound(to)
	}
	if from == to {
		return []models.TaskId{from}, nil
	}

	parent := map[models.TaskId]models.TaskId{from: from}
	queue := []models.TaskId{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range g.GetDependents(current) {
			if _, seen := parent[dep]; seen {
				continue
			}
			parent[dep] = current
			if dep == to {
				return reconstructPath(parent, from, to), nil
			}
			queue = append(queue, dep)
		}
	}
	return nil, nil
}

func reconstructPath(parent map[models.TaskId]models.TaskId, from, to models.TaskId) []models.TaskId {
	var reversed []models.TaskId
	for node := to; ; {
		reversed = append(reversed, node)
		if node == from {
			break
		}
		node = parent[node]
	}
	path := make([]models.TaskId, len(reversed))
	for i, id := range reversed {
		path[len(reversed)-1-i] = id
	}
	return path
}
