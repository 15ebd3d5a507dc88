package graph

import "github.com/ramate-io/roadline-go/pkg/models"

type color int

const (
	white color = iota
	gray
	black
)

// HasCycles reports whether the graph contains any cycle, including a
// single task depending on itself.
func (g *Graph) HasCycles() bool {
	colors := make(map[models.TaskId]color, len(g.facts))
	for _, id := range g.Tasks() {
		if colors[id] == white {
			if g.dfsCycleCheck(id, colors) {
				return true
			}
		}
	}
	return false
}

func (g *Graph) dfsCycleCheck(id models.TaskId, colors map[models.TaskId]color) bool {
	colors[id] = gray
	for _, dep := range g.GetDependents(id) {
		switch colors[dep] {
		case gray:
			return true
		case white:
			if g.dfsCycleCheck(dep, colors) {
				return true
			}
		}
	}
	colors[id] = black
	return false
}

// IsDAG reports whether the graph is acyclic.
func (g *Graph) IsDAG() bool {
	return !g.HasCycles()
}

// CycleError is returned by TopologicalSort when the graph contains cycles.
type CycleError struct {
	Cycles [][]models.TaskId
}

func (e *CycleError) Error() string {
	return "graph: contains cycles"
}

// TopologicalSort returns a topological ordering of every task, breaking
// ties between tasks of equal in-degree by ascending task id (Kahn's
// algorithm over a deterministically-ordered frontier). If the graph
// contains a cycle, it returns a *CycleError describing every cycle found.
func (g *Graph) TopologicalSort() ([]models.TaskId, error) {
	if g.HasCycles() {
		return nil, &CycleError{Cycles: g.FindCycles()}
	}

	inDegree := make(map[models.TaskId]int, len(g.facts))
	for id := range g.facts {
		inDegree[id] = 0
	}
	for _, predicates := range g.facts {
		for _, p := range predicates {
			inDegree[p.TaskID]++
		}
	}

	var frontier []models.TaskId
	for id, deg := range inDegree {
		if deg == 0 {
			frontier = append(frontier, id)
		}
	}
	sortTaskIDs(frontier)

	order := make([]models.TaskId, 0, len(g.facts))
	for len(frontier) > 0 {
		next := frontier[0]
		frontier = frontier[1:]
		order = append(order, next)

		var freed []models.TaskId
		for _, dep := range g.GetDependents(next) {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				freed = append(freed, dep)
			}
		}
		sortTaskIDs(freed)
		frontier = mergeSortedTaskIDs(frontier, freed)
	}

	return order, nil
}

func sortTaskIDs(ids []models.TaskId) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

func mergeSortedTaskIDs(a, b []models.TaskId) []models.TaskId {
	merged := make([]models.TaskId, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			merged = append(merged, a[i])
			i++
		} else {
			merged = append(merged, b[j])
			j++
		}
	}
	merged = append(merged, a[i:]...)
	merged = append(merged, b[j:]...)
	return merged
}

// tarjanState holds the working state of Tarjan's algorithm across the
// recursive strongconnect calls.
type tarjanState struct {
	index   map[models.TaskId]int
	lowlink map[models.TaskId]int
	onStack map[models.TaskId]bool
	stack   []models.TaskId
	next    int
	result  [][]models.TaskId
}

// StronglyConnectedComponents returns every strongly connected component of
// the graph (Tarjan's algorithm), each as a slice of task ids. Components
// of size one with no self-loop are included, matching the graph-theoretic
// definition; callers that want only cyclic structure should use
// FindCycles instead.
func (g *Graph) StronglyConnectedComponents() [][]models.TaskId {
	st := &tarjanState{
		index:   make(map[models.TaskId]int),
		lowlink: make(map[models.TaskId]int),
		onStack: make(map[models.TaskId]bool),
	}
	for _, id := range g.Tasks() {
		if _, seen := st.index[id]; !seen {
			g.strongConnect(id, st)
		}
	}
	return st.result
}

func (g *Graph) strongConnect(id models.TaskId, st *tarjanState) {
	st.index[id] = st.next
	st.lowlink[id] = st.next
	st.next++
	st.stack = append(st.stack, id)
	st.onStack[id] = true

	for _, dep := range g.GetDependents(id) {
		if _, seen := st.index[dep]; !seen {
			g.strongConnect(dep, st)
			if st.lowlink[dep] < st.lowlink[id] {
				st.lowlink[id] = st.lowlink[dep]
			}
		} else if st.onStack[dep] {
			if st.index[dep] < st.lowlink[id] {
				st.lowlink[id] = st.index[dep]
			}
		}
	}

	if st.lowlink[id] == st.index[id] {
		var component []models.TaskId
		for {
			n := len(st.stack) - 1
			member := st.stack[n]
			st.stack = st.stack[:n]
			st.onStack[member] = false
			component = append(component, member)
			if member == id {
				break
			}
		}
		st.result = append(st.result, component)
	}
}

// FindCycles returns every cycle in the graph: every strongly connected
// component with more than one member, plus every single-task component
// that is a self-loop.
func (g *Graph) FindCycles() [][]models.TaskId {
	var cycles [][]models.TaskId
	for _, component := range g.StronglyConnectedComponents() {
		if len(component) > 1 {
			cycles = append(cycles, component)
			continue
		}
		if len(component) == 1 && g.HasDependency(component[0], component[0]) {
			cycles = append(cycles, component)
		}
	}
	return cycles
}
