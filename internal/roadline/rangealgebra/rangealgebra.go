package rangealgebra

import (
	"time"

	"github.com/ramate-io/roadline-go/internal/roadline/graph"
	"github.com/ramate-io/roadline-go/pkg/models"
)

// PreRangeAlgebra is a mutable structure used to compute the range algebra
// of a graph. It does not expose computed spans, so the only way to read
// them is to call Compute, which consumes it and returns an immutable
// RangeAlgebra.
type PreRangeAlgebra struct {
	graph *graph.Graph
	spans map[models.TaskId]Span
}

// New builds a PreRangeAlgebra over g.
func New(g *graph.Graph) *PreRangeAlgebra {
	return &PreRangeAlgebra{graph: g, spans: make(map[models.TaskId]Span)}
}

// NewWithCapacity builds a PreRangeAlgebra over g, pre-sizing its span map.
func NewWithCapacity(g *graph.Graph, capacity int) *PreRangeAlgebra {
	return &PreRangeAlgebra{graph: g, spans: make(map[models.TaskId]Span, capacity)}
}

// Graph returns the underlying graph.
func (p *PreRangeAlgebra) Graph() *graph.Graph {
	return p.graph
}

// Compute resolves every task's absolute Span relative to rootDate and
// returns an immutable RangeAlgebra.
//
// Algorithm:
//  1. Check the graph is a DAG; fail fast with GraphHasCycles if not.
//  2. An empty graph computes to an empty RangeAlgebra.
//  3. Require at least one root task (a task with no declared
//     dependencies); fail fast with NoRootTasks if not.
//  4. Get a topological ordering of tasks (prerequisites before
//     dependents).
//  5. For each task in order, compute its range and validate its declared
//     dependencies, collecting every per-task error into a single
//     Multiple rather than stopping at the first.
func (p *PreRangeAlgebra) Compute(rootDate time.Time) (*RangeAlgebra, error) {
	p.spans = make(map[models.TaskId]Span)

	cycles := p.graph.FindCycles()
	if len(cycles) > 0 {
		return nil, newGraphHasCycles(cycles)
	}

	if p.graph.TaskCount() == 0 {
		return &RangeAlgebra{graph: p.graph, spans: p.spans}, nil
	}

	if !p.hasRootTask() {
		return nil, newNoRootTasks()
	}

	order, err := p.graph.TopologicalSort()
	if err != nil {
		// TopologicalSort only fails on cycles, already ruled out above.
		return nil, err
	}

	var errs []error
	for _, taskID := range order {
		if err := p.computeTaskSpan(taskID, rootDate); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, newMultiple(errs)
	}

	return &RangeAlgebra{graph: p.graph, spans: p.spans}, nil
}

func (p *PreRangeAlgebra) hasRootTask() bool {
	for _, id := range p.graph.Tasks() {
		task, err := p.graph.Task(id)
		if err == nil && task.IsRoot() {
			return true
		}
	}
	return false
}

func (p *PreRangeAlgebra) computeTaskSpan(taskID models.TaskId, rootDate time.Time) error {
	task, err := p.graph.Task(taskID)
	if err != nil {
		return newTaskNotFound(taskID)
	}

	if task.Range.End.Duration < 0 {
		return &Error{Kind: InvalidRange, TaskID: taskID}
	}

	var startDate time.Time
	if task.IsRoot() {
		if task.Range.Start.Target.Offset < 0 {
			return &Error{Kind: InvalidRootRange, TaskID: taskID}
		}
		startDate = models.AddSaturating(rootDate, task.Range.Start.Target.Offset)
	} else {
		startDate, err = p.computeNonRootStartDate(task)
		if err != nil {
			return err
		}
	}

	endDate := models.AddSaturating(startDate, task.Range.End.Duration)

	if err := p.validateDependencies(task, startDate); err != nil {
		return err
	}

	p.spans[taskID] = Span{Start: startDate, End: endDate}
	return nil
}

func (p *PreRangeAlgebra) computeNonRootStartDate(task models.Task) (time.Time, error) {
	referenceID := task.Range.Start.Target.PointOfReference
	offset := task.Range.Start.Target.Offset

	if referenceID == task.ID {
		return time.Time{}, newOnlyRootTasksCanSelfReference(task.ID, offset)
	}

	referenceSpan, ok := p.spans[referenceID]
	if !ok {
		return time.Time{}, newInvalidReference(task.ID, referenceID)
	}

	return models.AddSaturating(referenceSpan.End, offset), nil
}

func (p *PreRangeAlgebra) validateDependencies(task models.Task, taskStartDate time.Time) error {
	dependencies := p.graph.GetDependencies(task.ID)

	var errs []error
	for _, depID := range dependencies {
		depSpan, ok := p.spans[depID]
		if !ok {
			errs = append(errs, newTaskNotFound(depID))
			continue
		}
		if depSpan.End.After(taskStartDate) {
			errs = append(errs, newTooEarlyForDependency(task.ID, depID))
		}
	}
	if len(errs) > 0 {
		return newMultiple(errs)
	}
	return nil
}

// RangeAlgebra is the immutable result of computing a graph's range
// algebra: one absolute Span per task.
type RangeAlgebra struct {
	graph *graph.Graph
	spans map[models.TaskId]Span
}

// Graph returns the underlying graph.
func (r *RangeAlgebra) Graph() *graph.Graph {
	return r.graph
}

// Spans returns every computed span, keyed by task id. The returned map
// must not be mutated.
func (r *RangeAlgebra) Spans() map[models.TaskId]Span {
	return r.spans
}

// Span returns the computed span for a task.
func (r *RangeAlgebra) Span(taskID models.TaskId) (Span, bool) {
	s, ok := r.spans[taskID]
	return s, ok
}

// TaskIDs returns every task id with a computed span.
func (r *RangeAlgebra) TaskIDs() []models.TaskId {
	ids := make([]models.TaskId, 0, len(r.spans))
	for id := range r.spans {
		ids = append(ids, id)
	}
	return ids
}

// TaskCount returns the number of tasks with a computed span.
func (r *RangeAlgebra) TaskCount() int {
	return len(r.spans)
}

// HasSpan reports whether a task has a computed span.
func (r *RangeAlgebra) HasSpan(taskID models.TaskId) bool {
	_, ok := r.spans[taskID]
	return ok
}

// Task returns the full task payload for id.
func (r *RangeAlgebra) Task(taskID models.TaskId) (models.Task, error) {
	return r.graph.Task(taskID)
}

// Dependency returns the full dependency payload for id.
func (r *RangeAlgebra) Dependency(id models.DependencyId) (models.Dependency, error) {
	return r.graph.Dependency(id)
}
