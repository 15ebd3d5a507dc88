// Package roadline wires Graph, RangeAlgebra, GridAlgebra, and Reified into
// a single immutable Roadline: the only type a caller outside this
// pipeline should hold onto.
package roadline

import (
	"fmt"
	"time"

	"github.com/ramate-io/roadline-go/internal/roadline/gridalgebra"
	"github.com/ramate-io/roadline-go/internal/roadline/reified"
	"github.com/ramate-io/roadline-go/internal/status"
	"github.com/ramate-io/roadline-go/pkg/models"
)

// Roadline is the immutable output of a Builder: resolved geometry for
// every task and dependency, plus read-only access to the underlying
// graph. It exposes no mutation.
type Roadline struct {
	reified *reified.Reified
}

// TaskRectangles returns every task's render rectangle, ordered by task id.
func (r *Roadline) TaskRectangles() []reified.TaskRectangle {
	return r.reified.TaskRectangles()
}

// TaskBounds returns a single task's render rectangle as (x0, y0, x1, y1).
func (r *Roadline) TaskBounds(taskID models.TaskId) (reified.ReifiedUnit, reified.ReifiedUnit, reified.ReifiedUnit, reified.ReifiedUnit, bool) {
	return r.reified.TaskBounds(taskID)
}

// BezierCurves returns every dependency's Bézier joint geometry, ordered by
// (from, to) task id.
func (r *Roadline) BezierCurves() []reified.BezierCurve {
	return r.reified.BezierCurves()
}

// Connections returns the same dependency set as BezierCurves.
func (r *Roadline) Connections() []reified.BezierCurve {
	return r.reified.Connections()
}

// VisualBounds returns the content's bounding box (max_x, max_y), rooted at
// (0, 0).
func (r *Roadline) VisualBounds() (reified.ReifiedUnit, reified.ReifiedUnit) {
	return r.reified.VisualBounds()
}

// GridUnit returns the StretchUnit the grid stage chose for this roadline.
func (r *Roadline) GridUnit() gridalgebra.StretchUnit {
	return r.reified.GridAlgebra().Unit()
}

// Task returns the full task payload for id.
func (r *Roadline) Task(taskID models.TaskId) (models.Task, error) {
	return r.reified.Task(taskID)
}

// Dependency returns the full dependency payload for id.
func (r *Roadline) Dependency(id models.DependencyId) (models.Dependency, error) {
	return r.reified.Dependency(id)
}

// TaskStatus derives a task's display status as of the given time: whether
// it hasn't started yet, is underway, finished on schedule, or finished too
// late to keep its earliest dependent on schedule.
func (r *Roadline) TaskStatus(taskID models.TaskId, asOf time.Time) (status.Status, error) {
	ranges := r.reified.GridAlgebra().RangeAlgebra()

	span, ok := ranges.Span(taskID)
	if !ok {
		return 0, fmt.Errorf("roadline: no resolved span for task %d", taskID)
	}

	var earliestDependentStart time.Time
	for _, dependentID := range ranges.Graph().GetDependents(taskID) {
		dependentSpan, ok := ranges.Span(dependentID)
		if !ok {
			continue
		}
		if earliestDependentStart.IsZero() || dependentSpan.Start.Before(earliestDependentStart) {
			earliestDependentStart = dependentSpan.Start
		}
	}

	return status.Of(span, asOf, earliestDependentStart), nil
}

// DFS walks the dependency edges reachable from start depth-first.
func (r *Roadline) DFS(start models.TaskId, visit func(models.TaskId, int)) error {
	return r.reified.DFS(start, visit)
}

// BFS walks the dependency edges reachable from start breadth-first.
func (r *Roadline) BFS(start models.TaskId, visit func(models.TaskId, int)) error {
	return r.reified.BFS(start, visit)
}

// RevDFS walks the dependency edges reachable from start depth-first, in
// reverse: from a task to the tasks it depends on.
func (r *Roadline) RevDFS(start models.TaskId, visit func(models.TaskId, int)) error {
	return r.reified.RevDFS(start, visit)
}

// RevBFS walks the dependency edges reachable from start breadth-first, in
// reverse: from a task to the tasks it depends on.
func (r *Roadline) RevBFS(start models.TaskId, visit func(models.TaskId, int)) error {
	return r.reified.RevBFS(start, visit)
}
