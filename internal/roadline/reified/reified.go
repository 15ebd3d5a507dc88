package reified

import (
	"sort"

	"github.com/ramate-io/roadline-go/internal/roadline/gridalgebra"
	"github.com/ramate-io/roadline-go/pkg/models"
)

// DefaultPadding is the inter-lane gap used when a builder does not
// override it.
const DefaultPadding ReifiedUnit = 1

// DefaultTrim is the stretch-tail trim used when a builder does not
// override it.
const DefaultTrim Trim = 2

// PreReified is a mutable structure used to scale a GridAlgebra to render
// units. Compute consumes it and returns an immutable Reified.
type PreReified struct {
	grid    *gridalgebra.GridAlgebra
	padding ReifiedUnit
	trim    Trim
}

// New builds a PreReified over grid with the given padding and trim.
func New(grid *gridalgebra.GridAlgebra, padding ReifiedUnit, trim Trim) *PreReified {
	return &PreReified{grid: grid, padding: padding, trim: trim}
}

// GridAlgebra returns the underlying GridAlgebra.
func (p *PreReified) GridAlgebra() *gridalgebra.GridAlgebra {
	return p.grid
}

// Compute scales every cell to a DownCell and derives task rectangles and
// per-dependency Bézier joints.
func (p *PreReified) Compute() (*Reified, error) {
	cells := p.grid.Cells()

	lanes := make(map[gridalgebra.LaneId]DownLane)
	downCells := make(map[models.TaskId]DownCell, len(cells))
	for taskID, cell := range cells {
		lane, ok := lanes[cell.Lane]
		if !ok {
			lane = CanonicalFromLane(cell.Lane, p.padding)
			lanes[cell.Lane] = lane
		}
		downCells[taskID] = DownCell{
			Cell:    cell,
			Lane:    lane,
			Stretch: CanonicalFromStretch(cell.Stretch, p.trim),
		}
	}

	graph := p.grid.RangeAlgebra().Graph()
	var joints []jointEdge
	for taskID := range cells {
		to := taskID
		toCell := downCells[to]
		for _, from := range graph.GetDependencies(to) {
			fromCell, ok := downCells[from]
			if !ok {
				continue
			}
			depID := models.DependencyId{From: from, To: to}
			joints = append(joints, jointEdge{
				id:    depID,
				joint: computeJoint(fromCell.Outgoing(), toCell.Incoming()),
			})
		}
	}
	sort.Slice(joints, func(i, j int) bool {
		if joints[i].id.From != joints[j].id.From {
			return joints[i].id.From < joints[j].id.From
		}
		return joints[i].id.To < joints[j].id.To
	})

	return &Reified{grid: p.grid, cells: downCells, joints: joints}, nil
}

type jointEdge struct {
	id    models.DependencyId
	joint Joint
}

// Reified is the immutable result of scaling a GridAlgebra to render
// units.
type Reified struct {
	grid   *gridalgebra.GridAlgebra
	cells  map[models.TaskId]DownCell
	joints []jointEdge
}

// GridAlgebra returns the underlying GridAlgebra.
func (r *Reified) GridAlgebra() *gridalgebra.GridAlgebra {
	return r.grid
}

// DownCell returns the reified placement computed for a task.
func (r *Reified) DownCell(taskID models.TaskId) (DownCell, bool) {
	c, ok := r.cells[taskID]
	return c, ok
}

// TaskRectangle pairs a task id with its render rectangle.
type TaskRectangle struct {
	TaskID         models.TaskId
	X0, Y0, X1, Y1 ReifiedUnit
}

// TaskRectangles returns every task's render rectangle, ordered by task id.
func (r *Reified) TaskRectangles() []TaskRectangle {
	ids := make([]models.TaskId, 0, len(r.cells))
	for id := range r.cells {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rects := make([]TaskRectangle, 0, len(ids))
	for _, id := range ids {
		x0, y0, x1, y1 := r.cells[id].Rectangle()
		rects = append(rects, TaskRectangle{TaskID: id, X0: x0, Y0: y0, X1: x1, Y1: y1})
	}
	return rects
}

// TaskBounds returns a single task's render rectangle as (x0, y0, x1, y1).
func (r *Reified) TaskBounds(taskID models.TaskId) (ReifiedUnit, ReifiedUnit, ReifiedUnit, ReifiedUnit, bool) {
	c, ok := r.cells[taskID]
	if !ok {
		return 0, 0, 0, 0, false
	}
	x0, y0, x1, y1 := c.Rectangle()
	return x0, y0, x1, y1, true
}

// BezierCurve pairs a dependency id with its Joint geometry.
type BezierCurve struct {
	DependencyID models.DependencyId
	Joint        Joint
}

// BezierCurves returns every dependency's Bézier joint, ordered by
// (from, to) task id.
func (r *Reified) BezierCurves() []BezierCurve {
	curves := make([]BezierCurve, 0, len(r.joints))
	for _, j := range r.joints {
		curves = append(curves, BezierCurve{DependencyID: j.id, Joint: j.joint})
	}
	return curves
}

// Connections returns the same information as BezierCurves, as the
// dependency-id-to-connection-point view a caller interested only in
// endpoints (not control points) can use.
func (r *Reified) Connections() []BezierCurve {
	return r.BezierCurves()
}

// VisualBounds returns the content's bounding box (max_x, max_y), rooted at
// (0, 0).
func (r *Reified) VisualBounds() (ReifiedUnit, ReifiedUnit) {
	var maxX, maxY ReifiedUnit
	for _, c := range r.cells {
		_, _, x1, y1 := c.Rectangle()
		if x1 > maxX {
			maxX = x1
		}
		if y1 > maxY {
			maxY = y1
		}
	}
	return maxX, maxY
}

// Task returns the full task payload for id.
func (r *Reified) Task(taskID models.TaskId) (models.Task, error) {
	return r.grid.Task(taskID)
}

// Dependency returns the full dependency payload for id.
func (r *Reified) Dependency(id models.DependencyId) (models.Dependency, error) {
	return r.grid.Dependency(id)
}

// DFS forwards to the underlying graph's depth-first traversal.
func (r *Reified) DFS(start models.TaskId, visit func(models.TaskId, int)) error {
	return r.grid.RangeAlgebra().Graph().DFS(start, visit)
}

// BFS forwards to the underlying graph's breadth-first traversal.
func (r *Reified) BFS(start models.TaskId, visit func(models.TaskId, int)) error {
	return r.grid.RangeAlgebra().Graph().BFS(start, visit)
}

// RevDFS forwards to the underlying graph's reverse depth-first traversal.
func (r *Reified) RevDFS(start models.TaskId, visit func(models.TaskId, int)) error {
	return r.grid.RangeAlgebra().Graph().RevDFS(start, visit)
}

// RevBFS forwards to the underlying graph's reverse breadth-first traversal.
func (r *Reified) RevBFS(start models.TaskId, visit func(models.TaskId, int)) error {
	return r.grid.RangeAlgebra().Graph().RevBFS(start, visit)
}
