package gridalgebra

import (
	"sort"

	"github.com/ramate-io/roadline-go/internal/roadline/rangealgebra"
	"github.com/ramate-io/roadline-go/pkg/models"
)

// PreGridAlgebra is a mutable structure used to discretize a RangeAlgebra's
// spans onto a grid. Like PreRangeAlgebra, it exposes no cells directly;
// Compute consumes it and returns an immutable GridAlgebra.
type PreGridAlgebra struct {
	ranges *rangealgebra.RangeAlgebra
}

// New builds a PreGridAlgebra over ra.
func New(ra *rangealgebra.RangeAlgebra) *PreGridAlgebra {
	return &PreGridAlgebra{ranges: ra}
}

// RangeAlgebra returns the underlying RangeAlgebra.
func (p *PreGridAlgebra) RangeAlgebra() *rangealgebra.RangeAlgebra {
	return p.ranges
}

// Compute discretizes every task's span onto the grid: a single shared
// StretchUnit chosen from the mean span duration, and a lane assigned by
// greedy earliest-fit. An empty RangeAlgebra computes to an empty
// GridAlgebra with the Day unit.
func (p *PreGridAlgebra) Compute() (*GridAlgebra, error) {
	taskIDs := p.ranges.TaskIDs()
	if len(taskIDs) == 0 {
		return &GridAlgebra{ranges: p.ranges, unit: Day, cells: make(map[models.TaskId]Cell)}, nil
	}

	unit := p.canonicalUnit(taskIDs)
	origin := p.originDate(taskIDs)

	type placement struct {
		id     models.TaskId
		start  int64
		column StretchRange
	}
	placements := make([]placement, 0, len(taskIDs))
	for _, id := range taskIDs {
		span, _ := p.ranges.Span(id)
		col := columnRangeFor(span, origin, unit)
		placements = append(placements, placement{id: id, start: span.Start.Unix(), column: col})
	}

	sort.Slice(placements, func(i, j int) bool {
		if placements[i].start != placements[j].start {
			return placements[i].start < placements[j].start
		}
		return placements[i].id < placements[j].id
	})

	var laneMaxEnd []uint8
	cells := make(map[models.TaskId]Cell, len(placements))
	for _, pl := range placements {
		lane := -1
		for i, maxEnd := range laneMaxEnd {
			if maxEnd <= pl.column.Start {
				lane = i
				break
			}
		}
		if lane == -1 {
			lane = len(laneMaxEnd)
			laneMaxEnd = append(laneMaxEnd, 0)
		}
		laneMaxEnd[lane] = pl.column.End

		cells[pl.id] = Cell{
			Stretch: Stretch{Range: pl.column, Unit: unit},
			Lane:    LaneId(lane),
		}
	}

	return &GridAlgebra{ranges: p.ranges, unit: unit, cells: cells}, nil
}

func (p *PreGridAlgebra) canonicalUnit(taskIDs []models.TaskId) StretchUnit {
	var total int64
	for _, id := range taskIDs {
		span, _ := p.ranges.Span(id)
		total += int64(span.Duration().Seconds())
	}
	avg := total / int64(len(taskIDs))
	return CanonicalFromAverageSeconds(avg)
}

func (p *PreGridAlgebra) originDate(taskIDs []models.TaskId) int64 {
	first := true
	var origin int64
	for _, id := range taskIDs {
		span, _ := p.ranges.Span(id)
		unix := span.Start.Unix()
		if first || unix < origin {
			origin = unix
			first = false
		}
	}
	return origin
}

func columnRangeFor(span rangealgebra.Span, origin int64, unit StretchUnit) StretchRange {
	unitSeconds := unit.Seconds()
	startOffset := span.Start.Unix() - origin
	endOffset := span.End.Unix() - origin

	startColumn := floorDiv(startOffset, unitSeconds)
	endColumn := ceilDiv(endOffset, unitSeconds)
	if endColumn <= startColumn {
		endColumn = startColumn + 1
	}

	return StretchRange{Start: clampToUint8(startColumn), End: clampToUint8(endColumn)}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}

// GridAlgebra is the immutable result of discretizing a RangeAlgebra: one
// Cell per task, all sharing the same StretchUnit.
type GridAlgebra struct {
	ranges *rangealgebra.RangeAlgebra
	unit   StretchUnit
	cells  map[models.TaskId]Cell
}

// RangeAlgebra returns the underlying RangeAlgebra.
func (g *GridAlgebra) RangeAlgebra() *rangealgebra.RangeAlgebra {
	return g.ranges
}

// Unit returns the grid's shared StretchUnit.
func (g *GridAlgebra) Unit() StretchUnit {
	return g.unit
}

// Cell returns the grid cell computed for a task.
func (g *GridAlgebra) Cell(taskID models.TaskId) (Cell, bool) {
	c, ok := g.cells[taskID]
	return c, ok
}

// Cells returns every computed cell, keyed by task id. The returned map
// must not be mutated.
func (g *GridAlgebra) Cells() map[models.TaskId]Cell {
	return g.cells
}

// MaxLane returns the highest lane index used, or 0 if the grid is empty.
func (g *GridAlgebra) MaxLane() LaneId {
	var max LaneId
	for _, c := range g.cells {
		if c.Lane > max {
			max = c.Lane
		}
	}
	return max
}

// MaxColumn returns the highest column reached by any cell, or 0 if the
// grid is empty.
func (g *GridAlgebra) MaxColumn() uint8 {
	var max uint8
	for _, c := range g.cells {
		if c.Stretch.Range.End > max {
			max = c.Stretch.Range.End
		}
	}
	return max
}

// Task returns the full task payload for id.
func (g *GridAlgebra) Task(taskID models.TaskId) (models.Task, error) {
	return g.ranges.Task(taskID)
}

// Dependency returns the full dependency payload for id.
func (g *GridAlgebra) Dependency(id models.DependencyId) (models.Dependency, error) {
	return g.ranges.Dependency(id)
}
