package reified

import "github.com/ramate-io/roadline-go/internal/roadline/gridalgebra"

// DownCell is a task's fully reified placement: its grid cell alongside
// the render-unit lane and stretch derived from it.
type DownCell struct {
	Cell    gridalgebra.Cell
	Lane    DownLane
	Stretch DownStretch
}

// Outgoing returns the task's outgoing connection point: right edge of its
// stretch, vertically centered in its lane.
func (d DownCell) Outgoing() Point {
	return Point{X: d.Stretch.OutgoingConnectionPoint(), Y: d.Lane.Midpoint()}
}

// Incoming returns the task's incoming connection point: left edge of its
// stretch, vertically centered in its lane.
func (d DownCell) Incoming() Point {
	return Point{X: d.Stretch.IncomingConnectionPoint(), Y: d.Lane.Midpoint()}
}

// Rectangle returns the task's full render rectangle as (x0, y0, x1, y1).
func (d DownCell) Rectangle() (ReifiedUnit, ReifiedUnit, ReifiedUnit, ReifiedUnit) {
	return d.Stretch.Range.Start, d.Lane.Range.Start, d.Stretch.Range.End, d.Lane.Range.End
}
