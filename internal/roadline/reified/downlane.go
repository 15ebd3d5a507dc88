package reified

import "github.com/ramate-io/roadline-go/internal/roadline/gridalgebra"

// DownLaneRange is a half-open vertical interval [Start, End) in
// ReifiedUnit space.
type DownLaneRange struct {
	Start ReifiedUnit
	End   ReifiedUnit
}

// DownLane is a lane scaled to render units: task height is fixed at 2
// units, and Padding is the extra inter-lane gap.
type DownLane struct {
	Lane    gridalgebra.LaneId
	Padding ReifiedUnit
	Range   DownLaneRange
}

// CanonicalFromLane computes the render range for lane, given a uniform
// inter-lane padding: range = [(2+p)*lane, (2+p)*(lane+1)).
func CanonicalFromLane(lane gridalgebra.LaneId, padding ReifiedUnit) DownLane {
	stride := int64(2 + padding)
	l := int64(lane)
	return DownLane{
		Lane:    lane,
		Padding: padding,
		Range: DownLaneRange{
			Start: clampToReifiedUnit(stride * l),
			End:   clampToReifiedUnit(stride * (l + 1)),
		},
	}
}

// Midpoint returns the lane's vertical center, used as a task's connection
// point y-coordinate.
func (d DownLane) Midpoint() ReifiedUnit {
	return ReifiedUnit((int64(d.Range.Start) + int64(d.Range.End)) / 2)
}
