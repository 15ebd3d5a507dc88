package reified

// Joint is a cubic-Bézier descriptor connecting one task's outgoing
// connection point to a dependent task's incoming connection point.
type Joint struct {
	Start Point
	C1    Point
	C2    Point
	End   Point
}

// computeJoint derives an "elbow" Bézier between start and end: the curve
// bows out horizontally around the midpoint so that dependency lines stay
// readable even when start and end sit on different lanes.
func computeJoint(start, end Point) Joint {
	midX := (int64(start.X) + int64(end.X)) / 2
	d := absInt64(int64(end.X)-int64(start.X)) + absInt64(int64(end.Y)-int64(start.Y))
	offset := d / 4

	return Joint{
		Start: start,
		C1:    Point{X: clampToReifiedUnit(midX + offset), Y: start.Y},
		C2:    Point{X: clampToReifiedUnit(midX - offset), Y: end.Y},
		End:   end,
	}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
