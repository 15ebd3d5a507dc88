package reified

import "github.com/ramate-io/roadline-go/internal/roadline/gridalgebra"

// SubUnitDivisions is the fixed scaling factor applied when reifying a
// Stretch's column range — "one step finer than the canonical unit" is
// realized as a uniform subdivision of each grid column into this many
// render units, rather than a per-unit step-down table.
const SubUnitDivisions = 4

// Trim is the number of render units cut from the tail of a stretch, used
// to open a visible gap before the next task's incoming connection point.
type Trim ReifiedUnit

// DownStretchRange is a half-open horizontal interval [Start, End) in
// ReifiedUnit space.
type DownStretchRange struct {
	Start ReifiedUnit
	End   ReifiedUnit
}

// DownStretch is a Stretch scaled to render units, with its tail trimmed.
type DownStretch struct {
	Range DownStretchRange
}

// CanonicalFromStretch scales s's column range by SubUnitDivisions and
// subtracts trim from the tail.
func CanonicalFromStretch(s gridalgebra.Stretch, trim Trim) DownStretch {
	start := int64(s.Range.Start) * SubUnitDivisions
	end := int64(s.Range.End)*SubUnitDivisions - int64(trim)
	if end < start {
		end = start
	}
	return DownStretch{Range: DownStretchRange{Start: clampToReifiedUnit(start), End: clampToReifiedUnit(end)}}
}

// OutgoingConnectionPoint returns the stretch's right edge.
func (d DownStretch) OutgoingConnectionPoint() ReifiedUnit {
	return d.Range.End
}

// IncomingConnectionPoint returns the stretch's left edge.
func (d DownStretch) IncomingConnectionPoint() ReifiedUnit {
	return d.Range.Start
}
