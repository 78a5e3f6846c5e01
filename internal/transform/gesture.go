package transform

import (
	"math"

	"mesh-retex/pkg/geometry"
)

// GestureKind identifies the active drag interaction.
type GestureKind int

const (
	GestureNone GestureKind = iota
	GesturePan
	GestureScaleCorner
	GestureScaleX
	GestureScaleY
	GestureRotate
)

func (k GestureKind) String() string {
	switch k {
	case GesturePan:
		return "pan"
	case GestureScaleCorner:
		return "corner-scale"
	case GestureScaleX:
		return "x-scale"
	case GestureScaleY:
		return "y-scale"
	case GestureRotate:
		return "rotate"
	default:
		return "none"
	}
}

const (
	// HandleRadius is the hit radius around corner and rotation handles.
	HandleRadius = 10.0

	// edgeBand is the half-thickness of the edge handle hit region.
	edgeBand = 8.0

	// RotateHandleOffset is the distance of the rotation knob above the
	// top edge of the outer frame.
	RotateHandleOffset = 30.0

	// minGestureDistance guards scale and rotate math against a start
	// point at (or almost at) the frame center.
	minGestureDistance = 0.01
)

// Gesture is the transient state of one drag, pointer-down to pointer-up.
// All updates are computed from the snapshot taken at pointer-down so that
// rapid move events never compound.
type Gesture struct {
	Kind     GestureKind
	Start    geometry.Point2D
	Snapshot State
}

// RotateHandlePos returns the rotation knob position for a frame.
func RotateHandlePos(f Frame) geometry.Point2D {
	return geometry.Point2D{
		X: f.Outer.X + f.Outer.Width/2,
		Y: f.Outer.Y - RotateHandleOffset,
	}
}

// HitTest classifies a pointer-down position against the frame's handles.
// Corners win over edges, edges over the rotation knob; anything else pans.
func HitTest(f Frame, p geometry.Point2D) GestureKind {
	for _, c := range f.Outer.Corners() {
		if p.Distance(c) <= HandleRadius {
			return GestureScaleCorner
		}
	}

	if kind := hitEdge(f.Outer, p); kind != GestureNone {
		return kind
	}

	if p.Distance(RotateHandlePos(f)) <= HandleRadius {
		return GestureRotate
	}

	return GesturePan
}

// hitEdge tests the four edge-midpoint bands. Top and bottom edges scale
// the Y axis, left and right edges the X axis.
func hitEdge(outer geometry.Rect, p geometry.Point2D) GestureKind {
	halfLen := outer.Width / 4
	midTop := geometry.Point2D{X: outer.X + outer.Width/2, Y: outer.Y}
	midBottom := geometry.Point2D{X: outer.X + outer.Width/2, Y: outer.Y + outer.Height}
	if math.Abs(p.X-midTop.X) <= halfLen {
		if math.Abs(p.Y-midTop.Y) <= edgeBand {
			return GestureScaleY
		}
		if math.Abs(p.Y-midBottom.Y) <= edgeBand {
			return GestureScaleY
		}
	}

	halfLen = outer.Height / 4
	midLeft := geometry.Point2D{X: outer.X, Y: outer.Y + outer.Height/2}
	midRight := geometry.Point2D{X: outer.X + outer.Width, Y: outer.Y + outer.Height/2}
	if math.Abs(p.Y-midLeft.Y) <= halfLen {
		if math.Abs(p.X-midLeft.X) <= edgeBand {
			return GestureScaleX
		}
		if math.Abs(p.X-midRight.X) <= edgeBand {
			return GestureScaleX
		}
	}

	return GestureNone
}

// BeginGesture starts a drag at p, snapshotting the current state.
func BeginGesture(f Frame, s State, p geometry.Point2D) Gesture {
	return Gesture{Kind: HitTest(f, p), Start: p, Snapshot: s}
}

// Apply computes the state for the current pointer position. The returned
// state is derived solely from the gesture-start snapshot; degenerate
// geometry (near-zero start distance) leaves the state unchanged for this
// event and the gesture continues on the next move.
func (g Gesture) Apply(f Frame, p geometry.Point2D) State {
	s := g.Snapshot
	center := f.Outer.Center()

	switch g.Kind {
	case GesturePan:
		s.TranslateX += p.X - g.Start.X
		s.TranslateY += p.Y - g.Start.Y

	case GestureScaleCorner:
		startDist := g.Start.Distance(center)
		if startDist < minGestureDistance {
			return s
		}
		ratio := p.Distance(center) / startDist
		s.ScaleX = g.Snapshot.ScaleX * ratio
		s.ScaleY = g.Snapshot.ScaleY * ratio
		s.ClampScale()

	case GestureScaleX:
		startDist := math.Abs(g.Start.X - center.X)
		if startDist < minGestureDistance {
			return s
		}
		ratio := math.Abs(p.X-center.X) / startDist
		s.ScaleX = g.Snapshot.ScaleX * ratio
		s.ClampScale()

	case GestureScaleY:
		startDist := math.Abs(g.Start.Y - center.Y)
		if startDist < minGestureDistance {
			return s
		}
		ratio := math.Abs(p.Y-center.Y) / startDist
		s.ScaleY = g.Snapshot.ScaleY * ratio
		s.ClampScale()

	case GestureRotate:
		if g.Start.Distance(center) < minGestureDistance ||
			p.Distance(center) < minGestureDistance {
			return s
		}
		startAngle := center.AngleTo(g.Start)
		curAngle := center.AngleTo(p)
		s.RotationDegrees = g.Snapshot.RotationDegrees + (curAngle - startAngle)
	}

	return s
}
