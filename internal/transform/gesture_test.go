package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"mesh-retex/pkg/geometry"
)

// testFrame: outer 400x300 at (100,100), center (300,250).
func testFrame() Frame {
	outer := geometry.NewRect(100, 100, 400, 300)
	return Frame{Outer: outer, Inner: outer.Inset(insetRatio)}
}

func TestHitTestPriorities(t *testing.T) {
	f := testFrame()

	cases := []struct {
		name string
		p    geometry.Point2D
		want GestureKind
	}{
		{"corner top-left", geometry.Point2D{X: 100, Y: 100}, GestureScaleCorner},
		{"corner bottom-right near", geometry.Point2D{X: 506, Y: 396}, GestureScaleCorner},
		{"top edge midpoint", geometry.Point2D{X: 300, Y: 100}, GestureScaleY},
		{"bottom edge midpoint", geometry.Point2D{X: 300, Y: 400}, GestureScaleY},
		{"left edge midpoint", geometry.Point2D{X: 100, Y: 250}, GestureScaleX},
		{"right edge midpoint", geometry.Point2D{X: 500, Y: 250}, GestureScaleX},
		{"rotate knob", geometry.Point2D{X: 300, Y: 70}, GestureRotate},
		{"frame interior", geometry.Point2D{X: 300, Y: 250}, GesturePan},
		{"outside frame", geometry.Point2D{X: 10, Y: 10}, GesturePan},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HitTest(f, tc.p), "kind %s", tc.want)
		})
	}
}

func TestPanGesture(t *testing.T) {
	f := testFrame()
	s := State{TranslateX: 300, TranslateY: 250, ScaleX: 1, ScaleY: 1}

	g := BeginGesture(f, s, geometry.Point2D{X: 300, Y: 250})
	assert.Equal(t, GesturePan, g.Kind)

	got := g.Apply(f, geometry.Point2D{X: 310, Y: 270})
	assert.InDelta(t, 310.0, got.TranslateX, 1e-9)
	assert.InDelta(t, 270.0, got.TranslateY, 1e-9)
	assert.Equal(t, s.ScaleX, got.ScaleX)
	assert.Equal(t, s.RotationDegrees, got.RotationDegrees)
}

func TestCornerScaleUniformRatio(t *testing.T) {
	f := testFrame()
	s := State{TranslateX: 300, TranslateY: 250, ScaleX: 1, ScaleY: 1}

	// Start at the top-left corner, 250 px from the frame center.
	g := BeginGesture(f, s, geometry.Point2D{X: 100, Y: 100})
	assert.Equal(t, GestureScaleCorner, g.Kind)

	// Double the distance along the same ray.
	got := g.Apply(f, geometry.Point2D{X: -100, Y: -50})
	assert.InDelta(t, 2.0, got.ScaleX, 1e-9)
	assert.InDelta(t, 2.0, got.ScaleY, 1e-9)
	assert.Equal(t, s.TranslateX, got.TranslateX)
	assert.Equal(t, s.RotationDegrees, got.RotationDegrees)
}

func TestCornerScaleClamps(t *testing.T) {
	f := testFrame()
	s := State{TranslateX: 300, TranslateY: 250, ScaleX: 1, ScaleY: 1}
	g := BeginGesture(f, s, geometry.Point2D{X: 100, Y: 100})

	// Dragging nearly onto the center would be ratio 0.05; clamp to min.
	got := g.Apply(f, geometry.Point2D{X: 290, Y: 242.5})
	assert.Equal(t, MinScale, got.ScaleX)
	assert.Equal(t, MinScale, got.ScaleY)

	// Dragging far out clamps to max.
	got = g.Apply(f, geometry.Point2D{X: -2000, Y: -1500})
	assert.Equal(t, MaxScale, got.ScaleX)
	assert.Equal(t, MaxScale, got.ScaleY)
}

func TestEdgeScaleSingleAxis(t *testing.T) {
	f := testFrame()
	s := State{TranslateX: 300, TranslateY: 250, ScaleX: 1, ScaleY: 1}

	// Left edge midpoint, 200 px horizontally from center.
	gx := BeginGesture(f, s, geometry.Point2D{X: 100, Y: 250})
	assert.Equal(t, GestureScaleX, gx.Kind)
	got := gx.Apply(f, geometry.Point2D{X: 200, Y: 250})
	assert.InDelta(t, 0.5, got.ScaleX, 1e-9)
	assert.Equal(t, 1.0, got.ScaleY)

	// Top edge midpoint, 150 px vertically from center.
	gy := BeginGesture(f, s, geometry.Point2D{X: 300, Y: 100})
	assert.Equal(t, GestureScaleY, gy.Kind)
	got = gy.Apply(f, geometry.Point2D{X: 300, Y: 175})
	assert.Equal(t, 1.0, got.ScaleX)
	assert.InDelta(t, 0.5, got.ScaleY, 1e-9)
}

func TestRotateGesture(t *testing.T) {
	f := testFrame()
	s := State{TranslateX: 300, TranslateY: 250, ScaleX: 1, ScaleY: 1, RotationDegrees: 10}

	g := BeginGesture(f, s, RotateHandlePos(f))
	assert.Equal(t, GestureRotate, g.Kind)

	// Knob starts straight above the center (-90 deg); dragging to the
	// right of the center (0 deg) adds 90.
	got := g.Apply(f, geometry.Point2D{X: 480, Y: 250})
	assert.InDelta(t, 100.0, got.RotationDegrees, 1e-9)
	assert.Equal(t, s.ScaleX, got.ScaleX)
	assert.Equal(t, s.TranslateX, got.TranslateX)
}

func TestDegenerateGesturesLeaveStateUnchanged(t *testing.T) {
	f := testFrame()
	center := f.Outer.Center()
	s := State{TranslateX: 300, TranslateY: 250, ScaleX: 1.3, ScaleY: 0.7, RotationDegrees: 42}

	for _, kind := range []GestureKind{GestureScaleCorner, GestureScaleX, GestureScaleY, GestureRotate} {
		g := Gesture{Kind: kind, Start: center, Snapshot: s}
		got := g.Apply(f, geometry.Point2D{X: 400, Y: 300})
		assert.Equal(t, s, got, "kind %s", kind)
		assert.False(t, math.IsNaN(got.RotationDegrees))
	}

	// Rotate is also guarded when the current point sits on the center.
	g := Gesture{Kind: GestureRotate, Start: RotateHandlePos(f), Snapshot: s}
	got := g.Apply(f, center)
	assert.Equal(t, s, got)
}

func TestMoveEventsDoNotCompound(t *testing.T) {
	f := testFrame()
	s := State{TranslateX: 300, TranslateY: 250, ScaleX: 1, ScaleY: 1}
	g := BeginGesture(f, s, geometry.Point2D{X: 100, Y: 100})

	target := geometry.Point2D{X: -100, Y: -50}
	first := g.Apply(f, target)
	second := g.Apply(f, target)

	// Same pointer position twice yields the same state, not scale^2.
	assert.Equal(t, first, second)
	assert.InDelta(t, 2.0, second.ScaleX, 1e-9)
}

func TestGestureKindString(t *testing.T) {
	assert.Equal(t, "pan", GesturePan.String())
	assert.Equal(t, "rotate", GestureRotate.String())
	assert.Equal(t, "none", GestureNone.String())
}
