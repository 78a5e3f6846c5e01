package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-retex/pkg/geometry"
)

func TestComputeFrameCentersAndInsets(t *testing.T) {
	canvas := geometry.NewSize(900, 700)
	f := ComputeFrame(canvas, 1.5)

	// Frame aspect follows the image.
	assert.InDelta(t, 1.5, f.Outer.Aspect(), 1e-9)

	// Outer frame centered on the canvas.
	assert.InDelta(t, 450, f.Outer.Center().X, 1e-9)
	assert.InDelta(t, 350, f.Outer.Center().Y, 1e-9)

	// Crop box is the fixed inset, centered within the outer frame.
	assert.InDelta(t, f.Outer.Width*0.8, f.Inner.Width, 1e-9)
	assert.InDelta(t, f.Outer.Height*0.8, f.Inner.Height, 1e-9)
	assert.InDelta(t, f.Outer.Center().X, f.Inner.Center().X, 1e-9)
	assert.InDelta(t, f.Outer.Center().Y, f.Inner.Center().Y, 1e-9)
}

func TestComputeFrameTallImage(t *testing.T) {
	f := ComputeFrame(geometry.NewSize(900, 700), 0.5)

	// Height-limited: the frame may not exceed the canvas fraction.
	assert.LessOrEqual(t, f.Outer.Height, 700*frameFraction+1e-9)
	assert.InDelta(t, 0.5, f.Outer.Aspect(), 1e-9)
}

func TestBaseScaleFitsImage(t *testing.T) {
	inner := geometry.NewRect(0, 0, 400, 300)

	// 3000x2000 source: width ratio binds.
	base := BaseScale(3000, 2000, inner)
	assert.InDelta(t, 400.0/3000.0, base, 1e-9)

	// At scale 1.0 the drawn image is 400 x 266.67, inside the crop box
	// and touching it on the horizontal axis.
	w := 3000 * base
	h := 2000 * base
	assert.InDelta(t, 400.0, w, 1e-6)
	assert.InDelta(t, 266.6667, h, 1e-3)
	assert.LessOrEqual(t, h, inner.Height)
}

func TestDefaultStateCentersImage(t *testing.T) {
	inner := geometry.NewRect(100, 50, 400, 300)
	s := DefaultState(inner)

	assert.InDelta(t, 300.0, s.TranslateX, 1e-9)
	assert.InDelta(t, 200.0, s.TranslateY, 1e-9)
	assert.Equal(t, 1.0, s.ScaleX)
	assert.Equal(t, 1.0, s.ScaleY)
	assert.Equal(t, 0.0, s.RotationDegrees)
}

func TestComposeDefaultFitTouchesBoundary(t *testing.T) {
	inner := geometry.NewRect(100, 50, 400, 300)
	base := BaseScale(3000, 2000, inner)
	s := DefaultState(inner)

	tr := Compose(3000, 2000, s, base)

	left := tr.Apply(geometry.Point2D{X: 0, Y: 1000})
	right := tr.Apply(geometry.Point2D{X: 3000, Y: 1000})

	// The binding axis exactly spans the crop box.
	assert.InDelta(t, inner.X, left.X, 1e-6)
	assert.InDelta(t, inner.X+inner.Width, right.X, 1e-6)

	// The free axis is centered with padding.
	top := tr.Apply(geometry.Point2D{X: 1500, Y: 0})
	bottom := tr.Apply(geometry.Point2D{X: 1500, Y: 2000})
	padTop := top.Y - inner.Y
	padBottom := inner.Y + inner.Height - bottom.Y
	assert.InDelta(t, padTop, padBottom, 1e-6)
	assert.Greater(t, padTop, 0.0)
}

func TestComposeRotationAboutImageCenter(t *testing.T) {
	inner := geometry.NewRect(0, 0, 400, 400)
	s := DefaultState(inner)
	s.RotationDegrees = 90

	tr := Compose(200, 200, s, BaseScale(200, 200, inner))

	// The image center is the rotation pivot: it stays put.
	c := tr.Apply(geometry.Point2D{X: 100, Y: 100})
	assert.InDelta(t, 200.0, c.X, 1e-6)
	assert.InDelta(t, 200.0, c.Y, 1e-6)

	// A point right of center maps below center after +90 degrees.
	p := tr.Apply(geometry.Point2D{X: 200, Y: 100})
	assert.InDelta(t, 200.0, p.X, 1e-6)
	assert.Greater(t, p.Y, 200.0)
}

func TestClampScale(t *testing.T) {
	s := State{ScaleX: 0.001, ScaleY: 99}
	s.ClampScale()
	assert.Equal(t, MinScale, s.ScaleX)
	assert.Equal(t, MaxScale, s.ScaleY)
}

func TestExportMapping(t *testing.T) {
	inner := geometry.NewRect(150, 100, 400, 300)
	m, err := ExportMapping(inner, 2048)
	require.NoError(t, err)

	tl := m.Apply(inner.TopLeft())
	assert.InDelta(t, 0.0, tl.X, 1e-6)
	assert.InDelta(t, 0.0, tl.Y, 1e-6)

	br := m.Apply(inner.BottomRight())
	assert.InDelta(t, 2048.0, br.X, 1e-6)
	assert.InDelta(t, 1536.0, br.Y, 1e-6)
}

func TestExportSizeKeepsAspect(t *testing.T) {
	inner := geometry.NewRect(0, 0, 400, 300)
	w, h := ExportSize(inner, 2048)
	assert.Equal(t, 2048, w)
	assert.Equal(t, 1536, h)
}

func TestDisplayToCanvas(t *testing.T) {
	display := geometry.NewSize(450, 350)
	canvas := geometry.NewSize(900, 700)

	p := DisplayToCanvas(geometry.Point2D{X: 45, Y: 70}, display, canvas)
	assert.InDelta(t, 90.0, p.X, 1e-9)
	assert.InDelta(t, 140.0, p.Y, 1e-9)

	// Degenerate display size leaves the point untouched.
	same := DisplayToCanvas(geometry.Point2D{X: 5, Y: 5}, geometry.Size{}, canvas)
	assert.Equal(t, geometry.Point2D{X: 5, Y: 5}, same)
}
