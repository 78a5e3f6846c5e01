// Package transformtool provides the interactive crop/scale/rotate canvas
// of the retexturing studio.
package transformtool

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"mesh-retex/internal/session"
	"mesh-retex/internal/transform"
	"mesh-retex/pkg/geometry"
)

// Tool is a widget hosting one transform session. The session's canvas
// backing resolution is fixed at open time; pointer positions are
// corrected from the displayed widget size before hit-testing.
type Tool struct {
	widget.BaseWidget

	sess   *session.Session
	canvas geometry.Size
	raster *fynecanvas.Raster
}

var _ desktop.Mouseable = (*Tool)(nil)
var _ fyne.Draggable = (*Tool)(nil)

// New creates a tool widget bound to a session with the given backing
// canvas size.
func New(sess *session.Session, canvas geometry.Size) *Tool {
	t := &Tool{sess: sess, canvas: canvas}

	t.raster = fynecanvas.NewRaster(t.draw)
	t.raster.SetMinSize(fyne.NewSize(float32(canvas.Width)/2, float32(canvas.Height)/2))

	sess.OnChange(t.Refresh)

	t.ExtendBaseWidget(t)
	return t
}

// Session returns the session this widget edits.
func (t *Tool) Session() *session.Session {
	return t.sess
}

// draw renders the preview at the backing resolution and rescales it to
// the raster's pixel size when they differ.
func (t *Tool) draw(w, h int) image.Image {
	preview := t.sess.Preview()
	b := preview.Bounds()
	if w <= 0 || h <= 0 || (b.Dx() == w && b.Dy() == h) {
		return preview
	}
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), preview, b, xdraw.Src, nil)
	return scaled
}

// toCanvas converts a widget-relative pointer position to backing canvas
// pixels.
func (t *Tool) toCanvas(pos fyne.Position) geometry.Point2D {
	size := t.Size()
	display := geometry.Size{Width: float64(size.Width), Height: float64(size.Height)}
	return transform.DisplayToCanvas(
		geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)},
		display, t.canvas,
	)
}

// MouseDown begins a drag gesture.
func (t *Tool) MouseDown(ev *desktop.MouseEvent) {
	t.sess.PointerDown(t.toCanvas(ev.Position))
}

// MouseUp ends the gesture at the release position.
func (t *Tool) MouseUp(ev *desktop.MouseEvent) {
	t.sess.PointerUp(t.toCanvas(ev.Position))
}

// Dragged feeds pointer movement into the active gesture.
func (t *Tool) Dragged(ev *fyne.DragEvent) {
	t.sess.PointerMove(t.toCanvas(ev.Position))
}

// DragEnd is handled via MouseUp, which carries the release position.
func (t *Tool) DragEnd() {}

// Refresh redraws the preview.
func (t *Tool) Refresh() {
	t.raster.Refresh()
	t.BaseWidget.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (t *Tool) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.raster)
}
