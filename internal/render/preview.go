// Package render draws the transform tool's interactive preview and
// produces the final baked texture. Both paths replay the identical affine
// composition; the bake only prepends a resolution mapping, so the export
// is a resolution-independent crop of the preview.
package render

import (
	"image"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"mesh-retex/internal/transform"
	"mesh-retex/pkg/geometry"
)

const (
	checkerSize = 12

	frameLineWidth = 2.0
	cropDashOn     = 6.0
	cropDashOff    = 4.0

	edgeHandleW = 16.0
	edgeHandleH = 8.0
)

// Renderer draws previews and bakes exports for one source image.
type Renderer struct {
	// HighQuality selects the resampling kernel for the preview; the
	// bake always uses the high-quality kernel.
	HighQuality bool
}

// aff3 converts an AffineTransform to the x/image source-to-destination
// matrix form.
func aff3(t geometry.AffineTransform) f64.Aff3 {
	return f64.Aff3{t.A, t.B, t.TX, t.C, t.D, t.TY}
}

// Preview renders one interactive frame: checkerboard, the transformed
// source image, frame outlines, the dim mask outside the frame, and the
// drag handles. A nil source image leaves only the background and frame,
// matching the draw-skip behavior while a load is in flight.
func (r *Renderer) Preview(src *image.NRGBA, f transform.Frame, st transform.State, canvas geometry.Size) image.Image {
	w, h := int(canvas.Width), int(canvas.Height)
	dc := gg.NewContext(w, h)

	drawCheckerboard(dc, w, h)

	if src != nil {
		dc.DrawImage(gg.ImageBufFromImage(r.warp(src, f, st, w, h)), 0, 0)
	}

	drawDimMask(dc, w, h, f.Outer)
	drawFrame(dc, f)
	drawHandles(dc, f)

	return dc.Image()
}

// warp draws the source image through the composed transform into a
// canvas-sized layer.
func (r *Renderer) warp(src *image.NRGBA, f transform.Frame, st transform.State, w, h int) *image.RGBA {
	base := transform.BaseScale(src.Bounds().Dx(), src.Bounds().Dy(), f.Inner)
	t := transform.Compose(src.Bounds().Dx(), src.Bounds().Dy(), st, base)

	layer := image.NewRGBA(image.Rect(0, 0, w, h))
	kernel := xdraw.Interpolator(xdraw.ApproxBiLinear)
	if r.HighQuality {
		kernel = xdraw.CatmullRom
	}
	kernel.Transform(layer, aff3(t), src, src.Bounds(), xdraw.Over, nil)
	return layer
}

// drawCheckerboard fills the canvas with the transparency indicator.
func drawCheckerboard(dc *gg.Context, w, h int) {
	dc.SetRGB(0.78, 0.78, 0.78)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	dc.SetRGB(0.58, 0.58, 0.58)
	for y := 0; y*checkerSize < h; y++ {
		for x := 0; x*checkerSize < w; x++ {
			if (x+y)%2 == 0 {
				continue
			}
			dc.DrawRectangle(float64(x*checkerSize), float64(y*checkerSize), checkerSize, checkerSize)
		}
	}
	dc.Fill()
}

// drawDimMask darkens everything outside the outer frame using an
// even-odd fill of the full canvas minus the frame rectangle.
func drawDimMask(dc *gg.Context, w, h int, outer geometry.Rect) {
	dc.SetFillRule(gg.FillRuleEvenOdd)
	dc.SetRGBA(0, 0, 0, 0.45)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.DrawRectangle(outer.X, outer.Y, outer.Width, outer.Height)
	dc.Fill()
	dc.SetFillRule(gg.FillRuleNonZero)
}

// drawFrame strokes the solid outer frame and the dashed crop outline.
func drawFrame(dc *gg.Context, f transform.Frame) {
	dc.SetLineWidth(frameLineWidth)

	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(f.Outer.X, f.Outer.Y, f.Outer.Width, f.Outer.Height)
	dc.Stroke()

	dc.SetDash(cropDashOn, cropDashOff)
	dc.SetRGB(0.95, 0.95, 0.95)
	dc.DrawRectangle(f.Inner.X, f.Inner.Y, f.Inner.Width, f.Inner.Height)
	dc.Stroke()
	dc.ClearDash()
}

// drawHandles draws the corner circles, edge rectangles, and the rotation
// knob with its connecting stem.
func drawHandles(dc *gg.Context, f transform.Frame) {
	for _, c := range f.Outer.Corners() {
		dc.SetRGB(1, 1, 1)
		dc.DrawCircle(c.X, c.Y, transform.HandleRadius*0.6)
		dc.Fill()
		dc.SetRGB(0.15, 0.15, 0.15)
		dc.SetLineWidth(1.5)
		dc.DrawCircle(c.X, c.Y, transform.HandleRadius*0.6)
		dc.Stroke()
	}

	edges := []geometry.Point2D{
		{X: f.Outer.X + f.Outer.Width/2, Y: f.Outer.Y},
		{X: f.Outer.X + f.Outer.Width/2, Y: f.Outer.Y + f.Outer.Height},
		{X: f.Outer.X, Y: f.Outer.Y + f.Outer.Height/2},
		{X: f.Outer.X + f.Outer.Width, Y: f.Outer.Y + f.Outer.Height/2},
	}
	for i, e := range edges {
		w, h := edgeHandleW, edgeHandleH
		if i >= 2 {
			w, h = edgeHandleH, edgeHandleW
		}
		dc.SetRGB(1, 1, 1)
		dc.DrawRectangle(e.X-w/2, e.Y-h/2, w, h)
		dc.Fill()
		dc.SetRGB(0.15, 0.15, 0.15)
		dc.SetLineWidth(1.5)
		dc.DrawRectangle(e.X-w/2, e.Y-h/2, w, h)
		dc.Stroke()
	}

	knob := transform.RotateHandlePos(f)
	top := geometry.Point2D{X: knob.X, Y: f.Outer.Y}
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1.5)
	dc.DrawLine(knob.X, knob.Y, top.X, top.Y)
	dc.Stroke()
	dc.DrawCircle(knob.X, knob.Y, transform.HandleRadius*0.6)
	dc.Fill()
	dc.SetRGB(0.15, 0.15, 0.15)
	dc.DrawCircle(knob.X, knob.Y, transform.HandleRadius*0.6)
	dc.Stroke()
}
