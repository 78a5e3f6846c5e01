// Package transform holds the user-editable affine state of the retexturing
// tool and the fixed viewport geometry it is edited against.
package transform

import (
	"math"

	"mesh-retex/pkg/geometry"
)

const (
	// MinScale and MaxScale bound the user scale multipliers.
	MinScale = 0.1
	MaxScale = 5.0

	// frameFraction is the share of the canvas the outer frame occupies.
	frameFraction = 0.7

	// insetRatio is the inner (crop) box size relative to the outer frame.
	insetRatio = 0.8
)

// State is the user-editable transform. TranslateX/Y position the source
// image center in canvas pixels; ScaleX/Y multiply the computed base fit
// scale (1.0 = image fits the crop box as loaded); rotation is degrees
// about the image's own center.
type State struct {
	TranslateX      float64
	TranslateY      float64
	ScaleX          float64
	ScaleY          float64
	RotationDegrees float64
}

// ClampScale limits both scale factors to [MinScale, MaxScale].
func (s *State) ClampScale() {
	s.ScaleX = clamp(s.ScaleX, MinScale, MaxScale)
	s.ScaleY = clamp(s.ScaleY, MinScale, MaxScale)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Frame is the fixed output viewport: the handle-hosting outer box and the
// inner crop box actually exported. Both are computed once per loaded image
// and held constant during interaction.
type Frame struct {
	Outer geometry.Rect
	Inner geometry.Rect
}

// ComputeFrame fits a frame with the image's aspect ratio into the canvas
// at a fixed proportion of its size, centered, then insets the crop box.
func ComputeFrame(canvas geometry.Size, imageAspect float64) Frame {
	if imageAspect <= 0 {
		imageAspect = 1
	}

	maxW := canvas.Width * frameFraction
	maxH := canvas.Height * frameFraction

	w := maxW
	h := w / imageAspect
	if h > maxH {
		h = maxH
		w = h * imageAspect
	}

	outer := geometry.Rect{
		X:      (canvas.Width - w) / 2,
		Y:      (canvas.Height - h) / 2,
		Width:  w,
		Height: h,
	}
	return Frame{Outer: outer, Inner: outer.Inset(insetRatio)}
}

// BaseScale returns the multiplier that makes an unscaled image fit
// entirely within the crop box, touching it on at least one axis.
func BaseScale(imgW, imgH int, inner geometry.Rect) float64 {
	if imgW <= 0 || imgH <= 0 {
		return 1
	}
	return math.Min(inner.Width/float64(imgW), inner.Height/float64(imgH))
}

// DefaultState centers the image in the crop box at the base fit scale.
func DefaultState(inner geometry.Rect) State {
	c := inner.Center()
	return State{
		TranslateX: c.X,
		TranslateY: c.Y,
		ScaleX:     1.0,
		ScaleY:     1.0,
	}
}

// Compose builds the image-space to canvas-space transform: translate to
// (TranslateX, TranslateY), rotate, scale by baseScale*Scale, with the
// image centered on its own dimensions. Preview and bake both replay this
// exact composition; the bake only prepends a resolution mapping.
func Compose(imgW, imgH int, s State, baseScale float64) geometry.AffineTransform {
	t := geometry.Translation(s.TranslateX, s.TranslateY)
	t = t.Compose(geometry.Rotation(s.RotationDegrees * math.Pi / 180.0))
	t = t.Compose(geometry.Scaling(baseScale*s.ScaleX, baseScale*s.ScaleY))
	t = t.Compose(geometry.Translation(-float64(imgW)/2, -float64(imgH)/2))
	return t
}

// ExportMapping returns the transform taking inner-box canvas coordinates
// to export bitmap pixels: a uniform scale of exportWidth/inner.Width with
// the crop origin moved to (0,0). It is derived by fitting the three
// defining corners of the crop box onto the export rectangle.
func ExportMapping(inner geometry.Rect, exportWidth int) (geometry.AffineTransform, error) {
	k := float64(exportWidth) / inner.Width
	src := []geometry.Point2D{inner.TopLeft(), inner.TopRight(), inner.BottomLeft()}
	dst := []geometry.Point2D{
		{X: 0, Y: 0},
		{X: inner.Width * k, Y: 0},
		{X: 0, Y: inner.Height * k},
	}
	return geometry.FitAffine(src, dst)
}

// ExportSize returns the bake bitmap dimensions for the crop box at the
// given export width, preserving the crop aspect ratio.
func ExportSize(inner geometry.Rect, exportWidth int) (int, int) {
	if inner.Width <= 0 || inner.Height <= 0 {
		return exportWidth, exportWidth
	}
	h := int(math.Round(float64(exportWidth) * inner.Height / inner.Width))
	if h < 1 {
		h = 1
	}
	return exportWidth, h
}

// DisplayToCanvas corrects a pointer position for the difference between
// the displayed widget size and the canvas backing resolution.
func DisplayToCanvas(p geometry.Point2D, display, canvas geometry.Size) geometry.Point2D {
	if display.Width <= 0 || display.Height <= 0 {
		return p
	}
	return geometry.Point2D{
		X: p.X * canvas.Width / display.Width,
		Y: p.Y * canvas.Height / display.Height,
	}
}
