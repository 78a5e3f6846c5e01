package render

import (
	"fmt"
	"image"
	"io"

	"github.com/HugoSmits86/nativewebp"
	xdraw "golang.org/x/image/draw"

	"mesh-retex/internal/transform"
)

// DefaultExportWidth is the bake bitmap width when the host does not
// configure one.
const DefaultExportWidth = 2048

// Bake renders the crop box contents at export resolution. It composes
// the same image-to-canvas transform as the preview, prepends the
// crop-to-export mapping, and resamples the full-resolution source with
// the high-quality kernel.
func (r *Renderer) Bake(src *image.NRGBA, f transform.Frame, st transform.State, exportWidth int) (*image.NRGBA, error) {
	if src == nil {
		return nil, fmt.Errorf("render: bake with no source image")
	}
	if exportWidth <= 0 {
		exportWidth = DefaultExportWidth
	}

	mapping, err := transform.ExportMapping(f.Inner, exportWidth)
	if err != nil {
		return nil, fmt.Errorf("render: export mapping: %w", err)
	}

	base := transform.BaseScale(src.Bounds().Dx(), src.Bounds().Dy(), f.Inner)
	composed := transform.Compose(src.Bounds().Dx(), src.Bounds().Dy(), st, base)
	full := mapping.Compose(composed)

	w, h := transform.ExportSize(f.Inner, exportWidth)
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Transform(out, aff3(full), src, src.Bounds(), xdraw.Over, nil)
	return out, nil
}

// EncodeWebP writes the baked bitmap losslessly. A lossless intermediate
// keeps the crop boundary free of compression seams before the bitmap is
// bound into material slots.
func EncodeWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("render: encode webp: %w", err)
	}
	return nil
}
