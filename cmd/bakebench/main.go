// Command bakebench bakes a texture headlessly: it loads an image, applies
// a transform recipe from flags, and writes the lossless WebP the studio
// would hand to the slot registry. Useful for checking export framing
// without launching the UI.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"mesh-retex/internal/render"
	"mesh-retex/internal/texture"
	"mesh-retex/internal/transform"
	"mesh-retex/pkg/geometry"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		inPath      = flag.String("in", "", "source image path")
		outPath     = flag.String("out", "baked.webp", "output WebP path")
		canvasW     = flag.Float64("canvas-width", 900, "canvas width the transform is expressed in")
		canvasH     = flag.Float64("canvas-height", 700, "canvas height the transform is expressed in")
		panX        = flag.Float64("pan-x", 0, "horizontal pan offset from the default fit, canvas px")
		panY        = flag.Float64("pan-y", 0, "vertical pan offset from the default fit, canvas px")
		scaleX      = flag.Float64("scale-x", 1.0, "horizontal scale multiplier")
		scaleY      = flag.Float64("scale-y", 1.0, "vertical scale multiplier")
		rotation    = flag.Float64("rotate", 0, "rotation in degrees")
		exportWidth = flag.Int("export-width", render.DefaultExportWidth, "export bitmap width")
	)
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "bakebench: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	src, err := texture.Load(*inPath)
	if err != nil {
		log.Fatalf("load: %v", err)
	}

	canvas := geometry.Size{Width: *canvasW, Height: *canvasH}
	aspect := float64(src.Bounds().Dx()) / float64(src.Bounds().Dy())
	frame := transform.ComputeFrame(canvas, aspect)

	state := transform.DefaultState(frame.Inner)
	state.TranslateX += *panX
	state.TranslateY += *panY
	state.ScaleX = *scaleX
	state.ScaleY = *scaleY
	state.RotationDegrees = *rotation
	state.ClampScale()

	r := &render.Renderer{HighQuality: true}
	baked, err := r.Bake(src, frame, state, *exportWidth)
	if err != nil {
		log.Fatalf("bake: %v", err)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("create: %v", err)
	}
	defer f.Close()

	if err := render.EncodeWebP(f, baked); err != nil {
		log.Fatalf("encode: %v", err)
	}

	b := baked.Bounds()
	log.Printf("baked %dx%d -> %s", b.Dx(), b.Dy(), *outPath)
}
