package slot_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-retex/internal/scene"
	"mesh-retex/internal/slot"
)

func solidImage(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func albedoSurface(name string, c color.NRGBA) *scene.Surface {
	mat := scene.NewMaterial(name)
	mat.SetTexture(slot.KindAlbedo, solidImage(c))
	return scene.NewSurface(name, mat)
}

func TestScanRecordsSlotsAndOriginals(t *testing.T) {
	body := scene.NewMaterial("body")
	bodyAlbedo := solidImage(color.NRGBA{R: 255, A: 255})
	bodyNormal := solidImage(color.NRGBA{B: 255, A: 255})
	body.SetTexture(slot.KindAlbedo, bodyAlbedo)
	body.SetTexture(slot.KindNormal, bodyNormal)

	trim := scene.NewMaterial("trim")
	trimAlbedo := solidImage(color.NRGBA{G: 255, A: 255})
	trim.SetTexture(slot.KindAlbedo, trimAlbedo)

	model := scene.NewModel("test",
		scene.NewSurface("body", body),
		scene.NewSurface("trim", trim),
	)

	r := slot.NewRegistry(slot.DefaultPolicy())
	slots := r.Scan(model)
	require.Len(t, slots, 3)

	assert.Equal(t, "body", slots[0].OwnerName)
	assert.Equal(t, slot.KindAlbedo, slots[0].Kind)
	assert.Equal(t, slot.KindNormal, slots[1].Kind)
	assert.Equal(t, "trim", slots[2].OwnerName)
	assert.Equal(t, 1, slots[2].SurfaceIndex)

	// Every slot's scan-time image is retained as the original.
	orig, ok := r.Original(slots[0].ID)
	require.True(t, ok)
	assert.Same(t, image.Image(bodyAlbedo), orig)

	orig, ok = r.Original(slots[2].ID)
	require.True(t, ok)
	assert.Same(t, image.Image(trimAlbedo), orig)
}

func TestSwappableSlotsFollowPolicy(t *testing.T) {
	mat := scene.NewMaterial("m")
	mat.SetTexture(slot.KindAlbedo, solidImage(color.NRGBA{A: 255}))
	mat.SetTexture(slot.KindNormal, solidImage(color.NRGBA{A: 255}))
	mat.SetTexture(slot.KindRoughness, solidImage(color.NRGBA{A: 255}))
	model := scene.NewModel("test", scene.NewSurface("m", mat))

	r := slot.NewRegistry(slot.DefaultPolicy())
	r.Scan(model)

	assert.Len(t, r.Slots(), 3)
	swappable := r.SwappableSlots()
	require.Len(t, swappable, 1)
	assert.Equal(t, slot.KindAlbedo, swappable[0].Kind)

	wide := slot.NewRegistry(slot.Policy{Swappable: []slot.Kind{slot.KindAlbedo, slot.KindNormal}})
	wide.Scan(model)
	assert.Len(t, wide.SwappableSlots(), 2)
}

func TestApplyImageClonesPerSlot(t *testing.T) {
	model := scene.NewModel("test",
		albedoSurface("a", color.NRGBA{R: 10, A: 255}),
		albedoSurface("b", color.NRGBA{R: 20, A: 255}),
	)

	r := slot.NewRegistry(slot.DefaultPolicy())
	slots := r.Scan(model)
	require.Len(t, slots, 2)

	src := solidImage(color.NRGBA{R: 200, G: 100, A: 255})
	require.NoError(t, r.ApplyImage(slots[0].ID, src))
	require.NoError(t, r.ApplyImage(slots[1].ID, src))

	surfaces := model.Surfaces()
	boundA := surfaces[0].Material(0).Texture(slot.KindAlbedo)
	boundB := surfaces[1].Material(0).Texture(slot.KindAlbedo)

	// Each slot holds its own copy, never the caller's image or a shared one.
	assert.NotSame(t, image.Image(src), boundA)
	assert.NotSame(t, boundA, boundB)

	// Mutating the source afterwards must not leak into the bindings.
	src.SetNRGBA(0, 0, color.NRGBA{B: 255, A: 255})
	got := boundA.(*image.NRGBA).NRGBAAt(0, 0)
	assert.Equal(t, color.NRGBA{R: 200, G: 100, A: 255}, got)
}

func TestApplyMarksMaterialDirty(t *testing.T) {
	mat := scene.NewMaterial("m")
	mat.SetTexture(slot.KindAlbedo, solidImage(color.NRGBA{A: 255}))
	model := scene.NewModel("test", scene.NewSurface("m", mat))

	r := slot.NewRegistry(slot.DefaultPolicy())
	slots := r.Scan(model)
	assert.False(t, mat.Dirty())

	require.NoError(t, r.ApplyImage(slots[0].ID, solidImage(color.NRGBA{R: 1, A: 255})))
	assert.True(t, mat.Dirty())
}

func TestResetSlotRestoresOriginalIdempotently(t *testing.T) {
	mat := scene.NewMaterial("m")
	original := solidImage(color.NRGBA{R: 5, A: 255})
	mat.SetTexture(slot.KindAlbedo, original)
	model := scene.NewModel("test", scene.NewSurface("m", mat))

	r := slot.NewRegistry(slot.DefaultPolicy())
	slots := r.Scan(model)
	id := slots[0].ID

	require.NoError(t, r.ApplyImage(id, solidImage(color.NRGBA{R: 99, A: 255})))
	assert.NotSame(t, image.Image(original), mat.Texture(slot.KindAlbedo))

	require.NoError(t, r.ResetSlot(id))
	assert.Same(t, image.Image(original), mat.Texture(slot.KindAlbedo))

	// Resetting again is a no-op that leaves the original bound.
	require.NoError(t, r.ResetSlot(id))
	assert.Same(t, image.Image(original), mat.Texture(slot.KindAlbedo))
}

func TestApplyToAllSkipsVanishedSurface(t *testing.T) {
	model := scene.NewModel("test",
		albedoSurface("hull", color.NRGBA{R: 1, A: 255}),
		albedoSurface("wing", color.NRGBA{R: 2, A: 255}),
		albedoSurface("tail", color.NRGBA{R: 3, A: 255}),
	)

	r := slot.NewRegistry(slot.DefaultPolicy())
	slots := r.Scan(model)
	require.Len(t, slots, 3)

	// The host deletes the middle surface after the scan. The remaining
	// slots still resolve even though their indices shifted.
	model.RemoveSurface(1)

	applied := r.ApplyToAll(solidImage(color.NRGBA{R: 77, A: 255}))
	assert.Equal(t, 2, applied)

	surfaces := model.Surfaces()
	for _, s := range surfaces {
		got := s.Material(0).Texture(slot.KindAlbedo).(*image.NRGBA).NRGBAAt(0, 0)
		assert.Equal(t, uint8(77), got.R, "surface %s", s.Name())
	}

	// The orphaned slot reports the failure explicitly.
	err := r.ApplyImage(slots[1].ID, solidImage(color.NRGBA{A: 255}))
	assert.ErrorIs(t, err, slot.ErrSlotNotFound)
}

func TestResetAll(t *testing.T) {
	model := scene.NewModel("test",
		albedoSurface("a", color.NRGBA{R: 1, A: 255}),
		albedoSurface("b", color.NRGBA{R: 2, A: 255}),
	)

	r := slot.NewRegistry(slot.DefaultPolicy())
	r.Scan(model)
	r.ApplyToAll(solidImage(color.NRGBA{R: 50, A: 255}))

	assert.Equal(t, 2, r.ResetAll())
	for i, s := range model.Surfaces() {
		got := s.Material(0).Texture(slot.KindAlbedo).(*image.NRGBA).NRGBAAt(0, 0)
		assert.Equal(t, uint8(i+1), got.R)
	}
}

func TestUnknownSlotErrors(t *testing.T) {
	r := slot.NewRegistry(slot.DefaultPolicy())
	r.Scan(scene.NewModel("empty"))

	assert.ErrorIs(t, r.ApplyImage(42, solidImage(color.NRGBA{A: 255})), slot.ErrSlotNotFound)
	assert.ErrorIs(t, r.ResetSlot(42), slot.ErrNoOriginal)
}

func TestCallbacksFire(t *testing.T) {
	model := scene.NewModel("test", albedoSurface("a", color.NRGBA{R: 1, A: 255}))

	r := slot.NewRegistry(slot.DefaultPolicy())
	var changed, redraws int
	r.OnSlotsChanged(func(slots []*slot.TextureSlot) { changed++ })
	r.RequestRedraw(func() { redraws++ })

	slots := r.Scan(model)
	assert.Equal(t, 1, changed)
	assert.Equal(t, 0, redraws)

	require.NoError(t, r.ApplyImage(slots[0].ID, solidImage(color.NRGBA{A: 255})))
	assert.Equal(t, 2, changed)
	assert.Equal(t, 1, redraws)

	r.Clear()
	assert.Equal(t, 3, changed)
	assert.Empty(t, r.Slots())
}
