package slot

import (
	"errors"
	"image"
	"image/draw"
	"log"
	"sync"
)

var (
	// ErrSlotNotFound means the slot id is unknown or its surface is gone.
	ErrSlotNotFound = errors.New("slot: not found")

	// ErrNoOriginal means no original image was recorded for the slot.
	ErrNoOriginal = errors.New("slot: no original image recorded")
)

// Registry tracks the texture slots detected on the current model, the
// original image bound to each at scan time, and the apply/reset
// operations that mutate material bindings. It is the single writer for
// both the originals and the live bindings.
type Registry struct {
	mu sync.RWMutex

	policy    Policy
	model     Model
	slots     []*TextureSlot
	originals map[int]image.Image
	nextID    int

	onSlotsChanged func(slots []*TextureSlot)
	requestRedraw  func()
}

// NewRegistry creates an empty registry with the given swap policy.
func NewRegistry(policy Policy) *Registry {
	return &Registry{
		policy:    policy,
		originals: make(map[int]image.Image),
	}
}

// OnSlotsChanged sets the callback fired after scan, apply, and reset.
func (r *Registry) OnSlotsChanged(fn func(slots []*TextureSlot)) {
	r.mu.Lock()
	r.onSlotsChanged = fn
	r.mu.Unlock()
}

// RequestRedraw sets the callback asking the host view to repaint.
func (r *Registry) RequestRedraw(fn func()) {
	r.mu.Lock()
	r.requestRedraw = fn
	r.mu.Unlock()
}

// Policy returns the active swap policy.
func (r *Registry) Policy() Policy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.policy
}

// Scan traverses the model's surfaces and materials, records every bound
// texture on a recognized channel as a slot, and captures the original
// image per slot. Any previous scan results are discarded.
func (r *Registry) Scan(model Model) []*TextureSlot {
	r.mu.Lock()

	r.model = model
	r.slots = nil
	r.originals = make(map[int]image.Image)

	for si, surface := range model.Surfaces() {
		for bi := 0; bi < surface.MaterialCount(); bi++ {
			mat := surface.Material(bi)
			if mat == nil {
				continue
			}
			for _, kind := range RecognizedKinds {
				img := mat.Texture(kind)
				if img == nil {
					continue
				}
				s := &TextureSlot{
					ID:           r.nextID,
					OwnerName:    surface.Name(),
					SurfaceIndex: si,
					BindingIndex: bi,
					Kind:         kind,
					CurrentImage: img,
				}
				r.nextID++
				r.slots = append(r.slots, s)
				r.originals[s.ID] = img
			}
		}
	}

	slots := append([]*TextureSlot(nil), r.slots...)
	notify := r.onSlotsChanged
	r.mu.Unlock()

	if notify != nil {
		notify(slots)
	}
	return slots
}

// Clear drops all slots and originals, e.g. when the model is replaced.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.model = nil
	r.slots = nil
	r.originals = make(map[int]image.Image)
	notify := r.onSlotsChanged
	r.mu.Unlock()

	if notify != nil {
		notify(nil)
	}
}

// Slots returns all detected slots in scan order.
func (r *Registry) Slots() []*TextureSlot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*TextureSlot(nil), r.slots...)
}

// SwappableSlots returns the slots the policy exposes for user swapping.
func (r *Registry) SwappableSlots() []*TextureSlot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*TextureSlot
	for _, s := range r.slots {
		if r.policy.Allows(s.Kind) {
			out = append(out, s)
		}
	}
	return out
}

// Original returns the image recorded for the slot at scan time.
func (r *Registry) Original(slotID int) (image.Image, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	img, ok := r.originals[slotID]
	return img, ok
}

// ApplyImage binds a private copy of the bitmap to the slot's material.
// Each slot owns an independent clone so per-slot metadata and disposal
// never alias across slots.
func (r *Registry) ApplyImage(slotID int, bitmap image.Image) error {
	r.mu.Lock()
	err := r.bindLocked(slotID, cloneImage(bitmap))
	notify := r.onSlotsChanged
	redraw := r.requestRedraw
	slots := append([]*TextureSlot(nil), r.slots...)
	r.mu.Unlock()

	if err != nil {
		log.Printf("slot: apply to %d: %v", slotID, err)
		return err
	}
	if notify != nil {
		notify(slots)
	}
	if redraw != nil {
		redraw()
	}
	return nil
}

// ResetSlot rebinds the slot's original image from the registry.
func (r *Registry) ResetSlot(slotID int) error {
	r.mu.Lock()
	orig, ok := r.originals[slotID]
	var err error
	if !ok {
		err = ErrNoOriginal
	} else {
		err = r.bindLocked(slotID, orig)
	}
	notify := r.onSlotsChanged
	redraw := r.requestRedraw
	slots := append([]*TextureSlot(nil), r.slots...)
	r.mu.Unlock()

	if err != nil {
		log.Printf("slot: reset %d: %v", slotID, err)
		return err
	}
	if notify != nil {
		notify(slots)
	}
	if redraw != nil {
		redraw()
	}
	return nil
}

// ApplyToAll applies the bitmap to every slot the policy exposes. A slot
// whose surface has disappeared is logged and skipped; the rest proceed.
func (r *Registry) ApplyToAll(bitmap image.Image) int {
	r.mu.RLock()
	var ids []int
	for _, s := range r.slots {
		if r.policy.Allows(s.Kind) {
			ids = append(ids, s.ID)
		}
	}
	r.mu.RUnlock()

	applied := 0
	for _, id := range ids {
		if err := r.ApplyImage(id, bitmap); err == nil {
			applied++
		}
	}
	return applied
}

// ResetAll rebinds every slot's original image.
func (r *Registry) ResetAll() int {
	r.mu.RLock()
	var ids []int
	for _, s := range r.slots {
		ids = append(ids, s.ID)
	}
	r.mu.RUnlock()

	reset := 0
	for _, id := range ids {
		if err := r.ResetSlot(id); err == nil {
			reset++
		}
	}
	return reset
}

// bindLocked resolves the slot against the live model and rebinds its
// material channel. The surface is re-resolved by index on every call so a
// host-side model mutation surfaces as ErrSlotNotFound instead of a
// dangling reference.
func (r *Registry) bindLocked(slotID int, img image.Image) error {
	s := r.findLocked(slotID)
	if s == nil || r.model == nil {
		return ErrSlotNotFound
	}

	surface := resolveSurface(r.model.Surfaces(), s.SurfaceIndex, s.OwnerName)
	if surface == nil || s.BindingIndex >= surface.MaterialCount() {
		return ErrSlotNotFound
	}
	mat := surface.Material(s.BindingIndex)
	if mat == nil {
		return ErrSlotNotFound
	}

	mat.SetTexture(s.Kind, img)
	mat.MarkDirty()
	s.CurrentImage = img
	return nil
}

// resolveSurface locates a slot's surface. The scan-time index is tried
// first; if the host has since reordered or removed surfaces the list is
// searched by owner name so unrelated slots keep working.
func resolveSurface(surfaces []Surface, index int, name string) Surface {
	if index >= 0 && index < len(surfaces) {
		if s := surfaces[index]; s != nil && s.Name() == name {
			return s
		}
	}
	for _, s := range surfaces {
		if s != nil && s.Name() == name {
			return s
		}
	}
	return nil
}

func (r *Registry) findLocked(slotID int) *TextureSlot {
	for _, s := range r.slots {
		if s.ID == slotID {
			return s
		}
	}
	return nil
}

// cloneImage makes an independent NRGBA copy of the bitmap.
func cloneImage(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
