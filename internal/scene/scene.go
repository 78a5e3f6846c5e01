// Package scene provides a minimal in-memory scene model the retexturing
// core operates on: a model of named surfaces, each carrying one or more
// materials with per-channel texture bindings. The real rendering engine
// is a collaborator; this implementation backs the demo viewer and tests.
package scene

import (
	"image"
	"sync"

	"mesh-retex/internal/slot"
)

// ColorSpace describes how a bound texture's pixel values are interpreted.
type ColorSpace int

const (
	ColorSpaceSRGB ColorSpace = iota
	ColorSpaceLinear
)

// FilterMode is the sampling filter the engine uses for a texture.
type FilterMode int

const (
	FilterBilinear FilterMode = iota
	FilterNearest
)

// Material holds per-channel texture bindings plus the scalar surface
// parameters the engine feeds its shader. Only the texture bindings are
// touched by the retexturing core.
type Material struct {
	mu sync.RWMutex

	name      string
	baseColor [4]float32
	metallic  float32
	roughness float32

	textures map[slot.Kind]image.Image

	// Per-binding sampling metadata. Independent per material, which is
	// why applied bitmaps must never be shared across slots.
	ColorSpace ColorSpace
	Filter     FilterMode

	dirty bool
}

// NewMaterial creates a material with engine-default surface parameters.
func NewMaterial(name string) *Material {
	return &Material{
		name:      name,
		baseColor: [4]float32{1, 1, 1, 1},
		roughness: 1.0,
		textures:  make(map[slot.Kind]image.Image),
	}
}

// Name returns the material identifier.
func (m *Material) Name() string { return m.name }

// Texture returns the image bound to the channel, or nil.
func (m *Material) Texture(kind slot.Kind) image.Image {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.textures[kind]
}

// SetTexture rebinds the channel.
func (m *Material) SetTexture(kind slot.Kind, img image.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if img == nil {
		delete(m.textures, kind)
		return
	}
	m.textures[kind] = img
}

// MarkDirty flags the material for GPU re-upload.
func (m *Material) MarkDirty() {
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
}

// Dirty reports and clears the re-upload flag.
func (m *Material) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.dirty
	m.dirty = false
	return d
}

// Surface is one renderable mesh of a model.
type Surface struct {
	name      string
	materials []*Material
}

// NewSurface creates a surface with the given materials.
func NewSurface(name string, materials ...*Material) *Surface {
	return &Surface{name: name, materials: materials}
}

// Name returns the surface label shown in the UI.
func (s *Surface) Name() string { return s.name }

// MaterialCount returns the number of material bindings.
func (s *Surface) MaterialCount() int { return len(s.materials) }

// Material returns the i-th material binding, or nil out of range.
func (s *Surface) Material(i int) slot.Material {
	if i < 0 || i >= len(s.materials) {
		return nil
	}
	return s.materials[i]
}

// Model is a loaded scene: an ordered list of surfaces.
type Model struct {
	mu       sync.RWMutex
	name     string
	surfaces []*Surface
}

// NewModel creates a model with the given surfaces.
func NewModel(name string, surfaces ...*Surface) *Model {
	return &Model{name: name, surfaces: surfaces}
}

// Name returns the model identifier.
func (m *Model) Name() string { return m.name }

// Surfaces enumerates the renderable surfaces.
func (m *Model) Surfaces() []slot.Surface {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]slot.Surface, len(m.surfaces))
	for i, s := range m.surfaces {
		out[i] = s
	}
	return out
}

// RemoveSurface deletes a surface by index, e.g. when the host edits the
// scene after a scan. Out-of-range indices are ignored.
func (m *Model) RemoveSurface(i int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.surfaces) {
		return
	}
	m.surfaces = append(m.surfaces[:i], m.surfaces[i+1:]...)
}
