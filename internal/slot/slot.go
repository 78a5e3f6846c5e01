// Package slot detects and manages swappable texture bindings on a model.
package slot

import (
	"image"
)

// Kind enumerates the recognized texture channels on a material.
type Kind int

const (
	KindAlbedo Kind = iota
	KindNormal
	KindRoughness
	KindMetallic
	KindEmissive
)

func (k Kind) String() string {
	switch k {
	case KindAlbedo:
		return "albedo"
	case KindNormal:
		return "normal"
	case KindRoughness:
		return "roughness"
	case KindMetallic:
		return "metallic"
	case KindEmissive:
		return "emissive"
	default:
		return "unknown"
	}
}

// KindFromString parses a channel name as produced by Kind.String.
func KindFromString(s string) (Kind, bool) {
	for _, k := range RecognizedKinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// RecognizedKinds is the fixed set of channels a scan inspects.
var RecognizedKinds = []Kind{KindAlbedo, KindNormal, KindRoughness, KindMetallic, KindEmissive}

// Policy decides which detected slots are exposed for end-user swapping.
// Restricting to the albedo channel keeps users from corrupting encoded
// data such as normal maps.
type Policy struct {
	Swappable []Kind
}

// DefaultPolicy allows swapping the albedo channel only.
func DefaultPolicy() Policy {
	return Policy{Swappable: []Kind{KindAlbedo}}
}

// Allows reports whether the policy exposes the given kind.
func (p Policy) Allows(k Kind) bool {
	for _, s := range p.Swappable {
		if s == k {
			return true
		}
	}
	return false
}

// TextureSlot identifies one swappable texture binding. Identity is stable
// for the session; the owning surface is addressed by index so the slot
// never holds a live reference into the host's scene graph.
type TextureSlot struct {
	ID           int
	OwnerName    string
	SurfaceIndex int
	BindingIndex int
	Kind         Kind

	// CurrentImage is the image bound at the last registry operation.
	CurrentImage image.Image
}

// Material is one material binding on a surface, owned by the host engine.
type Material interface {
	// Texture returns the image bound to the channel, or nil.
	Texture(kind Kind) image.Image

	// SetTexture rebinds the channel to the given image.
	SetTexture(kind Kind, img image.Image)

	// MarkDirty tells the engine the material needs a GPU re-upload.
	MarkDirty()
}

// Surface is one renderable mesh of the model.
type Surface interface {
	Name() string
	MaterialCount() int
	Material(i int) Material
}

// Model enumerates the renderable surfaces of the loaded scene.
type Model interface {
	Surfaces() []Surface
}
