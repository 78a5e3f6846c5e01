// Package app provides application lifecycle management, shared state, and
// events.
package app

import (
	"log"
	"sync"

	"mesh-retex/internal/scene"
	"mesh-retex/internal/session"
	"mesh-retex/internal/slot"
	"mesh-retex/internal/texture"
)

// EventType identifies different application events.
type EventType int

const (
	EventModelLoaded EventType = iota
	EventModelCleared
	EventSlotsChanged
	EventTextureApplied
	EventRedrawRequested
	EventSessionOpened
	EventSessionClosed
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the loaded model, the slot registry,
// the texture cache, and the remembered transforms of confirmed sessions.
type State struct {
	mu sync.RWMutex

	// Model is the scene currently open in the viewer.
	Model *scene.Model

	// Registry tracks the model's swappable texture slots.
	Registry *slot.Registry

	// Textures caches decoded source images.
	Textures *texture.Cache

	// Sessions remembers last-applied transforms per source image.
	Sessions *session.Store

	Modified bool

	listeners map[EventType][]EventListener
}

// NewState creates a new application state with the given swap policy.
func NewState(policy slot.Policy) *State {
	s := &State{
		Registry:  slot.NewRegistry(policy),
		Textures:  texture.NewCache(),
		Sessions:  session.NewStore(),
		listeners: make(map[EventType][]EventListener),
	}

	s.Registry.OnSlotsChanged(func(slots []*slot.TextureSlot) {
		s.Emit(EventSlotsChanged, slots)
	})
	s.Registry.RequestRedraw(func() {
		s.Emit(EventRedrawRequested, nil)
	})

	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the session as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// SetModel installs a freshly loaded model, invalidates all slots from the
// previous one, and rescans.
func (s *State) SetModel(model *scene.Model) {
	s.mu.Lock()
	s.Model = model
	s.mu.Unlock()

	slots := s.Registry.Scan(model)
	log.Printf("app: model %q scanned, %d texture slots (%d swappable)",
		model.Name(), len(slots), len(s.Registry.SwappableSlots()))

	s.Emit(EventModelLoaded, model)
}

// ClearModel drops the current model and all slot bookkeeping, e.g. before
// loading a replacement scene.
func (s *State) ClearModel() {
	s.mu.Lock()
	s.Model = nil
	s.mu.Unlock()

	s.Registry.Clear()
	s.Emit(EventModelCleared, nil)
}

// CurrentModel returns the loaded model, or nil.
func (s *State) CurrentModel() *scene.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Model
}
