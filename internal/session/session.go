// Package session manages one open/close cycle of the transform tool: the
// source image being adjusted, the live transform state, gesture routing,
// and the confirm path that bakes and applies the result.
package session

import (
	"errors"
	"image"
	"log"
	"sync"

	"mesh-retex/internal/render"
	"mesh-retex/internal/slot"
	"mesh-retex/internal/texture"
	"mesh-retex/internal/transform"
	"mesh-retex/pkg/geometry"
)

// ErrImageNotReady means confirm was requested before the source image
// finished decoding. Hosts should disable the confirm affordance until
// Ready reports true.
var ErrImageNotReady = errors.New("session: source image not ready")

// ErrClosed means the session was already confirmed or closed.
var ErrClosed = errors.New("session: closed")

// Source identifies the image being adjusted. Key is the identity the
// remembered-transform store is scoped to.
type Source struct {
	Key     string
	pending *texture.Pending
}

// FileSource loads the image asynchronously from a path.
func FileSource(path string) Source {
	return Source{Key: path, pending: texture.LoadAsync(path)}
}

// BitmapSource wraps an already-decoded bitmap, e.g. one extracted from a
// bound texture.
func BitmapSource(key string, img *image.NRGBA) Source {
	return Source{Key: key, pending: texture.Resolved(img)}
}

// remembered is the transform and viewport geometry captured at confirm.
type remembered struct {
	state transform.State
	frame transform.Frame
}

// Store keeps the last-applied transform per source image for the process
// lifetime, so reopening the tool continues where the user confirmed.
type Store struct {
	mu      sync.Mutex
	entries map[string]remembered
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]remembered)}
}

func (s *Store) get(key string) (remembered, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.entries[key]
	return r, ok
}

func (s *Store) put(key string, r remembered) {
	s.mu.Lock()
	s.entries[key] = r
	s.mu.Unlock()
}

func (s *Store) drop(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Session is one open instance of the transform tool.
type Session struct {
	mu sync.Mutex

	src      Source
	canvas   geometry.Size
	store    *Store
	registry *slot.Registry
	renderer *render.Renderer

	exportWidth int

	img     *image.NRGBA
	frame   transform.Frame
	state   transform.State
	gesture *transform.Gesture

	ready  bool
	closed bool

	onChange []func()
}

// Open starts a session for the source image on a canvas of the given
// backing size. Geometry initializes once the image resolves: either the
// remembered transform from a previous confirm, or the default fit.
func Open(store *Store, registry *slot.Registry, renderer *render.Renderer, src Source, canvas geometry.Size, exportWidth int) *Session {
	s := &Session{
		src:         src,
		canvas:      canvas,
		store:       store,
		registry:    registry,
		renderer:    renderer,
		exportWidth: exportWidth,
	}

	go func() {
		img, err := src.pending.Wait()
		if err != nil {
			log.Printf("session: load %s: %v", src.Key, err)
			return
		}
		s.attach(img)
	}()

	return s
}

// attach installs the decoded image and initializes geometry. Closing the
// session before decode completes makes this a no-op.
func (s *Session) attach(img *image.NRGBA) {
	s.mu.Lock()
	if s.closed || img == nil {
		s.mu.Unlock()
		return
	}
	s.img = img
	if prev, ok := s.store.get(s.src.Key); ok {
		s.frame = prev.frame
		s.state = prev.state
	} else {
		s.initDefaultLocked()
	}
	s.ready = true
	listeners := s.onChange
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (s *Session) initDefaultLocked() {
	aspect := 1.0
	if b := s.img.Bounds(); b.Dy() > 0 {
		aspect = float64(b.Dx()) / float64(b.Dy())
	}
	s.frame = transform.ComputeFrame(s.canvas, aspect)
	s.state = transform.DefaultState(s.frame.Inner)
}

// OnChange registers a callback fired after every committed state
// mutation. Multiple listeners may register; the widget redraws from one,
// the window updates its affordances from another.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Ready reports whether the source image has decoded.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Frame returns the fixed viewport geometry.
func (s *Session) Frame() transform.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// State returns the current transform.
func (s *Session) State() transform.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Preview renders the current interactive frame. Before the image is
// ready only the background and frame are drawn.
func (s *Session) Preview() image.Image {
	s.mu.Lock()
	img, frame, state, canvas := s.img, s.frame, s.state, s.canvas
	ready := s.ready
	s.mu.Unlock()

	if !ready {
		img = nil
	}
	return s.renderer.Preview(img, frame, state, canvas)
}

// PointerDown begins a drag gesture at canvas coordinates.
func (s *Session) PointerDown(p geometry.Point2D) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready || s.closed {
		return
	}
	g := transform.BeginGesture(s.frame, s.state, p)
	s.gesture = &g
}

// PointerMove updates the transform from the active gesture and triggers
// a redraw.
func (s *Session) PointerMove(p geometry.Point2D) {
	s.mu.Lock()
	if s.gesture == nil || s.closed {
		s.mu.Unlock()
		return
	}
	s.state = s.gesture.Apply(s.frame, p)
	listeners := s.onChange
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// PointerUp commits the gesture and discards its transient state.
func (s *Session) PointerUp(p geometry.Point2D) {
	s.mu.Lock()
	if s.gesture == nil || s.closed {
		s.mu.Unlock()
		return
	}
	s.state = s.gesture.Apply(s.frame, p)
	s.gesture = nil
	listeners := s.onChange
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// ActiveGesture returns the kind of the drag in progress.
func (s *Session) ActiveGesture() transform.GestureKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture == nil {
		return transform.GestureNone
	}
	return s.gesture.Kind
}

// Reset discards any remembered transform for this source and recomputes
// the default fit.
func (s *Session) Reset() {
	s.mu.Lock()
	if !s.ready || s.closed {
		s.mu.Unlock()
		return
	}
	s.store.drop(s.src.Key)
	s.gesture = nil
	s.initDefaultLocked()
	listeners := s.onChange
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Confirm bakes the crop at export resolution, applies it to every
// swappable slot, remembers the transform for future reopens, and closes
// the session. Returns the number of slots updated.
func (s *Session) Confirm() (int, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, ErrClosed
	}
	if !s.ready {
		s.mu.Unlock()
		return 0, ErrImageNotReady
	}
	img, frame, state := s.img, s.frame, s.state
	s.mu.Unlock()

	baked, err := s.renderer.Bake(img, frame, state, s.exportWidth)
	if err != nil {
		return 0, err
	}

	applied := s.registry.ApplyToAll(baked)

	s.mu.Lock()
	s.store.put(s.src.Key, remembered{state: state, frame: frame})
	s.gesture = nil
	s.closed = true
	s.mu.Unlock()

	return applied, nil
}

// Close abandons the session without applying. Transient gesture state is
// dropped; a remembered transform from an earlier confirm is untouched.
func (s *Session) Close() {
	s.mu.Lock()
	s.gesture = nil
	s.closed = true
	s.mu.Unlock()
}

// Closed reports whether the session has been confirmed or closed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
