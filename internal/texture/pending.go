package texture

import (
	"errors"
	"image"
	"sync"
)

// ErrNotReady is returned when the image is requested before decode
// completes.
var ErrNotReady = errors.New("texture: image not ready")

// Pending is a single-resolution handle for an image being decoded.
// It resolves exactly once; consumers either poll Ready before drawing or
// block on Done.
type Pending struct {
	once sync.Once
	done chan struct{}

	img *image.NRGBA
	err error
}

// LoadAsync decodes the file on a background goroutine.
func LoadAsync(path string) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		img, err := Load(path)
		p.resolve(img, err)
	}()
	return p
}

// Resolved wraps an already-decoded bitmap, e.g. one extracted from an
// existing material binding.
func Resolved(img *image.NRGBA) *Pending {
	p := &Pending{done: make(chan struct{})}
	p.resolve(img, nil)
	return p
}

func (p *Pending) resolve(img *image.NRGBA, err error) {
	p.once.Do(func() {
		p.img = img
		p.err = err
		close(p.done)
	})
}

// Done is closed once decoding finishes, successfully or not.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Ready reports whether decoding has finished.
func (p *Pending) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Image returns the decoded bitmap, ErrNotReady while decoding is in
// flight, or the decode error.
func (p *Pending) Image() (*image.NRGBA, error) {
	if !p.Ready() {
		return nil, ErrNotReady
	}
	return p.img, p.err
}

// Wait blocks until decoding finishes and returns the result.
func (p *Pending) Wait() (*image.NRGBA, error) {
	<-p.done
	return p.img, p.err
}
