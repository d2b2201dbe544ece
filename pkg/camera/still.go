package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Still is a frame source backed by a single image file. It yields the image
// exactly once and then reports ErrExhausted, which drives the loop's
// one-shot mode: one tick, then stop.
type Still struct {
	img    gocv.Mat
	mu     sync.Mutex
	served bool
	closed bool
}

// OpenStill loads the image at path. An unreadable or empty image is fatal,
// same as an unopenable camera.
func OpenStill(path string) (*Still, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return nil, fmt.Errorf("camera: could not read image at %q", path)
	}
	return &Still{img: img}, nil
}

// Next returns a copy of the image on the first call and ErrExhausted after.
// The caller owns the returned Mat.
func (s *Still) Next() (gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return gocv.Mat{}, ErrSourceClosed
	}
	if s.served {
		return gocv.Mat{}, ErrExhausted
	}
	s.served = true
	return s.img.Clone(), nil
}

// Close releases the loaded image. Idempotent.
func (s *Still) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.img.Close()
}

var _ Source = (*Still)(nil)
