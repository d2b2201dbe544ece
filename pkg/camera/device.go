package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Device is a live webcam frame source backed by a gocv VideoCapture.
type Device struct {
	cap    *gocv.VideoCapture
	index  int
	mu     sync.Mutex
	closed bool
}

// OpenDevice opens the webcam at the given index (0 is the default camera).
// Failure to open is fatal for the caller: there is nothing to detect on.
func OpenDevice(index int) (*Device, error) {
	cap, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("camera: open device %d: %w", index, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("camera: device %d is not available", index)
	}
	return &Device{cap: cap, index: index}, nil
}

// Next reads one frame from the device. A read failure is reported as
// ErrExhausted: the camera went away and the loop should stop.
func (d *Device) Next() (gocv.Mat, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return gocv.Mat{}, ErrSourceClosed
	}

	frame := gocv.NewMat()
	if ok := d.cap.Read(&frame); !ok || frame.Empty() {
		frame.Close()
		return gocv.Mat{}, ErrExhausted
	}
	return frame, nil
}

// Close releases the capture device. Idempotent.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.cap.Close()
}

var _ Source = (*Device)(nil)
