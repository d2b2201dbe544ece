// Package camera provides frame sources for the detection loop: a live
// webcam device and a single still image. Both hand out gocv Mats that the
// caller owns and must close.
package camera

import (
	"errors"

	"gocv.io/x/gocv"
)

// Sentinel errors for frame sources.
var (
	// ErrExhausted is returned by Next when the source has no more frames.
	// This is the normal end-of-stream signal, not a fault.
	ErrExhausted = errors.New("camera: source exhausted")

	// ErrSourceClosed is returned by Next after Close.
	ErrSourceClosed = errors.New("camera: source closed")
)

// Source yields frames for the detection loop.
type Source interface {
	// Next returns the next frame. The caller owns the Mat and must close
	// it. Returns ErrExhausted at end of stream.
	Next() (gocv.Mat, error)

	// Close releases the underlying capture resources. Idempotent.
	Close() error
}

// EncodeJPEG encodes a frame for transmission to the caption provider.
func EncodeJPEG(frame gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		return nil, err
	}
	defer buf.Close()
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}
