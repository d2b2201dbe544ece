// Package speech provides spoken announcement delivery for shopwatch.
//
// An Engine turns text into audible speech and blocks until playback ends.
// The Speaker wraps an engine with an ordered, non-blocking queue drained by
// a single background worker, so slow audio playback never stalls frame
// capture or the next inference cycle.
package speech

import (
	"errors"
	"fmt"
)

// Engine plays text as audio. Speak blocks until the utterance finishes and
// is not reentrant; the Speaker serializes calls onto a single worker.
type Engine interface {
	// Speak plays the text, blocking until playback completes.
	Speak(text string) error

	// Stop interrupts the current utterance, best effort.
	Stop()

	// Close releases engine resources. Idempotent.
	Close() error
}

// Sentinel errors.
var (
	// ErrQueueClosed is returned by Say after the speaker has been closed.
	ErrQueueClosed = errors.New("speech: queue closed")

	// ErrEngineClosed is returned when speaking through a closed engine.
	ErrEngineClosed = errors.New("speech: engine closed")
)

// EngineError wraps an error with engine context.
type EngineError struct {
	Engine string
	Err    error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("speech [%s]: %v", e.Engine, e.Err)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with engine context.
func WrapError(engine string, err error) error {
	if err == nil {
		return nil
	}
	return &EngineError{Engine: engine, Err: err}
}
