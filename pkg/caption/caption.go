// Package caption provides a unified interface for image captioning
// providers.
//
// A provider takes a JPEG-encoded frame and returns a natural-language
// caption for it. The reference implementation talks to a BLIP inference
// server over HTTP; all providers implement the Provider interface, enabling
// seamless switching without changing caller code.
//
// Example usage:
//
//	provider, _ := caption.NewBLIP(
//	    caption.WithBaseURL("http://localhost:9000"),
//	)
//	defer provider.Close()
//
//	text, _ := provider.Caption(ctx, jpegBytes)
package caption

import "context"

// Provider defines the captioning provider interface.
// Captioning may be slow (seconds, GPU-bound); callers are expected to
// throttle call frequency rather than parallelize calls.
type Provider interface {
	// Caption returns a natural-language caption for a JPEG image.
	// An empty string with a nil error means the model produced nothing.
	Caption(ctx context.Context, jpeg []byte) (string, error)

	// Health checks provider connectivity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// ErrorMarker is the caption recorded in place of real output when the
// provider fails. Displayed as-is; it never matches any shop keyword.
const ErrorMarker = "<captioning error>"
