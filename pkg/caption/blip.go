package caption

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/teslashibe/go-shopwatch/internal/httpc"
	"github.com/teslashibe/go-shopwatch/internal/log"
)

const (
	// DefaultModel is the captioning model requested from the server.
	DefaultModel = "Salesforce/blip-image-captioning-base"

	// DefaultTimeout bounds a single captioning request.
	DefaultTimeout = 30 * time.Second
)

// BLIP is a Provider backed by a BLIP image-captioning inference server.
// The model is loaded by the server once at its startup; constructing a BLIP
// client is cheap and the client is reused for the process lifetime.
type BLIP struct {
	cfg    Config
	client *http.Client

	mu     sync.Mutex
	closed bool
}

// blipRequest is the wire format for a captioning request.
type blipRequest struct {
	Model string `json:"model"`
	Image string `json:"image"` // base64-encoded JPEG
}

// blipResponse is the wire format for a captioning response.
type blipResponse struct {
	GeneratedText string `json:"generated_text"`
	Error         string `json:"error,omitempty"`
}

// NewBLIP creates a BLIP captioning client.
func NewBLIP(opts ...Option) (*BLIP, error) {
	cfg := Config{
		Model:   DefaultModel,
		Timeout: DefaultTimeout,
		Logger:  log.L(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.BaseURL == "" {
		return nil, ErrNoEndpoint
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	client := cfg.HTTPClient
	if client == nil {
		client = httpc.NewClient(cfg.Timeout)
	}

	return &BLIP{cfg: cfg, client: client}, nil
}

// Caption sends the JPEG to the inference server and returns the generated
// caption. Non-2xx responses come back as an *APIError.
func (b *BLIP) Caption(ctx context.Context, jpeg []byte) (string, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return "", WrapError("blip", ErrProviderClosed)
	}
	if len(jpeg) == 0 {
		return "", WrapError("blip", ErrEmptyImage)
	}

	body, err := json.Marshal(blipRequest{
		Model: b.cfg.Model,
		Image: base64.StdEncoding.EncodeToString(jpeg),
	})
	if err != nil {
		return "", WrapError("blip", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.BaseURL+"/caption", bytes.NewReader(body))
	if err != nil {
		return "", WrapError("blip", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	}

	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		return "", WrapError("blip", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
			Provider:   "blip",
		}
	}

	var out blipResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", WrapError("blip", fmt.Errorf("decode response: %w", err))
	}
	if out.Error != "" {
		return "", WrapError("blip", fmt.Errorf("server error: %s", out.Error))
	}

	b.cfg.Logger.Debug("caption inference",
		"caption", out.GeneratedText,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return out.GeneratedText, nil
}

// Health checks connectivity to the inference server.
func (b *BLIP) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.BaseURL+"/health", nil)
	if err != nil {
		return WrapError("blip", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return WrapError("blip", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: "health check failed", Provider: "blip"}
	}
	return nil
}

// Close marks the provider closed. In-flight requests are not interrupted.
func (b *BLIP) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Verify BLIP implements Provider at compile time.
var _ Provider = (*BLIP)(nil)
