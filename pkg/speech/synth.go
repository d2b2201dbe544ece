package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/teslashibe/go-shopwatch/internal/httpc"
)

// DefaultSampleRate matches the medium-quality piper voices most local TTS
// servers ship with.
const DefaultSampleRate = 22050

// HTTPSynthesizer fetches speech audio from a companion TTS server. It
// posts {"text": ...} to the server's /synthesize endpoint and expects raw
// PCM16 little-endian mono samples back.
type HTTPSynthesizer struct {
	baseURL    string
	sampleRate int
	client     *http.Client
}

// NewHTTPSynthesizer creates a synthesizer against the given server URL.
// A non-positive sampleRate falls back to DefaultSampleRate.
func NewHTTPSynthesizer(baseURL string, sampleRate int) (*HTTPSynthesizer, error) {
	if baseURL == "" {
		return nil, WrapError("pcm", fmt.Errorf("synthesizer URL is required"))
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &HTTPSynthesizer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sampleRate: sampleRate,
		client:     httpc.Client,
	}, nil
}

// SampleRate returns the configured playback rate in Hz.
func (s *HTTPSynthesizer) SampleRate() int {
	return s.sampleRate
}

// Synthesize requests audio for the text and returns the raw samples.
func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/synthesize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("synthesis server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("synthesis server returned no audio")
	}
	return pcm, nil
}

var _ Synthesizer = (*HTTPSynthesizer)(nil)
