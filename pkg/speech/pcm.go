package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Synthesizer turns text into raw PCM16 mono audio for local playback.
type Synthesizer interface {
	// Synthesize returns little-endian signed 16-bit mono samples.
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// SampleRate returns the sample rate of the produced audio in Hz.
	SampleRate() int
}

// pcmPlayer is the slice of oto's player the engine drives. Narrowed to an
// interface so tests can substitute a fake without an audio device.
type pcmPlayer interface {
	Play()
	IsPlaying() bool
	Close() error
}

// PCMEngine plays synthesized speech through the system audio device using
// oto. The oto context is initialized once; players are created per
// utterance.
type PCMEngine struct {
	synth     Synthesizer
	newPlayer func(io.Reader) pcmPlayer

	mu     sync.Mutex
	player pcmPlayer
	closed bool
}

// NewPCMEngine creates a PCM playback engine. Initializing the audio device
// can take a moment on some platforms; this blocks until it is ready.
func NewPCMEngine(synth Synthesizer) (*PCMEngine, error) {
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   synth.SampleRate(),
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, WrapError("pcm", fmt.Errorf("audio context: %w", err))
	}
	<-ready

	return newPCMEngine(synth, func(r io.Reader) pcmPlayer {
		return otoCtx.NewPlayer(r)
	}), nil
}

func newPCMEngine(synth Synthesizer, newPlayer func(io.Reader) pcmPlayer) *PCMEngine {
	return &PCMEngine{synth: synth, newPlayer: newPlayer}
}

// Speak synthesizes the text and blocks until playback finishes or Stop is
// called.
func (e *PCMEngine) Speak(text string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return WrapError("pcm", ErrEngineClosed)
	}
	e.mu.Unlock()

	pcm, err := e.synth.Synthesize(context.Background(), text)
	if err != nil {
		return WrapError("pcm", fmt.Errorf("synthesize: %w", err))
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return WrapError("pcm", ErrEngineClosed)
	}
	player := e.newPlayer(bytes.NewReader(pcm))
	e.player = player
	e.mu.Unlock()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	e.mu.Lock()
	interrupted := e.player != player
	if !interrupted {
		e.player = nil
	}
	e.mu.Unlock()

	if interrupted {
		// Stop already closed this player.
		return nil
	}
	return player.Close()
}

// Stop aborts the current utterance, if any.
func (e *PCMEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.player != nil {
		e.player.Close()
		e.player = nil
	}
}

// Close stops playback and marks the engine closed. Idempotent. The oto
// context itself cannot be torn down; it lives for the process lifetime.
func (e *PCMEngine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	e.Stop()
	return nil
}

var _ Engine = (*PCMEngine)(nil)
