package detect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-shopwatch/internal/log"
	"github.com/teslashibe/go-shopwatch/pkg/camera"
	"github.com/teslashibe/go-shopwatch/pkg/caption"
	"github.com/teslashibe/go-shopwatch/pkg/speech"
)

// State labels where the loop is in its cycle. CooldownWait is purely a
// display label: every tick re-evaluates both gates fresh, it is not a hard
// lock state.
type State int

const (
	StateIdleReady State = iota
	StateCaptioning
	StateCooldownWait
	StateStopped
)

// String returns the display label for the state.
func (s State) String() string {
	switch s {
	case StateIdleReady:
		return "READY"
	case StateCaptioning:
		return "CAPTIONING"
	case StateCooldownWait:
		return "COOLDOWN"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Status is what the loop reports after each tick, for rendering.
type Status struct {
	State        State
	Caption      string
	Detected     bool
	CooldownLeft time.Duration
}

// Label renders the status line shown on the HUD.
func (s Status) Label() string {
	switch {
	case s.Detected:
		return "DETECTED SHOP"
	case s.State == StateCooldownWait:
		return fmt.Sprintf("DETECTED (cooldown %ds)", int(math.Ceil(s.CooldownLeft.Seconds())))
	default:
		return s.State.String()
	}
}

// LoopConfig holds the detection loop's tunables.
type LoopConfig struct {
	// Interval is the minimum time between caption inferences.
	Interval time.Duration

	// Cooldown is the minimum time between two spoken announcements.
	Cooldown time.Duration

	// Keywords is the shop keyword set, immutable for the loop lifetime.
	Keywords []string

	// Phrase is what gets spoken on detection.
	Phrase string
}

// DefaultLoopConfig returns the stock cadence settings.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		Interval: 2 * time.Second,
		Cooldown: 10 * time.Second,
		Keywords: DefaultKeywords,
		Phrase:   "This is a shop",
	}
}

// Loop drives the capture → caption → match → announce cycle. It owns one
// speaker and one set of cadence timestamps for its lifetime. A single
// goroutine calls Run; the speaker's worker is the only other concurrency.
type Loop struct {
	cfg      LoopConfig
	source   camera.Source
	provider caption.Provider
	speaker  *speech.Speaker
	logger   *slog.Logger

	// Cadence state. lastInferenceAt advances after every inference
	// attempt, including failures, so a broken provider is retried at the
	// normal cadence rather than every frame. lastSpokenAt advances only
	// when an utterance was actually enqueued.
	lastInferenceAt time.Time
	lastSpokenAt    time.Time

	lastStatus Status

	// now is the clock, injectable for tests.
	now func() time.Time

	// OnFrame, if set, is called once per captured frame with the current
	// status, for HUD rendering and key handling. Return false to stop
	// the loop. The frame is only valid for the duration of the call.
	OnFrame func(frame gocv.Mat, status Status) bool
}

// NewLoop creates a detection loop over the given collaborators.
func NewLoop(cfg LoopConfig, src camera.Source, provider caption.Provider, speaker *speech.Speaker) *Loop {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 10 * time.Second
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = DefaultKeywords
	}
	if cfg.Phrase == "" {
		cfg.Phrase = "This is a shop"
	}
	return &Loop{
		cfg:        cfg,
		source:     src,
		provider:   provider,
		speaker:    speaker,
		logger:     log.With("component", "loop"),
		lastStatus: Status{State: StateIdleReady},
		now:        time.Now,
	}
}

// Status returns the most recent tick's status.
func (l *Loop) Status() Status {
	return l.lastStatus
}

// Tick runs one inference cycle on an already-encoded frame: caption, match,
// cooldown decision, enqueue. It assumes the inference gate already passed.
// Exposed for the one-tick still-image mode and for tests with an injected
// clock; no camera or model is needed to exercise it.
//
// The provider call is the only blocking step and has no timeout of its
// own: a hung provider hangs the tick. Stop requests are honored on the
// next frame, after the in-flight call returns.
func (l *Loop) Tick(ctx context.Context, now time.Time, jpeg []byte) Status {
	l.lastStatus.State = StateCaptioning

	text, err := l.provider.Caption(ctx, jpeg)
	l.lastInferenceAt = now

	status := Status{State: StateIdleReady}
	if err != nil {
		// Non-fatal: keep ticking with an error-marker caption.
		l.logger.Error("inference error", "error", err)
		status.Caption = caption.ErrorMarker
		l.lastStatus = status
		return status
	}

	status.Caption = text
	if text != "" && Matches(text, l.cfg.Keywords) {
		if ShouldSpeak(now, l.lastSpokenAt, l.cfg.Cooldown) {
			if err := l.speaker.Say(l.cfg.Phrase); err == nil {
				l.lastSpokenAt = now
				status.Detected = true
				l.logger.Info("shop detected",
					"caption", text,
					"phrase", l.cfg.Phrase,
				)
			}
		} else {
			status.State = StateCooldownWait
			status.CooldownLeft = CooldownRemaining(now, l.lastSpokenAt, l.cfg.Cooldown)
		}
	}

	l.lastStatus = status
	return status
}

// Run drives the loop until the context is cancelled, the frame source is
// exhausted, or OnFrame asks to stop. On exit it releases the source and
// closes the speaker.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := l.source.Next()
		if err != nil {
			if errors.Is(err, camera.ErrExhausted) || errors.Is(err, camera.ErrSourceClosed) {
				return nil
			}
			return fmt.Errorf("detect: read frame: %w", err)
		}

		now := l.now()
		status := l.lastStatus
		if ShouldInfer(now, l.lastInferenceAt, l.cfg.Interval) {
			jpeg, encErr := camera.EncodeJPEG(frame)
			if encErr != nil {
				l.logger.Error("frame encode error", "error", encErr)
				l.lastInferenceAt = now
			} else {
				status = l.Tick(ctx, now, jpeg)
			}
		}

		keepGoing := true
		if l.OnFrame != nil {
			keepGoing = l.OnFrame(frame, status)
		} else {
			// Headless: don't spin between inference ticks.
			time.Sleep(10 * time.Millisecond)
		}
		frame.Close()

		if !keepGoing {
			return nil
		}
	}
}

func (l *Loop) stop() {
	l.lastStatus.State = StateStopped
	if err := l.source.Close(); err != nil {
		l.logger.Warn("source close error", "error", err)
	}
	// Give the worker a beat to start a just-enqueued announcement before
	// Close abandons the queue. Matters in one-shot mode, where the loop
	// exits right after the detection tick.
	if l.speaker.Pending() > 0 {
		time.Sleep(250 * time.Millisecond)
	}
	if err := l.speaker.Close(); err != nil {
		l.logger.Warn("speaker close error", "error", err)
	}
	l.logger.Info("detection loop stopped")
}
