package detect_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/teslashibe/go-shopwatch/pkg/caption"
	"github.com/teslashibe/go-shopwatch/pkg/detect"
	"github.com/teslashibe/go-shopwatch/pkg/speech"
)

// waitForSpoken polls until the engine has received n utterances.
func waitForSpoken(t *testing.T, engine *speech.MockEngine, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if engine.CallCount("Speak") >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d utterances, got %d", n, engine.CallCount("Speak"))
}

func newTestLoop(provider caption.Provider, cfg detect.LoopConfig) (*detect.Loop, *speech.MockEngine, *speech.Speaker) {
	engine := speech.NewMockEngine()
	speaker := speech.NewSpeaker(engine)
	loop := detect.NewLoop(cfg, nil, provider, speaker)
	return loop, engine, speaker
}

func TestLoopTick(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	frame := []byte{0xff, 0xd8} // content irrelevant to the mock

	t.Run("detection speaks the configured phrase", func(t *testing.T) {
		loop, engine, speaker := newTestLoop(caption.Fixed("a crowded supermarket"), detect.LoopConfig{
			Phrase: "This is a shop",
		})
		defer speaker.Close()

		status := loop.Tick(ctx, t0, frame)
		if !status.Detected {
			t.Fatal("expected detection")
		}
		if status.Caption != "a crowded supermarket" {
			t.Errorf("caption = %q", status.Caption)
		}
		waitForSpoken(t, engine, 1)
		if spoken := engine.Spoken(); spoken[0] != "This is a shop" {
			t.Errorf("spoke %q, want %q", spoken[0], "This is a shop")
		}
	})

	t.Run("cooldown suppresses repeat announcements", func(t *testing.T) {
		loop, engine, speaker := newTestLoop(caption.Fixed("a small bakery"), detect.LoopConfig{
			Cooldown: 10 * time.Second,
		})
		defer speaker.Close()

		if status := loop.Tick(ctx, t0, frame); !status.Detected {
			t.Fatal("first detection must speak")
		}

		status := loop.Tick(ctx, t0.Add(5*time.Second), frame)
		if status.Detected {
			t.Error("detection 5s into a 10s cooldown must not speak")
		}
		if status.State != detect.StateCooldownWait {
			t.Errorf("state = %v, want cooldown wait", status.State)
		}
		if status.CooldownLeft != 5*time.Second {
			t.Errorf("cooldown left = %v, want 5s", status.CooldownLeft)
		}

		if status := loop.Tick(ctx, t0.Add(11*time.Second), frame); !status.Detected {
			t.Error("detection 11s after speaking must speak again")
		}
		waitForSpoken(t, engine, 2)
	})

	t.Run("non-shop caption stays ready", func(t *testing.T) {
		loop, engine, speaker := newTestLoop(caption.Fixed("a quiet forest path"), detect.LoopConfig{})
		defer speaker.Close()

		status := loop.Tick(ctx, t0, frame)
		if status.Detected || status.State != detect.StateIdleReady {
			t.Errorf("unexpected status %+v", status)
		}
		if engine.CallCount("Speak") != 0 {
			t.Error("nothing should have been spoken")
		}
	})

	t.Run("provider failure records error marker and continues", func(t *testing.T) {
		calls := 0
		provider := &caption.Mock{
			CaptionFunc: func(ctx context.Context, jpeg []byte) (string, error) {
				calls++
				if calls == 1 {
					return "", errors.New("model fault")
				}
				return "a retail storefront", nil
			},
		}
		loop, _, speaker := newTestLoop(provider, detect.LoopConfig{Interval: 2 * time.Second})
		defer speaker.Close()

		status := loop.Tick(ctx, t0, frame)
		if status.Caption != caption.ErrorMarker {
			t.Errorf("caption = %q, want error marker", status.Caption)
		}
		if status.State != detect.StateIdleReady {
			t.Errorf("state after failure = %v, want ready", status.State)
		}

		// The next scheduled tick still runs inference.
		status = loop.Tick(ctx, t0.Add(2*time.Second), frame)
		if !status.Detected {
			t.Error("tick after a failed tick must still detect")
		}
		if calls != 2 {
			t.Errorf("provider called %d times, want 2", calls)
		}
	})

	t.Run("failure does not advance the speech cooldown", func(t *testing.T) {
		calls := 0
		provider := &caption.Mock{
			CaptionFunc: func(ctx context.Context, jpeg []byte) (string, error) {
				calls++
				if calls == 1 {
					return "", errors.New("model fault")
				}
				return "a corner shop", nil
			},
		}
		loop, engine, speaker := newTestLoop(provider, detect.LoopConfig{Cooldown: 10 * time.Second})
		defer speaker.Close()

		if status := loop.Tick(ctx, t0, frame); status.Caption != caption.ErrorMarker {
			t.Fatalf("caption = %q, want error marker", status.Caption)
		}

		// Two seconds later, well inside what a 10s cooldown would cover
		// had the failed tick counted as an announcement.
		status := loop.Tick(ctx, t0.Add(2*time.Second), frame)
		if !status.Detected {
			t.Error("detection after a failed tick must speak")
		}
		if status.State == detect.StateCooldownWait {
			t.Error("a failed tick must not start a cooldown")
		}
		waitForSpoken(t, engine, 1)
	})
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		name   string
		status detect.Status
		want   string
	}{
		{"ready", detect.Status{State: detect.StateIdleReady}, "READY"},
		{"detected", detect.Status{State: detect.StateIdleReady, Detected: true}, "DETECTED SHOP"},
		{"cooldown rounds up", detect.Status{State: detect.StateCooldownWait, CooldownLeft: 4500 * time.Millisecond}, "DETECTED (cooldown 5s)"},
		{"stopped", detect.Status{State: detect.StateStopped}, "STOPPED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
