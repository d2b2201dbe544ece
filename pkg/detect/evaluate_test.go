package detect_test

import (
	"testing"

	"github.com/teslashibe/go-shopwatch/pkg/detect"
)

func TestEvaluate(t *testing.T) {
	keywords := detect.DefaultKeywords

	t.Run("shop caption detects", func(t *testing.T) {
		r := detect.Evaluate("a busy outdoor market", keywords)
		if !r.IsShop {
			t.Fatal("expected is_shop = true")
		}
		if r.Score < 70 || r.Score > 99 {
			t.Errorf("detection score %d outside [70,99]", r.Score)
		}
		if r.Pun == "" {
			t.Error("expected a celebratory pun on detection")
		}
	})

	t.Run("non-shop caption does not detect", func(t *testing.T) {
		r := detect.Evaluate("a quiet forest path", keywords)
		if r.IsShop {
			t.Fatal("expected is_shop = false")
		}
		if r.Score < 0 || r.Score > 40 {
			t.Errorf("non-detection score %d outside [0,40]", r.Score)
		}
		if r.Pun != "" {
			t.Errorf("expected no pun, got %q", r.Pun)
		}
	})

	t.Run("empty caption does not detect", func(t *testing.T) {
		if r := detect.Evaluate("", keywords); r.IsShop {
			t.Error("empty caption must never detect")
		}
	})

	t.Run("caption is echoed", func(t *testing.T) {
		r := detect.Evaluate("a small bakery", keywords)
		if r.Caption != "a small bakery" {
			t.Errorf("caption = %q, want %q", r.Caption, "a small bakery")
		}
	})
}
