// Shopwatch server - stateless one-shot shop detection API
//
// Accepts image uploads, captions them with a vision model, and returns a
// detection verdict. No cadence or cooldown state: every request is an
// independent evaluation.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-shopwatch/internal/config"
	"github.com/teslashibe/go-shopwatch/internal/log"
	"github.com/teslashibe/go-shopwatch/pkg/caption"
	"github.com/teslashibe/go-shopwatch/pkg/web"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	// The provider is constructed once and reused across requests; the
	// inference server loads its model at startup, not per request.
	provider, err := caption.NewBLIP(
		caption.WithBaseURL(cfg.CaptionURL),
		caption.WithAPIKey(cfg.CaptionAPIKey),
		caption.WithTimeout(cfg.CaptionTimeout),
	)
	if err != nil {
		log.Error("caption provider error", "error", err)
		os.Exit(1)
	}
	defer provider.Close()

	if err := provider.Health(context.Background()); err != nil {
		log.Warn("caption provider health check failed, serving anyway", "error", err)
	}

	srv := web.NewServer(cfg.Addr, provider, nil)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		srv.Shutdown()
	}()

	if err := srv.Listen(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
