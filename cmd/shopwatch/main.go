// Shopwatch - webcam shop detector with spoken announcements
//
// Captures frames, captions them with a vision model, and announces shop
// scenes out loud with a cooldown.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-shopwatch/internal/log"
	"github.com/teslashibe/go-shopwatch/pkg/camera"
	"github.com/teslashibe/go-shopwatch/pkg/caption"
	"github.com/teslashibe/go-shopwatch/pkg/detect"
	"github.com/teslashibe/go-shopwatch/pkg/hud"
	"github.com/teslashibe/go-shopwatch/pkg/speech"
)

type options struct {
	cameraIndex int
	imagePath   string
	interval    time.Duration
	cooldown    time.Duration
	keywords    string
	phrase      string
	noWindow    bool
	captionURL  string
	engine      string
	ttsURL      string
	ttsRate     int
	debug       bool
}

func parseFlags() options {
	var o options
	flag.IntVar(&o.cameraIndex, "camera", 0, "Webcam index")
	flag.StringVar(&o.imagePath, "image", "", "Path to an image file to analyze (skips webcam)")
	flag.DurationVar(&o.interval, "interval", 2*time.Second, "Time between AI inferences")
	flag.DurationVar(&o.cooldown, "cooldown", 10*time.Second, "Time after speaking before it can repeat")
	flag.StringVar(&o.keywords, "keywords", "", "Comma-separated shop keywords override")
	flag.StringVar(&o.phrase, "say", "This is a shop", "Phrase to speak on detection")
	flag.BoolVar(&o.noWindow, "no-window", false, "Run headless without preview window")
	flag.StringVar(&o.captionURL, "caption-url", "http://localhost:9000", "Captioning inference server URL")
	flag.StringVar(&o.engine, "engine", "command", "Speech engine: command (say/espeak) or pcm (TTS server)")
	flag.StringVar(&o.ttsURL, "tts-url", "http://localhost:5002", "TTS server URL for the pcm engine")
	flag.IntVar(&o.ttsRate, "tts-rate", speech.DefaultSampleRate, "Sample rate of the TTS server's audio in Hz")
	flag.BoolVar(&o.debug, "debug", false, "Enable verbose debug logging")
	flag.Parse()

	if url := os.Getenv("CAPTION_URL"); url != "" {
		o.captionURL = url
	}
	if url := os.Getenv("TTS_URL"); url != "" {
		o.ttsURL = url
	}
	return o
}

// newEngine builds the speech engine selected on the command line.
func newEngine(o options) (speech.Engine, error) {
	switch o.engine {
	case "command":
		return speech.NewCommandEngine(), nil
	case "pcm":
		synth, err := speech.NewHTTPSynthesizer(o.ttsURL, o.ttsRate)
		if err != nil {
			return nil, err
		}
		return speech.NewPCMEngine(synth)
	default:
		return nil, fmt.Errorf("unknown speech engine %q (want command or pcm)", o.engine)
	}
}

func main() {
	o := parseFlags()
	if o.debug {
		log.Init("debug")
	} else {
		log.Init("info")
	}

	if err := run(o); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(o options) error {
	provider, err := caption.NewBLIP(
		caption.WithBaseURL(o.captionURL),
		caption.WithAPIKey(os.Getenv("CAPTION_API_KEY")),
	)
	if err != nil {
		return err
	}
	defer provider.Close()

	engine, err := newEngine(o)
	if err != nil {
		return err
	}
	speaker := speech.NewSpeaker(engine)

	cfg := detect.LoopConfig{
		Interval: o.interval,
		Cooldown: o.cooldown,
		Phrase:   o.phrase,
	}
	if o.keywords != "" {
		cfg.Keywords = detect.ParseKeywords(o.keywords)
	}

	var src camera.Source
	oneShot := o.imagePath != ""
	if oneShot {
		src, err = camera.OpenStill(o.imagePath)
	} else {
		src, err = camera.OpenDevice(o.cameraIndex)
	}
	if err != nil {
		speaker.Close()
		return err
	}

	loop := detect.NewLoop(cfg, src, provider, speaker)

	var window *gocv.Window
	if !o.noWindow {
		title := "Shop Detector (q to quit)"
		if oneShot {
			title = "Shop Detector (image)"
		}
		window = gocv.NewWindow(title)
		defer window.Close()

		loop.OnFrame = func(frame gocv.Mat, status detect.Status) bool {
			disp := frame.Clone()
			defer disp.Close()
			hud.Draw(&disp, status)
			window.IMShow(disp)
			if oneShot {
				// Block on the single image until any key
				gocv.WaitKey(0)
				return true
			}
			return gocv.WaitKey(1) != 'q'
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting detection",
		"one_shot", oneShot,
		"interval", o.interval,
		"cooldown", o.cooldown,
	)

	return loop.Run(ctx)
}
