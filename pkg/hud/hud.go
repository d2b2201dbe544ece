// Package hud renders the detection status overlay onto preview frames.
// Pure presentation: it only formats values the detection loop already
// computed.
package hud

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-shopwatch/pkg/detect"
)

var (
	white  = color.RGBA{255, 255, 255, 0}
	green  = color.RGBA{0, 255, 0, 0}
	orange = color.RGBA{255, 165, 0, 0}
)

// Draw paints a darkened strip along the bottom of the frame with the
// current caption and status label. The frame is modified in place.
func Draw(frame *gocv.Mat, status detect.Status) {
	h := frame.Rows()
	w := frame.Cols()
	if h < 100 || w < 100 {
		return
	}

	// Background strip
	overlay := frame.Clone()
	defer overlay.Close()
	gocv.Rectangle(&overlay, image.Rect(0, h-80, w, h), color.RGBA{0, 0, 0, 0}, -1)
	gocv.AddWeighted(overlay, 0.4, *frame, 0.6, 0, frame)

	captionLine := "Caption: ..."
	if status.Caption != "" {
		text := status.Caption
		if len(text) > 80 {
			text = text[:80]
		}
		captionLine = "Caption: " + text
	}
	gocv.PutText(frame, captionLine,
		image.Pt(16, h-46), gocv.FontHersheySimplex, 0.6, white, 2)

	label := status.Label()
	statusColor := orange
	if status.Detected || status.State == detect.StateIdleReady {
		statusColor = green
	}
	gocv.PutText(frame, label,
		image.Pt(16, h-16), gocv.FontHersheySimplex, 0.7, statusColor, 2)
}
