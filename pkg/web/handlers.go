package web

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/teslashibe/go-shopwatch/internal/log"
	"github.com/teslashibe/go-shopwatch/pkg/camera"
	"github.com/teslashibe/go-shopwatch/pkg/detect"
	"github.com/teslashibe/go-shopwatch/pkg/hub"
)

// DetectResponse is the wire format for a detection result.
type DetectResponse struct {
	RequestID string `json:"request_id"`
	Caption   string `json:"caption"`
	IsShop    bool   `json:"is_shop"`
	Score     int    `json:"score"`
	Pun       string `json:"pun,omitempty"`
}

// handleHealth reports server liveness.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleDetect runs one independent detection on an uploaded image.
func (s *Server) handleDetect(c *fiber.Ctx) error {
	requestID := uuid.NewString()

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing file field",
		})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unreadable upload",
		})
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unreadable upload",
		})
	}

	// Decode to validate the payload, then normalize to JPEG for the
	// provider regardless of the uploaded format.
	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil || img.Empty() {
		if err == nil {
			img.Close()
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid image",
		})
	}
	defer img.Close()

	jpeg, err := camera.EncodeJPEG(img)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid image",
		})
	}

	text, err := s.provider.Caption(c.Context(), jpeg)
	if err != nil {
		log.Error("caption inference failed", "request_id", requestID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "captioning failed",
		})
	}

	result := detect.Evaluate(text, s.keywords)
	resp := DetectResponse{
		RequestID: requestID,
		Caption:   result.Caption,
		IsShop:    result.IsShop,
		Score:     result.Score,
		Pun:       result.Pun,
	}

	log.Info("detection served",
		"request_id", requestID,
		"caption", resp.Caption,
		"is_shop", resp.IsShop,
	)
	s.statusHub.BroadcastJSON(resp)

	return c.JSON(resp)
}

// handleStatusWS streams detection results to dashboard clients.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)
	client.Run()
}
