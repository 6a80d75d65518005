package handler

import (
	"github.com/chaaaaae/TTOBA/internal/pkg/stt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// STTHandler serves the push-to-talk transcription pair. Responses are bare
// JSON because the widget polls them directly.
type (
	STTHandler interface {
		Start(ctx *fiber.Ctx) error
		Stop(ctx *fiber.Ctx) error
	}

	sttHandler struct {
		logger   *logrus.Logger
		recorder *stt.Recorder
	}
)

func NewSTTHandler(logger *logrus.Logger, recorder *stt.Recorder) STTHandler {
	return &sttHandler{
		logger: logger,
		recorder: recorder,
	}
}

// POST /stt/start
func (h *sttHandler) Start(ctx *fiber.Ctx) error {
	if err := h.recorder.Start(ctx.UserContext()); err != nil {
		h.logger.Errorf("stt start failed: %v", err)
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "recording"})
}

// POST /stt/stop
// Expects the captured utterance as the multipart "audio" part. A stop with
// no audio aborts the utterance and returns empty text.
func (h *sttHandler) Stop(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("audio")
	if err != nil || file == nil {
		h.recorder.Abort()
		return ctx.JSON(fiber.Map{"text": ""})
	}

	src, err := file.Open()
	if err != nil {
		h.recorder.Abort()
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	defer src.Close()

	text, err := h.recorder.Stop(ctx.UserContext(), file.Filename, src)
	if err != nil {
		h.logger.Errorf("stt stop failed: %v", err)
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"text": text})
}
