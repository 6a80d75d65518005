package handler

import (
	"errors"

	"github.com/chaaaaae/TTOBA/internal/delivery/http/domain"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/entity"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/usecase"
	"github.com/chaaaaae/TTOBA/internal/pkg/validate"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AnalysisHandler serves the stateless analysis endpoints. These return
// their payloads bare, without the response envelope, since clients consume
// the analyzer output directly.
type (
	AnalysisHandler interface {
		AnalyzeAnswers(ctx *fiber.Ctx) error
		AnalyzeOverall(ctx *fiber.Ctx) error
	}

	analysisHandler struct {
		validator *validate.Validator
		logger    *logrus.Logger
		usecase   usecase.AnalysisUsecase
	}
)

func NewAnalysisHandler(validator *validate.Validator, logger *logrus.Logger, usecase usecase.AnalysisUsecase) AnalysisHandler {
	return &analysisHandler{
		validator: validator,
		logger:    logger,
		usecase:   usecase,
	}
}

// POST /api/analyze-answer
func (h *analysisHandler) AnalyzeAnswers(ctx *fiber.Ctx) error {
	var req entity.AnalyzeAnswerRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	items, err := h.usecase.AnalyzeAnswers(ctx.UserContext(), req.Items)
	if err != nil {
		h.logger.Errorf("%s: %v", domain.ANSWER_ANALYZE_BATCH_FAILED, err)
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": domain.ANSWER_ANALYZE_BATCH_FAILED})
	}

	return ctx.JSON(entity.AnalyzeAnswerResponse{Items: items})
}

// POST /api/analyze-overall
func (h *analysisHandler) AnalyzeOverall(ctx *fiber.Ctx) error {
	var req entity.OverallFeedbackRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	feedback, err := h.usecase.AnalyzeOverall(ctx.UserContext(), req.Items)
	if err != nil {
		if errors.Is(err, usecase.ErrNoAggregatableAnswers) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": domain.OVERALL_FEEDBACK_NO_DATA})
		}
		h.logger.Errorf("%s: %v", domain.OVERALL_FEEDBACK_FAILED, err)
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": domain.OVERALL_FEEDBACK_FAILED})
	}

	return ctx.JSON(feedback)
}
