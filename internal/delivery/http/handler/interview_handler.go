package handler

import (
	"errors"
	"io"

	"github.com/chaaaaae/TTOBA/internal/delivery/http/domain"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/entity"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/usecase"
	"github.com/chaaaaae/TTOBA/internal/pkg/response"
	"github.com/chaaaaae/TTOBA/internal/pkg/validate"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type (
	InterviewHandler interface {
		StartSession(ctx *fiber.Ctx) error
		EndSession(ctx *fiber.Ctx) error
		SubmitAnswer(ctx *fiber.Ctx) error
		StartRecording(ctx *fiber.Ctx) error
		StopRecording(ctx *fiber.Ctx) error
		AnalyzeSession(ctx *fiber.Ctx) error
		GetSessionReport(ctx *fiber.Ctx) error
		ListPracticeSets(ctx *fiber.Ctx) error
	}

	interviewHandler struct {
		validator *validate.Validator
		logger    *logrus.Logger
		sessions  usecase.SessionUsecase
		recorder  usecase.RecorderUsecase
		analysis  usecase.AnalysisUsecase
		reports   usecase.ReportUsecase
	}
)

func NewInterviewHandler(validator *validate.Validator, logger *logrus.Logger,
	sessions usecase.SessionUsecase, recorder usecase.RecorderUsecase,
	analysis usecase.AnalysisUsecase, reports usecase.ReportUsecase) InterviewHandler {
	return &interviewHandler{
		validator: validator,
		logger:    logger,
		sessions:  sessions,
		recorder:  recorder,
		analysis:  analysis,
		reports:   reports,
	}
}

// POST /sessions
func (h *interviewHandler) StartSession(ctx *fiber.Ctx) error {
	var req entity.StartSessionRequest
	if len(ctx.Body()) > 0 {
		if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
			return response.NewFailed(domain.SESSION_START_FAILED, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
		}
	}

	view, err := h.sessions.StartSession(ctx.UserContext(), &req)
	if err != nil {
		return response.NewFailed(domain.SESSION_START_FAILED, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.SESSION_START_SUCCESS, view, nil).Send(ctx)
}

// POST /sessions/:session_id/end
func (h *interviewHandler) EndSession(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.SESSION_NOT_FOUND, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	if err := h.sessions.EndSession(ctx.UserContext(), sessionID); err != nil {
		return response.NewFailed(domain.SESSION_NOT_FOUND, fiber.NewError(fiber.StatusNotFound, err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.SESSION_START_SUCCESS, nil, nil).Send(ctx)
}

// POST /sessions/:session_id/answers
func (h *interviewHandler) SubmitAnswer(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.ANSWER_SUBMIT_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	var req entity.SubmitAnswerRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.ANSWER_SUBMIT_FAILED, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
	}

	if err := h.sessions.SubmitAnswer(ctx.UserContext(), sessionID, &req); err != nil {
		if errors.Is(err, usecase.ErrQuestionNumberOutOfRange) {
			return response.NewFailed(domain.QUESTION_NUMBER_OUT_OF_RANGE, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
		}
		return response.NewFailed(domain.ANSWER_SUBMIT_FAILED, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.ANSWER_SUBMIT_SUCCESS, nil, nil).Send(ctx)
}

// POST /sessions/:session_id/recordings/start
func (h *interviewHandler) StartRecording(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.RECORDING_START_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	var req entity.StartRecordingRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.RECORDING_START_FAILED, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
	}

	if err := h.recorder.StartForQuestion(ctx.UserContext(), sessionID, req.QuestionNumber); err != nil {
		if errors.Is(err, usecase.ErrQuestionNumberOutOfRange) {
			return response.NewFailed(domain.QUESTION_NUMBER_OUT_OF_RANGE, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
		}
		return response.NewFailed(domain.RECORDING_START_FAILED, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.RECORDING_START_SUCCESS, nil, nil).Send(ctx)
}

// POST /sessions/:session_id/recordings/stop
// The multipart "video" part is optional; a stop without one discards the
// recording marker.
func (h *interviewHandler) StopRecording(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.RECORDING_STOP_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	var data []byte
	if file, err := ctx.FormFile("video"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return response.NewFailed(domain.RECORDING_STOP_FAILED, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
		}
		defer src.Close()
		buf, err := io.ReadAll(src)
		if err != nil {
			return response.NewFailed(domain.RECORDING_STOP_FAILED, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
		}
		data = buf
	}

	result, err := h.recorder.StopCurrent(ctx.UserContext(), sessionID, data)
	if err != nil {
		if errors.Is(err, usecase.ErrNoActiveRecording) {
			return response.NewSuccess(domain.RECORDING_STOP_SUCCESS, nil, nil).Send(ctx)
		}
		return response.NewFailed(domain.RECORDING_STOP_FAILED, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.RECORDING_STOP_SUCCESS, result, nil).Send(ctx)
}

// POST /sessions/:session_id/analyze
func (h *interviewHandler) AnalyzeSession(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.SESSION_ANALYZE_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	analyses, err := h.analysis.AnalyzeSession(ctx.UserContext(), sessionID)
	if err != nil {
		return response.NewFailed(domain.SESSION_ANALYZE_FAILED, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.SESSION_ANALYZE_SUCCESS, entity.AnalyzeAnswerResponse{Items: analyses}, nil).Send(ctx)
}

// GET /report/sessions/:session_id
func (h *interviewHandler) GetSessionReport(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.REPORT_GET_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	report, err := h.reports.AssembleReport(ctx.UserContext(), sessionID)
	if err != nil {
		return response.NewFailed(domain.REPORT_GET_FAILED, fiber.NewError(fiber.StatusNotFound, err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.REPORT_GET_SUCCESS, report, nil).Send(ctx)
}

// GET /practice-sets
func (h *interviewHandler) ListPracticeSets(ctx *fiber.Ctx) error {
	sets, err := h.sessions.ListPracticeSets(ctx.UserContext())
	if err != nil {
		return response.NewFailed(domain.PRACTICE_SET_LIST_FAILED, fiber.NewError(fiber.StatusInternalServerError, err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PRACTICE_SET_LIST_SUCCESS, sets, nil).Send(ctx)
}
