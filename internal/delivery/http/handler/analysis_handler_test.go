package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/chaaaaae/TTOBA/internal/delivery/http/entity"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/usecase"
	"github.com/chaaaaae/TTOBA/internal/pkg/validate"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalysisUsecase struct {
	usecase.AnalysisUsecase
	items      []entity.AnswerAnalysis
	feedback   *entity.SessionFeedback
	answersErr error
	overallErr error
}

func (f *fakeAnalysisUsecase) AnalyzeAnswers(ctx context.Context, items []entity.AnswerItem) ([]entity.AnswerAnalysis, error) {
	return f.items, f.answersErr
}

func (f *fakeAnalysisUsecase) AnalyzeOverall(ctx context.Context, items []entity.AnswerSummary) (*entity.SessionFeedback, error) {
	return f.feedback, f.overallErr
}

func newAnalysisApp(u usecase.AnalysisUsecase) *fiber.App {
	app := fiber.New()
	h := NewAnalysisHandler(validate.NewValidator(), logrus.New(), u)
	app.Post("/api/analyze-answer", h.AnalyzeAnswers)
	app.Post("/api/analyze-overall", h.AnalyzeOverall)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, []byte) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, payload
}

func TestAnalyzeAnswerEndpoint(t *testing.T) {
	score := 85.0
	app := newAnalysisApp(&fakeAnalysisUsecase{
		items: []entity.AnswerAnalysis{{QuestionID: 1, Score: &score, AnswerSummary: "요약"}},
	})

	status, body := postJSON(t, app, "/api/analyze-answer", entity.AnalyzeAnswerRequest{
		Items: []entity.AnswerItem{{QuestionNumber: 1, Question: "Q1", Answer: "답변"}},
	})
	require.Equal(t, fiber.StatusOK, status)

	var parsed entity.AnalyzeAnswerResponse
	require.NoError(t, json.Unmarshal(body, &parsed))
	require.Len(t, parsed.Items, 1)
	assert.Equal(t, 1, parsed.Items[0].QuestionID)
	assert.Equal(t, "요약", parsed.Items[0].AnswerSummary)
}

func TestAnalyzeAnswerEndpointRejectsEmptyItems(t *testing.T) {
	app := newAnalysisApp(&fakeAnalysisUsecase{})

	status, _ := postJSON(t, app, "/api/analyze-answer", entity.AnalyzeAnswerRequest{})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAnalyzeOverallEndpoint(t *testing.T) {
	app := newAnalysisApp(&fakeAnalysisUsecase{
		feedback: &entity.SessionFeedback{
			Strengths:       []string{"논리적"},
			Weaknesses:      []string{"장황함"},
			Recommendations: []string{"두괄식 연습"},
		},
	})

	status, body := postJSON(t, app, "/api/analyze-overall", entity.OverallFeedbackRequest{
		Items: []entity.AnswerSummary{{QuestionID: 1, AnswerSummary: "요약", Score: 80}},
	})
	require.Equal(t, fiber.StatusOK, status)

	var parsed entity.SessionFeedback
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, []string{"논리적"}, parsed.Strengths)
}

func TestAnalyzeOverallEndpointNoData(t *testing.T) {
	app := newAnalysisApp(&fakeAnalysisUsecase{overallErr: usecase.ErrNoAggregatableAnswers})

	status, _ := postJSON(t, app, "/api/analyze-overall", entity.OverallFeedbackRequest{
		Items: []entity.AnswerSummary{{QuestionID: 1, AnswerSummary: "요약", Score: 80}},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAnalyzeOverallEndpointUpstreamFailure(t *testing.T) {
	app := newAnalysisApp(&fakeAnalysisUsecase{overallErr: errors.New("engine down")})

	status, _ := postJSON(t, app, "/api/analyze-overall", entity.OverallFeedbackRequest{
		Items: []entity.AnswerSummary{{QuestionID: 1, AnswerSummary: "요약", Score: 80}},
	})
	assert.Equal(t, fiber.StatusBadGateway, status)
}
