package usecase

import (
	"context"
	"sort"
	"testing"
	"time"

	httpEntity "github.com/chaaaaae/TTOBA/internal/delivery/http/entity"
	dbEntity "github.com/chaaaaae/TTOBA/internal/entity"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// integrationRepo backs a whole interview flow in memory: artifact links and
// analysis merges land on the stored rows so the report sees them.
type integrationRepo struct {
	sessionRepo
}

func (r *integrationRepo) FindAnswerRecordsBySessionID(db *gorm.DB, sessionID string) ([]dbEntity.AnswerRecord, error) {
	out := make([]dbEntity.AnswerRecord, 0, len(r.created))
	for _, rec := range r.created {
		if rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionNumber < out[j].QuestionNumber })
	return out, nil
}

func (r *integrationRepo) UpdateAnswerArtifact(db *gorm.DB, sessionID string, questionNumber int, videoURL string, durationSeconds float64) error {
	for i := range r.created {
		if r.created[i].SessionID == sessionID && r.created[i].QuestionNumber == questionNumber {
			r.created[i].VideoURL = videoURL
			r.created[i].DurationSeconds = durationSeconds
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *integrationRepo) UpdateAnswerAnalysis(db *gorm.DB, record *dbEntity.AnswerRecord) error {
	for i := range r.created {
		if r.created[i].SessionID == record.SessionID && r.created[i].QuestionNumber == record.QuestionNumber {
			r.created[i].AIScore = record.AIScore
			r.created[i].AIAnswerSummary = record.AIAnswerSummary
			r.created[i].AIStrengths = record.AIStrengths
			r.created[i].AIImprovements = record.AIImprovements
			r.created[i].AISuggestions = record.AISuggestions
			r.created[i].AIRewrittenAnswer = record.AIRewrittenAnswer
			r.created[i].AIStructure = record.AIStructure
			r.created[i].AIRecommendedStructure = record.AIRecommendedStructure
			r.created[i].AnalyzedAt = record.AnalyzedAt
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// Walks a two-question session the way a client would: Q1 answered with text
// only, Q2 recorded on video, then analysis and the final report.
func TestInterviewFlowTwoQuestions(t *testing.T) {
	repo := &integrationRepo{
		sessionRepo: sessionRepo{
			recorderRepo: recorderRepo{
				questions: []dbEntity.Question{
					{QuestionID: "q-1", Text: "자기소개를 해주세요.", Position: 1},
					{QuestionID: "q-2", Text: "지원 동기는 무엇인가요?", Position: 2},
				},
			},
		},
	}
	log := logrus.New()

	gen := &fakeGenerator{fn: func(_, payload string) (string, error) {
		if analysisPayloadQuestionID(t, payload) == 1 {
			return `{"score": 80, "answer_summary": "요약1", "strengths": ["간결함"]}`, nil
		}
		return `{"score": 90, "answer_summary": "요약2", "strengths": ["구체적"]}`, nil
	}}

	sessions := NewSessionUsecase(SessionConfig{Repository: repo, Log: log})
	recorder := NewRecorderUsecase(RecorderConfig{
		Repository:    repo,
		Store:         &fakeStore{},
		Log:           log,
		ProbeDuration: func(data []byte) (time.Duration, error) { return 125 * time.Second, nil },
	})
	analysis := NewAnalysisUsecase(AnalysisConfig{LLM: gen, Repository: repo, Log: log})
	reports := NewReportUsecase(ReportConfig{Repository: repo, Analysis: analysis, Log: log})

	ctx := context.Background()

	view, err := sessions.StartSession(ctx, &httpEntity.StartSessionRequest{})
	require.NoError(t, err)
	require.Len(t, view.Questions, 2)
	sessionID := view.SessionID

	// Q1: text only.
	require.NoError(t, sessions.SubmitAnswer(ctx, sessionID, &httpEntity.SubmitAnswerRequest{
		QuestionNumber: 1,
		Text:           "첫 번째 답변입니다.",
	}))

	// Q2: recorded, then transcript text.
	require.NoError(t, recorder.StartForQuestion(ctx, sessionID, 2))
	result, err := recorder.StopCurrent(ctx, sessionID, []byte("webm bytes"))
	require.NoError(t, err)
	assert.Equal(t, 125.0, result.DurationSeconds)

	require.NoError(t, sessions.SubmitAnswer(ctx, sessionID, &httpEntity.SubmitAnswerRequest{
		QuestionNumber: 2,
		Text:           "두 번째 답변입니다.",
	}))

	analyses, err := analysis.AnalyzeSession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, analyses, 2)

	report, err := reports.AssembleReport(ctx, sessionID)
	require.NoError(t, err)

	assert.Equal(t, 2, report.QuestionCount)
	assert.Equal(t, 125.0, report.TotalDurationSeconds)
	assert.Equal(t, 85, report.OverallScore)
	assert.Equal(t, httpEntity.OverallReady, report.OverallStatus)

	require.Len(t, report.Answers, 2)
	assert.Equal(t, "첫 번째 답변입니다.", report.Answers[0].Answer)
	assert.Empty(t, report.Answers[0].VideoURL)
	assert.Equal(t, "2분 5초", report.Answers[1].Duration)
	assert.NotEmpty(t, report.Answers[1].VideoURL)
	require.NotNil(t, report.Answers[1].AIScore)
	assert.Equal(t, 90.0, *report.Answers[1].AIScore)
}
