package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	httpEntity "github.com/chaaaaae/TTOBA/internal/delivery/http/entity"
	dbEntity "github.com/chaaaaae/TTOBA/internal/entity"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGenerator struct {
	fn    func(systemPrompt, userPayload string) (string, error)
	calls atomic.Int32
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, systemPrompt, userPayload string) (string, error) {
	f.calls.Add(1)
	return f.fn(systemPrompt, userPayload)
}

type fakeRepo struct {
	repository.InterviewRepository

	session *dbEntity.InterviewSession
	records []dbEntity.AnswerRecord
	updated []dbEntity.AnswerRecord
	cache   *dbEntity.SessionFeedbackCache
}

func (f *fakeRepo) FindSessionBySessionID(db *gorm.DB, sessionID string) (*dbEntity.InterviewSession, error) {
	if f.session == nil || f.session.SessionID != sessionID {
		return nil, gorm.ErrRecordNotFound
	}
	return f.session, nil
}

func (f *fakeRepo) FindAnswerRecordsBySessionID(db *gorm.DB, sessionID string) ([]dbEntity.AnswerRecord, error) {
	return f.records, nil
}

func (f *fakeRepo) UpdateAnswerAnalysis(db *gorm.DB, record *dbEntity.AnswerRecord) error {
	f.updated = append(f.updated, *record)
	return nil
}

func (f *fakeRepo) FindFeedbackCacheBySessionID(db *gorm.DB, sessionID string) (*dbEntity.SessionFeedbackCache, error) {
	if f.cache == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.cache, nil
}

func (f *fakeRepo) UpsertFeedbackCache(db *gorm.DB, cache *dbEntity.SessionFeedbackCache) error {
	f.cache = cache
	return nil
}

func newTestAnalysis(gen *fakeGenerator, repo *fakeRepo) AnalysisUsecase {
	return NewAnalysisUsecase(AnalysisConfig{
		LLM:        gen,
		Repository: repo,
		Log:        logrus.New(),
	})
}

func analysisPayloadQuestionID(t *testing.T, payload string) int {
	t.Helper()
	var parsed struct {
		QuestionID int `json:"question_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(payload), &parsed))
	return parsed.QuestionID
}

func TestAnalyzeAnswersSkipsEmptyAnswers(t *testing.T) {
	gen := &fakeGenerator{fn: func(_, payload string) (string, error) {
		id := analysisPayloadQuestionID(t, payload)
		return `{"question_id": 99, "score": 80, "answer_summary": "요약 ` + string(rune('0'+id)) + `"}`, nil
	}}
	u := newTestAnalysis(gen, &fakeRepo{})

	items := []httpEntity.AnswerItem{
		{QuestionNumber: 1, Question: "Q1", Answer: "답변입니다"},
		{QuestionNumber: 2, Question: "Q2", Answer: "   "},
		{QuestionNumber: 3, Question: "Q3", Answer: "또 다른 답변"},
	}

	results, err := u.AnalyzeAnswers(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int32(2), gen.calls.Load())

	// Correlation key comes from the input, not the model echo of 99.
	assert.Equal(t, 1, results[0].QuestionID)
	assert.Equal(t, 3, results[1].QuestionID)
}

func TestAnalyzeAnswersAllEmpty(t *testing.T) {
	gen := &fakeGenerator{fn: func(_, _ string) (string, error) {
		t.Fatal("engine must not be called")
		return "", nil
	}}
	u := newTestAnalysis(gen, &fakeRepo{})

	results, err := u.AnalyzeAnswers(context.Background(), []httpEntity.AnswerItem{
		{QuestionNumber: 1, Answer: ""},
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAnalyzeAnswersIsolatesFailures(t *testing.T) {
	gen := &fakeGenerator{fn: func(_, payload string) (string, error) {
		switch analysisPayloadQuestionID(t, payload) {
		case 1:
			return `{"score": 85, "answer_summary": "좋은 답변", "strengths": ["명확함"]}`, nil
		case 2:
			return "this is not json at all", nil
		default:
			return "", errors.New("engine unavailable")
		}
	}}
	u := newTestAnalysis(gen, &fakeRepo{})

	results, err := u.AnalyzeAnswers(context.Background(), []httpEntity.AnswerItem{
		{QuestionNumber: 1, Question: "Q1", Answer: "a1"},
		{QuestionNumber: 2, Question: "Q2", Answer: "a2"},
		{QuestionNumber: 3, Question: "Q3", Answer: "a3"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.False(t, results[0].ParseError)
	require.NotNil(t, results[0].Score)
	assert.Equal(t, 85.0, *results[0].Score)

	assert.True(t, results[1].ParseError)
	assert.Equal(t, 2, results[1].QuestionID)
	assert.NotEmpty(t, results[1].Raw)

	assert.True(t, results[2].ParseError)
	assert.Empty(t, results[2].Raw)
}

func TestAnalyzeAnswersStripsCodeFences(t *testing.T) {
	gen := &fakeGenerator{fn: func(_, _ string) (string, error) {
		return "```json\n{\"score\": 70, \"answer_summary\": \"요약\"}\n```", nil
	}}
	u := newTestAnalysis(gen, &fakeRepo{})

	results, err := u.AnalyzeAnswers(context.Background(), []httpEntity.AnswerItem{
		{QuestionNumber: 1, Answer: "답변"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].ParseError)
	require.NotNil(t, results[0].Score)
	assert.Equal(t, 70.0, *results[0].Score)
}

func TestAnalyzeOverallEmptyInput(t *testing.T) {
	gen := &fakeGenerator{fn: func(_, _ string) (string, error) {
		t.Fatal("engine must not be called")
		return "", nil
	}}
	u := newTestAnalysis(gen, &fakeRepo{})

	_, err := u.AnalyzeOverall(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoAggregatableAnswers)
}

func TestAnalyzeOverallCarriesAverageScore(t *testing.T) {
	var seen struct {
		AverageScore float64 `json:"average_score"`
	}
	gen := &fakeGenerator{fn: func(_, payload string) (string, error) {
		require.NoError(t, json.Unmarshal([]byte(payload), &seen))
		return `{"strengths": ["논리적"], "weaknesses": ["장황함"], "recommendations": ["두괄식 연습"]}`, nil
	}}
	u := newTestAnalysis(gen, &fakeRepo{})

	feedback, err := u.AnalyzeOverall(context.Background(), []httpEntity.AnswerSummary{
		{QuestionID: 1, AnswerSummary: "s1", Score: 80},
		{QuestionID: 2, AnswerSummary: "s2", Score: 90},
	})
	require.NoError(t, err)
	assert.Equal(t, 85.0, seen.AverageScore)
	assert.Equal(t, []string{"논리적"}, feedback.Strengths)
}

func TestAnalyzeOverallRequestFailure(t *testing.T) {
	gen := &fakeGenerator{fn: func(_, _ string) (string, error) {
		return "", errors.New("timeout")
	}}
	u := newTestAnalysis(gen, &fakeRepo{})

	_, err := u.AnalyzeOverall(context.Background(), []httpEntity.AnswerSummary{
		{QuestionID: 1, AnswerSummary: "s1", Score: 80},
	})
	assert.ErrorIs(t, err, ErrAggregateRequest)
	assert.NotErrorIs(t, err, ErrNoAggregatableAnswers)
}

func TestAnalyzeSessionMergesOnlyCleanResults(t *testing.T) {
	gen := &fakeGenerator{fn: func(_, payload string) (string, error) {
		if analysisPayloadQuestionID(t, payload) == 2 {
			return "garbage", nil
		}
		return `{"score": 90, "answer_summary": "요약", "strengths": ["간결함"]}`, nil
	}}
	repo := &fakeRepo{
		session: &dbEntity.InterviewSession{SessionID: "s-1"},
		records: []dbEntity.AnswerRecord{
			{SessionID: "s-1", QuestionNumber: 1, QuestionText: "Q1", AnswerText: "a1"},
			{SessionID: "s-1", QuestionNumber: 2, QuestionText: "Q2", AnswerText: "a2"},
		},
	}
	u := newTestAnalysis(gen, repo)

	results, err := u.AnalyzeSession(context.Background(), "s-1")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Only the clean result reaches the database; the parse error leaves its
	// record untouched.
	require.Len(t, repo.updated, 1)
	assert.Equal(t, 1, repo.updated[0].QuestionNumber)
	require.NotNil(t, repo.updated[0].AIScore)
	assert.Equal(t, 90.0, *repo.updated[0].AIScore)
	assert.NotNil(t, repo.updated[0].AnalyzedAt)
}

func TestAnalyzeSessionUnknownSession(t *testing.T) {
	u := newTestAnalysis(&fakeGenerator{fn: func(_, _ string) (string, error) { return "", nil }}, &fakeRepo{})

	_, err := u.AnalyzeSession(context.Background(), "missing")
	assert.Error(t, err)
}

func TestApplyAnalysisIsIdempotent(t *testing.T) {
	score := 75.0
	analysis := httpEntity.AnswerAnalysis{
		QuestionID:    1,
		Score:         &score,
		AnswerSummary: "요약",
		Strengths:     []string{"구체적"},
		Improvements:  []string{"짧게"},
	}
	now := time.Now()

	first := dbEntity.AnswerRecord{SessionID: "s", QuestionNumber: 1}
	require.NoError(t, applyAnalysis(&first, analysis, now))

	second := first
	require.NoError(t, applyAnalysis(&second, analysis, now))
	assert.Equal(t, first, second)
}

func TestSessionFeedbackFiltersAndCaches(t *testing.T) {
	score := 80.0
	repo := &fakeRepo{
		session: &dbEntity.InterviewSession{SessionID: "s-1"},
		records: []dbEntity.AnswerRecord{
			{SessionID: "s-1", QuestionNumber: 1, AIAnswerSummary: "요약1", AIScore: &score},
			{SessionID: "s-1", QuestionNumber: 2, AIAnswerSummary: "", AIScore: &score}, // no summary
			{SessionID: "s-1", QuestionNumber: 3, AIAnswerSummary: "요약3"},              // no score
		},
	}
	var seen struct {
		Items []httpEntity.AnswerSummary `json:"items"`
	}
	gen := &fakeGenerator{fn: func(_, payload string) (string, error) {
		require.NoError(t, json.Unmarshal([]byte(payload), &seen))
		return `{"strengths": ["a"], "weaknesses": ["b"], "recommendations": ["c"]}`, nil
	}}
	u := newTestAnalysis(gen, repo)

	feedback, err := u.SessionFeedback(context.Background(), "s-1")
	require.NoError(t, err)
	require.Len(t, seen.Items, 1)
	assert.Equal(t, 1, seen.Items[0].QuestionID)
	assert.Equal(t, []string{"a"}, feedback.Strengths)
	require.NotNil(t, repo.cache)

	// Unchanged inputs come from the cache without another engine call.
	again, err := u.SessionFeedback(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, feedback, again)
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestSessionFeedbackNoQualifyingAnswers(t *testing.T) {
	repo := &fakeRepo{
		session: &dbEntity.InterviewSession{SessionID: "s-1"},
		records: []dbEntity.AnswerRecord{
			{SessionID: "s-1", QuestionNumber: 1, AnswerText: "답변만 있음"},
		},
	}
	gen := &fakeGenerator{fn: func(_, _ string) (string, error) {
		t.Fatal("engine must not be called")
		return "", nil
	}}
	u := newTestAnalysis(gen, repo)

	_, err := u.SessionFeedback(context.Background(), "s-1")
	assert.ErrorIs(t, err, ErrNoAggregatableAnswers)
}

func TestSessionFeedbackRecomputesWhenInputsChange(t *testing.T) {
	score := 80.0
	repo := &fakeRepo{
		session: &dbEntity.InterviewSession{SessionID: "s-1"},
		records: []dbEntity.AnswerRecord{
			{SessionID: "s-1", QuestionNumber: 1, AIAnswerSummary: "요약1", AIScore: &score},
		},
	}
	gen := &fakeGenerator{fn: func(_, _ string) (string, error) {
		return `{"strengths": ["a"], "weaknesses": ["b"], "recommendations": ["c"]}`, nil
	}}
	u := newTestAnalysis(gen, repo)

	_, err := u.SessionFeedback(context.Background(), "s-1")
	require.NoError(t, err)
	require.Equal(t, int32(1), gen.calls.Load())

	newScore := 95.0
	repo.records = append(repo.records, dbEntity.AnswerRecord{
		SessionID: "s-1", QuestionNumber: 2, AIAnswerSummary: "요약2", AIScore: &newScore,
	})

	_, err = u.SessionFeedback(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), gen.calls.Load())
}
