package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	httpEntity "github.com/chaaaaae/TTOBA/internal/delivery/http/entity"
	"github.com/chaaaaae/TTOBA/internal/delivery/http/repository"
	dbEntity "github.com/chaaaaae/TTOBA/internal/entity"
	"github.com/chaaaaae/TTOBA/internal/pkg/llm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// ErrNoAggregatableAnswers means zero records qualified for the aggregate
// pass (summary and score both present). This is absence of data, not a
// failure, and callers must present it as such.
var ErrNoAggregatableAnswers = errors.New("no answers with both summary and score")

// ErrAggregateRequest marks a failed aggregate round trip, distinct from the
// empty-input case above.
var ErrAggregateRequest = errors.New("overall feedback request failed")

type AnalysisUsecase interface {
	AnalyzeAnswers(ctx context.Context, items []httpEntity.AnswerItem) ([]httpEntity.AnswerAnalysis, error)
	AnalyzeOverall(ctx context.Context, items []httpEntity.AnswerSummary) (*httpEntity.SessionFeedback, error)
	AnalyzeSession(ctx context.Context, sessionID string) ([]httpEntity.AnswerAnalysis, error)
	SessionFeedback(ctx context.Context, sessionID string) (*httpEntity.SessionFeedback, error)
}

type AnalysisConfig struct {
	DB            *gorm.DB
	LLM           llm.TextGenerator
	Repository    repository.InterviewRepository
	Config        *viper.Viper
	Log           *logrus.Logger
	AnswerPrompt  string
	OverallPrompt string
}

type analysisUsecase struct {
	cfg AnalysisConfig
}

func NewAnalysisUsecase(cfg AnalysisConfig) AnalysisUsecase {
	if cfg.AnswerPrompt == "" {
		cfg.AnswerPrompt = defaultAnswerPrompt
	}
	if cfg.OverallPrompt == "" {
		cfg.OverallPrompt = defaultOverallPrompt
	}
	return &analysisUsecase{cfg: cfg}
}

// AnalyzeAnswers runs the per-answer pass over a batch. Items with empty
// answer text are not submitted. Each item is analyzed independently and in
// parallel; an item whose engine call or JSON parse fails comes back as a
// parse_error marker so the rest of the batch is unaffected.
func (u *analysisUsecase) AnalyzeAnswers(ctx context.Context, items []httpEntity.AnswerItem) ([]httpEntity.AnswerAnalysis, error) {
	submit := make([]httpEntity.AnswerItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Answer) != "" {
			submit = append(submit, item)
		}
	}
	if len(submit) == 0 {
		return []httpEntity.AnswerAnalysis{}, nil
	}

	type result struct {
		analysis httpEntity.AnswerAnalysis
		index    int
	}

	resultChan := make(chan result, len(submit))
	for i := range submit {
		go func(index int, item httpEntity.AnswerItem) {
			resultChan <- result{analysis: u.analyzeOne(ctx, item), index: index}
		}(i, submit[i])
	}

	results := make([]httpEntity.AnswerAnalysis, len(submit))
	for range submit {
		r := <-resultChan
		results[r.index] = r.analysis
	}

	return results, nil
}

func (u *analysisUsecase) analyzeOne(ctx context.Context, item httpEntity.AnswerItem) httpEntity.AnswerAnalysis {
	payload, err := json.Marshal(struct {
		QuestionID int    `json:"question_id"`
		Question   string `json:"question"`
		Answer     string `json:"answer"`
	}{
		QuestionID: item.QuestionNumber,
		Question:   item.Question,
		Answer:     item.Answer,
	})
	if err != nil {
		return httpEntity.AnswerAnalysis{QuestionID: item.QuestionNumber, ParseError: true}
	}

	text, err := u.cfg.LLM.GenerateJSON(ctx, u.cfg.AnswerPrompt, string(payload))
	if err != nil {
		u.cfg.Log.Warnf("answer analysis for question %d failed: %v", item.QuestionNumber, err)
		return httpEntity.AnswerAnalysis{QuestionID: item.QuestionNumber, ParseError: true}
	}

	clean := stripCodeFences(text)

	var parsed httpEntity.AnswerAnalysis
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		u.cfg.Log.Warnf("answer analysis for question %d is not valid json: %v", item.QuestionNumber, err)
		return httpEntity.AnswerAnalysis{QuestionID: item.QuestionNumber, ParseError: true, Raw: clean}
	}

	// Correlation always uses our key, never the model's echo.
	parsed.QuestionID = item.QuestionNumber
	parsed.ParseError = false
	parsed.Raw = ""
	return parsed
}

// AnalyzeOverall runs the aggregate pass over the qualifying summaries in a
// single request. The payload carries the average score alongside the items.
func (u *analysisUsecase) AnalyzeOverall(ctx context.Context, items []httpEntity.AnswerSummary) (*httpEntity.SessionFeedback, error) {
	if len(items) == 0 {
		return nil, ErrNoAggregatableAnswers
	}

	var sum float64
	for _, item := range items {
		sum += item.Score
	}
	avg := sum / float64(len(items))

	payload, err := json.Marshal(struct {
		AverageScore float64                   `json:"average_score"`
		Items        []httpEntity.AnswerSummary `json:"items"`
	}{
		AverageScore: avg,
		Items:        items,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAggregateRequest, err)
	}

	text, err := u.cfg.LLM.GenerateJSON(ctx, u.cfg.OverallPrompt, string(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAggregateRequest, err)
	}

	clean := stripCodeFences(text)

	var feedback httpEntity.SessionFeedback
	if err := json.Unmarshal([]byte(clean), &feedback); err != nil {
		u.cfg.Log.Warnf("overall feedback is not valid json: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrAggregateRequest, err)
	}

	return &feedback, nil
}

// AnalyzeSession loads a session's answer records, runs the per-answer pass
// and merges results back by question number. Parse-error items leave their
// record untouched; merge failures for one record never abort the rest.
func (u *analysisUsecase) AnalyzeSession(ctx context.Context, sessionID string) ([]httpEntity.AnswerAnalysis, error) {
	if _, err := u.cfg.Repository.FindSessionBySessionID(u.cfg.DB, sessionID); err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	records, err := u.cfg.Repository.FindAnswerRecordsBySessionID(u.cfg.DB, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer records: %w", err)
	}

	items := make([]httpEntity.AnswerItem, 0, len(records))
	for _, record := range records {
		items = append(items, httpEntity.AnswerItem{
			QuestionNumber: record.QuestionNumber,
			Question:       record.QuestionText,
			Answer:         record.AnswerText,
		})
	}

	analyses, err := u.AnalyzeAnswers(ctx, items)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[int]httpEntity.AnswerAnalysis, len(analyses))
	for _, a := range analyses {
		byQuestion[a.QuestionID] = a
	}

	now := time.Now()
	for i := range records {
		analysis, ok := byQuestion[records[i].QuestionNumber]
		if !ok || analysis.ParseError {
			continue
		}
		updated := records[i]
		if err := applyAnalysis(&updated, analysis, now); err != nil {
			u.cfg.Log.Errorf("failed to encode analysis for question %d: %v", records[i].QuestionNumber, err)
			continue
		}
		if err := u.cfg.Repository.UpdateAnswerAnalysis(u.cfg.DB, &updated); err != nil {
			u.cfg.Log.Errorf("failed to merge analysis for question %d: %v", records[i].QuestionNumber, err)
		}
	}

	return analyses, nil
}

// SessionFeedback computes the aggregate feedback for a session. It is a pure
// function of the qualifying records: the result is cached under a hash of
// its inputs, and any change to the qualifying set recomputes from scratch.
func (u *analysisUsecase) SessionFeedback(ctx context.Context, sessionID string) (*httpEntity.SessionFeedback, error) {
	records, err := u.cfg.Repository.FindAnswerRecordsBySessionID(u.cfg.DB, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer records: %w", err)
	}

	items := make([]httpEntity.AnswerSummary, 0, len(records))
	for _, record := range records {
		if record.AIAnswerSummary == "" || record.AIScore == nil {
			continue
		}
		items = append(items, httpEntity.AnswerSummary{
			QuestionID:    record.QuestionNumber,
			AnswerSummary: record.AIAnswerSummary,
			Score:         *record.AIScore,
		})
	}
	if len(items) == 0 {
		return nil, ErrNoAggregatableAnswers
	}

	hash := hashSummaries(items)
	if cache, err := u.cfg.Repository.FindFeedbackCacheBySessionID(u.cfg.DB, sessionID); err == nil && cache != nil && cache.InputHash == hash {
		if feedback, err := decodeFeedbackCache(cache); err == nil {
			return feedback, nil
		}
	}

	feedback, err := u.AnalyzeOverall(ctx, items)
	if err != nil {
		return nil, err
	}

	if cache, err := encodeFeedbackCache(sessionID, hash, feedback); err == nil {
		if err := u.cfg.Repository.UpsertFeedbackCache(u.cfg.DB, cache); err != nil {
			u.cfg.Log.Warnf("failed to cache session feedback: %v", err)
		}
	}

	return feedback, nil
}

// applyAnalysis overwrites all enrichment fields of record together. Callers
// must not pass a parse-error analysis; those leave records untouched.
func applyAnalysis(record *dbEntity.AnswerRecord, analysis httpEntity.AnswerAnalysis, now time.Time) error {
	strengths, err := encodeList(analysis.Strengths)
	if err != nil {
		return err
	}
	improvements, err := encodeList(analysis.Improvements)
	if err != nil {
		return err
	}
	suggestions, err := encodeList(analysis.Suggestions)
	if err != nil {
		return err
	}
	structure, err := encodeObject(analysis.Structure)
	if err != nil {
		return err
	}
	recommended, err := encodeObject(analysis.RecommendedStructure)
	if err != nil {
		return err
	}

	record.AIScore = analysis.Score
	record.AIAnswerSummary = analysis.AnswerSummary
	record.AIStrengths = strengths
	record.AIImprovements = improvements
	record.AISuggestions = suggestions
	record.AIRewrittenAnswer = analysis.RewrittenAnswer
	record.AIStructure = structure
	record.AIRecommendedStructure = recommended
	record.AnalyzedAt = &now
	return nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		return "", nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func encodeObject(v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	switch obj := v.(type) {
	case *httpEntity.AIStructure:
		if obj == nil {
			return "", nil
		}
	case *httpEntity.AIRecommendedStructure:
		if obj == nil {
			return "", nil
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func hashSummaries(items []httpEntity.AnswerSummary) string {
	h := sha256.New()
	for _, item := range items {
		fmt.Fprintf(h, "%d|%.2f|%s\n", item.QuestionID, item.Score, item.AnswerSummary)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func encodeFeedbackCache(sessionID, hash string, feedback *httpEntity.SessionFeedback) (*dbEntity.SessionFeedbackCache, error) {
	strengths, err := json.Marshal(feedback.Strengths)
	if err != nil {
		return nil, err
	}
	weaknesses, err := json.Marshal(feedback.Weaknesses)
	if err != nil {
		return nil, err
	}
	recommendations, err := json.Marshal(feedback.Recommendations)
	if err != nil {
		return nil, err
	}
	return &dbEntity.SessionFeedbackCache{
		SessionID:       sessionID,
		InputHash:       hash,
		Strengths:       string(strengths),
		Weaknesses:      string(weaknesses),
		Recommendations: string(recommendations),
	}, nil
}

func decodeFeedbackCache(cache *dbEntity.SessionFeedbackCache) (*httpEntity.SessionFeedback, error) {
	var feedback httpEntity.SessionFeedback
	if err := json.Unmarshal([]byte(cache.Strengths), &feedback.Strengths); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(cache.Weaknesses), &feedback.Weaknesses); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(cache.Recommendations), &feedback.Recommendations); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func stripCodeFences(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

const defaultAnswerPrompt = `You are an AI interview coach that critiques one interview answer at a time.

You receive a JSON object: {"question_id": <int>, "question": "...", "answer": "..."}.

Pick the one answer framework that best fits the question, out of:
STAR (Situation/Task/Action/Result), SBI (Situation/Behavior/Impact),
PREP (Point/Reason/Example/Point), Why-What-How, FAB (Feature/Advantage/Benefit).
If none fits, do the feedback without structure tagging and return an empty
segments list.

Return ONLY a valid JSON object, no markdown, with exactly these fields:
{
  "question_id": <echo of the input id>,
  "score": <0-100 overall quality score>,
  "answer_summary": "<2-3 sentence neutral summary of what the candidate said>",
  "strengths": ["..."],
  "improvements": ["..."],
  "suggestions": ["..."],
  "rewritten_answer": "<the same answer restructured with the chosen framework; do not invent facts>",
  "structure": {"segments": [{"label_en": "...", "label_ko": "...", "description": "...", "text": "<sentence from the answer>"}]},
  "recommended_structure": {
    "final_sequence": [{"label_en": "...", "label_ko": "...", "source": "existing" | "added"}],
    "add_labels": [{"label_en": "...", "label_ko": "...", "description": "...", "reason": "...", "example": "..."}],
    "remove_labels": [{"label_en": "...", "label_ko": "...", "description": "...", "reason": "..."}]
  }
}

Write answer_summary, strengths, improvements, suggestions, rewritten_answer
and all label_ko/description/reason/example fields in Korean. Use the
framework's component names for label_en.`

const defaultOverallPrompt = `You are an AI interview coach writing the final review of one mock-interview session.

You receive a JSON object:
{"average_score": <number>, "items": [{"question_id": <int>, "answer_summary": "...", "score": <number>}, ...]}.

Synthesize across all items; do not critique single answers in isolation.

Return ONLY a valid JSON object, no markdown:
{"strengths": ["..."], "weaknesses": ["..."], "recommendations": ["..."]}

Each list holds 2-4 short Korean sentences. Recommendations must be concrete
actions the candidate can practice, not restatements of the weaknesses.`
