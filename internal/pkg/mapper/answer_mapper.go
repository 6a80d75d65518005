package mapper

import (
	"encoding/json"
	"fmt"

	httpEntity "github.com/chaaaaae/TTOBA/internal/delivery/http/entity"
	dbEntity "github.com/chaaaaae/TTOBA/internal/entity"
)

// ToAnswerItem converts a stored answer record into its report view. JSON
// columns that fail to decode are surfaced as errors rather than silently
// dropped so a corrupted row is visible.
func ToAnswerItem(record *dbEntity.AnswerRecord) (httpEntity.AnswerItem, error) {
	item := httpEntity.AnswerItem{
		QuestionNumber:  record.QuestionNumber,
		Question:        record.QuestionText,
		Answer:          record.AnswerText,
		DurationSeconds: record.DurationSeconds,
		Duration:        FormatDurationKo(record.DurationSeconds),
		VideoURL:        record.VideoURL,
	}

	if record.AnalyzedAt == nil {
		return item, nil
	}

	item.AIScore = record.AIScore
	item.AIAnswerSummary = record.AIAnswerSummary
	item.AIRewrittenAnswer = record.AIRewrittenAnswer

	if err := decodeJSONColumn(record.AIStrengths, &item.AIStrengths); err != nil {
		return item, fmt.Errorf("ai_strengths: %w", err)
	}
	if err := decodeJSONColumn(record.AIImprovements, &item.AIImprovements); err != nil {
		return item, fmt.Errorf("ai_improvements: %w", err)
	}
	if err := decodeJSONColumn(record.AISuggestions, &item.AISuggestions); err != nil {
		return item, fmt.Errorf("ai_suggestions: %w", err)
	}
	if record.AIStructure != "" {
		item.AIStructure = &httpEntity.AIStructure{}
		if err := json.Unmarshal([]byte(record.AIStructure), item.AIStructure); err != nil {
			return item, fmt.Errorf("ai_structure: %w", err)
		}
	}
	if record.AIRecommendedStructure != "" {
		item.AIRecommendedStructure = &httpEntity.AIRecommendedStructure{}
		if err := json.Unmarshal([]byte(record.AIRecommendedStructure), item.AIRecommendedStructure); err != nil {
			return item, fmt.Errorf("ai_recommended_structure: %w", err)
		}
	}

	return item, nil
}

// ToQuestion converts a catalog row to its client view.
func ToQuestion(q *dbEntity.Question) httpEntity.Question {
	return httpEntity.Question{
		ID:         q.QuestionID,
		Text:       q.Text,
		CategoryID: q.CategoryID,
		Difficulty: httpEntity.Difficulty(q.Difficulty),
	}
}

func decodeJSONColumn(raw string, out *[]string) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

// FormatDurationKo renders seconds as "X분 Y초" for display.
func FormatDurationKo(seconds float64) string {
	total := int(seconds)
	if total <= 0 {
		return ""
	}
	m := total / 60
	s := total % 60
	if m > 0 {
		if s > 0 {
			return fmt.Sprintf("%d분 %d초", m, s)
		}
		return fmt.Sprintf("%d분", m)
	}
	return fmt.Sprintf("%d초", s)
}
