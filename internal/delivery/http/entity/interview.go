package entity

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question as exposed to clients; catalog text is display-only, all
// downstream correlation happens through questionNumber.
type Question struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	CategoryID string     `json:"categoryId"`
	Difficulty Difficulty `json:"difficulty"`
}

type PracticeSet struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionCount int        `json:"question_count"`
}

// Structure tagging of one answer, segment by segment.
type StructureSegment struct {
	LabelEN     string `json:"label_en"`
	LabelKO     string `json:"label_ko"`
	Description string `json:"description"`
	Text        string `json:"text"`
}

type AIStructure struct {
	Segments []StructureSegment `json:"segments"`
}

type RecommendedSequenceItem struct {
	LabelEN string `json:"label_en"`
	LabelKO string `json:"label_ko"`
	Source  string `json:"source"` // existing, added
}

type AddLabelItem struct {
	LabelEN     string `json:"label_en"`
	LabelKO     string `json:"label_ko"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
	Example     string `json:"example"`
}

type RemoveLabelItem struct {
	LabelEN     string `json:"label_en"`
	LabelKO     string `json:"label_ko"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

type AIRecommendedStructure struct {
	FinalSequence []RecommendedSequenceItem `json:"final_sequence"`
	AddLabels     []AddLabelItem            `json:"add_labels"`
	RemoveLabels  []RemoveLabelItem         `json:"remove_labels"`
}

// AnswerItem is one question's raw answer plus its optional enrichment. The
// ai* fields stay absent until the per-answer analyzer merges a result; a
// record without analysis is distinguishable from a record scored zero.
type AnswerItem struct {
	QuestionNumber  int     `json:"questionNumber"`
	Question        string  `json:"question"`
	Answer          string  `json:"answer"`
	Duration        string  `json:"duration,omitempty"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
	VideoURL        string  `json:"videoUrl,omitempty"`

	AIScore                *float64                `json:"aiScore,omitempty"`
	AIAnswerSummary        string                  `json:"aiAnswerSummary,omitempty"`
	AIStrengths            []string                `json:"aiStrengths,omitempty"`
	AIImprovements         []string                `json:"aiImprovements,omitempty"`
	AISuggestions          []string                `json:"aiSuggestions,omitempty"`
	AIRewrittenAnswer      string                  `json:"aiRewrittenAnswer,omitempty"`
	AIStructure            *AIStructure            `json:"aiStructure,omitempty"`
	AIRecommendedStructure *AIRecommendedStructure `json:"aiRecommendedStructure,omitempty"`
}

// Request for POST /api/analyze-answer
type AnalyzeAnswerRequest struct {
	Items []AnswerItem `json:"items" validate:"required,min=1"`
}

// AnswerAnalysis is one per-item result of the scoring engine, keyed by
// question_id. A parse_error item carries no usable fields and must leave its
// target record untouched.
type AnswerAnalysis struct {
	QuestionID           int                     `json:"question_id"`
	Score                *float64                `json:"score,omitempty"`
	AnswerSummary        string                  `json:"answer_summary,omitempty"`
	Strengths            []string                `json:"strengths,omitempty"`
	Improvements         []string                `json:"improvements,omitempty"`
	Suggestions          []string                `json:"suggestions,omitempty"`
	RewrittenAnswer      string                  `json:"rewritten_answer,omitempty"`
	Structure            *AIStructure            `json:"structure,omitempty"`
	RecommendedStructure *AIRecommendedStructure `json:"recommended_structure,omitempty"`
	ParseError           bool                    `json:"parse_error,omitempty"`
	Raw                  string                  `json:"raw,omitempty"`
}

type AnalyzeAnswerResponse struct {
	Items []AnswerAnalysis `json:"items"`
}

// AnswerSummary is one qualifying input of the aggregate analysis.
type AnswerSummary struct {
	QuestionID    int     `json:"question_id" validate:"required"`
	AnswerSummary string  `json:"answer_summary" validate:"required"`
	Score         float64 `json:"score"`
}

// Request for POST /api/analyze-overall
type OverallFeedbackRequest struct {
	Items []AnswerSummary `json:"items" validate:"required,min=1"`
}

// SessionFeedback is the aggregate strengths/weaknesses/recommendations over
// one session, stored verbatim as returned by the engine.
type SessionFeedback struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Session endpoints

type StartSessionRequest struct {
	PracticeSetID string `json:"practice_set_id"` // empty = full question bank
}

type SessionView struct {
	SessionID string     `json:"session_id"`
	Questions []Question `json:"questions"`
}

type SubmitAnswerRequest struct {
	QuestionNumber int    `json:"question_number" validate:"required,min=1"`
	Text           string `json:"text" validate:"required"`
}

type StartRecordingRequest struct {
	QuestionNumber int `json:"question_number" validate:"required,min=1"`
}

type RecordingResult struct {
	QuestionNumber  int     `json:"question_number"`
	VideoURL        string  `json:"video_url,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Overall status values of a report, so "not yet enough data" is never
// mistaken for a failed aggregate request.
const (
	OverallReady            = "ready"
	OverallInsufficientData = "insufficient_data"
	OverallFailed           = "failed"
)

// Report is the assembled session view.
type Report struct {
	SessionID            string           `json:"session_id"`
	TotalDurationSeconds float64          `json:"total_duration_seconds"`
	QuestionCount        int              `json:"question_count"`
	OverallScore         int              `json:"overall_score"`
	Answers              []AnswerItem     `json:"answers"`
	Overall              *SessionFeedback `json:"overall"`
	OverallStatus        string           `json:"overall_status"`
}
