package database

import (
	"encoding/json"
	"fmt"

	"github.com/chaaaaae/TTOBA/internal/entity"
	"gorm.io/gorm"
)

type seedQuestion struct {
	ID         string
	CategoryID string
	Text       string
	Difficulty string
}

// QuestionBankData is the built-in interview catalog. Position follows slice
// order, which is the order a full-bank session walks through.
var QuestionBankData = []seedQuestion{
	// Personality
	{ID: "q-intro-1", CategoryID: "personality", Text: "간단하게 자기소개를 해주세요.", Difficulty: "easy"},
	{ID: "q-intro-2", CategoryID: "personality", Text: "본인의 장점과 단점을 각각 말씀해 주세요.", Difficulty: "easy"},
	{ID: "q-intro-3", CategoryID: "personality", Text: "스트레스를 받을 때 어떻게 해소하시나요?", Difficulty: "easy"},
	{ID: "q-intro-4", CategoryID: "personality", Text: "주변 사람들은 본인을 어떤 사람이라고 평가하나요?", Difficulty: "medium"},

	// Motivation
	{ID: "q-mot-1", CategoryID: "motivation", Text: "우리 회사에 지원한 이유는 무엇인가요?", Difficulty: "easy"},
	{ID: "q-mot-2", CategoryID: "motivation", Text: "이 직무를 선택하게 된 계기를 말씀해 주세요.", Difficulty: "easy"},
	{ID: "q-mot-3", CategoryID: "motivation", Text: "5년 후 본인의 모습은 어떨 것 같나요?", Difficulty: "medium"},
	{ID: "q-mot-4", CategoryID: "motivation", Text: "다른 회사가 아닌 우리 회사여야 하는 이유가 있나요?", Difficulty: "hard"},

	// Experience
	{ID: "q-exp-1", CategoryID: "experience", Text: "가장 기억에 남는 프로젝트 경험을 소개해 주세요.", Difficulty: "medium"},
	{ID: "q-exp-2", CategoryID: "experience", Text: "실패했던 경험과 그로부터 배운 점을 말씀해 주세요.", Difficulty: "medium"},
	{ID: "q-exp-3", CategoryID: "experience", Text: "목표를 세우고 달성했던 경험을 구체적으로 말씀해 주세요.", Difficulty: "medium"},
	{ID: "q-exp-4", CategoryID: "experience", Text: "예상치 못한 문제를 창의적으로 해결한 경험이 있나요?", Difficulty: "hard"},

	// Teamwork
	{ID: "q-team-1", CategoryID: "teamwork", Text: "팀 프로젝트에서 갈등이 생겼을 때 어떻게 해결하셨나요?", Difficulty: "medium"},
	{ID: "q-team-2", CategoryID: "teamwork", Text: "협업할 때 본인이 주로 맡는 역할은 무엇인가요?", Difficulty: "easy"},
	{ID: "q-team-3", CategoryID: "teamwork", Text: "의견이 다른 동료를 설득했던 경험을 말씀해 주세요.", Difficulty: "hard"},
	{ID: "q-team-4", CategoryID: "teamwork", Text: "리더로서 팀을 이끌어 본 경험이 있다면 소개해 주세요.", Difficulty: "hard"},

	// Problem solving
	{ID: "q-prob-1", CategoryID: "problem-solving", Text: "업무 중 우선순위가 충돌할 때 어떻게 결정하시나요?", Difficulty: "medium"},
	{ID: "q-prob-2", CategoryID: "problem-solving", Text: "마감이 촉박한 상황에서 품질을 지키기 위해 어떻게 하시나요?", Difficulty: "hard"},
	{ID: "q-prob-3", CategoryID: "problem-solving", Text: "본인이 내린 결정이 틀렸다는 것을 알았을 때 어떻게 대처하나요?", Difficulty: "hard"},
	{ID: "q-prob-4", CategoryID: "problem-solving", Text: "새로운 지식이나 기술을 빠르게 익혀야 했던 경험을 말씀해 주세요.", Difficulty: "medium"},
}

type seedPracticeSet struct {
	ID          string
	Title       string
	Description string
	Difficulty  string
	QuestionIDs []string
}

var PracticeSetData = []seedPracticeSet{
	{
		ID:          "set-basic",
		Title:       "기본 면접 연습",
		Description: "자기소개와 지원 동기 중심의 짧은 연습 세트입니다.",
		Difficulty:  "easy",
		QuestionIDs: []string{"q-intro-1", "q-intro-2", "q-mot-1", "q-mot-2", "q-team-2"},
	},
	{
		ID:          "set-advanced",
		Title:       "심화 면접 연습",
		Description: "경험과 문제 해결 중심의 심화 연습 세트입니다.",
		Difficulty:  "hard",
		QuestionIDs: []string{"q-exp-1", "q-exp-2", "q-exp-4", "q-team-3", "q-prob-2", "q-prob-3"},
	},
}

// SeedQuestionBank loads the built-in catalog and practice sets on first
// boot. Already-seeded databases are left alone.
func SeedQuestionBank(db *gorm.DB) error {
	var count int64
	db.Model(&entity.Question{}).Count(&count)
	if count > 0 {
		fmt.Println("Question bank already seeded, skipping...")
		return nil
	}

	fmt.Println("Seeding question bank...")

	for i, q := range QuestionBankData {
		question := entity.Question{
			QuestionID: q.ID,
			CategoryID: q.CategoryID,
			Text:       q.Text,
			Difficulty: q.Difficulty,
			Position:   i + 1,
		}
		if err := db.Create(&question).Error; err != nil {
			return fmt.Errorf("failed to seed question %s: %w", q.ID, err)
		}
	}

	for _, s := range PracticeSetData {
		idsJSON, err := json.Marshal(s.QuestionIDs)
		if err != nil {
			return fmt.Errorf("failed to marshal question ids for %s: %w", s.ID, err)
		}

		set := entity.PracticeSet{
			SetID:       s.ID,
			Title:       s.Title,
			Description: s.Description,
			Difficulty:  s.Difficulty,
			QuestionIDs: string(idsJSON),
		}
		if err := db.Create(&set).Error; err != nil {
			return fmt.Errorf("failed to seed practice set %s: %w", s.ID, err)
		}
	}

	fmt.Printf("Successfully seeded %d questions and %d practice sets\n", len(QuestionBankData), len(PracticeSetData))
	return nil
}
