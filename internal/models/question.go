package models

import (
	"strings"
	"time"
)

// OptionCount is the fixed number of choices on every question.
const OptionCount = 4

// Question is a multiple-choice item in the bank.
type Question struct {
	ID            int64               `json:"id"`
	Question      string              `json:"question"`
	Options       [OptionCount]string `json:"options"`
	CorrectAnswer int                 `json:"correct_answer"`
	LevelID       int64               `json:"level"`
	Explanation   *string             `json:"explanation"`
	IsActive      bool                `json:"is_active"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// GameQuestion is what a player sees: the correct answer is never included.
type GameQuestion struct {
	ID       int64    `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ForPlay strips the answer key from q.
func (q Question) ForPlay() GameQuestion {
	return GameQuestion{
		ID:       q.ID,
		Question: q.Question,
		Options:  q.Options[:],
	}
}

// QuestionInput is the admin create/update payload.
type QuestionInput struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correct_answer"`
	Level         int64    `json:"level"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Normalize trims surrounding whitespace from the text fields.
func (in *QuestionInput) Normalize() {
	in.Question = strings.TrimSpace(in.Question)
	in.Explanation = strings.TrimSpace(in.Explanation)
	for i := range in.Options {
		in.Options[i] = strings.TrimSpace(in.Options[i])
	}
}

type QuestionsResponse struct {
	Success   bool       `json:"success"`
	Questions []Question `json:"questions"`
}

type QuestionMutationResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    *Question `json:"data"`
}

type GenerateQuestionsRequest struct {
	Level int64  `json:"level"`
	Count int    `json:"count"`
	Topic string `json:"topic,omitempty"`
	Save  bool   `json:"save"`
}

type GenerateQuestionsResponse struct {
	Drafts   []QuestionInput `json:"drafts"`
	Rejected []string        `json:"rejected"`
	Saved    []Question      `json:"saved"`
}
