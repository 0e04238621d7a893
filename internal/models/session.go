package models

import (
	"encoding/json"
	"time"
)

// GameSession is one attempt at a level.
type GameSession struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	LevelID        int64      `json:"level_id"`
	TotalQuestions int        `json:"total_questions"`
	QuestionIDs    []int64    `json:"question_ids"`
	Score          int        `json:"score"`
	CorrectAnswers int        `json:"correct_answers"`
	TimeTaken      int        `json:"time_taken"`
	Completed      bool       `json:"completed"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// SessionAnswer is one graded answer within a session.
type SessionAnswer struct {
	SessionID      string `json:"session_id"`
	QuestionID     int64  `json:"question_id"`
	SelectedAnswer int    `json:"selected_answer"`
	IsCorrect      bool   `json:"is_correct"`
	TimeTaken      int    `json:"time_taken"`
}

type StartGameRequest struct {
	UserID  string `json:"userId"`
	LevelID int64  `json:"levelId"`
}

type StartGameResponse struct {
	SessionID string         `json:"sessionId"`
	Questions []GameQuestion `json:"questions"`
	Level     Level          `json:"level"`
	TimeLimit int            `json:"timeLimit"`
}

// SubmittedAnswer is one answer as sent by the client. A nil selection means
// the question timed out. Older clients send selectedOption.
type SubmittedAnswer struct {
	QuestionID      int64 `json:"questionId"`
	SelectedAnswer  *int  `json:"selectedAnswer"`
	SelectedOption  *int  `json:"selectedOption,omitempty"`
	TimeForQuestion int   `json:"timeForQuestion"`
}

// Selection returns the chosen option index, or -1 when none was chosen.
func (a SubmittedAnswer) Selection() int {
	switch {
	case a.SelectedAnswer != nil:
		return *a.SelectedAnswer
	case a.SelectedOption != nil:
		return *a.SelectedOption
	default:
		return -1
	}
}

type SubmitGameRequest struct {
	SessionID string            `json:"sessionId"`
	Answers   []SubmittedAnswer `json:"answers"`
	TimeTaken int               `json:"timeTaken"`
}

type AnswerResult struct {
	QuestionID     int64   `json:"questionId"`
	SelectedAnswer int     `json:"selectedAnswer"`
	IsCorrect      bool    `json:"isCorrect"`
	CorrectAnswer  int     `json:"correctAnswer"`
	Explanation    *string `json:"explanation"`
}

type SubmitGameResponse struct {
	Score          int            `json:"score"`
	CorrectAnswers int            `json:"correctAnswers"`
	TotalQuestions int            `json:"totalQuestions"`
	Passed         bool           `json:"passed"`
	PassingScore   int            `json:"passingScore"`
	Answers        []AnswerResult `json:"answers"`
}

// CompleteGameRequest is the payload of the deprecated client-driven
// completion endpoint. Score and Passed are accepted but not trusted.
type CompleteGameRequest struct {
	DeviceID string          `json:"deviceId"`
	Level    int             `json:"level"`
	Score    *int            `json:"score"`
	Passed   bool            `json:"passed"`
	Answers  json.RawMessage `json:"answers,omitempty"`
}

type CompleteGameResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Score   int    `json:"score"`
	Passed  bool   `json:"passed"`
	Level   int    `json:"level"`
}
