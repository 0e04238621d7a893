package models

import "time"

// UserProgress is the best recorded outcome for one (user, level).
type UserProgress struct {
	ID           int64      `json:"id"`
	UserID       string     `json:"user_id"`
	LevelID      int64      `json:"level_id"`
	LevelNumber  int        `json:"level_number"`
	HighestScore int        `json:"highest_score"`
	Attempts     int        `json:"attempts"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// LevelProgress is one element of the per-device progress view.
type LevelProgress struct {
	Level     int   `json:"level"`
	LevelID   int64 `json:"levelId"`
	Score     int   `json:"score"`
	Completed bool  `json:"completed"`
	Unlocked  bool  `json:"unlocked"`
}

type ProgressResponse struct {
	Progress   []LevelProgress `json:"progress"`
	TotalScore int             `json:"totalScore"`
	UserID     string          `json:"userId"`
}
