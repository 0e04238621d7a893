package models

// Level is one of the twelve difficulty tiers.
type Level struct {
	ID                int64  `json:"id"`
	LevelNumber       int    `json:"level_number"`
	Name              string `json:"name"`
	Difficulty        string `json:"difficulty"`
	PassingScore      int    `json:"passing_score"`
	RequiredQuestions int    `json:"required_questions"`
	TimeLimit         int    `json:"time_limit"`
}

type LevelsResponse struct {
	Levels []Level `json:"levels"`
}
