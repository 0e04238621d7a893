package models

import "time"

// LeaderboardStanding is the stored aggregate for one player.
type LeaderboardStanding struct {
	UserID          string    `json:"user_id"`
	TotalScore      int       `json:"total_score"`
	LevelsCompleted int       `json:"levels_completed"`
	AverageScore    float64   `json:"average_score"`
	LastPlayed      time.Time `json:"last_played"`
}

// LeaderboardEntry is one ranked row as returned to clients.
type LeaderboardEntry struct {
	Rank            int       `json:"rank"`
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	TotalScore      int       `json:"totalScore"`
	LevelsCompleted int       `json:"levelsCompleted"`
	AverageScore    float64   `json:"averageScore"`
	LastPlayed      time.Time `json:"lastPlayed"`
}

type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
