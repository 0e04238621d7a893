package progress

import (
	"time"

	"github.com/quizladder/backend/internal/database"
	"github.com/quizladder/backend/internal/models"
)

// BuildProgress projects levels and a user's progress rows onto the fixed
// twelve-level view. Level 1 is always unlocked; level N is unlocked once
// level N-1 is completed.
func BuildProgress(levels []models.Level, rows []models.UserProgress) ([]models.LevelProgress, int) {
	levelIDs := make(map[int]int64, len(levels))
	for _, l := range levels {
		levelIDs[l.LevelNumber] = l.ID
	}
	byNumber := make(map[int]models.UserProgress, len(rows))
	for _, p := range rows {
		byNumber[p.LevelNumber] = p
	}

	out := make([]models.LevelProgress, 0, database.TotalLevels)
	total := 0
	for n := 1; n <= database.TotalLevels; n++ {
		p := byNumber[n]
		lp := models.LevelProgress{
			Level:     n,
			LevelID:   levelIDs[n],
			Score:     p.HighestScore,
			Completed: p.Completed,
			Unlocked:  n == 1 || byNumber[n-1].Completed,
		}
		total += lp.Score
		out = append(out, lp)
	}
	return out, total
}

// NextProgress folds a passing score into the previous (user, level) row,
// which may be nil. The highest score never decreases.
func NextProgress(prev *models.UserProgress, userID string, levelID int64, score int, now time.Time) models.UserProgress {
	if prev == nil {
		return models.UserProgress{
			UserID:       userID,
			LevelID:      levelID,
			HighestScore: score,
			Attempts:     1,
			Completed:    true,
			CompletedAt:  &now,
		}
	}

	next := *prev
	next.HighestScore = max(prev.HighestScore, score)
	next.Attempts = prev.Attempts + 1
	if !prev.Completed || prev.CompletedAt == nil {
		next.CompletedAt = &now
	}
	next.Completed = true
	return next
}

// NextStanding folds a passing attempt into the user's aggregate, which may
// be nil. Every pass adds its score and counts one more completed level, so
// average_score is the mean over passing attempts.
func NextStanding(prev *models.LeaderboardStanding, userID string, score int, now time.Time) models.LeaderboardStanding {
	st := models.LeaderboardStanding{UserID: userID}
	if prev != nil {
		st = *prev
	}

	st.TotalScore += score
	st.LevelsCompleted++
	st.AverageScore = float64(st.TotalScore) / float64(st.LevelsCompleted)
	st.LastPlayed = now
	return st
}
