package game

import (
	"math"

	"github.com/quizladder/backend/internal/models"
)

// Score is the percentage of correct answers, rounded half up. A session with
// no questions scores zero.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}

// Passed reports whether score clears the level threshold. An empty session
// never passes.
func Passed(score, total int, level models.Level) bool {
	return total > 0 && score >= level.PassingScore
}

// validSelection reports whether i names one of the four options.
func validSelection(i int) bool {
	return i >= 0 && i < models.OptionCount
}
