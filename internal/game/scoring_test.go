package game

import (
	"testing"

	"github.com/quizladder/backend/internal/models"
)

func TestScore(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 5, 0},
		{5, 5, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Score(tt.correct, tt.total); got != tt.want {
			t.Errorf("Score(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestPassed(t *testing.T) {
	level := models.Level{PassingScore: 70}

	if !Passed(70, 10, level) {
		t.Error("score equal to the threshold should pass")
	}
	if Passed(69, 10, level) {
		t.Error("score below the threshold should fail")
	}
	if Passed(0, 0, models.Level{PassingScore: 0}) {
		t.Error("a session with no questions should never pass")
	}
}
