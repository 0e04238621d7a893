package progress

import (
	"testing"
	"time"

	"github.com/quizladder/backend/internal/models"
)

func twelveLevels() []models.Level {
	levels := make([]models.Level, 12)
	for i := range levels {
		levels[i] = models.Level{ID: int64(100 + i), LevelNumber: i + 1}
	}
	return levels
}

func TestBuildProgress_NewPlayer(t *testing.T) {
	view, total := BuildProgress(twelveLevels(), nil)

	if len(view) != 12 {
		t.Fatalf("expected 12 levels, got %d", len(view))
	}
	if total != 0 {
		t.Errorf("expected total 0, got %d", total)
	}
	for i, lp := range view {
		if lp.Level != i+1 {
			t.Errorf("position %d: expected level %d, got %d", i, i+1, lp.Level)
		}
		if lp.LevelID != int64(100+i) {
			t.Errorf("level %d: expected id %d, got %d", lp.Level, 100+i, lp.LevelID)
		}
		if lp.Score != 0 || lp.Completed {
			t.Errorf("level %d: expected zero score and not completed, got %+v", lp.Level, lp)
		}
		if lp.Unlocked != (lp.Level == 1) {
			t.Errorf("level %d: unlocked = %v", lp.Level, lp.Unlocked)
		}
	}
}

func TestBuildProgress_UnlockFollowsCompletion(t *testing.T) {
	rows := []models.UserProgress{
		{LevelNumber: 1, HighestScore: 80, Completed: true},
		{LevelNumber: 2, HighestScore: 90, Completed: true},
		{LevelNumber: 5, HighestScore: 70, Completed: true},
	}

	view, total := BuildProgress(twelveLevels(), rows)

	if total != 240 {
		t.Errorf("expected total 240, got %d", total)
	}
	for n := 2; n <= 12; n++ {
		if view[n-1].Unlocked != view[n-2].Completed {
			t.Errorf("level %d: unlocked=%v but level %d completed=%v", n, view[n-1].Unlocked, n-1, view[n-2].Completed)
		}
	}
	if !view[2].Unlocked {
		t.Error("level 3 should be unlocked after passing level 2")
	}
	if view[3].Unlocked {
		t.Error("level 4 should be locked while level 3 is incomplete")
	}
	if !view[5].Unlocked {
		t.Error("level 6 should be unlocked after passing level 5")
	}
}

func TestBuildProgress_MissingLevelRows(t *testing.T) {
	view, _ := BuildProgress(nil, nil)
	if len(view) != 12 {
		t.Fatalf("expected 12 entries even without level rows, got %d", len(view))
	}
	if view[0].LevelID != 0 || !view[0].Unlocked {
		t.Errorf("unexpected first entry: %+v", view[0])
	}
}

func TestNextProgress(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := NextProgress(nil, "u1", 7, 80, now)
	if first.HighestScore != 80 || first.Attempts != 1 || !first.Completed {
		t.Fatalf("unexpected first progress: %+v", first)
	}
	if first.CompletedAt == nil || !first.CompletedAt.Equal(now) {
		t.Errorf("expected completed_at %v, got %v", now, first.CompletedAt)
	}

	later := now.Add(time.Hour)
	lower := NextProgress(&first, "u1", 7, 65, later)
	if lower.HighestScore != 80 {
		t.Errorf("highest score must not decrease, got %d", lower.HighestScore)
	}
	if lower.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", lower.Attempts)
	}
	if !lower.CompletedAt.Equal(now) {
		t.Errorf("first completion time should be kept, got %v", lower.CompletedAt)
	}

	higher := NextProgress(&lower, "u1", 7, 95, later)
	if higher.HighestScore != 95 || higher.Attempts != 3 {
		t.Errorf("unexpected progress after improvement: %+v", higher)
	}
}

func TestNextStanding(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	tests := []struct {
		score     int
		at        time.Time
		wantTotal int
		wantLevel int
		wantAvg   float64
	}{
		{80, now, 80, 1, 80},
		{100, now, 180, 2, 90},
		{60, later, 240, 3, 80},
	}

	var st *models.LeaderboardStanding
	for _, tt := range tests {
		next := NextStanding(st, "u1", tt.score, tt.at)
		if next.TotalScore != tt.wantTotal || next.LevelsCompleted != tt.wantLevel || next.AverageScore != tt.wantAvg {
			t.Fatalf("after pass of %d: got total %d levels %d avg %.1f, want %d %d %.1f",
				tt.score, next.TotalScore, next.LevelsCompleted, next.AverageScore, tt.wantTotal, tt.wantLevel, tt.wantAvg)
		}
		if !next.LastPlayed.Equal(tt.at) || next.UserID != "u1" {
			t.Errorf("unexpected standing metadata: %+v", next)
		}
		st = &next
	}
}
