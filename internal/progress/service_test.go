package progress

import (
	"context"
	"testing"
	"time"

	"github.com/quizladder/backend/internal/database"
	"github.com/quizladder/backend/internal/database/dbtest"
)

func countUsers(t *testing.T, db *database.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		t.Fatalf("count users: %v", err)
	}
	return n
}

func TestGetProgress_NewDevice(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)
	ctx := context.Background()

	resp, err := svc.GetProgress(ctx, "device-abcdef123456")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}

	if len(resp.Progress) != 12 {
		t.Fatalf("expected 12 levels, got %d", len(resp.Progress))
	}
	if resp.TotalScore != 0 {
		t.Errorf("expected total 0, got %d", resp.TotalScore)
	}
	for _, lp := range resp.Progress {
		if lp.Score != 0 || lp.Completed || lp.Unlocked != (lp.Level == 1) {
			t.Errorf("unexpected entry for new device: %+v", lp)
		}
		if lp.LevelID != dbtest.LevelID(t, db, lp.Level) {
			t.Errorf("level %d: wrong level id %d", lp.Level, lp.LevelID)
		}
	}
	if got := countUsers(t, db); got != 1 {
		t.Errorf("expected exactly 1 user, got %d", got)
	}

	user, err := svc.FindUserByDevice(ctx, "device-abcdef123456")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if user.Username != "Player_device-a" {
		t.Errorf("unexpected default username %q", user.Username)
	}
	if user.ID != resp.UserID {
		t.Errorf("response user id %q does not match stored %q", resp.UserID, user.ID)
	}
}

func TestGetProgress_RepeatedFetchIsStable(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)
	ctx := context.Background()

	first, err := svc.GetProgress(ctx, "dev-1")
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := svc.GetProgress(ctx, "dev-1")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if first.UserID != second.UserID {
		t.Errorf("user id changed between fetches: %q vs %q", first.UserID, second.UserID)
	}
	for i := range first.Progress {
		if first.Progress[i] != second.Progress[i] {
			t.Errorf("level %d changed between fetches: %+v vs %+v", i+1, first.Progress[i], second.Progress[i])
		}
	}
	if got := countUsers(t, db); got != 1 {
		t.Errorf("expected 1 user after repeated fetches, got %d", got)
	}
}

func TestGetProgress_MissingDevice(t *testing.T) {
	svc := NewService(dbtest.Open(t))
	if _, err := svc.GetProgress(context.Background(), "   "); err != ErrMissingDevice {
		t.Errorf("expected ErrMissingDevice, got %v", err)
	}
}

func TestRecordPass_UpdatesProgressAndStanding(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)
	ctx := context.Background()

	user, err := svc.ResolveUser(ctx, "dev-pass")
	if err != nil {
		t.Fatalf("resolve user: %v", err)
	}
	level1 := dbtest.LevelID(t, db, 1)
	now := time.Now().UTC()

	for _, score := range []int{70, 90, 80} {
		err := db.WithTx(ctx, func(tx *database.Tx) error {
			_, err := RecordPass(ctx, tx, user.ID, level1, score, now)
			return err
		})
		if err != nil {
			t.Fatalf("record pass %d: %v", score, err)
		}
	}

	p, err := svc.LevelProgress(ctx, user.ID, level1)
	if err != nil || p == nil {
		t.Fatalf("level progress: %v %v", p, err)
	}
	if p.HighestScore != 90 || p.Attempts != 3 || !p.Completed {
		t.Errorf("unexpected progress: %+v", p)
	}

	st, err := NewStore(db).GetStandingForUpdate(ctx, user.ID)
	if err != nil || st == nil {
		t.Fatalf("standing: %v %v", st, err)
	}
	// 70 + 90 + 80 over three passing attempts.
	if st.TotalScore != 240 || st.LevelsCompleted != 3 || st.AverageScore != 80 {
		t.Errorf("unexpected standing: %+v", st)
	}

	resp, err := svc.GetProgress(ctx, "dev-pass")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if !resp.Progress[1].Unlocked || resp.Progress[2].Unlocked {
		t.Errorf("expected only levels 1 and 2 unlocked, got %+v", resp.Progress[:3])
	}
	if resp.TotalScore != 90 {
		t.Errorf("progress total is the sum of best scores, expected 90, got %d", resp.TotalScore)
	}
}

func TestRecordPass_EveryPassChangesAggregate(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)
	ctx := context.Background()

	user, err := svc.ResolveUser(ctx, "dev-same")
	if err != nil {
		t.Fatalf("resolve user: %v", err)
	}
	level1 := dbtest.LevelID(t, db, 1)

	record := func(score int) bool {
		var changed bool
		err := db.WithTx(ctx, func(tx *database.Tx) error {
			var err error
			changed, err = RecordPass(ctx, tx, user.ID, level1, score, time.Now().UTC())
			return err
		})
		if err != nil {
			t.Fatalf("record pass: %v", err)
		}
		return changed
	}

	for i, score := range []int{80, 80, 60} {
		if !record(score) {
			t.Errorf("pass %d (score %d) should change the aggregate", i+1, score)
		}
	}
}

func TestGetUser_InvalidID(t *testing.T) {
	svc := NewService(dbtest.Open(t))
	if _, err := svc.GetUser(context.Background(), "not-a-uuid"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
