// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/quizladder/backend/internal/database"
)

// Open returns a migrated sqlite database with the twelve levels seeded. It is
// closed when the test ends.
func Open(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	if err := db.SeedLevels(context.Background()); err != nil {
		t.Fatalf("seed levels: %v", err)
	}
	return db
}

// LevelID returns the primary key of the level with the given number.
func LevelID(t *testing.T, db *database.DB, number int) int64 {
	t.Helper()

	var id int64
	if err := db.QueryRowContext(context.Background(),
		`SELECT id FROM levels WHERE level_number = ?`, number,
	).Scan(&id); err != nil {
		t.Fatalf("level %d: %v", number, err)
	}
	return id
}

// InsertQuestion adds an active question to a level and returns its id.
func InsertQuestion(t *testing.T, db *database.DB, levelID int64, text string, correct int) int64 {
	t.Helper()

	id, err := db.ExecReturningID(context.Background(),
		`INSERT INTO questions (question, option_a, option_b, option_c, option_d, correct_answer, level_id, explanation, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		text, "A", "B", "C", "D", correct, levelID, "because", true,
	)
	if err != nil {
		t.Fatalf("insert question: %v", err)
	}
	return id
}
