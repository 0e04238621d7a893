package database

import (
	"context"
	"fmt"
	"log"
)

// TotalLevels is the number of difficulty tiers in the game.
const TotalLevels = 12

type levelSeed struct {
	number            int
	name              string
	difficulty        string
	passingScore      int
	requiredQuestions int
	timeLimit         int
}

var defaultLevels = []levelSeed{
	{1, "First Steps", "easy", 60, 5, 30},
	{2, "Warming Up", "easy", 60, 5, 30},
	{3, "Getting Serious", "easy", 65, 6, 28},
	{4, "Sharp Mind", "medium", 65, 6, 28},
	{5, "Quick Thinker", "medium", 70, 8, 25},
	{6, "Knowledge Seeker", "medium", 70, 8, 25},
	{7, "Brain Trainer", "hard", 75, 10, 22},
	{8, "Fact Hunter", "hard", 75, 10, 22},
	{9, "Quiz Veteran", "hard", 80, 12, 20},
	{10, "Scholar", "expert", 80, 12, 20},
	{11, "Sage", "expert", 85, 15, 15},
	{12, "Grandmaster", "expert", 85, 15, 15},
}

// SeedLevels inserts any of the twelve levels that are missing. Existing rows
// are left untouched so operators can tune thresholds in place.
func (db *DB) SeedLevels(ctx context.Context) error {
	inserted := 0
	for _, l := range defaultLevels {
		var count int
		if err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM levels WHERE level_number = ?`, l.number,
		).Scan(&count); err != nil {
			return fmt.Errorf("check level %d: %w", l.number, err)
		}
		if count > 0 {
			continue
		}

		if _, err := db.ExecContext(ctx,
			`INSERT INTO levels (level_number, name, difficulty, passing_score, required_questions, time_limit)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			l.number, l.name, l.difficulty, l.passingScore, l.requiredQuestions, l.timeLimit,
		); err != nil {
			return fmt.Errorf("insert level %d: %w", l.number, err)
		}
		inserted++
	}

	if inserted > 0 {
		log.Printf("[database] seeded %d levels", inserted)
	}
	return nil
}
