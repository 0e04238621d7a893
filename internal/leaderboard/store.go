package leaderboard

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quizladder/backend/internal/database"
	"github.com/quizladder/backend/internal/models"
)

// MaxEntries caps the ranked list.
const MaxEntries = 50

type Store struct {
	db database.DBTX
}

func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

// Top returns up to limit standings with display names, highest total first.
// Ties fall back to average score, then to who got there first.
func (s *Store) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT lb.user_id, u.username, lb.total_score, lb.levels_completed, lb.average_score, lb.last_played
		 FROM leaderboard lb
		 LEFT JOIN users u ON u.id = lb.user_id
		 ORDER BY lb.total_score DESC, lb.average_score DESC, lb.last_played ASC, lb.user_id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		var username sql.NullString
		if err := rows.Scan(&e.ID, &username, &e.TotalScore, &e.LevelsCompleted, &e.AverageScore, &e.LastPlayed); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		e.Rank = len(entries) + 1
		e.Username = displayName(e.ID, username.String)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// displayName falls back to a short id-based name for users without one.
func displayName(userID, username string) string {
	if username != "" {
		return username
	}
	suffix := userID
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return "Player " + suffix
}
