package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quizladder/backend/internal/database"
	"github.com/quizladder/backend/internal/models"
)

// ErrNotFound is returned when a user or level lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store reads and writes users, levels, per-level progress and leaderboard
// standings. It works against the pool or an open transaction.
type Store struct {
	db database.DBTX
}

func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

// ── Users ───────────────────────────────────────────────

const userColumns = `id, device_id, username, email, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var email sql.NullString
	if err := row.Scan(&u.ID, &u.DeviceID, &u.Username, &email, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if email.Valid {
		u.Email = &email.String
	}
	return &u, nil
}

func (s *Store) GetUserByDevice(ctx context.Context, deviceID string) (*models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE device_id = ?`, deviceID))
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (s *Store) CreateUser(ctx context.Context, deviceID, username string) (*models.User, error) {
	u := models.User{
		ID:        uuid.NewString(),
		DeviceID:  deviceID,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, device_id, username, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.DeviceID, u.Username, u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// ── Levels ──────────────────────────────────────────────

const levelColumns = `id, level_number, name, difficulty, passing_score, required_questions, time_limit`

func scanLevel(scan func(dest ...any) error) (*models.Level, error) {
	var l models.Level
	if err := scan(&l.ID, &l.LevelNumber, &l.Name, &l.Difficulty, &l.PassingScore, &l.RequiredQuestions, &l.TimeLimit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (s *Store) ListLevels(ctx context.Context) ([]models.Level, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+levelColumns+` FROM levels ORDER BY level_number`)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	defer rows.Close()

	var levels []models.Level
	for rows.Next() {
		l, err := scanLevel(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		levels = append(levels, *l)
	}
	return levels, rows.Err()
}

func (s *Store) GetLevel(ctx context.Context, id int64) (*models.Level, error) {
	return scanLevel(s.db.QueryRowContext(ctx,
		`SELECT `+levelColumns+` FROM levels WHERE id = ?`, id).Scan)
}

func (s *Store) GetLevelByNumber(ctx context.Context, number int) (*models.Level, error) {
	return scanLevel(s.db.QueryRowContext(ctx,
		`SELECT `+levelColumns+` FROM levels WHERE level_number = ?`, number).Scan)
}

// ── Progress ────────────────────────────────────────────

func (s *Store) ListUserProgress(ctx context.Context, userID string) ([]models.UserProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.user_id, p.level_id, l.level_number, p.highest_score, p.attempts, p.completed, p.completed_at
		 FROM user_progress p
		 JOIN levels l ON l.id = p.level_id
		 WHERE p.user_id = ?
		 ORDER BY l.level_number`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []models.UserProgress
	for rows.Next() {
		var p models.UserProgress
		var completedAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.UserID, &p.LevelID, &p.LevelNumber, &p.HighestScore, &p.Attempts, &p.Completed, &completedAt); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		if completedAt.Valid {
			p.CompletedAt = &completedAt.Time
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProgress returns the (user, level) row, or nil, nil if there is none.
func (s *Store) GetProgress(ctx context.Context, userID string, levelID int64) (*models.UserProgress, error) {
	return s.getProgress(ctx, userID, levelID, "")
}

// GetProgressForUpdate is GetProgress with a row lock where the dialect
// supports one.
func (s *Store) GetProgressForUpdate(ctx context.Context, userID string, levelID int64) (*models.UserProgress, error) {
	return s.getProgress(ctx, userID, levelID, s.db.GetDialect().ForUpdate())
}

func (s *Store) getProgress(ctx context.Context, userID string, levelID int64, lock string) (*models.UserProgress, error) {
	var p models.UserProgress
	var completedAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, level_id, highest_score, attempts, completed, completed_at
		 FROM user_progress WHERE user_id = ? AND level_id = ?`+lock,
		userID, levelID,
	).Scan(&p.ID, &p.UserID, &p.LevelID, &p.HighestScore, &p.Attempts, &p.Completed, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}
	return &p, nil
}

func (s *Store) InsertProgress(ctx context.Context, p models.UserProgress, now time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_progress (user_id, level_id, highest_score, attempts, completed, completed_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.LevelID, p.HighestScore, p.Attempts, p.Completed, p.CompletedAt, now,
	)
	return err
}

func (s *Store) UpdateProgress(ctx context.Context, p models.UserProgress, now time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE user_progress
		 SET highest_score = ?, attempts = ?, completed = ?, completed_at = ?, updated_at = ?
		 WHERE id = ?`,
		p.HighestScore, p.Attempts, p.Completed, p.CompletedAt, now, p.ID,
	)
	return err
}

// ── Leaderboard standings ───────────────────────────────

// GetStandingForUpdate returns the user's aggregate row, locked where
// supported. A missing row is reported as nil, nil.
func (s *Store) GetStandingForUpdate(ctx context.Context, userID string) (*models.LeaderboardStanding, error) {
	var st models.LeaderboardStanding
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, total_score, levels_completed, average_score, last_played
		 FROM leaderboard WHERE user_id = ?`+s.db.GetDialect().ForUpdate(),
		userID,
	).Scan(&st.UserID, &st.TotalScore, &st.LevelsCompleted, &st.AverageScore, &st.LastPlayed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) InsertStanding(ctx context.Context, st models.LeaderboardStanding) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leaderboard (user_id, total_score, levels_completed, average_score, last_played)
		 VALUES (?, ?, ?, ?, ?)`,
		st.UserID, st.TotalScore, st.LevelsCompleted, st.AverageScore, st.LastPlayed,
	)
	return err
}

func (s *Store) UpdateStanding(ctx context.Context, st models.LeaderboardStanding) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE leaderboard
		 SET total_score = ?, levels_completed = ?, average_score = ?, last_played = ?
		 WHERE user_id = ?`,
		st.TotalScore, st.LevelsCompleted, st.AverageScore, st.LastPlayed, st.UserID,
	)
	return err
}
