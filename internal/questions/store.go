package questions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/quizladder/backend/internal/database"
	"github.com/quizladder/backend/internal/models"
)

// ErrNotFound is returned when no question has the requested id.
var ErrNotFound = errors.New("question not found")

type Store struct {
	db database.DBTX
}

func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

const selectColumns = `id, question, option_a, option_b, option_c, option_d, correct_answer,
	level_id, explanation, is_active, created_at, updated_at`

func scanQuestion(scan func(dest ...any) error) (*models.Question, error) {
	var q models.Question
	var explanation sql.NullString
	if err := scan(&q.ID, &q.Question, &q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3],
		&q.CorrectAnswer, &q.LevelID, &explanation, &q.IsActive, &q.CreatedAt, &q.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if explanation.Valid {
		q.Explanation = &explanation.String
	}
	return &q, nil
}

// List returns active questions ordered by level then creation time,
// optionally restricted to one level.
func (s *Store) List(ctx context.Context, levelID int64) ([]models.Question, error) {
	query := `SELECT ` + selectColumns + ` FROM questions WHERE is_active = ?`
	args := []any{true}
	if levelID > 0 {
		query += ` AND level_id = ?`
		args = append(args, levelID)
	}
	query += ` ORDER BY level_id, created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*models.Question, error) {
	return scanQuestion(s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM questions WHERE id = ?`, id).Scan)
}

// Create inserts a validated question and returns the stored row.
func (s *Store) Create(ctx context.Context, in models.QuestionInput) (*models.Question, error) {
	now := time.Now().UTC()
	id, err := s.db.ExecReturningID(ctx,
		`INSERT INTO questions (question, option_a, option_b, option_c, option_d, correct_answer,
		                        level_id, explanation, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Question, in.Options[0], in.Options[1], in.Options[2], in.Options[3], *in.CorrectAnswer,
		in.Level, nullString(in.Explanation), true, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	return s.Get(ctx, id)
}

// Update replaces a question's content. It returns ErrNotFound when no row
// has the id.
func (s *Store) Update(ctx context.Context, id int64, in models.QuestionInput) (*models.Question, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE questions
		 SET question = ?, option_a = ?, option_b = ?, option_c = ?, option_d = ?, correct_answer = ?,
		     level_id = ?, explanation = ?, updated_at = ?
		 WHERE id = ?`,
		in.Question, in.Options[0], in.Options[1], in.Options[2], in.Options[3], *in.CorrectAnswer,
		in.Level, nullString(in.Explanation), time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes a question. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
