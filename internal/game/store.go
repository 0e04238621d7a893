package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quizladder/backend/internal/database"
	"github.com/quizladder/backend/internal/models"
)

type Store struct {
	db database.DBTX
}

func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

const questionColumns = `id, question, option_a, option_b, option_c, option_d, correct_answer, level_id, explanation, is_active`

func scanQuestion(scan func(dest ...any) error) (models.Question, error) {
	var q models.Question
	var explanation sql.NullString
	err := scan(&q.ID, &q.Question, &q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3],
		&q.CorrectAnswer, &q.LevelID, &explanation, &q.IsActive)
	if explanation.Valid {
		q.Explanation = &explanation.String
	}
	return q, err
}

// ActiveQuestions returns every active question for a level.
func (s *Store) ActiveQuestions(ctx context.Context, levelID int64) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE level_id = ? AND is_active = ? ORDER BY id`,
		levelID, true,
	)
	if err != nil {
		return nil, fmt.Errorf("list active questions: %w", err)
	}
	defer rows.Close()

	var out []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// QuestionsByID loads the given questions regardless of their active flag, so
// a question deactivated mid-session is still scored.
func (s *Store) QuestionsByID(ctx context.Context, ids []int64) (map[int64]models.Question, error) {
	out := make(map[int64]models.Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out[q.ID] = q
	}
	return out, rows.Err()
}

func (s *Store) CreateSession(ctx context.Context, gs models.GameSession) error {
	ids, err := json.Marshal(gs.QuestionIDs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO game_sessions (id, user_id, level_id, total_questions, question_ids, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		gs.ID, gs.UserID, gs.LevelID, gs.TotalQuestions, string(ids), gs.StartedAt,
	)
	return err
}

// GetSessionForUpdate loads a session, locking it where the dialect supports
// row locks so a session can only be submitted once.
func (s *Store) GetSessionForUpdate(ctx context.Context, id string) (*models.GameSession, error) {
	var gs models.GameSession
	var ids string
	var completedAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, level_id, total_questions, question_ids, score, correct_answers,
		        time_taken, completed, started_at, completed_at
		 FROM game_sessions WHERE id = ?`+s.db.GetDialect().ForUpdate(),
		id,
	).Scan(&gs.ID, &gs.UserID, &gs.LevelID, &gs.TotalQuestions, &ids, &gs.Score, &gs.CorrectAnswers,
		&gs.TimeTaken, &gs.Completed, &gs.StartedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ids), &gs.QuestionIDs); err != nil {
		return nil, fmt.Errorf("decode question ids for session %s: %w", id, err)
	}
	if completedAt.Valid {
		gs.CompletedAt = &completedAt.Time
	}
	return &gs, nil
}

func (s *Store) InsertAnswer(ctx context.Context, a models.SessionAnswer) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_answers (session_id, question_id, selected_answer, is_correct, time_taken)
		 VALUES (?, ?, ?, ?, ?)`,
		a.SessionID, a.QuestionID, a.SelectedAnswer, a.IsCorrect, a.TimeTaken,
	)
	return err
}

func (s *Store) CompleteSession(ctx context.Context, id string, score, correct, timeTaken int, now time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE game_sessions
		 SET score = ?, correct_answers = ?, time_taken = ?, completed = ?, completed_at = ?
		 WHERE id = ?`,
		score, correct, timeTaken, true, now, id,
	)
	return err
}
