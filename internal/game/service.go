package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quizladder/backend/internal/database"
	"github.com/quizladder/backend/internal/models"
	"github.com/quizladder/backend/internal/progress"
)

var (
	ErrMissingFields    = errors.New("missing required fields")
	ErrUserNotFound     = errors.New("user not found")
	ErrLevelNotFound    = errors.New("level not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCompleted = errors.New("session already submitted")
)

// CacheInvalidator drops cached leaderboard responses after aggregates change.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type Service struct {
	db       *database.DB
	store    *Store
	progress *progress.Service
	cache    CacheInvalidator
	shuffle  func(n int, swap func(i, j int))
	now      func() time.Time
}

func NewService(db *database.DB, progressService *progress.Service, cache CacheInvalidator) *Service {
	return &Service{
		db:       db,
		store:    NewStore(db),
		progress: progressService,
		cache:    cache,
		shuffle:  rand.Shuffle,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start issues a new session for (user, level) with a random selection of
// the level's active questions.
func (s *Service) Start(ctx context.Context, req models.StartGameRequest) (*models.StartGameResponse, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" || req.LevelID <= 0 {
		return nil, ErrMissingFields
	}

	user, err := s.progress.GetUser(ctx, req.UserID)
	if errors.Is(err, progress.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	level, err := s.progress.GetLevel(ctx, req.LevelID)
	if errors.Is(err, progress.ErrNotFound) {
		return nil, ErrLevelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get level: %w", err)
	}

	pool, err := s.store.ActiveQuestions(ctx, level.ID)
	if err != nil {
		return nil, err
	}
	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	selected := pool[:min(level.RequiredQuestions, len(pool))]

	session := models.GameSession{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		LevelID:        level.ID,
		TotalQuestions: len(selected),
		QuestionIDs:    make([]int64, len(selected)),
		StartedAt:      s.now(),
	}
	questions := make([]models.GameQuestion, len(selected))
	for i, q := range selected {
		session.QuestionIDs[i] = q.ID
		questions[i] = q.ForPlay()
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if len(selected) < level.RequiredQuestions {
		log.Printf("[game] level %d has %d active questions, wants %d", level.LevelNumber, len(selected), level.RequiredQuestions)
	}

	return &models.StartGameResponse{
		SessionID: session.ID,
		Questions: questions,
		Level:     *level,
		TimeLimit: level.TimeLimit,
	}, nil
}

// Submit scores a session's answers and, on a pass, records progress and the
// leaderboard aggregate. Everything happens in one transaction with the
// session and aggregate rows locked.
func (s *Service) Submit(ctx context.Context, req models.SubmitGameRequest) (*models.SubmitGameResponse, error) {
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" || req.Answers == nil {
		return nil, ErrMissingFields
	}
	if _, err := uuid.Parse(req.SessionID); err != nil {
		return nil, ErrSessionNotFound
	}

	var resp *models.SubmitGameResponse
	var changed bool
	err := s.withRetry(ctx, func(tx *database.Tx) error {
		var err error
		resp, changed, err = s.submit(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed && s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return resp, nil
}

func (s *Service) submit(ctx context.Context, tx *database.Tx, req models.SubmitGameRequest) (*models.SubmitGameResponse, bool, error) {
	store := NewStore(tx)

	session, err := store.GetSessionForUpdate(ctx, req.SessionID)
	if err != nil {
		return nil, false, err
	}
	if session.Completed {
		return nil, false, ErrSessionCompleted
	}

	level, err := progress.NewStore(tx).GetLevel(ctx, session.LevelID)
	if err != nil {
		return nil, false, fmt.Errorf("get level: %w", err)
	}

	questions, err := store.QuestionsByID(ctx, session.QuestionIDs)
	if err != nil {
		return nil, false, err
	}

	correct := 0
	answered := make(map[int64]bool, len(req.Answers))
	results := make([]models.AnswerResult, 0, len(req.Answers))
	for _, a := range req.Answers {
		q, issued := questions[a.QuestionID]
		if !issued || answered[a.QuestionID] {
			log.Printf("[game] session %s: ignoring answer for question %d", session.ID, a.QuestionID)
			continue
		}
		answered[a.QuestionID] = true

		selected := a.Selection()
		if !validSelection(selected) {
			selected = -1
		}
		isCorrect := selected == q.CorrectAnswer
		if isCorrect {
			correct++
		}

		if err := store.InsertAnswer(ctx, models.SessionAnswer{
			SessionID:      session.ID,
			QuestionID:     q.ID,
			SelectedAnswer: selected,
			IsCorrect:      isCorrect,
			TimeTaken:      max(a.TimeForQuestion, 0),
		}); err != nil {
			return nil, false, fmt.Errorf("save answer: %w", err)
		}

		results = append(results, models.AnswerResult{
			QuestionID:     q.ID,
			SelectedAnswer: selected,
			IsCorrect:      isCorrect,
			CorrectAnswer:  q.CorrectAnswer,
			Explanation:    q.Explanation,
		})
	}

	score := Score(correct, session.TotalQuestions)
	passed := Passed(score, session.TotalQuestions, *level)
	now := s.now()

	if err := store.CompleteSession(ctx, session.ID, score, correct, max(req.TimeTaken, 0), now); err != nil {
		return nil, false, fmt.Errorf("complete session: %w", err)
	}

	changed := false
	if passed {
		changed, err = progress.RecordPass(ctx, tx, session.UserID, session.LevelID, score, now)
		if err != nil {
			return nil, false, err
		}
	}

	log.Printf("[game] session %s submitted: %d/%d correct, score %d, passed=%v",
		session.ID, correct, session.TotalQuestions, score, passed)

	return &models.SubmitGameResponse{
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: session.TotalQuestions,
		Passed:         passed,
		PassingScore:   level.PassingScore,
		Answers:        results,
	}, changed, nil
}

// withRetry runs fn in a transaction, retrying once when two first passes of
// the same level race on the unique (user, level) progress row.
func (s *Service) withRetry(ctx context.Context, fn func(tx *database.Tx) error) error {
	err := s.db.WithTx(ctx, fn)
	if database.IsUniqueViolation(err) {
		log.Printf("[game] retrying submit after concurrent insert: %v", err)
		err = s.db.WithTx(ctx, fn)
	}
	return err
}

// Complete is the older client-driven completion call. Submit is the only
// path that records results, so this validates the request and reports the
// server-side outcome for the level without writing anything.
func (s *Service) Complete(ctx context.Context, req models.CompleteGameRequest) (*models.CompleteGameResponse, error) {
	req.DeviceID = strings.TrimSpace(req.DeviceID)
	if req.DeviceID == "" || req.Level <= 0 || req.Score == nil {
		return nil, ErrMissingFields
	}

	user, err := s.progress.FindUserByDevice(ctx, req.DeviceID)
	if errors.Is(err, progress.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	level, err := s.progress.GetLevelByNumber(ctx, req.Level)
	if errors.Is(err, progress.ErrNotFound) {
		return nil, ErrLevelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get level: %w", err)
	}

	p, err := s.progress.LevelProgress(ctx, user.ID, level.ID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	resp := &models.CompleteGameResponse{
		Success: true,
		Message: "Results are recorded on submit; returning the stored outcome",
		Level:   level.LevelNumber,
	}
	if p != nil {
		resp.Score = p.HighestScore
		resp.Passed = p.Completed
	}
	return resp, nil
}
