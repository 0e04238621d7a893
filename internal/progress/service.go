package progress

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/quizladder/backend/internal/database"
	"github.com/quizladder/backend/internal/models"
)

// ErrMissingDevice is returned when no device identifier is supplied.
var ErrMissingDevice = errors.New("device id is required")

type Service struct {
	db    *database.DB
	store *Store
}

func NewService(db *database.DB) *Service {
	return &Service{db: db, store: NewStore(db)}
}

// ResolveUser returns the user for deviceID, creating one on first sight.
// Device ids are client chosen and not a security boundary.
func (s *Service) ResolveUser(ctx context.Context, deviceID string) (*models.User, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, ErrMissingDevice
	}

	user, err := s.store.GetUserByDevice(ctx, deviceID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get user by device: %w", err)
	}

	user, err = s.store.CreateUser(ctx, deviceID, models.DefaultUsername(deviceID))
	if err != nil {
		// Another request for the same device won the insert.
		if database.IsUniqueViolation(err) {
			return s.store.GetUserByDevice(ctx, deviceID)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.Printf("[progress] created user %s for new device", user.ID)
	return user, nil
}

// FindUserByDevice looks a device up without creating a user.
func (s *Service) FindUserByDevice(ctx context.Context, deviceID string) (*models.User, error) {
	return s.store.GetUserByDevice(ctx, strings.TrimSpace(deviceID))
}

func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *Service) Levels(ctx context.Context) ([]models.Level, error) {
	return s.store.ListLevels(ctx)
}

func (s *Service) GetLevel(ctx context.Context, id int64) (*models.Level, error) {
	return s.store.GetLevel(ctx, id)
}

func (s *Service) GetLevelByNumber(ctx context.Context, number int) (*models.Level, error) {
	return s.store.GetLevelByNumber(ctx, number)
}

// GetProgress returns the twelve-level progress view for a device.
func (s *Service) GetProgress(ctx context.Context, deviceID string) (*models.ProgressResponse, error) {
	user, err := s.ResolveUser(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	levels, err := s.store.ListLevels(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListUserProgress(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	view, total := BuildProgress(levels, rows)
	return &models.ProgressResponse{
		Progress:   view,
		TotalScore: total,
		UserID:     user.ID,
	}, nil
}

// LevelProgress returns the stored (user, level) row, or nil if the level has
// never been passed.
func (s *Service) LevelProgress(ctx context.Context, userID string, levelID int64) (*models.UserProgress, error) {
	return s.store.GetProgress(ctx, userID, levelID)
}

// RecordPass applies a passing score to the user's progress and standing
// inside tx. Both rows are read with row locks so concurrent passes by the
// same user serialize. It reports whether the leaderboard aggregate changed.
func RecordPass(ctx context.Context, tx database.DBTX, userID string, levelID int64, score int, now time.Time) (bool, error) {
	store := NewStore(tx)

	prev, err := store.GetProgressForUpdate(ctx, userID, levelID)
	if err != nil {
		return false, fmt.Errorf("lock progress: %w", err)
	}
	standing, err := store.GetStandingForUpdate(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("lock standing: %w", err)
	}

	next := NextProgress(prev, userID, levelID, score, now)
	if prev == nil {
		err = store.InsertProgress(ctx, next, now)
	} else {
		err = store.UpdateProgress(ctx, next, now)
	}
	if err != nil {
		return false, fmt.Errorf("save progress: %w", err)
	}

	nextStanding := NextStanding(standing, userID, score, now)
	if standing == nil {
		err = store.InsertStanding(ctx, nextStanding)
	} else {
		err = store.UpdateStanding(ctx, nextStanding)
	}
	if err != nil {
		return false, fmt.Errorf("save standing: %w", err)
	}

	changed := standing == nil ||
		standing.TotalScore != nextStanding.TotalScore ||
		standing.LevelsCompleted != nextStanding.LevelsCompleted
	return changed, nil
}
