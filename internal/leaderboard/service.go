package leaderboard

import (
	"context"
	"log"

	"github.com/quizladder/backend/internal/database"
	"github.com/quizladder/backend/internal/models"
)

type Service struct {
	store *Store
	cache Cache
}

// NewService returns the leaderboard reader. cache may be nil.
func NewService(db *database.DB, cache Cache) *Service {
	return &Service{store: NewStore(db), cache: cache}
}

// Top returns the ranked list. Store failures yield an empty list so the
// page always renders.
func (s *Service) Top(ctx context.Context) []models.LeaderboardEntry {
	if s.cache != nil {
		if entries, ok := s.cache.Get(ctx); ok {
			return entries
		}
	}

	entries, err := s.store.Top(ctx, MaxEntries)
	if err != nil {
		log.Printf("[leaderboard] Top error: %v", err)
		return []models.LeaderboardEntry{}
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	if s.cache != nil {
		s.cache.Set(ctx, entries)
	}
	return entries
}

// Invalidate drops any cached list.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
