package questions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/quizladder/backend/internal/database"
	"github.com/quizladder/backend/internal/generator"
	"github.com/quizladder/backend/internal/models"
	"github.com/quizladder/backend/internal/progress"
)

const (
	defaultGenerateCount = 5
	maxGenerateCount     = 20
)

// ErrGeneratorUnavailable is returned when drafting is requested but no
// model backend is configured.
var ErrGeneratorUnavailable = errors.New("question generator not configured")

// InputError describes why a question payload was rejected.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

type Service struct {
	db        *database.DB
	store     *Store
	levels    *progress.Store
	generator *generator.Generator
	validator *generator.Validator
}

// NewService wires question management. gen may be nil, which disables
// drafting.
func NewService(db *database.DB, gen *generator.Generator) *Service {
	s := &Service{
		db:        db,
		store:     NewStore(db),
		levels:    progress.NewStore(db),
		generator: gen,
	}
	if gen != nil {
		s.validator = generator.NewValidator(gen.LLM())
	}
	return s
}

func (s *Service) List(ctx context.Context, levelID int64) ([]models.Question, error) {
	return s.store.List(ctx, levelID)
}

func (s *Service) Create(ctx context.Context, in models.QuestionInput) (*models.Question, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in models.QuestionInput) (*models.Question, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// validate normalizes in and checks it describes a complete question for an
// existing level.
func (s *Service) validate(ctx context.Context, in *models.QuestionInput) error {
	in.Normalize()
	if err := ValidateInput(*in); err != nil {
		return err
	}

	if _, err := s.levels.GetLevel(ctx, in.Level); err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			return &InputError{Message: fmt.Sprintf("level %d does not exist", in.Level)}
		}
		return fmt.Errorf("get level: %w", err)
	}
	return nil
}

// ValidateInput checks the shape of a question payload.
func ValidateInput(in models.QuestionInput) error {
	var problems []string

	if strings.TrimSpace(in.Question) == "" {
		problems = append(problems, "question text is required")
	}
	if len(in.Options) != models.OptionCount {
		problems = append(problems, fmt.Sprintf("exactly %d options are required", models.OptionCount))
	} else {
		for i, o := range in.Options {
			if strings.TrimSpace(o) == "" {
				problems = append(problems, fmt.Sprintf("option %d is empty", i+1))
			}
		}
	}
	if in.CorrectAnswer == nil {
		problems = append(problems, "correct_answer is required")
	} else if *in.CorrectAnswer < 0 || *in.CorrectAnswer >= models.OptionCount {
		problems = append(problems, "correct_answer must be between 0 and 3")
	}
	if in.Level <= 0 {
		problems = append(problems, "level is required")
	}

	if len(problems) > 0 {
		return &InputError{Message: strings.Join(problems, "; ")}
	}
	return nil
}

// Generate drafts questions for a level with the configured model, drops
// drafts that fail the quality bar and optionally saves the rest.
func (s *Service) Generate(ctx context.Context, req models.GenerateQuestionsRequest) (*models.GenerateQuestionsResponse, error) {
	if s.generator == nil {
		return nil, ErrGeneratorUnavailable
	}
	if req.Level <= 0 {
		return nil, &InputError{Message: "level is required"}
	}
	if req.Count <= 0 {
		req.Count = defaultGenerateCount
	}
	if req.Count > maxGenerateCount {
		return nil, &InputError{Message: fmt.Sprintf("count must be at most %d", maxGenerateCount)}
	}

	level, err := s.levels.GetLevel(ctx, req.Level)
	if errors.Is(err, progress.ErrNotFound) {
		return nil, &InputError{Message: fmt.Sprintf("level %d does not exist", req.Level)}
	}
	if err != nil {
		return nil, fmt.Errorf("get level: %w", err)
	}

	batch, llmResp, err := s.generator.DraftQuestions(ctx, *level, req.Count, strings.TrimSpace(req.Topic))
	if err != nil {
		return nil, err
	}
	if llmResp != nil {
		log.Printf("[questions] drafted %d questions for level %d (%d prompt / %d output tokens, model %s)",
			len(batch.Questions), level.LevelNumber, llmResp.PromptTokens, llmResp.OutputTokens, s.generator.ModelName())
	}

	if len(batch.Questions) > req.Count {
		batch.Questions = batch.Questions[:req.Count]
	}

	bank, err := s.store.List(ctx, level.ID)
	if err != nil {
		return nil, err
	}
	seen := make([]string, 0, len(bank)+len(batch.Questions))
	for _, q := range bank {
		seen = append(seen, q.Question)
	}

	verification := s.validator.ValidateBatch(ctx, batch)

	resp := &models.GenerateQuestionsResponse{
		Drafts:   []models.QuestionInput{},
		Rejected: []string{},
		Saved:    []models.Question{},
	}
	for i, q := range batch.Questions {
		if generator.IsDuplicate(q.Question, seen) {
			resp.Rejected = append(resp.Rejected, fmt.Sprintf("%q: duplicate", q.Question))
			continue
		}

		score := generator.ComputeQualityScore(&verification[i], generator.ComputeStructuralScore(q))
		if generator.ClassifyQuality(score) == generator.VerdictReject {
			resp.Rejected = append(resp.Rejected, fmt.Sprintf("%q: quality %.2f", q.Question, score))
			continue
		}

		in := q.Input(level.ID)
		in.Normalize()
		if err := ValidateInput(in); err != nil {
			resp.Rejected = append(resp.Rejected, fmt.Sprintf("%q: %v", q.Question, err))
			continue
		}
		resp.Drafts = append(resp.Drafts, in)
		seen = append(seen, in.Question)
	}

	if !req.Save || len(resp.Drafts) == 0 {
		return resp, nil
	}

	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		store := NewStore(tx)
		for _, in := range resp.Drafts {
			q, err := store.Create(ctx, in)
			if err != nil {
				return err
			}
			resp.Saved = append(resp.Saved, *q)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save drafts: %w", err)
	}
	log.Printf("[questions] saved %d generated questions for level %d", len(resp.Saved), level.LevelNumber)
	return resp, nil
}
