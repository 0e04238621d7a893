package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/quizladder/backend/internal/models"
)

func TestSystemPrompt(t *testing.T) {
	prompt := SystemPrompt()

	required := []string{"Exactly 4 options", "ONE correct option", "JSON", "EXPLANATION"}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("system prompt missing keyword %q", keyword)
		}
	}
}

func TestBuildUserPrompt(t *testing.T) {
	level := models.Level{LevelNumber: 9, Name: "Quiz Veteran", Difficulty: "hard", TimeLimit: 20}
	prompt := BuildUserPrompt(level, 5, "geography")

	required := []string{"exactly 5", "Level: 9", "Quiz Veteran", "Difficulty: hard", "20 seconds", "Topic: geography", "correct_answer", "Specific facts"}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("user prompt missing keyword %q", keyword)
		}
	}
}

func TestBuildUserPrompt_MixedTopicAndUnknownDifficulty(t *testing.T) {
	level := models.Level{LevelNumber: 1, Name: "First Steps", Difficulty: "unknown", TimeLimit: 30}
	prompt := BuildUserPrompt(level, 3, "")

	if !strings.Contains(prompt, "Topic: mixed") {
		t.Error("expected mixed topic when none is given")
	}
	if !strings.Contains(prompt, difficultyGuidance["medium"]) {
		t.Error("expected medium guidance for an unknown difficulty")
	}
}

func TestMockClientRoundTrip(t *testing.T) {
	g := New(NewMockClient(), "mock")

	batch, resp, err := g.DraftQuestions(context.Background(), models.Level{LevelNumber: 1, Difficulty: "easy"}, 5, "")
	if err != nil {
		t.Fatalf("mock drafts should parse: %v", err)
	}
	if resp.PromptTokens == 0 {
		t.Error("expected token usage on mock response")
	}
	if len(batch.Questions) != len(mockFacts) {
		t.Errorf("expected %d questions, got %d", len(mockFacts), len(batch.Questions))
	}

	results := NewValidator(g.LLM()).ValidateBatch(context.Background(), batch)
	for i, r := range results {
		if !r.Matches || r.Confidence != "high" {
			t.Errorf("question %d: expected confident match from mock, got %+v", i+1, r)
		}
	}
}

type failingClient struct{}

func (failingClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	return nil, context.DeadlineExceeded
}

func TestValidateBatch_CallFailureIsLowConfidence(t *testing.T) {
	batch := &GeneratedBatch{Questions: []GeneratedQuestion{{
		Question:      "What is the capital of Indonesia?",
		Options:       []string{"Jakarta", "Bangkok", "Manila", "Hanoi"},
		CorrectAnswer: 2,
	}}}

	results := NewValidator(failingClient{}).ValidateBatch(context.Background(), batch)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if !r.Matches || r.Confidence != "low" || r.DraftedAnswer != 2 {
		t.Errorf("expected unverified low-confidence match, got %+v", r)
	}
}

func TestDraftQuestions_LLMError(t *testing.T) {
	g := New(failingClient{}, "stub")
	if _, _, err := g.DraftQuestions(context.Background(), models.Level{}, 1, ""); err == nil {
		t.Fatal("expected error when the model call fails")
	}
}
