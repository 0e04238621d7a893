package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/quizladder/backend/internal/config"
	"github.com/quizladder/backend/internal/models"
)

// LLMClient is the interface both drafting backends satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator drafts trivia questions for a level through an LLMClient.
type Generator struct {
	llm   LLMClient
	model string
}

// New returns a Generator backed by llm. Tests pass a stub client here.
func New(llm LLMClient, model string) *Generator {
	return &Generator{llm: llm, model: model}
}

// NewFromConfig picks the mock or the Anthropic backend. It returns nil when
// neither is configured, in which case drafting is unavailable.
func NewFromConfig(cfg *config.Config) *Generator {
	switch {
	case cfg.MockGenerator:
		log.Println("[generator] using mock data")
		return New(NewMockClient(), "mock")
	case cfg.AnthropicAPIKey != "":
		log.Printf("[generator] using Anthropic API: %s", cfg.AnthropicModel)
		return New(NewAPIClient(cfg.AnthropicAPIKey, cfg.AnthropicModel), cfg.AnthropicModel)
	default:
		log.Println("[generator] disabled: ANTHROPIC_API_KEY not set")
		return nil
	}
}

func (g *Generator) ModelName() string {
	return g.model
}

// LLM exposes the underlying client so a Validator can share it.
func (g *Generator) LLM() LLMClient {
	return g.llm
}

// DraftQuestions asks the model for count questions pitched at level.
func (g *Generator) DraftQuestions(ctx context.Context, level models.Level, count int, topic string) (*GeneratedBatch, *LLMResponse, error) {
	resp, err := g.llm.Generate(ctx, SystemPrompt(), BuildUserPrompt(level, count, topic))
	if err != nil {
		return nil, nil, fmt.Errorf("draft questions: %w", err)
	}

	batch, err := ParseResponse(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse drafts: %w", err)
	}

	return batch, resp, nil
}

// APIClient talks to the Anthropic Messages API.
type APIClient struct {
	client   anthropic.Client
	model    string
	attempts int
	backoff  time.Duration
}

func NewAPIClient(apiKey, model string) *APIClient {
	return &APIClient{
		client:   anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:    model,
		attempts: 2,
		backoff:  2 * time.Second,
	}
}

// Generate sends one system+user exchange and returns the concatenated text
// blocks of the reply.
func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	message, err := c.send(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		Temperature: param.NewOpt(0.7),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, errors.New("anthropic reply has no text content")
	}

	return &LLMResponse{
		Content:      text.String(),
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) send(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var err error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		var message *anthropic.Message
		if message, err = c.client.Messages.New(ctx, params); err == nil {
			return message, nil
		}
		log.Printf("[generator] anthropic call %d/%d failed: %v", attempt, c.attempts, err)
		if attempt == c.attempts {
			break
		}

		select {
		case <-time.After(c.backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("anthropic messages: %w", err)
}

// MockClient serves canned drafts for local development and tests.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

// Generate answers drafting prompts with a fixed batch and verification
// prompts with a confident pick of the first listed option.
func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	if systemPrompt == verificationSystemPrompt {
		return &LLMResponse{
			Content:      `{"selected_answer": 0, "confidence": "high", "reasoning": "[Mock] first option"}`,
			PromptTokens: 200,
			OutputTokens: 40,
		}, nil
	}
	return &LLMResponse{
		Content:      buildMockJSON(),
		PromptTokens: 600,
		OutputTokens: 900,
	}, nil
}

var mockFacts = []struct {
	question string
	options  []string
}{
	{"Which planet is closest to the Sun?", []string{"Mercury", "Venus", "Earth", "Mars"}},
	{"What is the chemical symbol for gold?", []string{"Au", "Ag", "Gd", "Go"}},
	{"How many continents are there?", []string{"Seven", "Five", "Six", "Eight"}},
	{"Which ocean is the largest?", []string{"Pacific", "Atlantic", "Indian", "Arctic"}},
	{"Who painted the Mona Lisa?", []string{"Leonardo da Vinci", "Michelangelo", "Raphael", "Donatello"}},
}

// buildMockJSON renders mockFacts as a drafting reply. The first option is
// always correct.
func buildMockJSON() string {
	batch := GeneratedBatch{Questions: make([]GeneratedQuestion, len(mockFacts))}
	for i, f := range mockFacts {
		batch.Questions[i] = GeneratedQuestion{
			Question:    "[Mock] " + f.question,
			Options:     f.options,
			Explanation: "[Mock] " + f.options[0] + " is the accepted answer.",
		}
	}
	data, _ := json.Marshal(batch)
	return string(data)
}
