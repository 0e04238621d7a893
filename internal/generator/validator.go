package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// Validator asks a model to answer each draft blind and compares its pick
// with the drafted answer key.
type Validator struct {
	llm LLMClient
}

func NewValidator(llm LLMClient) *Validator {
	return &Validator{llm: llm}
}

type ValidationResult struct {
	QuestionIndex  int    `json:"question_index"`
	SelectedAnswer int    `json:"selected_answer"`
	DraftedAnswer  int    `json:"drafted_answer"`
	Matches        bool   `json:"matches"`
	Confidence     string `json:"confidence"`
	Reasoning      string `json:"reasoning"`
	PromptTokens   int    `json:"prompt_tokens"`
	OutputTokens   int    `json:"output_tokens"`
}

type verificationResponse struct {
	SelectedAnswer int    `json:"selected_answer"`
	Confidence     string `json:"confidence"`
	Reasoning      string `json:"reasoning"`
}

// ValidateBatch verifies every draft. A failed call is recorded as an
// unverified low-confidence match rather than aborting the batch.
func (v *Validator) ValidateBatch(ctx context.Context, batch *GeneratedBatch) []ValidationResult {
	results := make([]ValidationResult, 0, len(batch.Questions))

	for i, q := range batch.Questions {
		vr, err := v.ValidateQuestion(ctx, q)
		if err != nil {
			log.Printf("[generator] WARN: verification failed for question %d: %v", i+1, err)
			vr = &ValidationResult{
				SelectedAnswer: q.CorrectAnswer,
				Confidence:     "low",
				Reasoning:      fmt.Sprintf("verification error: %v", err),
			}
		}
		vr.QuestionIndex = i
		vr.DraftedAnswer = q.CorrectAnswer
		vr.Matches = vr.SelectedAnswer == q.CorrectAnswer
		results = append(results, *vr)
	}

	return results
}

func (v *Validator) ValidateQuestion(ctx context.Context, q GeneratedQuestion) (*ValidationResult, error) {
	resp, err := v.llm.Generate(ctx, verificationSystemPrompt, buildVerificationPrompt(q))
	if err != nil {
		return nil, fmt.Errorf("verification call failed: %w", err)
	}

	var vResp verificationResponse
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &vResp); err != nil {
		return nil, fmt.Errorf("failed to parse verification response: %w", err)
	}

	return &ValidationResult{
		SelectedAnswer: vResp.SelectedAnswer,
		Confidence:     strings.ToLower(strings.TrimSpace(vResp.Confidence)),
		Reasoning:      vResp.Reasoning,
		PromptTokens:   resp.PromptTokens,
		OutputTokens:   resp.OutputTokens,
	}, nil
}

const verificationSystemPrompt = `You are a meticulous quiz editor checking trivia questions before publication. Answer the question yourself, then say how sure you are. Respond with JSON only.`

func buildVerificationPrompt(q GeneratedQuestion) string {
	var sb strings.Builder

	sb.WriteString("QUESTION:\n")
	sb.WriteString(q.Question)
	sb.WriteString("\n\nOPTIONS:\n")

	for i, o := range q.Options {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i, o))
	}

	sb.WriteString(`
Select the single correct option by its number. Respond with JSON only:
{
  "selected_answer": 1,
  "confidence": "high",
  "reasoning": "One or two sentences."
}

confidence must be one of: "high", "medium", "low"`)

	return sb.String()
}
