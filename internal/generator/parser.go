package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/quizladder/backend/internal/models"
)

// DuplicateThreshold is the keyword overlap at which two question texts are
// treated as the same question.
const DuplicateThreshold = 0.8

type GeneratedBatch struct {
	Questions []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Input converts a draft into the admin create payload.
func (q GeneratedQuestion) Input(levelID int64) models.QuestionInput {
	correct := q.CorrectAnswer
	return models.QuestionInput{
		Question:      q.Question,
		Options:       append([]string(nil), q.Options...),
		CorrectAnswer: &correct,
		Level:         levelID,
		Explanation:   q.Explanation,
	}
}

// problems lists the structural defects of a single draft.
func (q GeneratedQuestion) problems() []string {
	var out []string
	if strings.TrimSpace(q.Question) == "" {
		out = append(out, "empty question text")
	}
	if len(q.Options) != models.OptionCount {
		return append(out, fmt.Sprintf("expected %d options, got %d", models.OptionCount, len(q.Options)))
	}
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			out = append(out, fmt.Sprintf("option %d is empty", i+1))
		}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= models.OptionCount {
		out = append(out, fmt.Sprintf("correct_answer %d outside range [0, %d]", q.CorrectAnswer, models.OptionCount-1))
	}
	return out
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseResponse decodes a model reply into a batch. Any prose or code fence
// around the JSON object is ignored. A structurally broken draft fails the
// whole batch.
func ParseResponse(raw string) (*GeneratedBatch, error) {
	var batch GeneratedBatch
	if err := json.Unmarshal([]byte(extractJSON(raw)), &batch); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if len(batch.Questions) == 0 {
		return nil, &ValidationError{Errors: []string{"no questions in batch"}}
	}

	var errs []string
	for i, q := range batch.Questions {
		for _, p := range q.problems() {
			errs = append(errs, fmt.Sprintf("question %d: %s", i+1, p))
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	if idx, count := answerSkew(batch.Questions); count > 0 {
		log.Printf("[generator] correct answer %d used by %d of %d drafts", idx, count, len(batch.Questions))
	}
	return &batch, nil
}

// extractJSON returns the outermost {...} span of s, or s trimmed when it
// has none.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return strings.TrimSpace(s)
	}
	return s[start : end+1]
}

// answerSkew reports the answer index used by a majority of a batch of more
// than two drafts. count is 0 when the answers are spread out.
func answerSkew(qs []GeneratedQuestion) (idx, count int) {
	counts := make(map[int]int)
	for _, q := range qs {
		counts[q.CorrectAnswer]++
	}
	for i, c := range counts {
		if c > 2 && c*2 > len(qs) && c > count {
			idx, count = i, c
		}
	}
	return idx, count
}

// IsDuplicate reports whether text matches any of existing closely enough to
// be the same question.
func IsDuplicate(text string, existing []string) bool {
	tokens := tokenize(text)
	for _, e := range existing {
		if jaccardSimilarity(tokens, tokenize(e)) >= DuplicateThreshold {
			return true
		}
	}
	return false
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.Trim(word, "?.,!;:\"'()[]")
		// Skip short filler words.
		if len(word) > 3 {
			tokens[word] = true
		}
	}
	return tokens
}

func jaccardSimilarity(a, b map[string]bool) float64 {
	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
