package generator

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func validBatchJSON(count int) string {
	batch := GeneratedBatch{Questions: make([]GeneratedQuestion, count)}

	topics := []string{"rivers", "volcanoes", "painters", "composers", "planets", "alphabets", "deserts"}
	for i := 0; i < count; i++ {
		topic := topics[i%len(topics)]
		batch.Questions[i] = GeneratedQuestion{
			Question:      "Which of these " + topic + " is the best known example?",
			Options:       []string{"First " + topic, "Second " + topic, "Third " + topic, "Fourth " + topic},
			CorrectAnswer: i % 4,
			Explanation:   "It is the most widely cited of the " + topic + ".",
		}
	}

	data, _ := json.Marshal(batch)
	return string(data)
}

func singleQuestionJSON(q GeneratedQuestion) string {
	data, _ := json.Marshal(GeneratedBatch{Questions: []GeneratedQuestion{q}})
	return string(data)
}

func TestParseResponse_ValidJSON(t *testing.T) {
	batch, err := ParseResponse(validBatchJSON(6))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(batch.Questions) != 6 {
		t.Errorf("expected 6 questions, got %d", len(batch.Questions))
	}

	for i, q := range batch.Questions {
		if len(q.Options) != 4 {
			t.Errorf("question %d: expected 4 options, got %d", i+1, len(q.Options))
		}
		if q.CorrectAnswer != i%4 {
			t.Errorf("question %d: expected correct_answer %d, got %d", i+1, i%4, q.CorrectAnswer)
		}
	}
}

func TestParseResponse_MarkdownFences(t *testing.T) {
	input := "```json\n" + validBatchJSON(3) + "\n```"

	batch, err := ParseResponse(input)
	if err != nil {
		t.Fatalf("expected no error with markdown fences, got: %v", err)
	}

	if len(batch.Questions) != 3 {
		t.Errorf("expected 3 questions, got %d", len(batch.Questions))
	}
}

func TestParseResponse_WrongOptionCount(t *testing.T) {
	input := singleQuestionJSON(GeneratedQuestion{
		Question:      "What is the capital of Indonesia?",
		Options:       []string{"Jakarta", "Bangkok", "Manila"},
		CorrectAnswer: 0,
		Explanation:   "Jakarta is the capital.",
	})

	_, err := ParseResponse(input)
	assertValidationError(t, err, "expected 4 options")
}

func TestParseResponse_CorrectAnswerOutOfRange(t *testing.T) {
	input := singleQuestionJSON(GeneratedQuestion{
		Question:      "What is the capital of Indonesia?",
		Options:       []string{"Jakarta", "Bangkok", "Manila", "Hanoi"},
		CorrectAnswer: 4,
	})

	_, err := ParseResponse(input)
	assertValidationError(t, err, "outside range")
}

func TestParseResponse_EmptyOption(t *testing.T) {
	input := singleQuestionJSON(GeneratedQuestion{
		Question:      "What is the capital of Indonesia?",
		Options:       []string{"Jakarta", "  ", "Manila", "Hanoi"},
		CorrectAnswer: 0,
	})

	_, err := ParseResponse(input)
	assertValidationError(t, err, "option 2 is empty")
}

func TestParseResponse_EmptyQuestion(t *testing.T) {
	input := singleQuestionJSON(GeneratedQuestion{
		Options:       []string{"Jakarta", "Bangkok", "Manila", "Hanoi"},
		CorrectAnswer: 0,
	})

	_, err := ParseResponse(input)
	assertValidationError(t, err, "empty question text")
}

func TestParseResponse_NoQuestions(t *testing.T) {
	_, err := ParseResponse(`{"questions": []}`)
	assertValidationError(t, err, "no questions")
}

func TestParseResponse_MalformedJSON(t *testing.T) {
	_, err := ParseResponse(`{"questions": [`)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		t.Errorf("malformed JSON should not be a ValidationError, got: %v", err)
	}
}

func TestGeneratedQuestionInput(t *testing.T) {
	q := GeneratedQuestion{
		Question:      "What is the capital of Indonesia?",
		Options:       []string{"Jakarta", "Bangkok", "Manila", "Hanoi"},
		CorrectAnswer: 0,
		Explanation:   "Jakarta is the capital.",
	}

	in := q.Input(7)
	if in.Level != 7 {
		t.Errorf("expected level 7, got %d", in.Level)
	}
	if in.CorrectAnswer == nil || *in.CorrectAnswer != 0 {
		t.Errorf("expected correct answer 0, got %v", in.CorrectAnswer)
	}

	in.Options[0] = "changed"
	if q.Options[0] != "Jakarta" {
		t.Error("Input should copy options, not alias them")
	}
}

func TestJaccardSimilarity(t *testing.T) {
	a := tokenize("Which river flows through Cairo?")
	b := tokenize("Which river flows through Cairo?")
	if got := jaccardSimilarity(a, b); got != 1.0 {
		t.Errorf("identical questions: expected 1.0, got %f", got)
	}

	c := tokenize("Who composed the Moonlight Sonata?")
	if got := jaccardSimilarity(a, c); got != 0 {
		t.Errorf("unrelated questions: expected 0, got %f", got)
	}

	if got := jaccardSimilarity(map[string]bool{}, map[string]bool{}); got != 0 {
		t.Errorf("empty sets: expected 0, got %f", got)
	}
}

func TestParseResponse_SurroundingProse(t *testing.T) {
	input := "Here are your questions:\n" + validBatchJSON(2) + "\nGood luck!"

	batch, err := ParseResponse(input)
	if err != nil {
		t.Fatalf("expected prose to be ignored, got: %v", err)
	}
	if len(batch.Questions) != 2 {
		t.Errorf("expected 2 questions, got %d", len(batch.Questions))
	}
}

func TestAnswerSkew(t *testing.T) {
	qs := []GeneratedQuestion{{CorrectAnswer: 2}, {CorrectAnswer: 2}, {CorrectAnswer: 2}, {CorrectAnswer: 0}}
	if idx, count := answerSkew(qs); idx != 2 || count != 3 {
		t.Errorf("expected answer 2 used 3 times, got %d/%d", idx, count)
	}

	spread := []GeneratedQuestion{{CorrectAnswer: 0}, {CorrectAnswer: 1}, {CorrectAnswer: 2}, {CorrectAnswer: 3}}
	if _, count := answerSkew(spread); count != 0 {
		t.Errorf("expected no skew, got count %d", count)
	}
}

func TestIsDuplicate(t *testing.T) {
	bank := []string{"Which river flows through Cairo?", "Who composed the Moonlight Sonata?"}

	if !IsDuplicate("Which river flows through Cairo", bank) {
		t.Error("reworded punctuation should still be a duplicate")
	}
	if IsDuplicate("Which mountain is the tallest in Africa?", bank) {
		t.Error("unrelated question flagged as duplicate")
	}
	if IsDuplicate("anything", nil) {
		t.Error("empty bank has no duplicates")
	}
}

func assertValidationError(t *testing.T, err error, want string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected validation error containing %q", want)
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got: %T", err)
	}

	for _, e := range ve.Errors {
		if strings.Contains(e, want) {
			return
		}
	}
	t.Errorf("expected error containing %q, got: %v", want, ve.Errors)
}
