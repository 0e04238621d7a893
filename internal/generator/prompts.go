package generator

import (
	"fmt"

	"github.com/quizladder/backend/internal/models"
)

// difficultyGuidance describes what each tier should feel like to a player.
var difficultyGuidance = map[string]string{
	"easy": `- Common knowledge most adults would know
- One clearly correct option, distractors obviously wrong on reflection
- Short questions that can be read in a few seconds`,
	"medium": `- General knowledge a regular quiz player would know
- At least one distractor that is genuinely tempting
- Avoid trick wording`,
	"hard": `- Specific facts: dates, names, places, numbers
- Two plausible distractors from the same category as the answer
- Still answerable in under twenty seconds`,
	"expert": `- Specialist knowledge across science, history, geography and culture
- All three distractors plausible to a well-read player
- Keep wording short: the time limit at this tier is tight`,
}

func SystemPrompt() string {
	return `You write multiple-choice trivia questions for a mobile quiz game with twelve levels of increasing difficulty.

QUESTION:
- One sentence, ending with a question mark
- Self-contained: no images, no references to other questions
- Facts must be stable and verifiable; avoid anything that changes year to year

OPTIONS:
- Exactly 4 options
- Exactly ONE correct option
- Options are short: a word, a name, a number, or a brief phrase
- No "all of the above" or "none of the above"
- Vary the position of the correct option across the batch

EXPLANATION:
- One or two sentences stating why the correct option is right

TOPICS:
- Mix science, history, geography, arts, sport, language and nature
- No two questions in a batch about the same subject

You must respond with valid JSON only. No markdown, no explanation outside the JSON.`
}

// BuildUserPrompt asks for count questions pitched at level, optionally about topic.
func BuildUserPrompt(level models.Level, count int, topic string) string {
	guidance, ok := difficultyGuidance[level.Difficulty]
	if !ok {
		guidance = difficultyGuidance["medium"]
	}

	topicLine := "Topic: mixed"
	if topic != "" {
		topicLine = "Topic: " + topic
	}

	return fmt.Sprintf(`Generate exactly %d trivia questions.

Level: %d (%s)
Difficulty: %s
Time per question: %d seconds
%s

Difficulty guidance:
%s

Respond with this exact JSON structure:
{
  "questions": [
    {
      "question": "...",
      "options": ["...", "...", "...", "..."],
      "correct_answer": 2,
      "explanation": "..."
    }
  ]
}

Requirements:
- "correct_answer" is the zero-based index of the correct option (0 to 3)
- The correct answer position distribution across the batch should be roughly uniform`,
		count, level.LevelNumber, level.Name, level.Difficulty, level.TimeLimit, topicLine, guidance)
}
