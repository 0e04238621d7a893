package generator

import "strings"

// Verdict is the quality band of a draft.
type Verdict string

const (
	VerdictReject  Verdict = "reject"
	VerdictFlagged Verdict = "flagged"
	VerdictPassed  Verdict = "passed"
)

const (
	verificationWeight = 0.6
	structuralWeight   = 0.4

	// unverifiedScore applies when the second opinion is missing or unsure.
	unverifiedScore = 0.4
)

var confidenceScores = map[string]float64{
	"high":   1.0,
	"medium": 0.7,
}

// StructuralScore holds the individual structural checks for one draft.
type StructuralScore struct {
	QuestionLengthOK   bool
	OptionsDistinct    bool
	OptionsShort       bool
	ExplanationPresent bool
}

// Fraction is the share of checks that passed.
func (s StructuralScore) Fraction() float64 {
	passed := 0
	for _, ok := range []bool{s.QuestionLengthOK, s.OptionsDistinct, s.OptionsShort, s.ExplanationPresent} {
		if ok {
			passed++
		}
	}
	return float64(passed) / 4
}

func ComputeStructuralScore(q GeneratedQuestion) StructuralScore {
	n := len(strings.TrimSpace(q.Question))
	s := StructuralScore{
		QuestionLengthOK:   n >= 10 && n <= 200,
		OptionsDistinct:    true,
		OptionsShort:       true,
		ExplanationPresent: strings.TrimSpace(q.Explanation) != "",
	}

	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		key := strings.ToLower(strings.TrimSpace(o))
		s.OptionsDistinct = s.OptionsDistinct && !seen[key]
		s.OptionsShort = s.OptionsShort && len(o) <= 80
		seen[key] = true
	}
	return s
}

// ComputeQualityScore blends the second-opinion check with the structural
// checks into a score in [0, 1]. A disagreeing second opinion zeroes the
// verification part.
func ComputeQualityScore(vr *ValidationResult, structural StructuralScore) float64 {
	verification := unverifiedScore
	if vr != nil {
		if !vr.Matches {
			verification = 0
		} else if c, ok := confidenceScores[vr.Confidence]; ok {
			verification = c
		}
	}
	return verification*verificationWeight + structural.Fraction()*structuralWeight
}

// ClassifyQuality bands a score: below 0.5 is rejected, up to 0.7 is flagged.
func ClassifyQuality(score float64) Verdict {
	switch {
	case score < 0.5:
		return VerdictReject
	case score <= 0.7:
		return VerdictFlagged
	default:
		return VerdictPassed
	}
}
