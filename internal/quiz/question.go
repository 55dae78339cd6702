// Package quiz holds the interview quiz domain: generated questions,
// scoring, and the per-user session state machine with per-question
// countdowns.
package quiz

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	CategoryTechnical   = "Technical"
	CategoryBehavioral  = "Behavioral"
	CategorySituational = "Situational"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	QuestionsPerQuiz        = 10
	OptionsPerQuestion      = 4
	DefaultQuestionDuration = 60 * time.Second
)

// DefaultHint replaces generated hints that leak the correct answer.
const DefaultHint = "Think carefully about the core concept being tested and eliminate options that don't fit."

type Question struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Hint          string   `json:"hint"`
	Explanation   string   `json:"explanation"`
}

func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// HintRevealsAnswer reports whether the hint quotes the correct answer as
// a whole word or phrase, ignoring case.
func (q Question) HintRevealsAnswer() bool {
	answer := strings.ToLower(strings.TrimSpace(q.CorrectAnswer))
	if answer == "" {
		return false
	}
	hint := strings.ToLower(q.Hint)
	for from := 0; ; {
		i := strings.Index(hint[from:], answer)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(answer)
		if !wordRune(hint, start-1) && !wordRune(hint, end) {
			return true
		}
		from = start + 1
	}
}

// wordRune reports whether the byte at i is a letter or digit; positions
// outside s are not.
func wordRune(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	r := rune(s[i])
	return unicode.IsLetter(r) || unicode.IsDigit(r) || s[i] >= utf8.RuneSelf
}

func ValidCategory(c string) bool {
	switch c {
	case CategoryTechnical, CategoryBehavioral, CategorySituational:
		return true
	}
	return false
}

func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// NormalizeCategory maps an empty category to Technical.
func NormalizeCategory(c string) string {
	if c == "" {
		return CategoryTechnical
	}
	return c
}

// NormalizeDifficulty maps an empty difficulty to medium.
func NormalizeDifficulty(d string) string {
	if d == "" {
		return DifficultyMedium
	}
	return d
}

// CorrectCount counts answers equal to their question's correct answer.
// Missing and nil answers count as incorrect.
func CorrectCount(questions []Question, answers []*string) int {
	correct := 0
	for i, q := range questions {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		if *answers[i] == q.CorrectAnswer {
			correct++
		}
	}
	return correct
}

// Score returns the percentage of correctly answered questions.
func Score(questions []Question, answers []*string) float64 {
	if len(questions) == 0 {
		return 0
	}
	return float64(CorrectCount(questions, answers)*100) / float64(len(questions))
}
