package quiz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tenQuestions() []Question {
	qs := make([]Question, QuestionsPerQuiz)
	for i := range qs {
		qs[i] = Question{
			Question:      fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "B",
			Hint:          "Think about it.",
			Explanation:   "B is right.",
		}
	}
	return qs
}

func strPtr(s string) *string { return &s }

func TestScore_AllCorrectCounts(t *testing.T) {
	qs := tenQuestions()
	for k := 0; k <= QuestionsPerQuiz; k++ {
		answers := make([]*string, len(qs))
		for i := range answers {
			switch {
			case i < k:
				answers[i] = strPtr("B")
			case i%2 == 0:
				answers[i] = nil
			default:
				answers[i] = strPtr("C")
			}
		}
		assert.Equal(t, float64(k*10), Score(qs, answers), "k=%d", k)
	}
}

func TestScore_ShortAnswerVectorCountsMissingAsWrong(t *testing.T) {
	qs := tenQuestions()
	assert.Equal(t, 20.0, Score(qs, []*string{strPtr("B"), strPtr("B")}))
}

func TestScore_NoPartialCredit(t *testing.T) {
	qs := tenQuestions()
	answers := []*string{strPtr("b"), strPtr(" B"), strPtr("B ")}
	assert.Equal(t, 0.0, Score(qs, answers))
}

func TestScore_EmptyQuiz(t *testing.T) {
	assert.Equal(t, 0.0, Score(nil, nil))
}

func TestHintRevealsAnswer(t *testing.T) {
	q := Question{CorrectAnswer: "Dependency Injection", Hint: "Think about dependency injection."}
	assert.True(t, q.HintRevealsAnswer())

	q.Hint = "Consider how objects obtain their collaborators."
	assert.False(t, q.HintRevealsAnswer())

	// Single letter answers only count as whole words.
	q = Question{CorrectAnswer: "B", Hint: "Think about it."}
	assert.False(t, q.HintRevealsAnswer())
	q.Hint = "It is option b."
	assert.True(t, q.HintRevealsAnswer())
}

func TestNormalizeAndValidate(t *testing.T) {
	assert.Equal(t, CategoryTechnical, NormalizeCategory(""))
	assert.Equal(t, DifficultyMedium, NormalizeDifficulty(""))
	assert.True(t, ValidCategory(CategorySituational))
	assert.False(t, ValidCategory("technical"))
	assert.True(t, ValidDifficulty(DifficultyHard))
	assert.False(t, ValidDifficulty("Hard"))
}
