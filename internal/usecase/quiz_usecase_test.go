package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fadilmartias/career-coach/internal/apperror"
	"github.com/fadilmartias/career-coach/internal/dto"
	"github.com/fadilmartias/career-coach/internal/model"
	"github.com/fadilmartias/career-coach/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuizUsecase(f *fixture, gen *fakeGenerator, now time.Time) *QuizUsecase {
	uc := NewQuizUsecase(f.users, f.assessments, gen, quiz.NewMemorySessionStore(time.Hour), 0, f.log)
	uc.now = fixedClock(now)
	return uc
}

func answers(vals ...string) []*string {
	out := make([]*string, len(vals))
	for i := range vals {
		if vals[i] != "" {
			v := vals[i]
			out[i] = &v
		}
	}
	return out
}

func TestGenerateQuiz(t *testing.T) {
	f := newFixture(t)
	gen := routed(t, "", nil)
	uc := newQuizUsecase(f, gen, day0)
	f.onboardedUser(t, "dev", "tech-software", "Go", "SQL")

	qs, err := uc.GenerateQuiz(context.Background(), "dev", "", "")
	require.NoError(t, err)
	assert.Len(t, qs, 10)
	assert.Contains(t, gen.lastPrompt(), "Generate 10 medium difficulty technical interview questions for a tech-software professional with expertise in Go, SQL.")

	_, err = uc.GenerateQuiz(context.Background(), "dev", "Trivia", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestGenerateQuiz_RejectsMalformedSets(t *testing.T) {
	nine := quizQuestions()[:9]
	badAnswer := quizQuestions()
	badAnswer[3].CorrectAnswer = "E"
	threeOptions := quizQuestions()
	threeOptions[0].Options = []string{"A", "B", "C"}

	cases := map[string]string{
		"nine questions":    quizJSON(t, nine),
		"answer not option": quizJSON(t, badAnswer),
		"three options":     quizJSON(t, threeOptions),
		"not json":          "here are your questions",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			uc := newQuizUsecase(f, fixed(text), day0)
			f.onboardedUser(t, "dev", "tech-software")

			_, err := uc.GenerateQuiz(context.Background(), "dev", "Technical", "easy")
			assert.ErrorIs(t, err, apperror.ErrGeneration)
		})
	}
}

func TestGenerateQuiz_ReplacesLeakingHints(t *testing.T) {
	qs := quizQuestions()
	qs[0].CorrectAnswer = "Goroutine"
	qs[0].Options = []string{"Thread", "Goroutine", "Process", "Fiber"}
	qs[0].Hint = "The answer is Goroutine."
	qs[1].Hint = ""
	f := newFixture(t)
	uc := newQuizUsecase(f, fixed(quizJSON(t, qs)), day0)
	f.onboardedUser(t, "dev", "tech-software")

	got, err := uc.GenerateQuiz(context.Background(), "dev", "", "")
	require.NoError(t, err)
	assert.Equal(t, quiz.DefaultHint, got[0].Hint)
	assert.Equal(t, quiz.DefaultHint, got[1].Hint)
	assert.Equal(t, "Think about the trade-offs.", got[2].Hint)
}

func TestSubmitQuiz_ScoresAndAttachesTip(t *testing.T) {
	f := newFixture(t)
	gen := routed(t, "```json\n{\"improvementTip\": \"Review concurrency primitives.\"}\n```", nil)
	uc := newQuizUsecase(f, gen, day0)
	f.onboardedUser(t, "dev", "tech-software")

	clientScore := 99.0
	timeSpent := 240
	a, err := uc.SubmitQuiz(context.Background(), "dev", dto.SubmitQuizRequest{
		Questions:  quizQuestions(),
		Answers:    answers("B", "B", "B", "B", "B", "B", "B", "A"),
		Score:      &clientScore,
		Category:   "Behavioral",
		Difficulty: "hard",
		TimeSpent:  &timeSpent,
	})
	require.NoError(t, err)
	assert.Equal(t, 70.0, a.QuizScore)
	assert.Equal(t, "Behavioral", a.Category)
	assert.Equal(t, 240, *a.TimeSpent)
	require.NotNil(t, a.ImprovementTip)
	assert.Equal(t, "Review concurrency primitives.", *a.ImprovementTip)

	require.Len(t, a.Questions, 10)
	assert.True(t, a.Questions[0].IsCorrect)
	assert.False(t, a.Questions[7].IsCorrect)
	assert.Nil(t, a.Questions[9].UserAnswer)

	// The tip prompt lists the three wrong answers, skipped ones as Skipped.
	tipPrompt := gen.lastPrompt()
	assert.Contains(t, tipPrompt, "tech-software behavioral interview questions wrong (difficulty: hard)")
	assert.Contains(t, tipPrompt, "User Answer: \"A\"")
	assert.Contains(t, tipPrompt, "User Answer: \"Skipped\"")

	stored, err := uc.ListAssessments(context.Background(), "dev")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, a.ID, stored[0].ID)
}

func TestSubmitQuiz_PerfectScoreSkipsTip(t *testing.T) {
	f := newFixture(t)
	gen := routed(t, "unused", nil)
	uc := newQuizUsecase(f, gen, day0)
	f.onboardedUser(t, "dev", "tech-software")

	a, err := uc.SubmitQuiz(context.Background(), "dev", dto.SubmitQuizRequest{
		Questions: quizQuestions(),
		Answers:   answers("B", "B", "B", "B", "B", "B", "B", "B", "B", "B"),
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, a.QuizScore)
	assert.Nil(t, a.ImprovementTip)
	assert.Zero(t, gen.calls.Load())
	assert.Equal(t, quiz.CategoryTechnical, a.Category)
	assert.Equal(t, quiz.DifficultyMedium, a.Difficulty)
}

func TestSubmitQuiz_TipFailureStillSaves(t *testing.T) {
	f := newFixture(t)
	uc := newQuizUsecase(f, routed(t, "", errProvider), day0)
	f.onboardedUser(t, "dev", "tech-software")

	a, err := uc.SubmitQuiz(context.Background(), "dev", dto.SubmitQuizRequest{Questions: quizQuestions()})
	require.NoError(t, err)
	assert.Equal(t, 0.0, a.QuizScore)
	assert.Nil(t, a.ImprovementTip)
}

func TestSubmitQuiz_Validation(t *testing.T) {
	f := newFixture(t)
	uc := newQuizUsecase(f, routed(t, "", nil), day0)
	f.onboardedUser(t, "dev", "tech-software")
	ctx := context.Background()

	_, err := uc.SubmitQuiz(ctx, "dev", dto.SubmitQuizRequest{})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = uc.SubmitQuiz(ctx, "dev", dto.SubmitQuizRequest{
		Questions: quizQuestions()[:1],
		Answers:   answers("B", "B"),
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = uc.SubmitQuiz(ctx, "ghost", dto.SubmitQuizRequest{Questions: quizQuestions()})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestExtractTip(t *testing.T) {
	assert.Equal(t, "Practice joins.", extractTip(`{"improvementTip": " Practice joins. "}`))
	assert.Equal(t, "Practice joins.", extractTip("  Practice joins.\n"))
	assert.Equal(t, "", extractTip("```json\n```"))
}

func TestComputeStats(t *testing.T) {
	assert.Equal(t, 0, ComputeStats(nil).TotalAssessments)
	assert.Nil(t, ComputeStats(nil).Improvement)

	qs := make([]model.QuestionResult, 10)
	rows := []model.Assessment{
		{QuizScore: 40, Category: "Technical", Questions: qs},
		{QuizScore: 80, Category: "Behavioral", Questions: qs},
		{QuizScore: 60, Category: "Technical", Questions: qs},
	}
	s := ComputeStats(rows)
	assert.Equal(t, 3, s.TotalAssessments)
	assert.InDelta(t, 60.0, s.AverageScore, 1e-9)
	assert.Equal(t, 30, s.QuestionsPracticed)
	assert.Equal(t, 60.0, *s.LatestScore)
	require.Len(t, s.Categories, 2)
	assert.Equal(t, "Behavioral", s.Strongest.Category)
	assert.Equal(t, "Technical", s.Weakest.Category)
	assert.Equal(t, 50.0, s.Weakest.AverageScore)
	assert.InDelta(t, 50.0, *s.Improvement, 1e-9)

	// A first score of zero is treated as one.
	s = ComputeStats([]model.Assessment{{QuizScore: 0}, {QuizScore: 30}})
	assert.InDelta(t, 3000.0, *s.Improvement, 1e-9)
}

func TestPageAssessments(t *testing.T) {
	f := newFixture(t)
	uc := newQuizUsecase(f, routed(t, "", nil), day0)
	u := f.onboardedUser(t, "dev", "tech-software")
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, f.assessments.Create(ctx, &model.Assessment{
			UserID: u.ID, QuizScore: float64(i), CreatedAt: day0.Add(time.Duration(i) * time.Minute),
		}))
	}

	rows, page, err := uc.PageAssessments(ctx, "dev", 1, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(3), page.TotalItems)
	assert.True(t, page.HasMore)

	stats, err := uc.Stats(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, 2.0, *stats.LatestScore)
}

func TestSession_FullFlow(t *testing.T) {
	f := newFixture(t)
	uc := newQuizUsecase(f, routed(t, `{"improvementTip": "Keep going."}`, nil), day0)
	f.onboardedUser(t, "dev", "tech-software")
	ctx := context.Background()

	view, err := uc.StartSession(ctx, "dev", dto.StartSessionRequest{Category: "Situational", Difficulty: "easy"})
	require.NoError(t, err)
	assert.Equal(t, quiz.PhaseActive, view.Phase)
	assert.Equal(t, 60, view.RemainingSeconds)
	assert.Empty(t, view.Questions[0].CorrectAnswer)
	id := view.ID

	uc.now = fixedClock(day0.Add(10 * time.Second))
	view, err = uc.Answer(ctx, "dev", id, "B")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Answered)

	hint, err := uc.Hint(ctx, "dev", id)
	require.NoError(t, err)
	assert.Equal(t, "Think about the trade-offs.", hint)

	next := 1
	_, err = uc.Navigate(ctx, "dev", id, dto.NavigateRequest{Index: &next})
	require.NoError(t, err)

	// Question 1 expires 60s after it was entered; the session moves on.
	uc.now = fixedClock(day0.Add(71 * time.Second))
	view, err = uc.GetSession(ctx, "dev", id)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Current)
	assert.True(t, view.Questions[1].Locked)

	_, err = uc.Navigate(ctx, "dev", id, dto.NavigateRequest{Direction: "previous"})
	require.NoError(t, err)
	_, err = uc.Answer(ctx, "dev", id, "B")
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = uc.Answer(ctx, "other-user", id, "B")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	uc.now = fixedClock(day0.Add(100 * time.Second))
	a, view, err := uc.FinishSession(ctx, "dev", id)
	require.NoError(t, err)
	assert.Equal(t, 10.0, a.QuizScore)
	assert.Equal(t, "Situational", a.Category)
	assert.Equal(t, 100, *a.TimeSpent)
	assert.Equal(t, "Keep going.", *a.ImprovementTip)
	assert.Equal(t, a.ID.String(), view.AssessmentID)
	assert.Equal(t, "B", view.Questions[0].CorrectAnswer)

	_, _, err = uc.FinishSession(ctx, "dev", id)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	rows, err := uc.ListAssessments(ctx, "dev")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStartSession_GenerationFailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	store := quiz.NewMemorySessionStore(time.Hour)
	uc := NewQuizUsecase(f.users, f.assessments, failing(), store, 0, f.log)
	f.onboardedUser(t, "dev", "tech-software")

	_, err := uc.StartSession(context.Background(), "dev", dto.StartSessionRequest{})
	assert.ErrorIs(t, err, apperror.ErrGeneration)

	_, err = uc.StartSession(context.Background(), "dev", dto.StartSessionRequest{Category: "Trivia"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestSessionView_JSONHidesAnswers(t *testing.T) {
	f := newFixture(t)
	uc := newQuizUsecase(f, routed(t, "", nil), day0)
	f.onboardedUser(t, "dev", "tech-software")

	view, err := uc.StartSession(context.Background(), "dev", dto.StartSessionRequest{})
	require.NoError(t, err)
	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correctAnswer")
	assert.NotContains(t, string(raw), "explanation")
}

func TestFinishSession_ConcurrentFinishersSaveOnce(t *testing.T) {
	f := newFixture(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	gen := &fakeGenerator{respond: func(p string) (string, error) {
		if strings.Contains(p, "improvementTip") {
			close(entered)
			<-release
			return `{"improvementTip": "Slow down."}`, nil
		}
		return quizJSON(t, quizQuestions()), nil
	}}
	uc := newQuizUsecase(f, gen, day0)
	f.onboardedUser(t, "dev", "tech-software")
	ctx := context.Background()

	view, err := uc.StartSession(ctx, "dev", dto.StartSessionRequest{})
	require.NoError(t, err)

	type result struct {
		a   *model.Assessment
		err error
	}
	first := make(chan result, 1)
	go func() {
		a, _, err := uc.FinishSession(ctx, "dev", view.ID)
		first <- result{a, err}
	}()

	<-entered
	_, _, err = uc.FinishSession(ctx, "dev", view.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	close(release)

	res := <-first
	require.NoError(t, res.err)
	rows, err := uc.ListAssessments(ctx, "dev")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, res.a.ID, rows[0].ID)

	got, err := uc.GetSession(ctx, "dev", view.ID)
	require.NoError(t, err)
	assert.Equal(t, res.a.ID.String(), got.AssessmentID)
}
