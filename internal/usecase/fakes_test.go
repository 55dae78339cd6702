package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fadilmartias/career-coach/internal/dto"
	"github.com/fadilmartias/career-coach/internal/logger"
	"github.com/fadilmartias/career-coach/internal/model"
	"github.com/fadilmartias/career-coach/internal/quiz"
	"github.com/fadilmartias/career-coach/internal/repository"
	"github.com/fadilmartias/career-coach/internal/testutil"
	"github.com/stretchr/testify/require"
)

var errProvider = errors.New("provider unavailable")

// fakeGenerator answers prompts through respond and records them.
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	calls   atomic.Int32
	respond func(prompt string) (string, error)
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

func fixed(text string) *fakeGenerator {
	return &fakeGenerator{respond: func(string) (string, error) { return text, nil }}
}

func failing() *fakeGenerator {
	return &fakeGenerator{respond: func(string) (string, error) { return "", errProvider }}
}

func insightPayload(growth float64) dto.InsightPayload {
	p := dto.InsightPayload{
		GrowthRate:        &growth,
		DemandLevel:       model.DemandHigh,
		MarketOutlook:     model.OutlookPositive,
		RecommendedSkills: []string{"Go", "Kubernetes", "SQL"},
		JobMarket: model.JobMarket{
			OpenPositions:     "50,000-100,000",
			RemotePercentage:  40,
			TopLocations:      []string{"Berlin", "Austin", "London", "Jakarta", "Toronto"},
			AverageExperience: "3-5 years",
		},
	}
	for i := 0; i < 5; i++ {
		p.SalaryRanges = append(p.SalaryRanges, model.SalaryRange{
			Role: fmt.Sprintf("Role %d", i), Min: 50000, Max: 150000, Median: float64(80000 + i*10000), Location: "Remote",
		})
		p.TopSkills = append(p.TopSkills, fmt.Sprintf("Skill%d", i))
		p.KeyTrends = append(p.KeyTrends, fmt.Sprintf("trend %d", i))
		p.LearningResources = append(p.LearningResources, model.LearningResource{
			Name: fmt.Sprintf("res %d", i), Type: "Platform", URL: "https://example.com", Description: "d",
		})
		p.TopCompanies = append(p.TopCompanies, model.Company{Name: fmt.Sprintf("co %d", i)})
	}
	return p
}

func insightJSON(t *testing.T, growth float64) string {
	t.Helper()
	raw, err := json.Marshal(insightPayload(growth))
	require.NoError(t, err)
	return "```json\n" + string(raw) + "\n```"
}

func quizQuestions() []quiz.Question {
	qs := make([]quiz.Question, quiz.QuestionsPerQuiz)
	for i := range qs {
		qs[i] = quiz.Question{
			Question:      fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "B",
			Hint:          "Think about the trade-offs.",
			Explanation:   "B is right.",
		}
	}
	return qs
}

func quizJSON(t *testing.T, qs []quiz.Question) string {
	t.Helper()
	raw, err := json.Marshal(dto.QuizPayload{Questions: qs})
	require.NoError(t, err)
	return string(raw)
}

// routed answers quiz, tip and insight prompts differently.
func routed(t *testing.T, tip string, tipErr error) *fakeGenerator {
	return &fakeGenerator{respond: func(p string) (string, error) {
		switch {
		case strings.Contains(p, "improvementTip"):
			return tip, tipErr
		case strings.Contains(p, "interview questions for a"):
			return quizJSON(t, quizQuestions()), nil
		default:
			return insightJSON(t, 7), nil
		}
	}}
}

type fixture struct {
	users       *repository.UserRepository
	insights    *repository.IndustryInsightRepository
	assessments *repository.AssessmentRepository
	log         *logger.Logger
}

func newFixture(t *testing.T) *fixture {
	db := testutil.DB(t)
	return &fixture{
		users:       repository.NewUserRepository(db),
		insights:    repository.NewIndustryInsightRepository(db),
		assessments: repository.NewAssessmentRepository(db),
		log:         logger.Nop(),
	}
}

// onboardedUser stores a user with industry set directly, bypassing
// insight resolution.
func (f *fixture) onboardedUser(t *testing.T, identity, industry string, skills ...string) *model.User {
	t.Helper()
	ctx := context.Background()
	u, err := f.users.Create(ctx, &model.User{Identity: identity})
	require.NoError(t, err)
	if industry != "" {
		require.NoError(t, f.users.UpdateProfile(ctx, u.ID, repository.ProfileUpdate{Industry: industry, Skills: skills}))
	}
	u, err = f.users.FindByIdentity(ctx, identity)
	require.NoError(t, err)
	return u
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
