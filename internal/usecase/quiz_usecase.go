package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fadilmartias/career-coach/internal/apperror"
	"github.com/fadilmartias/career-coach/internal/dto"
	"github.com/fadilmartias/career-coach/internal/logger"
	"github.com/fadilmartias/career-coach/internal/model"
	"github.com/fadilmartias/career-coach/internal/prompt"
	"github.com/fadilmartias/career-coach/internal/quiz"
	"github.com/fadilmartias/career-coach/internal/repository"
	"github.com/fadilmartias/career-coach/internal/response"
	"github.com/fadilmartias/career-coach/internal/service"
	"github.com/fadilmartias/career-coach/internal/util"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// tipTimeout bounds the improvement tip call so it cannot hold up saving
// the assessment.
const tipTimeout = 30 * time.Second

type QuizUsecase struct {
	users            *repository.UserRepository
	assessments      *repository.AssessmentRepository
	gen              service.TextGenerator
	sessions         quiz.SessionStore
	questionDuration time.Duration
	log              *logger.Logger
	now              func() time.Time
}

func NewQuizUsecase(
	users *repository.UserRepository,
	assessments *repository.AssessmentRepository,
	gen service.TextGenerator,
	sessions quiz.SessionStore,
	questionDuration time.Duration,
	log *logger.Logger,
) *QuizUsecase {
	if questionDuration <= 0 {
		questionDuration = quiz.DefaultQuestionDuration
	}
	return &QuizUsecase{
		users:            users,
		assessments:      assessments,
		gen:              gen,
		sessions:         sessions,
		questionDuration: questionDuration,
		log:              log.With("component", "QuizUsecase"),
		now:              utcNow,
	}
}

// GenerateQuiz produces ten multiple choice questions for the caller's
// industry and skills.
func (uc *QuizUsecase) GenerateQuiz(ctx context.Context, identity, category, difficulty string) ([]quiz.Question, error) {
	u, err := findUser(ctx, uc.users, identity)
	if err != nil {
		return nil, err
	}
	industry, err := requireIndustry(u)
	if err != nil {
		return nil, err
	}
	category = quiz.NormalizeCategory(category)
	difficulty = quiz.NormalizeDifficulty(difficulty)
	if !quiz.ValidCategory(category) {
		return nil, apperror.Validation("Invalid quiz category", nil)
	}
	if !quiz.ValidDifficulty(difficulty) {
		return nil, apperror.Validation("Invalid quiz difficulty", nil)
	}

	text, err := uc.gen.GenerateText(ctx, prompt.Quiz(industry, u.Skills, category, difficulty))
	if err != nil {
		uc.log.Error("quiz generation failed", "industry", industry, "error", err)
		return nil, apperror.Generation("Failed to generate quiz questions", err)
	}
	var payload dto.QuizPayload
	if err := util.DecodeJSON(text, &payload); err != nil {
		uc.log.Error("quiz output is not JSON", "industry", industry, "error", err)
		return nil, apperror.Generation("Failed to generate quiz questions", err)
	}
	if fields, err := util.ValidateStruct(&payload); err != nil {
		uc.log.Error("quiz output failed validation", "industry", industry, "fields", fields)
		return nil, apperror.Generation("Failed to generate quiz questions", err)
	}
	for i := range payload.Questions {
		q := &payload.Questions[i]
		if !q.HasOption(q.CorrectAnswer) {
			return nil, apperror.Generation("Failed to generate quiz questions",
				fmt.Errorf("question %d: correct answer is not one of the options", i+1))
		}
		if q.Hint == "" || q.HintRevealsAnswer() {
			q.Hint = quiz.DefaultHint
		}
	}
	return payload.Questions, nil
}

// SubmitQuiz grades a finished quiz, attaches an improvement tip when some
// answers were wrong, and stores the assessment.
func (uc *QuizUsecase) SubmitQuiz(ctx context.Context, identity string, req dto.SubmitQuizRequest) (*model.Assessment, error) {
	u, err := findUser(ctx, uc.users, identity)
	if err != nil {
		return nil, err
	}
	if len(req.Questions) == 0 {
		return nil, apperror.Validation("Questions are required", nil)
	}
	if len(req.Answers) > len(req.Questions) {
		return nil, apperror.Validation("More answers than questions", nil)
	}
	category := quiz.NormalizeCategory(req.Category)
	difficulty := quiz.NormalizeDifficulty(req.Difficulty)

	results := make([]model.QuestionResult, len(req.Questions))
	var wrong []prompt.WrongAnswer
	for i, q := range req.Questions {
		var answer *string
		if i < len(req.Answers) {
			answer = req.Answers[i]
		}
		correct := answer != nil && *answer == q.CorrectAnswer
		results[i] = model.QuestionResult{
			Question:    q.Question,
			Answer:      q.CorrectAnswer,
			UserAnswer:  answer,
			IsCorrect:   correct,
			Explanation: q.Explanation,
		}
		if !correct {
			wrong = append(wrong, prompt.WrongAnswer{Question: q.Question, CorrectAnswer: q.CorrectAnswer, UserAnswer: answer})
		}
	}

	score := quiz.Score(req.Questions, req.Answers)
	if req.Score != nil && math.Abs(*req.Score-score) > 0.01 {
		uc.log.Warn("client score differs from computed score", "user_id", u.ID, "client", *req.Score, "computed", score)
	}

	industry := ""
	if u.Industry != nil {
		industry = *u.Industry
	}
	assessment := &model.Assessment{
		UserID:         u.ID,
		QuizScore:      score,
		Questions:      results,
		Category:       category,
		Difficulty:     difficulty,
		TimeSpent:      req.TimeSpent,
		ImprovementTip: uc.improvementTip(ctx, industry, category, difficulty, wrong),
	}
	if err := uc.assessments.Create(ctx, assessment); err != nil {
		uc.log.Error("saving assessment failed", "user_id", u.ID, "error", err)
		return nil, apperror.Persistence("Failed to save quiz result", err)
	}
	return assessment, nil
}

// improvementTip returns nil when nothing was wrong or the model call
// fails; the assessment is saved either way.
func (uc *QuizUsecase) improvementTip(ctx context.Context, industry, category, difficulty string, wrong []prompt.WrongAnswer) *string {
	if len(wrong) == 0 {
		return nil
	}
	tipCtx, cancel := context.WithTimeout(ctx, tipTimeout)
	defer cancel()

	text, err := uc.gen.GenerateText(tipCtx, prompt.ImprovementTip(industry, category, difficulty, wrong))
	if err != nil {
		uc.log.Warn("improvement tip generation failed", "error", err)
		return nil
	}
	tip := extractTip(text)
	if tip == "" {
		return nil
	}
	return &tip
}

// extractTip reads the improvementTip field of a JSON reply and falls back
// to the reply text itself.
func extractTip(text string) string {
	stripped := util.StripCodeFence(text)
	if gjson.Valid(stripped) {
		if tip := gjson.Get(stripped, "improvementTip"); tip.Exists() {
			return strings.TrimSpace(tip.String())
		}
	}
	return stripped
}

func (uc *QuizUsecase) ListAssessments(ctx context.Context, identity string) ([]model.Assessment, error) {
	u, err := findUser(ctx, uc.users, identity)
	if err != nil {
		return nil, err
	}
	rows, err := uc.assessments.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch assessments", err)
	}
	return rows, nil
}

func (uc *QuizUsecase) PageAssessments(ctx context.Context, identity string, page, pageSize int) ([]model.Assessment, *response.Pagination, error) {
	u, err := findUser(ctx, uc.users, identity)
	if err != nil {
		return nil, nil, err
	}
	page, pageSize = response.NormalizePage(page, pageSize)
	rows, total, err := uc.assessments.PageByUser(ctx, u.ID, page, pageSize)
	if err != nil {
		return nil, nil, apperror.Persistence("Failed to fetch assessments", err)
	}
	return rows, response.NewPagination(page, pageSize, len(rows), total), nil
}

func (uc *QuizUsecase) Stats(ctx context.Context, identity string) (*dto.AssessmentStats, error) {
	rows, err := uc.ListAssessments(ctx, identity)
	if err != nil {
		return nil, err
	}
	return ComputeStats(rows), nil
}

// ComputeStats summarises assessments given oldest first.
func ComputeStats(rows []model.Assessment) *dto.AssessmentStats {
	stats := &dto.AssessmentStats{TotalAssessments: len(rows), Categories: []dto.CategoryStat{}}
	if len(rows) == 0 {
		return stats
	}

	type acc struct {
		count int
		sum   float64
	}
	byCategory := map[string]*acc{}
	total := 0.0
	for _, a := range rows {
		total += a.QuizScore
		stats.QuestionsPracticed += len(a.Questions)
		category := quiz.NormalizeCategory(a.Category)
		c, ok := byCategory[category]
		if !ok {
			c = &acc{}
			byCategory[category] = c
		}
		c.count++
		c.sum += a.QuizScore
	}
	stats.AverageScore = total / float64(len(rows))
	latest := rows[len(rows)-1].QuizScore
	stats.LatestScore = &latest

	for name, c := range byCategory {
		stats.Categories = append(stats.Categories, dto.CategoryStat{
			Category:     name,
			Count:        c.count,
			AverageScore: c.sum / float64(c.count),
		})
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		return stats.Categories[i].Category < stats.Categories[j].Category
	})
	strongest, weakest := stats.Categories[0], stats.Categories[0]
	for _, c := range stats.Categories[1:] {
		if c.AverageScore > strongest.AverageScore {
			strongest = c
		}
		if c.AverageScore < weakest.AverageScore {
			weakest = c
		}
	}
	stats.Strongest, stats.Weakest = &strongest, &weakest

	if len(rows) >= 2 {
		first := rows[0].QuizScore
		improvement := (latest - first) / math.Max(first, 1) * 100
		stats.Improvement = &improvement
	}
	return stats
}

// StartSession configures a server-timed session, generates its questions
// and stores it active. Nothing is stored if generation fails.
func (uc *QuizUsecase) StartSession(ctx context.Context, identity string, req dto.StartSessionRequest) (*quiz.SessionView, error) {
	if _, err := findUser(ctx, uc.users, identity); err != nil {
		return nil, err
	}
	s := quiz.NewSession(uuid.NewString())
	timerEnabled := true
	if req.TimerEnabled != nil {
		timerEnabled = *req.TimerEnabled
	}
	duration := uc.questionDuration
	if req.QuestionSeconds > 0 {
		duration = time.Duration(req.QuestionSeconds) * time.Second
	}
	if err := s.Configure(req.Category, req.Difficulty, timerEnabled, duration); err != nil {
		return nil, sessionError(err)
	}
	if err := s.BeginGenerating(); err != nil {
		return nil, sessionError(err)
	}

	questions, err := uc.GenerateQuiz(ctx, identity, s.Category, s.Difficulty)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := s.Activate(questions, now); err != nil {
		return nil, sessionError(err)
	}
	if err := uc.sessions.Create(ctx, identity, s); err != nil {
		return nil, apperror.Persistence("Failed to start quiz session", err)
	}
	view := s.View(now)
	return &view, nil
}

// mutate applies fn to the stored session after catching up on expired
// timers. The tick is persisted even when fn fails.
func (uc *QuizUsecase) mutate(ctx context.Context, identity, id string, fn func(s *quiz.Session, now time.Time) error) (*quiz.SessionView, error) {
	if identity == "" {
		return nil, apperror.Unauthorized("Unauthorized")
	}
	now := uc.now()
	var fnErr error
	s, err := uc.sessions.Update(ctx, identity, id, func(s *quiz.Session) error {
		s.Tick(now)
		fnErr = fn(s, now)
		return nil
	})
	if err != nil {
		return nil, sessionError(err)
	}
	if fnErr != nil {
		return nil, sessionError(fnErr)
	}
	view := s.View(now)
	return &view, nil
}

func (uc *QuizUsecase) GetSession(ctx context.Context, identity, id string) (*quiz.SessionView, error) {
	return uc.mutate(ctx, identity, id, func(*quiz.Session, time.Time) error { return nil })
}

func (uc *QuizUsecase) Answer(ctx context.Context, identity, id, option string) (*quiz.SessionView, error) {
	return uc.mutate(ctx, identity, id, func(s *quiz.Session, now time.Time) error {
		return s.Answer(option, now)
	})
}

func (uc *QuizUsecase) Navigate(ctx context.Context, identity, id string, req dto.NavigateRequest) (*quiz.SessionView, error) {
	return uc.mutate(ctx, identity, id, func(s *quiz.Session, now time.Time) error {
		switch {
		case req.Index != nil:
			return s.Navigate(*req.Index, now)
		case req.Direction == "next":
			return s.Next(now)
		case req.Direction == "previous":
			return s.Previous(now)
		}
		return fmt.Errorf("%w: index or direction required", quiz.ErrIndexOutOfRange)
	})
}

func (uc *QuizUsecase) Hint(ctx context.Context, identity, id string) (string, error) {
	var hint string
	_, err := uc.mutate(ctx, identity, id, func(s *quiz.Session, now time.Time) error {
		var err error
		hint, err = s.Hint(now)
		return err
	})
	return hint, err
}

// FinishSession closes the session, scores it server side and records the
// assessment. The save is claimed inside the session update, so concurrent
// finishers record one assessment. A finished session whose save failed
// can be finished again to retry the save.
func (uc *QuizUsecase) FinishSession(ctx context.Context, identity, id string) (*model.Assessment, *quiz.SessionView, error) {
	view, err := uc.mutate(ctx, identity, id, func(s *quiz.Session, now time.Time) error {
		return s.ClaimSave(now)
	})
	if err != nil {
		return nil, nil, err
	}
	s, err := uc.sessions.Get(ctx, identity, id)
	if err != nil {
		return nil, nil, sessionError(err)
	}

	score := s.Score()
	assessment, err := uc.SubmitQuiz(ctx, identity, dto.SubmitQuizRequest{
		Questions:  s.Questions,
		Answers:    s.Answers,
		Score:      &score,
		Category:   s.Category,
		Difficulty: s.Difficulty,
		TimeSpent:  s.ElapsedSeconds(uc.now()),
	})
	if err != nil {
		_, releaseErr := uc.mutate(context.WithoutCancel(ctx), identity, id, func(s *quiz.Session, _ time.Time) error {
			s.ReleaseSave()
			return nil
		})
		if releaseErr != nil {
			uc.log.Warn("releasing session save claim failed", "session_id", id, "error", releaseErr)
		}
		return nil, view, err
	}

	saved, err := uc.mutate(context.WithoutCancel(ctx), identity, id, func(s *quiz.Session, _ time.Time) error {
		s.MarkSaved(assessment.ID.String())
		return nil
	})
	if err != nil {
		uc.log.Warn("marking session saved failed", "session_id", id, "error", err)
		return assessment, view, nil
	}
	return assessment, saved, nil
}

// sessionError maps session errors to application error kinds.
func sessionError(err error) error {
	switch {
	case errors.Is(err, quiz.ErrSessionNotFound):
		return apperror.NotFound("Quiz session not found")
	case errors.Is(err, quiz.ErrSessionBusy):
		return apperror.Conflict("Quiz session is busy, please retry", err)
	case errors.Is(err, quiz.ErrSaveInProgress):
		return apperror.Conflict("Quiz result is already being saved", err)
	case errors.Is(err, quiz.ErrWrongPhase):
		return apperror.Conflict("Quiz session is not active", err)
	case errors.Is(err, quiz.ErrQuestionLocked):
		return apperror.Conflict("Time is up for this question", err)
	case errors.Is(err, quiz.ErrUnknownOption):
		return apperror.Validation("Answer is not one of the options", err)
	case errors.Is(err, quiz.ErrIndexOutOfRange):
		return apperror.Validation("Question index out of range", err)
	case errors.Is(err, quiz.ErrInvalidCategory):
		return apperror.Validation("Invalid quiz category", err)
	case errors.Is(err, quiz.ErrInvalidDifficulty):
		return apperror.Validation("Invalid quiz difficulty", err)
	case errors.Is(err, quiz.ErrNoQuestions):
		return apperror.Generation("Failed to generate quiz questions", err)
	}
	return apperror.Persistence("Failed to update quiz session", err)
}
