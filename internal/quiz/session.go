package quiz

import (
	"errors"
	"fmt"
	"math"
	"time"
)

type Phase string

const (
	PhaseConfiguring Phase = "configuring"
	PhaseGenerating  Phase = "generating"
	PhaseActive      Phase = "active"
	PhaseFinished    Phase = "finished"
)

var (
	ErrWrongPhase        = errors.New("quiz: operation not allowed in current phase")
	ErrQuestionLocked    = errors.New("quiz: question time expired")
	ErrUnknownOption     = errors.New("quiz: answer is not one of the options")
	ErrIndexOutOfRange   = errors.New("quiz: question index out of range")
	ErrInvalidCategory   = errors.New("quiz: invalid category")
	ErrInvalidDifficulty = errors.New("quiz: invalid difficulty")
	ErrNoQuestions       = errors.New("quiz: no questions")
	ErrSaveInProgress    = errors.New("quiz: result is already being saved")
)

// saveClaimTTL bounds a save claim so a crashed saver does not block the
// session forever.
const saveClaimTTL = 2 * time.Minute

// Session tracks one quiz attempt:
//
//	configuring ──► generating ──► active(i) ──► finished
//
// Only navigation inside active moves backwards. Exactly one question timer
// runs at a time; leaving a question clears its timer and entering an
// unlocked question starts a fresh one.
type Session struct {
	ID               string        `json:"id"`
	Phase            Phase         `json:"phase"`
	Category         string        `json:"category"`
	Difficulty       string        `json:"difficulty"`
	TimerEnabled     bool          `json:"timerEnabled"`
	QuestionDuration time.Duration `json:"questionDuration"`

	Questions []Question `json:"questions"`
	Answers   []*string  `json:"answers"`
	Timers    []Timer    `json:"timers"`
	Current   int        `json:"current"`

	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`

	// AssessmentID is set once the finished session has been recorded.
	AssessmentID string `json:"assessmentId,omitempty"`
	// SavingSince marks a finisher that is currently recording the result.
	SavingSince *time.Time `json:"savingSince,omitempty"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:               id,
		Phase:            PhaseConfiguring,
		Category:         CategoryTechnical,
		Difficulty:       DifficultyMedium,
		TimerEnabled:     true,
		QuestionDuration: DefaultQuestionDuration,
	}
}

func (s *Session) Configure(category, difficulty string, timerEnabled bool, questionDuration time.Duration) error {
	if s.Phase != PhaseConfiguring {
		return ErrWrongPhase
	}
	category = NormalizeCategory(category)
	difficulty = NormalizeDifficulty(difficulty)
	if !ValidCategory(category) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if !ValidDifficulty(difficulty) {
		return fmt.Errorf("%w: %q", ErrInvalidDifficulty, difficulty)
	}
	s.Category = category
	s.Difficulty = difficulty
	s.TimerEnabled = timerEnabled
	if questionDuration > 0 {
		s.QuestionDuration = questionDuration
	}
	return nil
}

func (s *Session) BeginGenerating() error {
	if s.Phase != PhaseConfiguring {
		return ErrWrongPhase
	}
	s.Phase = PhaseGenerating
	return nil
}

// Activate installs the generated questions and starts the first timer.
func (s *Session) Activate(questions []Question, now time.Time) error {
	if s.Phase != PhaseGenerating {
		return ErrWrongPhase
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	s.Questions = questions
	s.Answers = make([]*string, len(questions))
	s.Timers = make([]Timer, len(questions))
	for i := range s.Timers {
		s.Timers[i] = newTimer()
	}
	s.Current = 0
	s.StartedAt = now
	s.Phase = PhaseActive
	s.startTimer(0, now)
	return nil
}

func (s *Session) startTimer(i int, now time.Time) {
	if s.TimerEnabled {
		s.Timers[i].Start(now, s.QuestionDuration)
	}
}

// Tick applies every expiry that happened up to now. When the current
// question expires its answer is dropped and the session moves to the next
// unlocked question after it, whose countdown starts at the moment of
// expiry; this repeats for as long as deadlines have passed. It reports
// whether any question expired.
func (s *Session) Tick(now time.Time) bool {
	if s.Phase != PhaseActive || !s.TimerEnabled {
		return false
	}
	expired := false
	for {
		t := &s.Timers[s.Current]
		expiredAt := t.Deadline
		if !t.Expire(now) {
			return expired
		}
		expired = true
		s.Answers[s.Current] = nil

		next := s.nextUnlocked(s.Current)
		if next < 0 {
			return expired
		}
		s.Current = next
		s.Timers[next].Start(expiredAt, s.QuestionDuration)
	}
}

func (s *Session) nextUnlocked(from int) int {
	for i := from + 1; i < len(s.Questions); i++ {
		if !s.Timers[i].Locked() {
			return i
		}
	}
	return -1
}

// Answer records option for the current question.
func (s *Session) Answer(option string, now time.Time) error {
	s.Tick(now)
	if s.Phase != PhaseActive {
		return ErrWrongPhase
	}
	if s.Timers[s.Current].Locked() {
		return ErrQuestionLocked
	}
	if !s.Questions[s.Current].HasOption(option) {
		return ErrUnknownOption
	}
	answer := option
	s.Answers[s.Current] = &answer
	return nil
}

// Navigate moves to question index. Locked questions can be viewed but
// their timer never restarts.
func (s *Session) Navigate(index int, now time.Time) error {
	s.Tick(now)
	if s.Phase != PhaseActive {
		return ErrWrongPhase
	}
	if index < 0 || index >= len(s.Questions) {
		return ErrIndexOutOfRange
	}
	if index == s.Current {
		return nil
	}
	s.Timers[s.Current].Clear()
	s.Current = index
	s.startTimer(index, now)
	return nil
}

func (s *Session) Next(now time.Time) error {
	return s.Navigate(s.Current+1, now)
}

func (s *Session) Previous(now time.Time) error {
	return s.Navigate(s.Current-1, now)
}

// Hint returns the hint of the current question unless it is locked.
func (s *Session) Hint(now time.Time) (string, error) {
	s.Tick(now)
	if s.Phase != PhaseActive {
		return "", ErrWrongPhase
	}
	if s.Timers[s.Current].Locked() {
		return "", ErrQuestionLocked
	}
	hint := s.Questions[s.Current].Hint
	if hint == "" {
		hint = DefaultHint
	}
	return hint, nil
}

// Finish closes the session and returns the score. Finishing does not
// require every question to be answered.
func (s *Session) Finish(now time.Time) (float64, error) {
	s.Tick(now)
	if s.Phase != PhaseActive {
		return 0, ErrWrongPhase
	}
	s.Timers[s.Current].Clear()
	s.Phase = PhaseFinished
	s.FinishedAt = &now
	return s.Score(), nil
}

// Unsaved reports a finished session whose result has not been recorded.
func (s *Session) Unsaved() bool {
	return s.Phase == PhaseFinished && s.AssessmentID == ""
}

// ClaimSave finishes an active session and reserves the recording of its
// result for the caller. Only one claim is live at a time; a finished
// session that was already recorded cannot be claimed.
func (s *Session) ClaimSave(now time.Time) error {
	if s.Phase == PhaseActive {
		if _, err := s.Finish(now); err != nil {
			return err
		}
	}
	if !s.Unsaved() {
		return ErrWrongPhase
	}
	if s.SavingSince != nil && now.Sub(*s.SavingSince) < saveClaimTTL {
		return ErrSaveInProgress
	}
	s.SavingSince = &now
	return nil
}

// ReleaseSave drops a claim after a failed save so finishing can be retried.
func (s *Session) ReleaseSave() {
	s.SavingSince = nil
}

func (s *Session) MarkSaved(assessmentID string) {
	s.AssessmentID = assessmentID
	s.SavingSince = nil
}

func (s *Session) Score() float64 {
	return Score(s.Questions, s.Answers)
}

func (s *Session) AnsweredCount() int {
	n := 0
	for _, a := range s.Answers {
		if a != nil {
			n++
		}
	}
	return n
}

func (s *Session) SkippedCount() int {
	return len(s.Questions) - s.AnsweredCount()
}

// ElapsedSeconds is nil until the session has started.
func (s *Session) ElapsedSeconds(now time.Time) *int {
	if s.StartedAt.IsZero() {
		return nil
	}
	end := now
	if s.FinishedAt != nil {
		end = *s.FinishedAt
	}
	secs := int(math.Round(end.Sub(s.StartedAt).Seconds()))
	return &secs
}
