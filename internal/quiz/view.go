package quiz

import "time"

// QuestionView is what a participant may see while the quiz runs: the
// correct answer and explanation stay hidden until the session finishes.
type QuestionView struct {
	Index         int      `json:"index"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Answer        *string  `json:"answer"`
	Locked        bool     `json:"locked"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

type SessionView struct {
	ID               string         `json:"id"`
	Phase            Phase          `json:"phase"`
	Category         string         `json:"category"`
	Difficulty       string         `json:"difficulty"`
	TimerEnabled     bool           `json:"timerEnabled"`
	Current          int            `json:"current"`
	RemainingSeconds int            `json:"remainingSeconds"`
	Answered         int            `json:"answered"`
	Skipped          int            `json:"skipped"`
	Questions        []QuestionView `json:"questions"`
	Score            *float64       `json:"score,omitempty"`
	AssessmentID     string         `json:"assessmentId,omitempty"`
}

func (s *Session) View(now time.Time) SessionView {
	v := SessionView{
		ID:           s.ID,
		Phase:        s.Phase,
		Category:     s.Category,
		Difficulty:   s.Difficulty,
		TimerEnabled: s.TimerEnabled,
		Current:      s.Current,
		Answered:     s.AnsweredCount(),
		Skipped:      s.SkippedCount(),
		Questions:    make([]QuestionView, 0, len(s.Questions)),
		AssessmentID: s.AssessmentID,
	}
	if s.Phase == PhaseActive && s.TimerEnabled {
		v.RemainingSeconds = int(s.Timers[s.Current].Remaining(now).Seconds())
	}
	finished := s.Phase == PhaseFinished
	for i, q := range s.Questions {
		qv := QuestionView{
			Index:    i,
			Question: q.Question,
			Options:  q.Options,
			Answer:   s.Answers[i],
			Locked:   s.Timers[i].Locked(),
		}
		if finished {
			qv.CorrectAnswer = q.CorrectAnswer
			qv.Explanation = q.Explanation
		}
		v.Questions = append(v.Questions, qv)
	}
	if finished {
		score := s.Score()
		v.Score = &score
	}
	return v
}
