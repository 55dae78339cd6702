package dto

import "github.com/fadilmartias/career-coach/internal/quiz"

// QuizPayload is the generator's answer to the quiz prompt.
type QuizPayload struct {
	Questions []quiz.Question `json:"questions" validate:"len=10,dive"`
}

type GenerateQuizRequest struct {
	Category   string `json:"category" validate:"omitempty,oneof=Technical Behavioral Situational"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// SubmitQuizRequest carries a finished stateless quiz. Answers is
// positional; a null entry is a skipped question. Score is what the client
// computed and is only compared against the server's score.
type SubmitQuizRequest struct {
	Questions  []quiz.Question `json:"questions" validate:"min=1,dive"`
	Answers    []*string       `json:"answers"`
	Score      *float64        `json:"score"`
	Category   string          `json:"category" validate:"omitempty,oneof=Technical Behavioral Situational"`
	Difficulty string          `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	TimeSpent  *int            `json:"timeSpent" validate:"omitempty,gte=0"`
}

type StartSessionRequest struct {
	Category        string `json:"category" validate:"omitempty,oneof=Technical Behavioral Situational"`
	Difficulty      string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	TimerEnabled    *bool  `json:"timerEnabled"`
	QuestionSeconds int    `json:"questionSeconds" validate:"omitempty,gte=5,lte=600"`
}

type AnswerRequest struct {
	Option string `json:"option" validate:"required"`
}

type NavigateRequest struct {
	Index *int `json:"index" validate:"omitempty,gte=0"`
	// Direction is an alternative to Index.
	Direction string `json:"direction" validate:"omitempty,oneof=next previous"`
}

type CategoryStat struct {
	Category     string  `json:"category"`
	Count        int     `json:"count"`
	AverageScore float64 `json:"averageScore"`
}

// AssessmentStats summarises a user's assessment history.
type AssessmentStats struct {
	TotalAssessments   int            `json:"totalAssessments"`
	AverageScore       float64        `json:"averageScore"`
	QuestionsPracticed int            `json:"questionsPracticed"`
	LatestScore        *float64       `json:"latestScore"`
	Categories         []CategoryStat `json:"categories"`
	Strongest          *CategoryStat  `json:"strongest"`
	Weakest            *CategoryStat  `json:"weakest"`
	// Improvement is the relative change between the first and the latest
	// score in percent; nil with fewer than two assessments.
	Improvement *float64 `json:"improvement"`
}
