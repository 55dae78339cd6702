package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Assessment is written once per finished quiz and never updated.
type Assessment struct {
	ID             uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID                           `gorm:"type:uuid;index;not null" json:"userId"`
	QuizScore      float64                             `json:"quizScore"`
	Questions      datatypes.JSONSlice[QuestionResult] `json:"questions"`
	Category       string                              `gorm:"type:varchar(32);index" json:"category"`
	Difficulty     string                              `gorm:"type:varchar(16)" json:"difficulty"`
	TimeSpent      *int                                `json:"timeSpent"` // seconds
	ImprovementTip *string                             `gorm:"type:text" json:"improvementTip"`
	CreatedAt      time.Time                           `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time                           `json:"updatedAt"`
}

type QuestionResult struct {
	Question    string  `json:"question"`
	Answer      string  `json:"answer"`
	UserAnswer  *string `json:"userAnswer"`
	IsCorrect   bool    `json:"isCorrect"`
	Explanation string  `json:"explanation"`
}

func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Assessment) TableName() string {
	return "assessments"
}

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{&User{}, &IndustryInsight{}, &Assessment{}}
}
