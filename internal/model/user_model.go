package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Identity string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"identity"` // subject issued by the identity provider
	Email    string    `gorm:"type:varchar(255)" json:"email"`
	Name     string    `gorm:"type:varchar(255)" json:"name"`
	ImageURL string    `gorm:"type:text" json:"imageUrl"`

	Industry   *string                     `gorm:"type:varchar(191);index" json:"industry"`
	Experience int                         `json:"experience"`
	Bio        string                      `gorm:"type:text" json:"bio"`
	Skills     datatypes.JSONSlice[string] `json:"skills"`

	BookmarkedQuestions datatypes.JSONSlice[BookmarkedQuestion] `json:"bookmarkedQuestions"`
	BookmarkVersion     int                                     `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookmarkedQuestion is copied from the quiz at bookmark time and never
// re-synced with its source.
type BookmarkedQuestion struct {
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Explanation  string    `json:"explanation"`
	Category     string    `json:"category"`
	BookmarkedAt time.Time `json:"bookmarkedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsOnboarded() bool {
	return u.Industry != nil && *u.Industry != ""
}

func (u *User) TableName() string {
	return "users"
}
