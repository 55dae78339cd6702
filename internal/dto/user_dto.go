package dto

import (
	"encoding/json"
	"strings"
)

// SkillList accepts either a comma separated string or a JSON array.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = cleanSkills(list)
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*s = cleanSkills(strings.Split(joined, ","))
	return nil
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

type OnboardingRequest struct {
	Industry   string    `json:"industry" validate:"required"`
	Experience int       `json:"experience" validate:"gte=0,lte=60"`
	Bio        string    `json:"bio" validate:"max=2000"`
	Skills     SkillList `json:"skills"`
}

type ProvisionRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type OnboardingStatus struct {
	IsOnboarded bool `json:"isOnboarded"`
}

type BookmarkRequest struct {
	Question    string `json:"question" validate:"required"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
	Category    string `json:"category"`
}

type RemoveBookmarkRequest struct {
	Question string `json:"question" validate:"required"`
}
