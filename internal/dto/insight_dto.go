package dto

import (
	"time"

	"github.com/fadilmartias/career-coach/internal/model"
	"gorm.io/datatypes"
)

// InsightPayload is the JSON document the generator must produce for an
// industry. Field names follow the prompt's schema.
type InsightPayload struct {
	SalaryRanges      []model.SalaryRange      `json:"salaryRanges" validate:"min=5,dive"`
	GrowthRate        *float64                 `json:"growthRate" validate:"required"`
	DemandLevel       string                   `json:"demandLevel" validate:"oneof=High Medium Low"`
	TopSkills         []string                 `json:"topSkills" validate:"min=5,dive,required"`
	MarketOutlook     string                   `json:"marketOutlook" validate:"oneof=Positive Neutral Negative"`
	KeyTrends         []string                 `json:"keyTrends" validate:"min=5,dive,required"`
	RecommendedSkills []string                 `json:"recommendedSkills" validate:"min=1,dive,required"`
	LearningResources []model.LearningResource `json:"learningResources" validate:"min=5,dive"`
	TopCompanies      []model.Company          `json:"topCompanies" validate:"min=5,dive"`
	JobMarket         model.JobMarket          `json:"jobMarket"`
}

// Apply copies the payload onto row and stamps both timestamps from now.
func (p *InsightPayload) Apply(row *model.IndustryInsight, now time.Time) {
	row.SalaryRanges = p.SalaryRanges
	if p.GrowthRate != nil {
		row.GrowthRate = *p.GrowthRate
	}
	row.DemandLevel = p.DemandLevel
	row.TopSkills = p.TopSkills
	row.MarketOutlook = p.MarketOutlook
	row.KeyTrends = p.KeyTrends
	row.RecommendedSkills = p.RecommendedSkills
	row.LearningResources = p.LearningResources
	row.TopCompanies = p.TopCompanies
	row.JobMarket = datatypes.NewJSONType(p.JobMarket)
	row.Stamp(now)
}

func (p *InsightPayload) ToModel(industry string, now time.Time) *model.IndustryInsight {
	row := &model.IndustryInsight{Industry: industry}
	p.Apply(row, now)
	return row
}

// Staleness labels for the dashboard.
const (
	StalenessFresh = "Fresh"
	StalenessAging = "Aging"
	StalenessStale = "Stale"
)

type SkillMatch struct {
	Skill string `json:"skill"`
	Has   bool   `json:"has"`
}

// InsightView is the dashboard representation of an insight row.
type InsightView struct {
	Insight             *model.IndustryInsight `json:"insight"`
	DaysSinceUpdate     int                    `json:"daysSinceUpdate"`
	Staleness           string                 `json:"staleness"`
	AverageMedianSalary float64                `json:"averageMedianSalary"`
	SkillMatches        []SkillMatch           `json:"skillMatches"`
	SkillCoverage       float64                `json:"skillCoverage"`
}

type IndustryDelta struct {
	GrowthRate          float64 `json:"growthRate"`
	AverageMedianSalary float64 `json:"averageMedianSalary"`
	RemotePercentage    float64 `json:"remotePercentage"`
}

type InsightComparison struct {
	Own          *model.IndustryInsight `json:"own"`
	Other        *model.IndustryInsight `json:"other"`
	SharedSkills []string               `json:"sharedSkills"`
	OnlyOwn      []string               `json:"onlyOwn"`
	OnlyOther    []string               `json:"onlyOther"`
	Delta        IndustryDelta          `json:"delta"`
}
