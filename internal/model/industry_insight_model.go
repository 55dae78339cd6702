package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InsightTTL is the advisory refresh interval written into NextUpdate.
const InsightTTL = 7 * 24 * time.Hour

const (
	DemandHigh   = "High"
	DemandMedium = "Medium"
	DemandLow    = "Low"

	OutlookPositive = "Positive"
	OutlookNeutral  = "Neutral"
	OutlookNegative = "Negative"
)

type IndustryInsight struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Industry string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"industry"`

	SalaryRanges      datatypes.JSONSlice[SalaryRange]      `json:"salaryRanges"`
	GrowthRate        float64                               `json:"growthRate"`
	DemandLevel       string                                `gorm:"type:varchar(16)" json:"demandLevel"`
	TopSkills         datatypes.JSONSlice[string]           `json:"topSkills"`
	MarketOutlook     string                                `gorm:"type:varchar(16)" json:"marketOutlook"`
	KeyTrends         datatypes.JSONSlice[string]           `json:"keyTrends"`
	RecommendedSkills datatypes.JSONSlice[string]           `json:"recommendedSkills"`
	LearningResources datatypes.JSONSlice[LearningResource] `json:"learningResources"`
	TopCompanies      datatypes.JSONSlice[Company]          `json:"topCompanies"`
	JobMarket         datatypes.JSONType[JobMarket]         `json:"jobMarket"`

	LastUpdated time.Time `json:"lastUpdated"`
	NextUpdate  time.Time `json:"nextUpdate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type SalaryRange struct {
	Role     string  `json:"role" validate:"required"`
	Min      float64 `json:"min" validate:"gte=0"`
	Max      float64 `json:"max" validate:"gtefield=Min"`
	Median   float64 `json:"median" validate:"gte=0"`
	Location string  `json:"location" validate:"required"`
}

type LearningResource struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"oneof=Course Certification Book Platform"`
	URL         string `json:"url" validate:"required"`
	Description string `json:"description"`
}

type Company struct {
	Name        string `json:"name" validate:"required"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
}

type JobMarket struct {
	OpenPositions     string   `json:"openPositions" validate:"required"`
	RemotePercentage  float64  `json:"remotePercentage" validate:"gte=0,lte=100"`
	TopLocations      []string `json:"topLocations" validate:"min=5,dive,required"`
	AverageExperience string   `json:"averageExperience" validate:"required"`
}

func (i *IndustryInsight) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Stamp sets LastUpdated to now and NextUpdate exactly one TTL later.
func (i *IndustryInsight) Stamp(now time.Time) {
	i.LastUpdated = now
	i.NextUpdate = now.Add(InsightTTL)
}

func (i *IndustryInsight) TableName() string {
	return "industry_insights"
}
