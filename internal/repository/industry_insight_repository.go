package repository

import (
	"context"

	"github.com/fadilmartias/career-coach/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var insightPayloadColumns = []string{
	"salary_ranges", "growth_rate", "demand_level", "top_skills",
	"market_outlook", "key_trends", "recommended_skills",
	"learning_resources", "top_companies", "job_market",
	"last_updated", "next_update", "updated_at",
}

type IndustryInsightRepository struct {
	db *gorm.DB
}

func NewIndustryInsightRepository(db *gorm.DB) *IndustryInsightRepository {
	return &IndustryInsightRepository{db}
}

func (r *IndustryInsightRepository) FindByIndustry(ctx context.Context, industry string) (*model.IndustryInsight, error) {
	var row model.IndustryInsight
	err := r.db.WithContext(ctx).First(&row, "industry = ?", industry).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateIfAbsent inserts row unless its industry already has one and
// reports whether it inserted.
func (r *IndustryInsightRepository) CreateIfAbsent(ctx context.Context, row *model.IndustryInsight) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "industry"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Upsert inserts row or overwrites every payload column and timestamp of
// the existing row for the same industry.
func (r *IndustryInsightRepository) Upsert(ctx context.Context, row *model.IndustryInsight) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "industry"}},
			DoUpdates: clause.AssignmentColumns(insightPayloadColumns),
		}).
		Create(row).Error
}

func (r *IndustryInsightRepository) ListIndustries(ctx context.Context) ([]string, error) {
	var industries []string
	err := r.db.WithContext(ctx).
		Model(&model.IndustryInsight{}).
		Order("industry").
		Pluck("industry", &industries).Error
	return industries, err
}
