package repository

import (
	"context"

	"github.com/fadilmartias/career-coach/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{db}
}

func (r *AssessmentRepository) Create(ctx context.Context, a *model.Assessment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// ListByUser returns every assessment of the user, oldest first.
func (r *AssessmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Assessment, error) {
	var rows []model.Assessment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// PageByUser returns one page of the user's assessments, newest first,
// together with the total count.
func (r *AssessmentRepository) PageByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.Assessment, int64, error) {
	total, err := r.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	var rows []model.Assessment
	err = r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *AssessmentRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Assessment{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}
