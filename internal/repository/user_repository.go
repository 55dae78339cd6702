package repository

import (
	"context"
	"errors"

	"github.com/fadilmartias/career-coach/internal/model"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStaleVersion is returned by SaveBookmarks when the row was changed
// after the caller read it.
var ErrStaleVersion = errors.New("repository: stale bookmark version")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) FindByIdentity(ctx context.Context, identity string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "identity = ?", identity).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u unless a user with the same identity exists, and
// returns whichever row is stored.
func (r *UserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "identity"}}, DoNothing: true}).
		Create(u)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return r.FindByIdentity(ctx, u.Identity)
	}
	return u, nil
}

type ProfileUpdate struct {
	Industry   string
	Experience int
	Bio        string
	Skills     []string
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, p ProfileUpdate) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"industry":   p.Industry,
			"experience": p.Experience,
			"bio":        p.Bio,
			"skills":     datatypes.JSONSlice[string](p.Skills),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SaveBookmarks replaces the bookmark list if the stored version still
// equals expectedVersion, and bumps the version.
func (r *UserRepository) SaveBookmarks(ctx context.Context, userID uuid.UUID, expectedVersion int, list []model.BookmarkedQuestion) error {
	if list == nil {
		list = []model.BookmarkedQuestion{}
	}
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND bookmark_version = ?", userID, expectedVersion).
		Updates(map[string]any{
			"bookmarked_questions": datatypes.JSONSlice[model.BookmarkedQuestion](list),
			"bookmark_version":     gorm.Expr("bookmark_version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}
