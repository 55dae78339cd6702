package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/fadilmartias/career-coach/internal/apperror"
	"github.com/fadilmartias/career-coach/internal/model"
	"github.com/fadilmartias/career-coach/internal/repository"
	"gorm.io/gorm"
)

func utcNow() time.Time {
	return time.Now().UTC()
}

// findUser maps an identity to its profile row. An empty identity is an
// authorization failure and a missing row is NotFound.
func findUser(ctx context.Context, users *repository.UserRepository, identity string) (*model.User, error) {
	if identity == "" {
		return nil, apperror.Unauthorized("Unauthorized")
	}
	u, err := users.FindByIdentity(ctx, identity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Persistence("Failed to load user", err)
	}
	return u, nil
}

func requireIndustry(u *model.User) (string, error) {
	if !u.IsOnboarded() {
		return "", apperror.Validation("No industry set", nil)
	}
	return *u.Industry, nil
}
