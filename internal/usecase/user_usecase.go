package usecase

import (
	"context"
	"strings"

	"github.com/fadilmartias/career-coach/internal/apperror"
	"github.com/fadilmartias/career-coach/internal/dto"
	"github.com/fadilmartias/career-coach/internal/logger"
	"github.com/fadilmartias/career-coach/internal/model"
	"github.com/fadilmartias/career-coach/internal/repository"
)

type InsightResolver interface {
	Resolve(ctx context.Context, industry string) (*model.IndustryInsight, error)
}

type UserUsecase struct {
	users    *repository.UserRepository
	insights InsightResolver
	log      *logger.Logger
}

func NewUserUsecase(users *repository.UserRepository, insights InsightResolver, log *logger.Logger) *UserUsecase {
	return &UserUsecase{users: users, insights: insights, log: log.With("component", "UserUsecase")}
}

// Provision creates the profile row for identity if it does not exist yet.
func (uc *UserUsecase) Provision(ctx context.Context, identity string, req dto.ProvisionRequest) (*model.User, error) {
	if identity == "" {
		return nil, apperror.Unauthorized("Unauthorized")
	}
	u, err := uc.users.Create(ctx, &model.User{
		Identity: identity,
		Email:    req.Email,
		Name:     req.Name,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return nil, apperror.Persistence("Failed to create user", err)
	}
	return u, nil
}

func (uc *UserUsecase) Profile(ctx context.Context, identity string) (*model.User, error) {
	return findUser(ctx, uc.users, identity)
}

func (uc *UserUsecase) OnboardingStatus(ctx context.Context, identity string) (dto.OnboardingStatus, error) {
	u, err := findUser(ctx, uc.users, identity)
	if err != nil {
		return dto.OnboardingStatus{}, err
	}
	return dto.OnboardingStatus{IsOnboarded: u.IsOnboarded()}, nil
}

// Onboard makes sure insights exist for the chosen industry before the
// profile is saved, so an onboarded user always has a dashboard.
func (uc *UserUsecase) Onboard(ctx context.Context, identity string, req dto.OnboardingRequest) (*model.User, error) {
	u, err := findUser(ctx, uc.users, identity)
	if err != nil {
		return nil, err
	}
	industry := strings.TrimSpace(req.Industry)
	if industry == "" {
		return nil, apperror.Validation("Industry is required", nil)
	}
	if _, err := uc.insights.Resolve(ctx, industry); err != nil {
		return nil, err
	}

	skills := []string(req.Skills)
	if skills == nil {
		skills = []string{}
	}
	err = uc.users.UpdateProfile(ctx, u.ID, repository.ProfileUpdate{
		Industry:   industry,
		Experience: req.Experience,
		Bio:        req.Bio,
		Skills:     skills,
	})
	if err != nil {
		uc.log.Error("profile update failed", "user_id", u.ID, "error", err)
		return nil, apperror.Persistence("Failed to update profile", err)
	}
	uc.log.Info("user onboarded", "user_id", u.ID, "industry", industry)
	return findUser(ctx, uc.users, identity)
}
