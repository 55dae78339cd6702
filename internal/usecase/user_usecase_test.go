package usecase

import (
	"context"
	"testing"

	"github.com/fadilmartias/career-coach/internal/apperror"
	"github.com/fadilmartias/career-coach/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserOnboarding(t *testing.T) {
	f := newFixture(t)
	gen := fixed(insightJSON(t, 7))
	insights := newInsightUsecase(f, gen, day0)
	uc := NewUserUsecase(f.users, insights, f.log)
	ctx := context.Background()

	_, err := uc.Profile(ctx, "dev")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	u, err := uc.Provision(ctx, "dev", dto.ProvisionRequest{Email: "dev@example.com", Name: "Dev"})
	require.NoError(t, err)
	again, err := uc.Provision(ctx, "dev", dto.ProvisionRequest{Email: "other@example.com"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)

	status, err := uc.OnboardingStatus(ctx, "dev")
	require.NoError(t, err)
	assert.False(t, status.IsOnboarded)

	u, err = uc.Onboard(ctx, "dev", dto.OnboardingRequest{
		Industry: " tech-software ", Experience: 5, Bio: "backend", Skills: dto.SkillList{"Go", "SQL"},
	})
	require.NoError(t, err)
	assert.Equal(t, "tech-software", *u.Industry)
	assert.Equal(t, 5, u.Experience)
	assert.Equal(t, []string{"Go", "SQL"}, []string(u.Skills))

	status, err = uc.OnboardingStatus(ctx, "dev")
	require.NoError(t, err)
	assert.True(t, status.IsOnboarded)

	_, err = f.insights.FindByIndustry(ctx, "tech-software")
	assert.NoError(t, err)
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestUserOnboarding_GenerationFailureLeavesProfile(t *testing.T) {
	f := newFixture(t)
	uc := NewUserUsecase(f.users, newInsightUsecase(f, failing(), day0), f.log)
	ctx := context.Background()
	f.onboardedUser(t, "dev", "")

	_, err := uc.Onboard(ctx, "dev", dto.OnboardingRequest{Industry: "tech-software"})
	assert.ErrorIs(t, err, apperror.ErrGeneration)

	u, err := uc.Profile(ctx, "dev")
	require.NoError(t, err)
	assert.False(t, u.IsOnboarded())

	_, err = uc.Provision(ctx, "", dto.ProvisionRequest{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
