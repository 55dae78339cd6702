package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fadilmartias/career-coach/internal/apperror"
	"github.com/fadilmartias/career-coach/internal/dto"
	"github.com/fadilmartias/career-coach/internal/logger"
	"github.com/fadilmartias/career-coach/internal/model"
	"github.com/fadilmartias/career-coach/internal/prompt"
	"github.com/fadilmartias/career-coach/internal/repository"
	"github.com/fadilmartias/career-coach/internal/service"
	"github.com/fadilmartias/career-coach/internal/util"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const radarSkillLimit = 8

type InsightUsecase struct {
	insights *repository.IndustryInsightRepository
	users    *repository.UserRepository
	gen      service.TextGenerator
	log      *logger.Logger
	now      func() time.Time

	// inflight coalesces first-time generation per industry.
	inflight singleflight.Group
}

func NewInsightUsecase(insights *repository.IndustryInsightRepository, users *repository.UserRepository, gen service.TextGenerator, log *logger.Logger) *InsightUsecase {
	return &InsightUsecase{
		insights: insights,
		users:    users,
		gen:      gen,
		log:      log.With("component", "InsightUsecase"),
		now:      utcNow,
	}
}

// Generate asks the model for the insight document of industry and
// returns it only if it parses and passes validation.
func (uc *InsightUsecase) Generate(ctx context.Context, industry string) (*dto.InsightPayload, error) {
	text, err := uc.gen.GenerateText(ctx, prompt.IndustryInsights(industry))
	if err != nil {
		uc.log.Error("insight generation failed", "industry", industry, "error", err)
		return nil, apperror.Generation("Failed to generate industry insights", err)
	}

	var payload dto.InsightPayload
	if err := util.DecodeJSON(text, &payload); err != nil {
		uc.log.Error("insight output is not JSON", "industry", industry, "error", err)
		return nil, apperror.Generation("Failed to generate industry insights", err)
	}
	if fields, err := util.ValidateStruct(&payload); err != nil {
		uc.log.Error("insight output failed validation", "industry", industry, "fields", fields)
		return nil, apperror.Generation("Failed to generate industry insights", err)
	}
	return &payload, nil
}

// Resolve returns the stored insight for industry, generating and storing
// it on first use. Stored rows are returned as they are, stale or not.
func (uc *InsightUsecase) Resolve(ctx context.Context, industry string) (*model.IndustryInsight, error) {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		return nil, apperror.Validation("Industry is required", nil)
	}

	row, err := uc.find(ctx, industry)
	if err != nil || row != nil {
		return row, err
	}

	// The flight outlives a single caller: others may be waiting on it.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := uc.inflight.Do(industry, func() (any, error) {
		return uc.generateAndInsert(flightCtx, industry)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		uc.log.Debug("insight generation shared", "industry", industry)
	}
	return v.(*model.IndustryInsight), nil
}

func (uc *InsightUsecase) find(ctx context.Context, industry string) (*model.IndustryInsight, error) {
	row, err := uc.insights.FindByIndustry(ctx, industry)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Persistence("Failed to load industry insights", err)
	}
	return row, nil
}

func (uc *InsightUsecase) generateAndInsert(ctx context.Context, industry string) (*model.IndustryInsight, error) {
	if row, err := uc.find(ctx, industry); err != nil || row != nil {
		return row, err
	}

	payload, err := uc.Generate(ctx, industry)
	if err != nil {
		return nil, err
	}
	row := payload.ToModel(industry, uc.now())
	inserted, err := uc.insights.CreateIfAbsent(ctx, row)
	if err != nil {
		return nil, apperror.Persistence("Failed to save industry insights", err)
	}
	if inserted {
		uc.log.Info("industry insights created", "industry", industry)
		return row, nil
	}

	// Another process stored the row first; its copy wins.
	uc.log.Info("industry insights already created elsewhere", "industry", industry)
	winner, err := uc.find(ctx, industry)
	if err != nil {
		return nil, err
	}
	if winner == nil {
		return nil, apperror.Persistence("Failed to save industry insights", gorm.ErrRecordNotFound)
	}
	return winner, nil
}

// Refresh regenerates the insight for industry and overwrites the stored
// row, creating it if absent.
func (uc *InsightUsecase) Refresh(ctx context.Context, industry string) (*model.IndustryInsight, error) {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		return nil, apperror.Validation("Industry is required", nil)
	}
	payload, err := uc.Generate(ctx, industry)
	if err != nil {
		return nil, err
	}
	if err := uc.insights.Upsert(ctx, payload.ToModel(industry, uc.now())); err != nil {
		return nil, apperror.Persistence("Failed to save industry insights", err)
	}
	row, err := uc.find(ctx, industry)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperror.Persistence("Failed to save industry insights", gorm.ErrRecordNotFound)
	}
	uc.log.Info("industry insights refreshed", "industry", industry)
	return row, nil
}

// RefreshAll refreshes every stored industry in order and stops at the
// first failure.
func (uc *InsightUsecase) RefreshAll(ctx context.Context) error {
	industries, err := uc.insights.ListIndustries(ctx)
	if err != nil {
		return apperror.Persistence("Failed to list industries", err)
	}
	for i, industry := range industries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := uc.Refresh(ctx, industry); err != nil {
			return fmt.Errorf("refresh %q (%d/%d): %w", industry, i+1, len(industries), err)
		}
	}
	uc.log.Info("all industry insights refreshed", "count", len(industries))
	return nil
}

func (uc *InsightUsecase) ResolveForUser(ctx context.Context, identity string) (*model.IndustryInsight, error) {
	u, err := findUser(ctx, uc.users, identity)
	if err != nil {
		return nil, err
	}
	industry, err := requireIndustry(u)
	if err != nil {
		return nil, err
	}
	return uc.Resolve(ctx, industry)
}

func (uc *InsightUsecase) RefreshForUser(ctx context.Context, identity string) (*model.IndustryInsight, error) {
	u, err := findUser(ctx, uc.users, identity)
	if err != nil {
		return nil, err
	}
	industry, err := requireIndustry(u)
	if err != nil {
		return nil, err
	}
	return uc.Refresh(ctx, industry)
}

func (uc *InsightUsecase) Dashboard(ctx context.Context, identity string) (*dto.InsightView, error) {
	u, err := findUser(ctx, uc.users, identity)
	if err != nil {
		return nil, err
	}
	industry, err := requireIndustry(u)
	if err != nil {
		return nil, err
	}
	row, err := uc.Resolve(ctx, industry)
	if err != nil {
		return nil, err
	}
	return BuildInsightView(row, u.Skills, uc.now()), nil
}

// Compare resolves the caller's industry and other side by side.
func (uc *InsightUsecase) Compare(ctx context.Context, identity, other string) (*dto.InsightComparison, error) {
	other = strings.TrimSpace(other)
	if other == "" {
		return nil, apperror.Validation("Industry to compare is required", nil)
	}

	var own, theirs *model.IndustryInsight
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		own, err = uc.ResolveForUser(gctx, identity)
		return err
	})
	g.Go(func() error {
		var err error
		theirs, err = uc.Resolve(gctx, other)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shared, onlyOwn, onlyOther := splitSkills(own.TopSkills, theirs.TopSkills)
	ownJob, otherJob := own.JobMarket.Data(), theirs.JobMarket.Data()
	return &dto.InsightComparison{
		Own:          own,
		Other:        theirs,
		SharedSkills: shared,
		OnlyOwn:      onlyOwn,
		OnlyOther:    onlyOther,
		Delta: dto.IndustryDelta{
			GrowthRate:          theirs.GrowthRate - own.GrowthRate,
			AverageMedianSalary: averageMedian(theirs.SalaryRanges) - averageMedian(own.SalaryRanges),
			RemotePercentage:    otherJob.RemotePercentage - ownJob.RemotePercentage,
		},
	}, nil
}

// BuildInsightView derives the dashboard figures for row as seen by a user
// with userSkills.
func BuildInsightView(row *model.IndustryInsight, userSkills []string, now time.Time) *dto.InsightView {
	days := int(now.Sub(row.LastUpdated).Hours() / 24)
	if days < 0 {
		days = 0
	}
	staleness := dto.StalenessStale
	switch {
	case days < 7:
		staleness = dto.StalenessFresh
	case days < 30:
		staleness = dto.StalenessAging
	}

	has := make(map[string]bool, len(userSkills))
	for _, s := range userSkills {
		has[strings.ToLower(strings.TrimSpace(s))] = true
	}
	radar := row.RecommendedSkills
	if len(radar) > radarSkillLimit {
		radar = radar[:radarSkillLimit]
	}
	matches := make([]dto.SkillMatch, 0, len(radar))
	matched := 0
	for _, skill := range radar {
		m := has[strings.ToLower(strings.TrimSpace(skill))]
		if m {
			matched++
		}
		matches = append(matches, dto.SkillMatch{Skill: skill, Has: m})
	}
	coverage := 0.0
	if len(radar) > 0 {
		coverage = math.Round(float64(matched)*1000/float64(len(radar))) / 10
	}

	return &dto.InsightView{
		Insight:             row,
		DaysSinceUpdate:     days,
		Staleness:           staleness,
		AverageMedianSalary: averageMedian(row.SalaryRanges),
		SkillMatches:        matches,
		SkillCoverage:       coverage,
	}
}

func averageMedian(ranges []model.SalaryRange) float64 {
	if len(ranges) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range ranges {
		sum += r.Median
	}
	return sum / float64(len(ranges))
}

// splitSkills compares two skill lists case-insensitively. Results keep
// the spelling of their source list and are sorted.
func splitSkills(own, other []string) (shared, onlyOwn, onlyOther []string) {
	otherSet := make(map[string]bool, len(other))
	for _, s := range other {
		otherSet[strings.ToLower(s)] = true
	}
	ownSet := make(map[string]bool, len(own))
	for _, s := range own {
		key := strings.ToLower(s)
		if ownSet[key] {
			continue
		}
		ownSet[key] = true
		if otherSet[key] {
			shared = append(shared, s)
		} else {
			onlyOwn = append(onlyOwn, s)
		}
	}
	seen := make(map[string]bool, len(other))
	for _, s := range other {
		key := strings.ToLower(s)
		if !ownSet[key] && !seen[key] {
			onlyOther = append(onlyOther, s)
		}
		seen[key] = true
	}
	sort.Strings(shared)
	sort.Strings(onlyOwn)
	sort.Strings(onlyOther)
	return shared, onlyOwn, onlyOther
}
