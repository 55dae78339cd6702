package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/fadilmartias/career-coach/internal/apperror"
	"github.com/fadilmartias/career-coach/internal/dto"
	"github.com/fadilmartias/career-coach/internal/logger"
	"github.com/fadilmartias/career-coach/internal/model"
	"github.com/fadilmartias/career-coach/internal/quiz"
	"github.com/fadilmartias/career-coach/internal/repository"
)

const maxBookmarkAttempts = 5

type BookmarkUsecase struct {
	users *repository.UserRepository
	log   *logger.Logger
	now   func() time.Time
}

func NewBookmarkUsecase(users *repository.UserRepository, log *logger.Logger) *BookmarkUsecase {
	return &BookmarkUsecase{users: users, log: log.With("component", "BookmarkUsecase"), now: utcNow}
}

// Add bookmarks a question unless one with the same text is already
// bookmarked, and returns the resulting list.
func (uc *BookmarkUsecase) Add(ctx context.Context, identity string, req dto.BookmarkRequest) ([]model.BookmarkedQuestion, error) {
	if req.Question == "" {
		return nil, apperror.Validation("Question is required", nil)
	}
	return uc.update(ctx, identity, func(list []model.BookmarkedQuestion) ([]model.BookmarkedQuestion, bool) {
		for _, b := range list {
			if b.Question == req.Question {
				return list, false
			}
		}
		category := req.Category
		if category == "" {
			category = quiz.CategoryTechnical
		}
		next := make([]model.BookmarkedQuestion, 0, len(list)+1)
		next = append(next, list...)
		next = append(next, model.BookmarkedQuestion{
			Question:     req.Question,
			Answer:       req.Answer,
			Explanation:  req.Explanation,
			Category:     category,
			BookmarkedAt: uc.now(),
		})
		return next, true
	})
}

// Remove drops every bookmark whose text equals question exactly.
func (uc *BookmarkUsecase) Remove(ctx context.Context, identity, question string) ([]model.BookmarkedQuestion, error) {
	return uc.update(ctx, identity, func(list []model.BookmarkedQuestion) ([]model.BookmarkedQuestion, bool) {
		next := make([]model.BookmarkedQuestion, 0, len(list))
		for _, b := range list {
			if b.Question != question {
				next = append(next, b)
			}
		}
		if len(next) == len(list) {
			return list, false
		}
		return next, true
	})
}

func (uc *BookmarkUsecase) List(ctx context.Context, identity string) ([]model.BookmarkedQuestion, error) {
	u, err := findUser(ctx, uc.users, identity)
	if err != nil {
		return nil, err
	}
	return nonNil(u.BookmarkedQuestions), nil
}

// update re-reads the list and retries the compare-and-swap when another
// writer got there first.
func (uc *BookmarkUsecase) update(ctx context.Context, identity string, change func([]model.BookmarkedQuestion) ([]model.BookmarkedQuestion, bool)) ([]model.BookmarkedQuestion, error) {
	for attempt := 1; attempt <= maxBookmarkAttempts; attempt++ {
		u, err := findUser(ctx, uc.users, identity)
		if err != nil {
			return nil, err
		}
		next, changed := change(nonNil(u.BookmarkedQuestions))
		if !changed {
			return next, nil
		}
		err = uc.users.SaveBookmarks(ctx, u.ID, u.BookmarkVersion, next)
		if errors.Is(err, repository.ErrStaleVersion) {
			uc.log.Debug("bookmark write raced, retrying", "user_id", u.ID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, apperror.Persistence("Failed to update bookmarks", err)
		}
		return next, nil
	}
	return nil, apperror.Conflict("Bookmarks are being updated elsewhere, please retry", repository.ErrStaleVersion)
}

func nonNil(list []model.BookmarkedQuestion) []model.BookmarkedQuestion {
	if list == nil {
		return []model.BookmarkedQuestion{}
	}
	return list
}
