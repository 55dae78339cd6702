package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/fadilmartias/career-coach/internal/apperror"
	"github.com/fadilmartias/career-coach/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarks_AddIsIdempotentByText(t *testing.T) {
	f := newFixture(t)
	uc := NewBookmarkUsecase(f.users, f.log)
	uc.now = fixedClock(day0)
	f.onboardedUser(t, "dev", "")
	ctx := context.Background()

	list, err := uc.Add(ctx, "dev", dto.BookmarkRequest{Question: "What is a goroutine?", Answer: "A lightweight thread"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Technical", list[0].Category)
	assert.True(t, list[0].BookmarkedAt.Equal(day0))

	list, err = uc.Add(ctx, "dev", dto.BookmarkRequest{Question: "What is a goroutine?", Answer: "different", Category: "Behavioral"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A lightweight thread", list[0].Answer)

	_, err = uc.Add(ctx, "dev", dto.BookmarkRequest{})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestBookmarks_RemoveByExactText(t *testing.T) {
	f := newFixture(t)
	uc := NewBookmarkUsecase(f.users, f.log)
	f.onboardedUser(t, "dev", "")
	ctx := context.Background()

	for _, q := range []string{"Q1", "Q2", "Q3"} {
		_, err := uc.Add(ctx, "dev", dto.BookmarkRequest{Question: q})
		require.NoError(t, err)
	}

	list, err := uc.Remove(ctx, "dev", "q2")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = uc.Remove(ctx, "dev", "Q2")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Q1", list[0].Question)
	assert.Equal(t, "Q3", list[1].Question)

	list, err = uc.List(ctx, "dev")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestBookmarks_ListEmptyIsNotNil(t *testing.T) {
	f := newFixture(t)
	uc := NewBookmarkUsecase(f.users, f.log)
	f.onboardedUser(t, "dev", "")

	list, err := uc.List(context.Background(), "dev")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = uc.List(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestBookmarks_ConcurrentAddsAreNotLost(t *testing.T) {
	f := newFixture(t)
	uc := NewBookmarkUsecase(f.users, f.log)
	f.onboardedUser(t, "dev", "")

	const writers = 4
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Add(context.Background(), "dev", dto.BookmarkRequest{Question: fmt.Sprintf("Q%d", i)})
		}(i)
	}
	wg.Wait()

	saved := 0
	for _, err := range errs {
		if err == nil {
			saved++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrConflict)
	}
	list, err := uc.List(context.Background(), "dev")
	require.NoError(t, err)
	assert.Len(t, list, saved)
}
