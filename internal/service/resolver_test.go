package service

import (
	"ShortLink-Backend/internal/domain"
	"ShortLink-Backend/internal/repository"
	"ShortLink-Backend/internal/repository/memory"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedirectResolver_ResolveAndCount(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		store := &MockStore{}
		resolver := NewRedirectResolver(store, zap.NewNop())
		clickedAt := time.Now().UTC()

		store.On("IncrementClicksIfPresent", ctx, "abc123").Return(&domain.Link{
			Code:          "abc123",
			Target:        "https://example.com",
			Clicks:        1,
			LastClickedAt: &clickedAt,
		}, nil).Once()

		link, err := resolver.ResolveAndCount(ctx, "abc123")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", link.Target)
		assert.Equal(t, int64(1), link.Clicks)
		store.AssertExpectations(t)
	})

	t.Run("not_found", func(t *testing.T) {
		store := &MockStore{}
		resolver := NewRedirectResolver(store, zap.NewNop())

		store.On("IncrementClicksIfPresent", ctx, "nope12").Return(nil, repository.ErrLinkNotFound).Once()

		link, err := resolver.ResolveAndCount(ctx, "nope12")

		assert.Nil(t, link)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed_code", func(t *testing.T) {
		store := &MockStore{}
		resolver := NewRedirectResolver(store, zap.NewNop())

		for _, code := range []string{"", "abc", "favicon.ico", "abcdefghij"} {
			link, err := resolver.ResolveAndCount(ctx, code)

			assert.Nil(t, link, code)
			assert.ErrorIs(t, err, ErrInvalidCode, code)
		}
		store.AssertNotCalled(t, "IncrementClicksIfPresent", mock.Anything, mock.Anything)
	})

	t.Run("store_failure", func(t *testing.T) {
		store := &MockStore{}
		resolver := NewRedirectResolver(store, zap.NewNop())

		store.On("IncrementClicksIfPresent", ctx, "abc123").Return(nil, errors.New("i/o timeout")).Once()

		_, err := resolver.ResolveAndCount(ctx, "abc123")

		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestRedirectResolver_CountsEveryClick(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())
	resolver := NewRedirectResolver(store, zap.NewNop())

	_, err := registry.Create(ctx, "https://example.com", "count1")
	require.NoError(t, err)

	const clicks = 200
	var wg sync.WaitGroup
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := resolver.ResolveAndCount(ctx, "count1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	link, err := registry.Get(ctx, "count1")
	require.NoError(t, err)
	assert.Equal(t, int64(clicks), link.Clicks)
	require.NotNil(t, link.LastClickedAt)
	assert.False(t, link.LastClickedAt.Before(link.CreatedAt))
}

func TestRedirectResolver_DeletedLinkIsNotCounted(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())
	resolver := NewRedirectResolver(store, zap.NewNop())

	_, err := registry.Create(ctx, "https://example.com", "gone12")
	require.NoError(t, err)
	_, err = registry.Delete(ctx, "gone12")
	require.NoError(t, err)

	link, err := resolver.ResolveAndCount(ctx, "gone12")

	assert.Nil(t, link)
	assert.ErrorIs(t, err, ErrNotFound)
}
