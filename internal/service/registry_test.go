package service

import (
	"ShortLink-Backend/internal/config"
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

func testShortenerConfig() *config.URLShortener {
	return &config.URLShortener{
		BaseURL:        "http://localhost:8080",
		CodeLength:     6,
		MaxAttempts:    8,
		FallbackLength: 7,
	}
}

func codeOfLength(n int) interface{} {
	return mock.MatchedBy(func(l *domain.Link) bool { return len(l.Code) == n })
}

func TestLinkRegistry_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("custom_code", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		store.On("InsertIfAbsent", ctx, mock.MatchedBy(func(l *domain.Link) bool {
			return l.Code == "abc123" && l.Target == "https://example.com" && l.ID != ""
		})).Return(true, nil).Once()

		link, err := registry.Create(ctx, "https://example.com", "abc123")

		require.NoError(t, err)
		assert.Equal(t, "abc123", link.Code)
		assert.Equal(t, "https://example.com", link.Target)
		assert.Zero(t, link.Clicks)
		assert.Nil(t, link.LastClickedAt)
		store.AssertExpectations(t)
	})

	t.Run("custom_code_taken", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		store.On("InsertIfAbsent", ctx, mock.Anything).Return(false, nil).Once()

		link, err := registry.Create(ctx, "https://example.com", "abc123")

		assert.Nil(t, link)
		assert.ErrorIs(t, err, ErrCodeConflict)
		store.AssertNumberOfCalls(t, "InsertIfAbsent", 1)
	})

	t.Run("generated_code", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		store.On("InsertIfAbsent", ctx, codeOfLength(6)).Return(true, nil).Once()

		link, err := registry.Create(ctx, "http://example.com/path?q=1", "")

		require.NoError(t, err)
		assert.Len(t, link.Code, 6)
		assert.Regexp(t, `^[A-Za-z0-9]{6}$`, link.Code)
		store.AssertExpectations(t)
	})

	t.Run("widens_after_collisions", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		store.On("InsertIfAbsent", ctx, codeOfLength(6)).Return(false, nil).Times(8)
		store.On("InsertIfAbsent", ctx, codeOfLength(7)).Return(true, nil).Once()

		link, err := registry.Create(ctx, "https://example.com", "")

		require.NoError(t, err)
		assert.Len(t, link.Code, 7)
		store.AssertNumberOfCalls(t, "InsertIfAbsent", 9)
	})

	t.Run("exhausted", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		store.On("InsertIfAbsent", ctx, mock.Anything).Return(false, nil)

		link, err := registry.Create(ctx, "https://example.com", "")

		assert.Nil(t, link)
		assert.ErrorIs(t, err, ErrCodeConflict)
		store.AssertNumberOfCalls(t, "InsertIfAbsent", 9)
	})

	t.Run("store_failure", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())
		cause := errors.New("connection refused")

		store.On("InsertIfAbsent", ctx, mock.Anything).Return(false, cause).Once()

		link, err := registry.Create(ctx, "https://example.com", "")

		assert.Nil(t, link)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
		assert.ErrorIs(t, err, cause)
		store.AssertNumberOfCalls(t, "InsertIfAbsent", 1)
	})

	t.Run("invalid_target", func(t *testing.T) {
		targets := []string{
			"",
			"   ",
			"example.com",
			"/relative/path",
			"ftp://example.com/file",
			"javascript:alert(1)",
			"mailto:someone@example.com",
			"http://",
		}

		for _, target := range targets {
			store := &MockStore{}
			registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

			link, err := registry.Create(ctx, target, "")

			assert.Nil(t, link, target)
			assert.ErrorIs(t, err, ErrInvalidTarget, target)
			store.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
		}
	})

	t.Run("invalid_code", func(t *testing.T) {
		codes := []string{"abc", "abcdefghi", "abc-12", "abc 12", "abcdé1"}

		for _, code := range codes {
			store := &MockStore{}
			registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

			link, err := registry.Create(ctx, "https://example.com", code)

			assert.Nil(t, link, code)
			assert.ErrorIs(t, err, ErrInvalidCode, code)
			store.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
		}
	})

	t.Run("invalid_target_wins_over_invalid_code", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		_, err := registry.Create(ctx, "not a url", "x")

		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("cancelled_context", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := registry.Create(cancelled, "https://example.com", "")

		assert.ErrorIs(t, err, context.Canceled)
		store.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
	})
}

func TestLinkRegistry_CreateWithMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("generated_collision_widens", func(t *testing.T) {
		store := memory.New()
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		_, err := registry.Create(ctx, "https://taken.example.com", "aaaaaa")
		require.NoError(t, err)

		registry.generate = func(length int) (string, error) {
			if length == 6 {
				return "aaaaaa", nil
			}
			return "bbbbbbb", nil
		}

		link, err := registry.Create(ctx, "https://example.com", "")

		require.NoError(t, err)
		assert.Equal(t, "bbbbbbb", link.Code)

		stored, err := registry.Get(ctx, "aaaaaa")
		require.NoError(t, err)
		assert.Equal(t, "https://taken.example.com", stored.Target)
	})

	t.Run("concurrent_same_custom_code", func(t *testing.T) {
		store := memory.New()
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		const workers = 50
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			created   int
			conflicts int
		)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := registry.Create(ctx, "https://example.com", "race01")

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					created++
				case errors.Is(err, ErrCodeConflict):
					conflicts++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, created)
		assert.Equal(t, workers-1, conflicts)

		links, err := registry.List(ctx)
		require.NoError(t, err)
		assert.Len(t, links, 1)
	})
}

func TestLinkRegistry_List(t *testing.T) {
	ctx := context.Background()

	t.Run("newest_first", func(t *testing.T) {
		registry := NewLinkRegistry(memory.New(), testShortenerConfig(), zap.NewNop())

		for _, code := range []string{"first1", "second", "third3"} {
			_, err := registry.Create(ctx, "https://example.com/"+code, code)
			require.NoError(t, err)
		}

		links, err := registry.List(ctx)

		require.NoError(t, err)
		require.Len(t, links, 3)
		assert.Equal(t, "third3", links[0].Code)
		assert.Equal(t, "second", links[1].Code)
		assert.Equal(t, "first1", links[2].Code)
	})

	t.Run("empty", func(t *testing.T) {
		registry := NewLinkRegistry(memory.New(), testShortenerConfig(), zap.NewNop())

		links, err := registry.List(ctx)

		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("store_failure", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		store.On("ListAll", ctx).Return(nil, errors.New("timeout")).Once()

		links, err := registry.List(ctx)

		assert.Nil(t, links)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestLinkRegistry_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())
		clickedAt := time.Now().UTC()
		link := &domain.Link{
			ID:            "0b8f6c1e-4a8c-4d1b-9b0e-2f1d1d6f6a10",
			Code:          "abc123",
			Target:        "https://example.com",
			Clicks:        5,
			CreatedAt:     time.Now().UTC(),
			LastClickedAt: &clickedAt,
		}

		store.On("FindByCode", ctx, "abc123").Return(link, nil).Once()

		got, err := registry.Get(ctx, "abc123")

		require.NoError(t, err)
		assert.Equal(t, int64(5), got.Clicks)
		store.AssertExpectations(t)
	})

	t.Run("not_found", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		store.On("FindByCode", ctx, "nope12").Return(nil, repository.ErrLinkNotFound).Once()

		got, err := registry.Get(ctx, "nope12")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed_code_skips_store", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		got, err := registry.Get(ctx, "bad!")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrNotFound)
		store.AssertNotCalled(t, "FindByCode", mock.Anything, mock.Anything)
	})

	t.Run("store_failure", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		store.On("FindByCode", ctx, "abc123").Return(nil, errors.New("broken pipe")).Once()

		_, err := registry.Get(ctx, "abc123")

		assert.ErrorIs(t, err, ErrStoreUnavailable)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestLinkRegistry_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("existing", func(t *testing.T) {
		registry := NewLinkRegistry(memory.New(), testShortenerConfig(), zap.NewNop())
		_, err := registry.Create(ctx, "https://example.com", "abc123")
		require.NoError(t, err)

		n, err := registry.Delete(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = registry.Get(ctx, "abc123")
		assert.ErrorIs(t, err, ErrNotFound)

		n, err = registry.Delete(ctx, "abc123")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("code_reusable_after_delete", func(t *testing.T) {
		registry := NewLinkRegistry(memory.New(), testShortenerConfig(), zap.NewNop())
		_, err := registry.Create(ctx, "https://old.example.com", "reuse1")
		require.NoError(t, err)
		_, err = registry.Delete(ctx, "reuse1")
		require.NoError(t, err)

		link, err := registry.Create(ctx, "https://new.example.com", "reuse1")

		require.NoError(t, err)
		assert.Equal(t, "https://new.example.com", link.Target)
		assert.Zero(t, link.Clicks)
	})

	t.Run("malformed_code_skips_store", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		n, err := registry.Delete(ctx, "../etc")

		require.NoError(t, err)
		assert.Zero(t, n)
		store.AssertNotCalled(t, "DeleteByCode", mock.Anything, mock.Anything)
	})

	t.Run("store_failure", func(t *testing.T) {
		store := &MockStore{}
		registry := NewLinkRegistry(store, testShortenerConfig(), zap.NewNop())

		store.On("DeleteByCode", ctx, "abc123").Return(int64(0), errors.New("read only")).Once()

		_, err := registry.Delete(ctx, "abc123")

		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}
