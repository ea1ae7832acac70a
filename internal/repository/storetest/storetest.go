// Package storetest holds the behaviour every repository.LinkStore must share.
// Backend packages run it against a fresh store per subtest.
package storetest

import (
	"ShortLink-Backend/internal/domain"
	"ShortLink-Backend/internal/repository"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) repository.LinkStore

func newLink(code, target string) *domain.Link {
	return &domain.Link{ID: uuid.NewString(), Code: code, Target: target}
}

// Run exercises store semantics shared by all backends.
func Run(t *testing.T, factory Factory) {
	t.Run("insert_and_find", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)
		before := time.Now().UTC().Add(-time.Second)

		link := newLink("abc123", "https://example.com/a?b=c")
		inserted, err := store.InsertIfAbsent(ctx, link)
		require.NoError(t, err)
		require.True(t, inserted)
		assert.False(t, link.CreatedAt.IsZero())
		assert.True(t, link.CreatedAt.After(before))

		got, err := store.FindByCode(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, link.ID, got.ID)
		assert.Equal(t, "https://example.com/a?b=c", got.Target)
		assert.Zero(t, got.Clicks)
		assert.Nil(t, got.LastClickedAt)
		assert.WithinDuration(t, link.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("insert_existing_code", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		inserted, err := store.InsertIfAbsent(ctx, newLink("dup123", "https://first.example.com"))
		require.NoError(t, err)
		require.True(t, inserted)

		inserted, err = store.InsertIfAbsent(ctx, newLink("dup123", "https://second.example.com"))
		require.NoError(t, err)
		assert.False(t, inserted)

		got, err := store.FindByCode(ctx, "dup123")
		require.NoError(t, err)
		assert.Equal(t, "https://first.example.com", got.Target)
	})

	t.Run("codes_are_case_sensitive", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		inserted, err := store.InsertIfAbsent(ctx, newLink("AbCdEf", "https://upper.example.com"))
		require.NoError(t, err)
		require.True(t, inserted)
		inserted, err = store.InsertIfAbsent(ctx, newLink("abcdef", "https://lower.example.com"))
		require.NoError(t, err)
		require.True(t, inserted)

		got, err := store.FindByCode(ctx, "abcdef")
		require.NoError(t, err)
		assert.Equal(t, "https://lower.example.com", got.Target)
	})

	t.Run("find_missing", func(t *testing.T) {
		store := factory(t)

		_, err := store.FindByCode(context.Background(), "nope12")
		assert.ErrorIs(t, err, repository.ErrLinkNotFound)
	})

	t.Run("increment", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		_, err := store.IncrementClicksIfPresent(ctx, "nope12")
		require.ErrorIs(t, err, repository.ErrLinkNotFound)

		link := newLink("inc123", "https://example.com")
		_, err = store.InsertIfAbsent(ctx, link)
		require.NoError(t, err)

		first, err := store.IncrementClicksIfPresent(ctx, "inc123")
		require.NoError(t, err)
		assert.Equal(t, int64(1), first.Clicks)
		assert.Equal(t, "https://example.com", first.Target)
		require.NotNil(t, first.LastClickedAt)

		second, err := store.IncrementClicksIfPresent(ctx, "inc123")
		require.NoError(t, err)
		assert.Equal(t, int64(2), second.Clicks)
		require.NotNil(t, second.LastClickedAt)
		assert.False(t, second.LastClickedAt.Before(*first.LastClickedAt))

		got, err := store.FindByCode(ctx, "inc123")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Clicks)
	})

	t.Run("concurrent_increments", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		_, err := store.InsertIfAbsent(ctx, newLink("hot123", "https://example.com"))
		require.NoError(t, err)

		const clicks = 50
		var wg sync.WaitGroup
		for i := 0; i < clicks; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.IncrementClicksIfPresent(ctx, "hot123")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := store.FindByCode(ctx, "hot123")
		require.NoError(t, err)
		assert.Equal(t, int64(clicks), got.Clicks)
	})

	t.Run("concurrent_inserts_same_code", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		const workers = 20
		var (
			wg  sync.WaitGroup
			won atomic.Int32
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				inserted, err := store.InsertIfAbsent(ctx, newLink("race12", fmt.Sprintf("https://example.com/%d", i)))
				assert.NoError(t, err)
				if inserted {
					won.Add(1)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), won.Load())
	})

	t.Run("delete", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		n, err := store.DeleteByCode(ctx, "del123")
		require.NoError(t, err)
		assert.Zero(t, n)

		_, err = store.InsertIfAbsent(ctx, newLink("del123", "https://example.com"))
		require.NoError(t, err)
		_, err = store.IncrementClicksIfPresent(ctx, "del123")
		require.NoError(t, err)

		n, err = store.DeleteByCode(ctx, "del123")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = store.FindByCode(ctx, "del123")
		assert.ErrorIs(t, err, repository.ErrLinkNotFound)
		_, err = store.IncrementClicksIfPresent(ctx, "del123")
		assert.ErrorIs(t, err, repository.ErrLinkNotFound)

		links, err := store.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, links)

		// the code is free again and starts from zero clicks
		inserted, err := store.InsertIfAbsent(ctx, newLink("del123", "https://again.example.com"))
		require.NoError(t, err)
		assert.True(t, inserted)
		got, err := store.FindByCode(ctx, "del123")
		require.NoError(t, err)
		assert.Zero(t, got.Clicks)
	})

	t.Run("list_newest_first", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		links, err := store.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, links)

		codes := []string{"list01", "list02", "list03"}
		for _, code := range codes {
			_, err := store.InsertIfAbsent(ctx, newLink(code, "https://example.com/"+code))
			require.NoError(t, err)
			time.Sleep(5 * time.Millisecond)
		}

		links, err = store.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, links, 3)
		assert.Equal(t, "list03", links[0].Code)
		assert.Equal(t, "list02", links[1].Code)
		assert.Equal(t, "list01", links[2].Code)
	})
}
