package memory

import (
	"ShortLink-Backend/internal/domain"
	"ShortLink-Backend/internal/repository"
	"context"
	"sort"
	"sync"
	"time"
)

type entry struct {
	link *domain.Link
	seq  uint64
}

type MemStorage struct {
	mu    sync.RWMutex
	links map[string]*entry
	seq   uint64
	now   func() time.Time
}

func New() *MemStorage {
	return &MemStorage{
		links: make(map[string]*entry),
		now:   time.Now,
	}
}

func (s *MemStorage) InsertIfAbsent(ctx context.Context, link *domain.Link) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.links[link.Code]; exists {
		return false, nil
	}

	link.CreatedAt = s.now().UTC()
	link.Clicks = 0
	link.LastClickedAt = nil

	s.seq++
	s.links[link.Code] = &entry{link: link.Clone(), seq: s.seq}
	return true, nil
}

func (s *MemStorage) FindByCode(ctx context.Context, code string) (*domain.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.links[code]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	return e.link.Clone(), nil
}

func (s *MemStorage) IncrementClicksIfPresent(ctx context.Context, code string) (*domain.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.links[code]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	clickedAt := s.now().UTC()
	e.link.Clicks++
	e.link.LastClickedAt = &clickedAt
	return e.link.Clone(), nil
}

func (s *MemStorage) DeleteByCode(ctx context.Context, code string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[code]; !ok {
		return 0, nil
	}
	delete(s.links, code)
	return 1, nil
}

func (s *MemStorage) ListAll(ctx context.Context) ([]*domain.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	entries := make([]entry, 0, len(s.links))
	for _, e := range s.links {
		entries = append(entries, entry{link: e.link.Clone(), seq: e.seq})
	}
	s.mu.RUnlock()

	// Equal timestamps fall back to insertion order so the newest still comes first.
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.link.CreatedAt.Equal(b.link.CreatedAt) {
			return a.link.CreatedAt.After(b.link.CreatedAt)
		}
		return a.seq > b.seq
	})

	links := make([]*domain.Link, len(entries))
	for i, e := range entries {
		links[i] = e.link
	}
	return links, nil
}

func (s *MemStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}
