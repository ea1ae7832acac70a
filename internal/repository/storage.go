package repository

import (
	"ShortLink-Backend/internal/domain"
	"context"
	"errors"
)

var (
	ErrLinkNotFound = errors.New("link not found")
)

// LinkStore is the durable code -> link mapping. Every method is a single
// atomic operation at the store level; callers never compose two of them
// when uniqueness or counting depends on atomicity.
type LinkStore interface {
	// InsertIfAbsent stores link unless its code is taken. On success it
	// stamps link.CreatedAt and reports true.
	InsertIfAbsent(ctx context.Context, link *domain.Link) (bool, error)
	// FindByCode returns ErrLinkNotFound when no link holds code.
	FindByCode(ctx context.Context, code string) (*domain.Link, error)
	// IncrementClicksIfPresent bumps clicks and last_clicked_at and returns
	// the updated link, or ErrLinkNotFound when nothing matched.
	IncrementClicksIfPresent(ctx context.Context, code string) (*domain.Link, error)
	// DeleteByCode returns the number of rows removed.
	DeleteByCode(ctx context.Context, code string) (int64, error)
	// ListAll returns every link, newest first.
	ListAll(ctx context.Context) ([]*domain.Link, error)
}

// Pinger is implemented by stores that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}
