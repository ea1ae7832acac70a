package service

import (
	"ShortLink-Backend/internal/domain"
	"ShortLink-Backend/internal/repository"
	"ShortLink-Backend/pkg/shortcode"
	"context"
	"errors"

	"go.uber.org/zap"
)

// RedirectResolver turns a code into its target and counts the click.
type RedirectResolver struct {
	store repository.LinkStore
	log   *zap.Logger
}

func NewRedirectResolver(store repository.LinkStore, log *zap.Logger) *RedirectResolver {
	return &RedirectResolver{
		store: store,
		log:   log,
	}
}

// ResolveAndCount increments the click counter of code and returns the updated
// link. The increment doubles as the existence check, so a concurrent delete
// can never turn into a redirect without a counted click or vice versa.
func (r *RedirectResolver) ResolveAndCount(ctx context.Context, code string) (*domain.Link, error) {
	if !shortcode.IsWellFormed(code) {
		return nil, ErrInvalidCode
	}

	link, err := r.store.IncrementClicksIfPresent(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeError("increment clicks", err)
	}

	r.log.Debug("click counted", zap.String("code", code), zap.Int64("clicks", link.Clicks))
	return link, nil
}
