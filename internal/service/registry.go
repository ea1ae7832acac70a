package service

import (
	"ShortLink-Backend/internal/config"
	"ShortLink-Backend/internal/domain"
	"ShortLink-Backend/internal/repository"
	"ShortLink-Backend/pkg/shortcode"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LinkRegistry creates, lists, reads and deletes links.
type LinkRegistry struct {
	store    repository.LinkStore
	config   *config.URLShortener
	log      *zap.Logger
	validate *validator.Validate
	newID    func() string
	generate func(length int) (string, error)
}

func NewLinkRegistry(store repository.LinkStore, cfg *config.URLShortener, log *zap.Logger) *LinkRegistry {
	return &LinkRegistry{
		store:    store,
		config:   cfg,
		log:      log,
		validate: validator.New(),
		newID:    uuid.NewString,
		generate: shortcode.Generate,
	}
}

// Create validates target, claims a code and persists the link. An empty code
// asks the registry to generate one.
func (r *LinkRegistry) Create(ctx context.Context, target, code string) (*domain.Link, error) {
	if err := r.validateTarget(target); err != nil {
		return nil, err
	}

	if code != "" {
		if !shortcode.IsWellFormed(code) {
			return nil, ErrInvalidCode
		}
		link, inserted, err := r.insert(ctx, target, code)
		if err != nil {
			return nil, err
		}
		if !inserted {
			return nil, ErrCodeConflict
		}
		r.log.Info("link created", zap.String("code", code), zap.Bool("custom", true))
		return link, nil
	}

	for _, length := range r.candidateLengths() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate, err := r.generate(length)
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}

		link, inserted, err := r.insert(ctx, target, candidate)
		if err != nil {
			return nil, err
		}
		if inserted {
			r.log.Info("link created", zap.String("code", candidate), zap.Bool("custom", false))
			return link, nil
		}
		r.log.Debug("generated code collided", zap.String("code", candidate), zap.Int("length", length))
	}

	r.log.Warn("all generated codes collided", zap.Int("attempts", len(r.candidateLengths())))
	return nil, fmt.Errorf("%w: no free generated code", ErrCodeConflict)
}

// List returns every link, newest first.
func (r *LinkRegistry) List(ctx context.Context) ([]*domain.Link, error) {
	links, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, storeError("list links", err)
	}
	return links, nil
}

// Get returns the link holding code.
func (r *LinkRegistry) Get(ctx context.Context, code string) (*domain.Link, error) {
	if !shortcode.IsWellFormed(code) {
		return nil, ErrNotFound
	}

	link, err := r.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeError("find link", err)
	}
	return link, nil
}

// Delete removes the link holding code and reports how many links were removed.
// Zero means nothing held the code, which is not an error.
func (r *LinkRegistry) Delete(ctx context.Context, code string) (int64, error) {
	if !shortcode.IsWellFormed(code) {
		return 0, nil
	}

	n, err := r.store.DeleteByCode(ctx, code)
	if err != nil {
		return 0, storeError("delete link", err)
	}
	if n > 0 {
		r.log.Info("link deleted", zap.String("code", code))
	}
	return n, nil
}

func (r *LinkRegistry) insert(ctx context.Context, target, code string) (*domain.Link, bool, error) {
	link := &domain.Link{
		ID:     r.newID(),
		Code:   code,
		Target: target,
	}

	inserted, err := r.store.InsertIfAbsent(ctx, link)
	if err != nil {
		return nil, false, storeError("insert link", err)
	}
	return link, inserted, nil
}

// candidateLengths lists one entry per generation attempt: MaxAttempts at the
// configured length, then a single wider attempt.
func (r *LinkRegistry) candidateLengths() []int {
	lengths := make([]int, 0, r.config.MaxAttempts+1)
	for i := 0; i < r.config.MaxAttempts; i++ {
		lengths = append(lengths, r.config.CodeLength)
	}
	return append(lengths, r.config.FallbackLength)
}

func (r *LinkRegistry) validateTarget(target string) error {
	if strings.TrimSpace(target) == "" {
		return ErrInvalidTarget
	}
	if err := r.validate.Var(target, "url"); err != nil {
		return ErrInvalidTarget
	}

	u, err := url.Parse(target)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ErrInvalidTarget
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	default:
		return ErrInvalidTarget
	}
}
