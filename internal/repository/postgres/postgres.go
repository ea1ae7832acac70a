package postgres

import (
	"ShortLink-Backend/internal/database"
	"ShortLink-Backend/internal/domain"
	"ShortLink-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStorage реализует интерфейс LinkStore для PostgreSQL
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New создает новый экземпляр PostgreSQL storage
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// now matches the microsecond precision of timestamptz so that the value
// stamped on the caller's link equals what a later read returns.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// InsertIfAbsent сохраняет ссылку, если код свободен
func (s *PostgresStorage) InsertIfAbsent(ctx context.Context, link *domain.Link) (bool, error) {
	link.CreatedAt = now()
	link.Clicks = 0
	link.LastClickedAt = nil

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).
		Create(link)
	if result.Error != nil {
		s.log.Error("failed to insert link", zap.String("code", link.Code), zap.Error(result.Error))
		return false, fmt.Errorf("failed to insert link: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// FindByCode получает ссылку по коду
func (s *PostgresStorage) FindByCode(ctx context.Context, code string) (*domain.Link, error) {
	var link domain.Link

	err := s.db.WithContext(ctx).Where("code = ?", code).Take(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to get link", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return normalize(&link), nil
}

// IncrementClicksIfPresent увеличивает счетчик одним UPDATE ... RETURNING
func (s *PostgresStorage) IncrementClicksIfPresent(ctx context.Context, code string) (*domain.Link, error) {
	var updated []domain.Link

	result := s.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Where("code = ?", code).
		Updates(map[string]interface{}{
			"clicks":          gorm.Expr("clicks + 1"),
			"last_clicked_at": now(),
		})
	if result.Error != nil {
		s.log.Error("failed to increment clicks", zap.String("code", code), zap.Error(result.Error))
		return nil, fmt.Errorf("failed to increment clicks: %w", result.Error)
	}
	if result.RowsAffected == 0 || len(updated) == 0 {
		return nil, repository.ErrLinkNotFound
	}

	return normalize(&updated[0]), nil
}

// DeleteByCode удаляет ссылку (жесткое удаление, код снова свободен)
func (s *PostgresStorage) DeleteByCode(ctx context.Context, code string) (int64, error) {
	result := s.db.WithContext(ctx).Where("code = ?", code).Delete(&domain.Link{})
	if result.Error != nil {
		s.log.Error("failed to delete link", zap.String("code", code), zap.Error(result.Error))
		return 0, fmt.Errorf("failed to delete link: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		s.log.Info("deleted link", zap.String("code", code))
	}
	return result.RowsAffected, nil
}

// ListAll возвращает все ссылки, новые первыми
func (s *PostgresStorage) ListAll(ctx context.Context) ([]*domain.Link, error) {
	var links []*domain.Link

	err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&links).Error
	if err != nil {
		s.log.Error("failed to list links", zap.Error(err))
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	for _, link := range links {
		normalize(link)
	}
	return links, nil
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// normalize приводит время к UTC
func normalize(link *domain.Link) *domain.Link {
	link.CreatedAt = link.CreatedAt.UTC()
	if link.LastClickedAt != nil {
		t := link.LastClickedAt.UTC()
		link.LastClickedAt = &t
	}
	return link
}
