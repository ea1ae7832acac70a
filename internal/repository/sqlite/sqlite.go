package sqlite

import (
	"ShortLink-Backend/internal/domain"
	"ShortLink-Backend/internal/repository"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Local SQLite driver
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		target TEXT NOT NULL,
		clicks INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		last_clicked_at INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_links_created_at ON links(created_at)`,
}

const linkColumns = `id, code, target, clicks, created_at, last_clicked_at`

// SQLiteStorage keeps links in a local SQLite file or a Turso database.
// Timestamps are stored as unix nanoseconds.
type SQLiteStorage struct {
	db  *sql.DB
	log *zap.Logger
}

// New opens dsn, creates the schema and returns the store. DSNs with a
// libsql:// or wss:// scheme go through the Turso driver.
func New(ctx context.Context, dsn string, log *zap.Logger) (*SQLiteStorage, error) {
	driverName := "sqlite"
	if strings.Contains(dsn, "libsql://") || strings.Contains(dsn, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driverName, err)
	}
	if driverName == "sqlite" {
		// a single writer avoids SQLITE_BUSY on a local file
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	log.Info("sqlite link store ready", zap.String("driver", driverName))
	return &SQLiteStorage{db: db, log: log}, nil
}

func (s *SQLiteStorage) InsertIfAbsent(ctx context.Context, link *domain.Link) (bool, error) {
	createdAt := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO links (id, code, target, clicks, created_at) VALUES (?, ?, ?, 0, ?)
		 ON CONFLICT(code) DO NOTHING`,
		link.ID, link.Code, link.Target, createdAt.UnixNano())
	if err != nil {
		s.log.Error("failed to insert link", zap.String("code", link.Code), zap.Error(err))
		return false, fmt.Errorf("failed to insert link: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	link.CreatedAt = createdAt
	link.Clicks = 0
	link.LastClickedAt = nil
	return true, nil
}

func (s *SQLiteStorage) FindByCode(ctx context.Context, code string) (*domain.Link, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE code = ?`, code)

	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to get link", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return link, nil
}

func (s *SQLiteStorage) IncrementClicksIfPresent(ctx context.Context, code string) (*domain.Link, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE links SET clicks = clicks + 1, last_clicked_at = ? WHERE code = ?
		 RETURNING `+linkColumns,
		time.Now().UTC().UnixNano(), code)

	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to increment clicks", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to increment clicks: %w", err)
	}
	return link, nil
}

func (s *SQLiteStorage) DeleteByCode(ctx context.Context, code string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE code = ?`, code)
	if err != nil {
		s.log.Error("failed to delete link", zap.String("code", code), zap.Error(err))
		return 0, fmt.Errorf("failed to delete link: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStorage) ListAll(ctx context.Context) ([]*domain.Link, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM links ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		s.log.Error("failed to list links", zap.Error(err))
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := make([]*domain.Link, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate links: %w", err)
	}
	return links, nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(row scanner) (*domain.Link, error) {
	var (
		link          domain.Link
		createdAt     int64
		lastClickedAt sql.NullInt64
	)
	if err := row.Scan(&link.ID, &link.Code, &link.Target, &link.Clicks, &createdAt, &lastClickedAt); err != nil {
		return nil, err
	}

	link.CreatedAt = time.Unix(0, createdAt).UTC()
	if lastClickedAt.Valid {
		t := time.Unix(0, lastClickedAt.Int64).UTC()
		link.LastClickedAt = &t
	}
	return &link, nil
}
