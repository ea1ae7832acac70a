package redisstore

import (
	"ShortLink-Backend/internal/domain"
	"ShortLink-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Each link is a hash at <prefix>link:<code>. The sorted set
// <prefix>links:by_created orders codes by creation time in microseconds.
// Every mutation runs as a Lua script so the hash and the index never diverge.

var insertScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'id', ARGV[1], 'code', ARGV[2], 'target', ARGV[3], 'clicks', 0, 'created_at', ARGV[4])
redis.call('ZADD', KEYS[2], ARGV[5], ARGV[2])
return 1
`)

var incrementScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return false
end
redis.call('HINCRBY', KEYS[1], 'clicks', 1)
redis.call('HSET', KEYS[1], 'last_clicked_at', ARGV[1])
return redis.call('HGETALL', KEYS[1])
`)

var deleteScript = redis.NewScript(`
local n = redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[1])
return n
`)

type RedisStorage struct {
	client redis.UniversalClient
	prefix string
	log    *zap.Logger
}

func New(client redis.UniversalClient, prefix string, log *zap.Logger) *RedisStorage {
	return &RedisStorage{
		client: client,
		prefix: prefix,
		log:    log,
	}
}

func (s *RedisStorage) linkKey(code string) string {
	return s.prefix + "link:" + code
}

func (s *RedisStorage) indexKey() string {
	return s.prefix + "links:by_created"
}

func (s *RedisStorage) InsertIfAbsent(ctx context.Context, link *domain.Link) (bool, error) {
	createdAt := time.Now().UTC()

	inserted, err := insertScript.Run(ctx, s.client,
		[]string{s.linkKey(link.Code), s.indexKey()},
		link.ID, link.Code, link.Target, createdAt.UnixNano(), createdAt.UnixMicro(),
	).Int()
	if err != nil {
		s.log.Error("failed to insert link", zap.String("code", link.Code), zap.Error(err))
		return false, fmt.Errorf("failed to insert link: %w", err)
	}
	if inserted == 0 {
		return false, nil
	}

	link.CreatedAt = createdAt
	link.Clicks = 0
	link.LastClickedAt = nil
	return true, nil
}

func (s *RedisStorage) FindByCode(ctx context.Context, code string) (*domain.Link, error) {
	fields, err := s.client.HGetAll(ctx, s.linkKey(code)).Result()
	if err != nil {
		s.log.Error("failed to get link", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	if len(fields) == 0 {
		return nil, repository.ErrLinkNotFound
	}
	return parseLink(fields)
}

func (s *RedisStorage) IncrementClicksIfPresent(ctx context.Context, code string) (*domain.Link, error) {
	res, err := incrementScript.Run(ctx, s.client,
		[]string{s.linkKey(code)},
		time.Now().UTC().UnixNano(),
	).Slice()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to increment clicks", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to increment clicks: %w", err)
	}

	fields := make(map[string]string, len(res)/2)
	for i := 0; i+1 < len(res); i += 2 {
		key, _ := res[i].(string)
		value, _ := res[i+1].(string)
		fields[key] = value
	}
	return parseLink(fields)
}

func (s *RedisStorage) DeleteByCode(ctx context.Context, code string) (int64, error) {
	n, err := deleteScript.Run(ctx, s.client,
		[]string{s.linkKey(code), s.indexKey()},
		code,
	).Int64()
	if err != nil {
		s.log.Error("failed to delete link", zap.String("code", code), zap.Error(err))
		return 0, fmt.Errorf("failed to delete link: %w", err)
	}
	return n, nil
}

func (s *RedisStorage) ListAll(ctx context.Context) ([]*domain.Link, error) {
	codes, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		s.log.Error("failed to list link codes", zap.Error(err))
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	links := make([]*domain.Link, 0, len(codes))
	if len(codes) == 0 {
		return links, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(codes))
	for i, code := range codes {
		cmds[i] = pipe.HGetAll(ctx, s.linkKey(code))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Error("failed to load links", zap.Error(err))
		return nil, fmt.Errorf("failed to load links: %w", err)
	}

	for _, cmd := range cmds {
		fields := cmd.Val()
		// deleted between ZREVRANGE and HGETALL
		if len(fields) == 0 {
			continue
		}
		link, err := parseLink(fields)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

func (s *RedisStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func parseLink(fields map[string]string) (*domain.Link, error) {
	clicks, err := strconv.ParseInt(fields["clicks"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid clicks for %q: %w", fields["code"], err)
	}
	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at for %q: %w", fields["code"], err)
	}

	link := &domain.Link{
		ID:        fields["id"],
		Code:      fields["code"],
		Target:    fields["target"],
		Clicks:    clicks,
		CreatedAt: time.Unix(0, createdAt).UTC(),
	}
	if raw, ok := fields["last_clicked_at"]; ok && raw != "" {
		lastClickedAt, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid last_clicked_at for %q: %w", fields["code"], err)
		}
		t := time.Unix(0, lastClickedAt).UTC()
		link.LastClickedAt = &t
	}
	return link, nil
}
