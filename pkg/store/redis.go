package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/linealens/linealens/pkg/project"
)

const (
	redisProjectPrefix = "linealens:project:"
	redisIndexKey      = "linealens:index"
)

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisBackend stores blobs under per-project keys and the index under a
// single key, all JSON-encoded.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend connects to Redis and verifies the connection.
func NewRedisBackend(ctx context.Context, cfg RedisConfig) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisBackend{client: client}, nil
}

func (b *RedisBackend) ReadProject(ctx context.Context, id string) (*project.SavedProject, error) {
	data, err := b.client.Get(ctx, redisProjectPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	var p project.SavedProject
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	return &p, nil
}

func (b *RedisBackend) WriteProject(ctx context.Context, p *project.SavedProject) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	if err := b.client.Set(ctx, redisProjectPrefix+p.Metadata.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("set project: %w", err)
	}
	return nil
}

func (b *RedisBackend) DeleteProject(ctx context.Context, id string) error {
	if err := b.client.Del(ctx, redisProjectPrefix+id).Err(); err != nil {
		return fmt.Errorf("del project: %w", err)
	}
	return nil
}

func (b *RedisBackend) ReadIndex(ctx context.Context) ([]project.Metadata, error) {
	data, err := b.client.Get(ctx, redisIndexKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get index: %w", err)
	}
	var entries []project.Metadata
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return entries, nil
}

func (b *RedisBackend) WriteIndex(ctx context.Context, entries []project.Metadata) error {
	if entries == nil {
		entries = []project.Metadata{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := b.client.Set(ctx, redisIndexKey, data, 0).Err(); err != nil {
		return fmt.Errorf("set index: %w", err)
	}
	return nil
}

func (b *RedisBackend) Reset(ctx context.Context) error {
	// The index is the authoritative id list; delete its blobs, then
	// the index itself.
	entries, err := b.ReadIndex(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := b.client.Del(ctx, redisProjectPrefix+e.ID).Err(); err != nil {
			return fmt.Errorf("del project: %w", err)
		}
	}
	if err := b.client.Del(ctx, redisIndexKey).Err(); err != nil {
		return fmt.Errorf("del index: %w", err)
	}
	return nil
}

func (b *RedisBackend) Close() error { return b.client.Close() }

var _ Backend = (*RedisBackend)(nil)
