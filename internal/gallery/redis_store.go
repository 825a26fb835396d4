package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore holds voice assets as JSON documents in a per-subject hash,
// keyed by asset id so writes de-duplicate naturally.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

func galleryKey(subject string) string {
	return "gallery:" + subject + ":voice"
}

func (s *RedisStore) ListBySubject(ctx context.Context, subject string) ([]Asset, error) {
	entries, err := s.client.HGetAll(ctx, galleryKey(subject)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read voice gallery: %w", err)
	}

	assets := make([]Asset, 0, len(entries))
	for id, raw := range entries {
		var asset Asset
		if err := json.Unmarshal([]byte(raw), &asset); err != nil {
			slog.Warn("skipping malformed voice asset", "subject", subject, "asset_id", id, "error", err)
			continue
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func (s *RedisStore) Save(ctx context.Context, asset Asset) (Asset, error) {
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(asset)
	if err != nil {
		return Asset{}, err
	}

	if err := s.client.HSet(ctx, galleryKey(asset.SubjectID), asset.ID, data).Err(); err != nil {
		return Asset{}, fmt.Errorf("failed to save voice asset: %w", err)
	}
	return asset, nil
}

func (s *RedisStore) DeleteBySubject(ctx context.Context, subject string) error {
	return s.client.Del(ctx, galleryKey(subject)).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
