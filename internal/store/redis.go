package store

import (
	"context"

	"github.com/luno/jettison/errors"
	"github.com/redis/go-redis/v9"
)

type RedisMedium struct {
	client *redis.Client
}

func NewRedisMedium(client *redis.Client) *RedisMedium {
	return &RedisMedium{client: client}
}

func (m *RedisMedium) Save(ctx context.Context, key string, payload []byte) error {
	return m.client.Set(ctx, redisKey(key), payload, 0).Err()
}

func (m *RedisMedium) Load(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := m.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func redisKey(key string) string {
	return "mapty:snapshot:" + key
}
