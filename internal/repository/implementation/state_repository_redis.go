package implementation

import (
	"context"
	"errors"
	"fmt"

	"ai-hub-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

type StateRepositoryRedis struct {
	rdb *redis.Client
	key string
}

func NewStateRepositoryRedis(rdb *redis.Client, key string) contract.StateRepository {
	return &StateRepositoryRedis{rdb: rdb, key: key}
}

func (r *StateRepositoryRedis) Load(ctx context.Context) ([]byte, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, contract.ErrStateNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return raw, nil
}

func (r *StateRepositoryRedis) Save(ctx context.Context, raw []byte) error {
	if err := r.rdb.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}
