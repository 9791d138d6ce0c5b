package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Umair-Web/BTOBPortal/internal/cart"

	"github.com/redis/go-redis/v9"
)

const cartRedisMaxRetries = 3

// RedisCartRepository Redis 实现，每个用户一个 key，WATCH/MULTI 保证读改写原子
type RedisCartRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCartRepository 创建 Redis 购物车仓库
func NewRedisCartRepository(client *redis.Client, prefix string, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{client: client, prefix: strings.TrimSpace(prefix), ttl: ttl}
}

func (r *RedisCartRepository) key(userID uint) string {
	base := fmt.Sprintf("cart:%d", userID)
	if r.prefix == "" {
		return base
	}
	return r.prefix + ":" + base
}

// Load 读取购物车
func (r *RedisCartRepository) Load(ctx context.Context, userID uint) (*cart.Store, error) {
	raw, err := r.client.Get(ctx, r.key(userID)).Bytes()
	return decodeCartSnapshot(raw, err)
}

// Mutate 乐观事务：WATCH 后读取、修改，并在 MULTI 中写回；被并发修改时重试
func (r *RedisCartRepository) Mutate(ctx context.Context, userID uint, fn CartMutation) (*cart.Store, error) {
	key := r.key(userID)
	var result *cart.Store
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		store, err := decodeCartSnapshot(raw, err)
		if err != nil {
			return err
		}
		if err := fn(store); err != nil {
			return err
		}
		payload, err := json.Marshal(store.Snapshot())
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if store.IsEmpty() {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = store
		return nil
	}

	for attempt := 0; attempt < cartRedisMaxRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrCartBusy
}

func decodeCartSnapshot(raw []byte, err error) (*cart.Store, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart.NewStore(), nil
		}
		return nil, err
	}
	var snapshot cart.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	store := cart.NewStore()
	store.Restore(snapshot)
	return store, nil
}
