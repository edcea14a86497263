package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/cakeshop/internal/model"
)

// CartRepository 会话购物车存储。购物车行只存活于下单前，
// 放 Redis 并带 TTL，过期自动清理
type CartRepository interface {
	Get(ctx context.Context, customerID string) ([]model.CartLine, error)
	Save(ctx context.Context, customerID string, lines []model.CartLine) error
	Clear(ctx context.Context, customerID string) error
}

type cartRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCartRepository(rdb *redis.Client, ttl time.Duration) CartRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &cartRepository{rdb: rdb, ttl: ttl}
}

func cartKey(customerID string) string { return "cart:" + customerID }

func (r *cartRepository) Get(ctx context.Context, customerID string) ([]model.CartLine, error) {
	raw, err := r.rdb.Get(ctx, cartKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []model.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) Save(ctx context.Context, customerID string, lines []model.CartLine) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, cartKey(customerID), raw, r.ttl).Err()
}

func (r *cartRepository) Clear(ctx context.Context, customerID string) error {
	return r.rdb.Del(ctx, cartKey(customerID)).Err()
}
