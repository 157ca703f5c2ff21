package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yoshii-hideaki/mikan-order/internal/domain"
)

const boardKey = "kitchen:board"

// BoardCache holds the kitchen view's orders-with-items snapshot. The TTL
// matches the kitchen poll interval: a stale board is acceptable for at most
// one poll cycle, and every order mutation invalidates it anyway.
type BoardCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewBoardCache(client *redis.Client, ttl time.Duration) *BoardCache {
	return &BoardCache{Client: client, TTL: ttl}
}

// Board returns the cached snapshot and whether the cache held one.
func (c *BoardCache) Board(ctx context.Context) ([]domain.Order, bool, error) {
	payload, err := c.Client.Get(ctx, boardKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var orders []domain.Order
	if err := json.Unmarshal(payload, &orders); err != nil {
		return nil, false, err
	}
	return orders, true, nil
}

func (c *BoardCache) SetBoard(ctx context.Context, orders []domain.Order) error {
	payload, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, boardKey, payload, c.TTL).Err()
}

func (c *BoardCache) Invalidate(ctx context.Context) error {
	return c.Client.Del(ctx, boardKey).Err()
}
