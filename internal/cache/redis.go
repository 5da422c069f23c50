package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"example.com/furnish/services/serial/config"
	"example.com/furnish/services/serial/internal/models"
)

// CacheClient defines the interface for cache operations
type CacheClient interface {
	GetUnit(ctx context.Context, id string) (*models.SerialUnit, error)
	SetUnit(ctx context.Context, unit *models.SerialUnit) error
	DeleteUnit(ctx context.Context, id string) error
	Close() error
}

// RedisClient implements CacheClient using Redis
type RedisClient struct {
	client  *redis.Client
	enabled bool
	ttl     time.Duration
}

// NewRedisClient creates a new Redis client. When the cache is disabled in
// config every read misses and every write is a no-op.
func NewRedisClient(cfg *config.RedisConfig) (CacheClient, error) {
	if !cfg.Enabled {
		return &RedisClient{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client:  client,
		enabled: true,
		ttl:     time.Hour,
	}, nil
}

func unitKey(id string) string {
	return fmt.Sprintf("serial_unit:%s", id)
}

// GetUnit retrieves a unit from cache
func (c *RedisClient) GetUnit(ctx context.Context, id string) (*models.SerialUnit, error) {
	if !c.enabled {
		return nil, redis.Nil
	}

	data, err := c.client.Get(ctx, unitKey(id)).Bytes()
	if err != nil {
		return nil, err
	}

	var unit models.SerialUnit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// SetUnit caches a unit
func (c *RedisClient) SetUnit(ctx context.Context, unit *models.SerialUnit) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(unit)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, unitKey(unit.UUID), data, c.ttl).Err()
}

// DeleteUnit removes a unit from cache after a mutation
func (c *RedisClient) DeleteUnit(ctx context.Context, id string) error {
	if !c.enabled {
		return nil
	}
	return c.client.Del(ctx, unitKey(id)).Err()
}

// Close closes the underlying connection
func (c *RedisClient) Close() error {
	if !c.enabled {
		return nil
	}
	return c.client.Close()
}
