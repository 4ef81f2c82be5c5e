package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/feichai0017/document-checklist/pkg/converters"
)

const defaultSessionTTL = 24 * time.Hour

// SessionCache keeps decoded terminal sessions. A miss is reported as (nil, nil).
type SessionCache interface {
	Get(ctx context.Context, sessionID string) (*converters.SessionResponse, error)
	Set(ctx context.Context, session *converters.SessionResponse) error
	Close() error
}

// RedisSessionCache stores sessions as JSON with a TTL.
type RedisSessionCache struct {
	cli *redis.Client
	ttl time.Duration
}

type RedisSessionCacheConfig struct {
	Addr     string
	Password string
	DB       int
	// TTL is the expiration of cached sessions (0 = 24h).
	TTL time.Duration
}

func NewRedisSessionCache(cfg RedisSessionCacheConfig) *RedisSessionCache {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultSessionTTL
	}
	return &RedisSessionCache{
		cli: redis.NewClient(&redis.Options{
			Addr:        cfg.Addr,
			Password:    cfg.Password,
			DB:          cfg.DB,
			DialTimeout: 2 * time.Second,
		}),
		ttl: ttl,
	}
}

// Ping checks the connection.
func (c *RedisSessionCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.cli.Ping(ctx).Err()
}

func sessionKey(sessionID string) string {
	return "checklist:session:" + sessionID
}

func (c *RedisSessionCache) Get(ctx context.Context, sessionID string) (*converters.SessionResponse, error) {
	res, err := c.cli.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session converters.SessionResponse
	if err := json.Unmarshal(res, &session); err != nil {
		return nil, fmt.Errorf("failed to decode cached session: %w", err)
	}
	return &session, nil
}

// Set only stores terminal sessions; anything else may still change.
func (c *RedisSessionCache) Set(ctx context.Context, session *converters.SessionResponse) error {
	if !session.Status.Terminal() {
		return nil
	}
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.cli.Set(ctx, sessionKey(session.SessionID), b, c.ttl).Err()
}

func (c *RedisSessionCache) Close() error {
	return c.cli.Close()
}

// NopSessionCache is used when redis is not configured.
type NopSessionCache struct{}

func (NopSessionCache) Get(context.Context, string) (*converters.SessionResponse, error) {
	return nil, nil
}

func (NopSessionCache) Set(context.Context, *converters.SessionResponse) error { return nil }

func (NopSessionCache) Close() error { return nil }
