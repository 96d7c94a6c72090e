package pathcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "vinom:maze:path:"

// RedisPathCache keeps solver results in Redis keyed by maze digest.
type RedisPathCache struct {
	client *redis.Client
	locker *redsync.Redsync
	ttl    time.Duration
}

var _ i.PathCache = &RedisPathCache{}

// NewRedisPathCache initializes a RedisPathCache with the provided Redis client and TTL.
func NewRedisPathCache(client *redis.Client, ttl time.Duration) *RedisPathCache {
	pool := goredis.NewPool(client)
	return &RedisPathCache{
		client: client,
		locker: redsync.New(pool),
		ttl:    ttl,
	}
}

func key(digest string) string {
	return keyPrefix + digest
}

// Store writes the result unless one is already cached. Concurrent sessions
// solving the same maze serialise on a per-digest lock.
func (c *RedisPathCache) Store(ctx context.Context, digest string, p i.CachedPath) error {
	data, err := encode(p)
	if err != nil {
		return err
	}

	mutex := c.locker.NewMutex(key(digest) + ":lock")
	if err := mutex.LockContext(ctx); err != nil {
		return err
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	return c.client.SetNX(ctx, key(digest), data, c.ttl).Err()
}

// Lookup returns i.ErrCacheMiss when the digest is unknown or expired.
func (c *RedisPathCache) Lookup(ctx context.Context, digest string) (i.CachedPath, error) {
	data, err := c.client.Get(ctx, key(digest)).Bytes()
	if errors.Is(err, redis.Nil) {
		return i.CachedPath{}, i.ErrCacheMiss
	}
	if err != nil {
		return i.CachedPath{}, err
	}
	return decode(data)
}

func encode(p i.CachedPath) ([]byte, error) {
	return json.Marshal(p)
}

func decode(data []byte) (i.CachedPath, error) {
	var p i.CachedPath
	if err := json.Unmarshal(data, &p); err != nil {
		return i.CachedPath{}, err
	}
	return p, nil
}
