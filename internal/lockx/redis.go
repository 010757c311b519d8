package lockx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/userapp/internal/common"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still carries our token.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

// redisClient is the part of go-redis the locker needs.
type redisClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// RedisLocker is a Locker shared by every broker instance pointing at the
// same Redis. A lock expires after ttl even if its holder dies.
type RedisLocker struct {
	client     redisClient
	prefix     string
	ttl        time.Duration
	retryDelay time.Duration
	token      func() (string, error)
}

func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return newRedisLocker(client, ttl)
}

func newRedisLocker(client redisClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client:     client,
		prefix:     "userapp:lock:",
		ttl:        ttl,
		retryDelay: 25 * time.Millisecond,
		token: func() (string, error) {
			return common.MakeRandHexString(16)
		},
	}
}

func (r *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	token, err := r.token()
	if err != nil {
		return nil, fmt.Errorf("lock token: %w", err)
	}

	name := r.prefix + key
	for {
		ok, err := r.client.SetNX(ctx, name, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(common.ErrLockNotAcquired, ctx.Err())
		case <-time.After(r.retryDelay):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// a fresh context: the caller's may already be cancelled
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = r.client.Eval(ctx, releaseScript, []string{name}, token).Err()
		})
	}, nil
}

// Connect parses url, pings the server and returns a client.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
