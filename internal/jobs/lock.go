package job

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/redis/go-redis/v9"
)

// Locker guards a dispatch pass across processes.
type Locker interface {
	Acquire(ctx context.Context) (release func(), ok bool, err error)
}

const dispatchLockKey = "postpilot:dispatch:lock"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		rdb: rdb,
		key: dispatchLockKey,
		ttl: ttl,
	}
}

// Acquire takes the lock with SET NX PX. The returned release only deletes
// the key while it still holds this holder's token.
func (l *RedisLocker) Acquire(ctx context.Context) (func(), bool, error) {
	token, err := gonanoid.New()
	if err != nil {
		return nil, false, err
	}

	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			slog.Warn("unable to release dispatch lock", "error", err)
		}
	}
	return release, true, nil
}
