package inquiry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ZdravkoRistic/qtotal/pkg/utils"
)

// RedisLocker implements Locker on a shared Redis instance so that concurrent
// confirmation attempts for the same inquiry are serialized across processes.
type RedisLocker struct {
	rdb *redis.Client

	mu   sync.Mutex
	held map[string]*utils.Lock
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb, held: make(map[string]*utils.Lock)}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	lock, err := utils.AcquireLock(ctx, l.rdb, key, uuid.NewString(), ttl)
	if err != nil {
		return false, err
	}
	if lock == nil {
		return false, nil
	}
	l.mu.Lock()
	l.held[key] = lock
	l.mu.Unlock()
	return true, nil
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	lock := l.held[key]
	delete(l.held, key)
	l.mu.Unlock()
	return lock.Release(ctx)
}
