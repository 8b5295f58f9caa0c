package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// lockTTL bounds how long a crashed holder can wedge a meeting or day.
const lockTTL = 30 * time.Second

// Locker serializes concurrent work on the same booking resource. An
// empty token with a nil error means another caller holds the lock.
type Locker interface {
	Acquire(ctx context.Context, key string) (token string, err error)
	Release(ctx context.Context, key, token string)
}

// releaseScript deletes the lock only when the stored token matches,
// so an expired lease never releases a successor's lock.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX and a TTL, which is enough
// for a single-operator calendar: the database status guard remains
// the correctness backstop if a lease expires mid-flight.
type RedisLocker struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisLocker(redisClient *redis.Client) *RedisLocker {
	if redisClient == nil {
		panic("booking: redis client required")
	}
	return &RedisLocker{redis: redisClient, ttl: lockTTL}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (string, error) {
	token := uuid.NewString()
	ok, err := l.redis.SetNX(ctx, "leadflow:lock:"+key, token, l.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("booking: acquire lock %s: %w", key, err)
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

func (l *RedisLocker) Release(ctx context.Context, key, token string) {
	releaseScript.Run(ctx, l.redis, []string{"leadflow:lock:" + key}, token)
}

// InMemoryLocker backs tests and single-process deployments.
type InMemoryLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{held: make(map[string]string)}
}

func (l *InMemoryLocker) Acquire(_ context.Context, key string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.held[key]; taken {
		return "", nil
	}
	token := uuid.NewString()
	l.held[key] = token
	return token, nil
}

func (l *InMemoryLocker) Release(_ context.Context, key, token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
	}
}

var (
	_ Locker = (*RedisLocker)(nil)
	_ Locker = (*InMemoryLocker)(nil)
)
