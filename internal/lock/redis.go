package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// acquireScript takes every key or none.
// KEYS = lock keys, ARGV[1] = owner token, ARGV[2] = ttl in milliseconds
var acquireScript = redis.NewScript(`
for i, key in ipairs(KEYS) do
    if redis.call("EXISTS", key) == 1 then
        return 0
    end
end
for i, key in ipairs(KEYS) do
    redis.call("SET", key, ARGV[1], "PX", ARGV[2])
end
return 1
`)

// releaseScript deletes only keys still owned by ARGV[1].
var releaseScript = redis.NewScript(`
local n = 0
for i, key in ipairs(KEYS) do
    if redis.call("GET", key) == ARGV[1] then
        n = n + redis.call("DEL", key)
    end
end
return n
`)

const (
	DefaultTTL          = 30 * time.Second
	DefaultPollInterval = 50 * time.Millisecond

	// One hash tag for all lock keys: the scripts touch several keys at once
	// and Redis Cluster requires them to share a slot.
	keyPrefix = "{service-order}:lock:"
)

// Redis locks keys across processes sharing one Redis instance. Locks expire
// after TTL so a crashed holder cannot block other uploads forever.
type Redis struct {
	client       redis.UniversalClient
	ttl          time.Duration
	pollInterval time.Duration
	logger       *slog.Logger
}

func NewRedis(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, ttl: ttl, pollInterval: DefaultPollInterval, logger: logger}
}

// Dial connects to addr and checks the server answers.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (r *Redis) Lock(ctx context.Context, keys []string) (func(), error) {
	redisKeys := lockKeys(keys)
	token := uuid.NewString()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	for {
		ok, err := acquireScript.Run(ctx, r.client, redisKeys, token, r.ttl.Milliseconds()).Int()
		if err != nil {
			return nil, fmt.Errorf("redis lock error: %w", err)
		}
		if ok == 1 {
			return func() { r.release(redisKeys, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func lockKeys(keys []string) []string {
	keys = uniq(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = keyPrefix + k
	}
	return out
}

func (r *Redis) release(keys []string, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, r.client, keys, token).Err(); err != nil {
		r.logger.Warn("redis unlock failed, keys will expire", "keys", len(keys), "error", err)
	}
}
