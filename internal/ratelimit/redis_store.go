package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/carebridgehq/chartgate/internal/errors"
)

// incrScript performs the check-and-increment as one atomic server-side step.
// Returning 0 means the counter already reached max and was NOT incremented.
// The expiry is set on the first increment, which is what makes the window
// fixed rather than sliding.
var incrScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current and tonumber(current) >= tonumber(ARGV[1]) then
	return 0
end
current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return current
`)

// RedisCounterStore implements CounterStore on a shared Redis instance so the
// window budget holds across every API replica.
type RedisCounterStore struct {
	client redis.UniversalClient
}

// NewRedisCounterStore creates a CounterStore backed by the given Redis client.
func NewRedisCounterStore(client redis.UniversalClient) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

// Incr runs the atomic check-and-increment script. Any transport or script
// error is surfaced to the caller, which fails closed.
func (s *RedisCounterStore) Incr(
	ctx context.Context,
	key string,
	max int64,
	window time.Duration,
) (bool, error) {
	result, err := incrScript.Run(ctx, s.client, []string{key}, max, window.Milliseconds()).Int64()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to run rate limit script")
	}

	return result > 0, nil
}
