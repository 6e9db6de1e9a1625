package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Misma ventana deslizante que consultRateLimiter, sobre un sorted set por cliente.
// ARGV: ahora_ms, corte_ms, max, ventana_ms, miembro. Los rechazos no ocupan lugar.
const redisConsultSlidingWindowScript = `
redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", ARGV[2])
if redis.call("ZCARD", KEYS[1]) >= tonumber(ARGV[3]) then
  return 0
end
redis.call("ZADD", KEYS[1], ARGV[1], ARGV[5])
redis.call("PEXPIRE", KEYS[1], ARGV[4])
return 1
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// redisConsultRateLimiter comparte la cuota de consultas por cliente entre réplicas.
type redisConsultRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	now    func() time.Time
}

func NewRedisConsultRateLimiter(client *redis.Client, window time.Duration, max int) ConsultRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisConsultRateLimiter{
		client: client,
		window: window,
		max:    max,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func consultRateLimitKey(clientKey string) string {
	return "consult:rl:" + strings.ToLower(strings.TrimSpace(clientKey))
}

// Allow deja pasar si Redis falla.
func (l *redisConsultRateLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	if strings.TrimSpace(key) == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	now := l.now()
	admitted, err := l.client.Eval(ctx, redisConsultSlidingWindowScript,
		[]string{consultRateLimitKey(key)},
		now.UnixMilli(), now.Add(-l.window).UnixMilli(), l.max, l.window.Milliseconds(), uuid.NewString(),
	).Int()
	if err != nil {
		return true
	}
	return admitted == 1
}
