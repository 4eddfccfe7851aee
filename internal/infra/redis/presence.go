package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// presenceKey is the sorted set holding visitor id -> last seen unix time.
const presenceKey = "presence:online"

// Presence tracks online visitors in a Redis sorted set scored by last
// seen time, so counts survive restarts and are shared across replicas.
type Presence struct {
	client *redis.Client
	logger *zap.Logger
	window time.Duration
	now    func() time.Time
}

// NewPresence creates a presence tracker. window is how long a visitor
// counts as online after their last ping.
func NewPresence(client *redis.Client, logger *zap.Logger, window time.Duration) *Presence {
	return &Presence{
		client: client,
		logger: logger,
		window: window,
		now:    time.Now,
	}
}

// Touch records a visitor ping and returns the current online count.
func (p *Presence) Touch(ctx context.Context, visitorID string) (int, error) {
	now := p.now()

	pipe := p.client.Pipeline()
	pipe.ZAdd(ctx, presenceKey, redis.Z{Score: float64(now.Unix()), Member: visitorID})
	pipe.ZRemRangeByScore(ctx, presenceKey, "-inf", strconv.FormatInt(now.Add(-p.window).Unix(), 10))
	card := pipe.ZCard(ctx, presenceKey)
	if _, err := pipe.Exec(ctx); err != nil {
		p.logger.Error("presence touch failed", zap.Error(err))
		return 0, err
	}

	return int(card.Val()), nil
}

// CountOnline returns the number of visitors seen within the window.
func (p *Presence) CountOnline(ctx context.Context) (int, error) {
	cutoff := strconv.FormatInt(p.now().Add(-p.window).Unix(), 10)

	n, err := p.client.ZCount(ctx, presenceKey, cutoff, "+inf").Result()
	if err != nil {
		p.logger.Error("presence count failed", zap.Error(err))
		return 0, err
	}

	return int(n), nil
}
