package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DailyCounter tracks accepted sends per authenticated user per UTC day in
// redis. Unlike the guest cookie this counter is server-held and atomic, so
// it cannot be shed by clearing client state. Redis trouble degrades to
// admit: this is a soft anti-abuse limit, not billing.
type DailyCounter struct {
	client *redis.Client
	log    zerolog.Logger
	now    func() time.Time
}

func NewDailyCounter(client *redis.Client, log zerolog.Logger) *DailyCounter {
	return &DailyCounter{client: client, log: log, now: time.Now}
}

func (c *DailyCounter) key(userID string) string {
	return fmt.Sprintf("quota:sends:%s:%s", userID, c.now().UTC().Format("2006-01-02"))
}

// Count returns the number of sends recorded today for the user.
func (c *DailyCounter) Count(ctx context.Context, userID string) int {
	if c.client == nil {
		return 0
	}
	count, err := c.client.Get(ctx, c.key(userID)).Int()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("daily counter read failed, admitting")
		}
		return 0
	}
	return count
}

// Increment records one accepted send. The key expires at the next UTC
// midnight so the quota window resets daily.
func (c *DailyCounter) Increment(ctx context.Context, userID string) {
	if c.client == nil {
		return
	}
	key := c.key(userID)
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, endOfDayUTC(c.now()))
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn().Err(err).Msg("daily counter increment failed")
	}
}

func endOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}
