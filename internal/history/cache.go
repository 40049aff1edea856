// internal/history/cache.go
package history

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"sms-dispatcher/internal/common/database"
)

const sentMessagesKey = "sent_messages"

// SentCache keeps a sorted set of backend message IDs scored by send time,
// so recent deliveries can be listed without touching the database.
type SentCache struct {
	client *redis.Client
}

func NewSentCache(rc *database.RedisClient) *SentCache {
	return &SentCache{client: rc.Client}
}

func (c *SentCache) Add(ctx context.Context, messageID string, sentAt time.Time) error {
	member := redis.Z{
		Score:  float64(sentAt.Unix()),
		Member: messageID,
	}
	return c.client.ZAdd(ctx, sentMessagesKey, member).Err()
}

// Recent returns one page of message IDs, newest first, plus the total count.
// Pages are 1-based.
func (c *SentCache) Recent(ctx context.Context, page, pageSize int) ([]string, int64, error) {
	total, err := c.client.ZCard(ctx, sentMessagesKey).Result()
	if err != nil {
		return nil, 0, err
	}

	start := (page - 1) * pageSize
	stop := start + pageSize - 1

	ids, err := c.client.ZRevRange(ctx, sentMessagesKey, int64(start), int64(stop)).Result()
	if err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}
