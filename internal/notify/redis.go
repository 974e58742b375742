package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher fans events out through Redis Pub/Sub so that sibling
// server instances can deliver them to clients attached elsewhere.
// Events for a user are published on the "notify:<user_id>" channel.
type RedisPublisher struct {
	rdb *redis.Client
	ctx context.Context
}

// NewRedisPublisher wraps an already-connected Redis client.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, ctx: context.Background()}
}

func (p *RedisPublisher) Notify(userID string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("notify: error encoding event for redis: %v", err)
		return
	}
	if err := p.rdb.Publish(p.ctx, "notify:"+userID, payload).Err(); err != nil {
		log.Printf("notify: redis publish failed for user %s: %v", userID, err)
	}
}
