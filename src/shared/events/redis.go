package events

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream is the redis stream every ledger event lands on.
const Stream = "savia.ledger.events"

// Redis appends events to a redis stream for the indexer to consume.
// Delivery failures are logged and dropped.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Publish(ctx context.Context, ev Event) {
	values := map[string]interface{}{
		"event": ev.Name,
		"time":  time.Now().Unix(),
	}
	for k, v := range ev.Attrs {
		values[k] = v
	}
	if err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: Stream,
		Values: values,
	}).Err(); err != nil {
		log.Printf("events: publish %s: %v", ev.Name, err)
	}
}
