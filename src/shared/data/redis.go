package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	noncePrefix = "nonce:"
	cursorKey   = "savia.indexer.cursor"
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// SetNonce stores a login challenge for five minutes.
func SetNonce(ctx context.Context, rdb *redis.Client, addr, nonce string) error {
	return rdb.Set(ctx, noncePrefix+addr, nonce, 5*time.Minute).Err()
}

// GetAndDelNonce consumes the challenge so each nonce verifies at most once.
func GetAndDelNonce(ctx context.Context, rdb *redis.Client, addr string) (string, error) {
	return rdb.GetDel(ctx, noncePrefix+addr).Result()
}

// GetCursor returns the last event-stream id the indexer acknowledged, or
// "0" when it has never run.
func GetCursor(ctx context.Context, rdb *redis.Client) (string, error) {
	id, err := rdb.Get(ctx, cursorKey).Result()
	if err == redis.Nil {
		return "0", nil
	}
	return id, err
}

func SetCursor(ctx context.Context, rdb *redis.Client, id string) error {
	return rdb.Set(ctx, cursorKey, id, 0).Err()
}
