package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis keeps records in redis, one string value per encoded key.
// Values never expire, the ledger is the source of truth.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (s *Redis) Get(ctx context.Context, k Key) ([]byte, bool, error) {
	v, err := s.rdb.Get(ctx, k.Encode()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Redis) Has(ctx context.Context, k Key) (bool, error) {
	n, err := s.rdb.Exists(ctx, k.Encode()).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Redis) Set(ctx context.Context, k Key, v []byte) error {
	return s.rdb.Set(ctx, k.Encode(), v, 0).Err()
}

func (s *Redis) Apply(ctx context.Context, puts []Put) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range puts {
			pipe.Set(ctx, p.Key.Encode(), p.Value, 0)
		}
		return nil
	})
	return err
}
