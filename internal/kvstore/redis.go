package kvstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// redisKV stores the records as plain string keys on a redis server.
// No TTLs: the records live until replaced.
type redisKV struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
	// Prefix namespaces the record keys, "bestbuddies:" by default.
	Prefix string
}

// OpenRedis connects to redis and verifies the connection.
func OpenRedis(ctx context.Context, opts RedisOptions) (Store, error) {
	if opts.Prefix == "" {
		opts.Prefix = "bestbuddies:"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	r := &redisKV{client: client, prefix: opts.Prefix}
	return records{kv: r, closer: client.Close}, nil
}

func (r *redisKV) get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (r *redisKV) put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *redisKV) delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
