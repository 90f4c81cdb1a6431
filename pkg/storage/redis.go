package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis driver.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // prepended to every path
}

// redisDisk stores each path as one Redis string key.
type redisDisk struct {
	client redis.Cmdable
	prefix string
}

// NewRedisDisk connects to Redis and verifies the connection with PING.
func NewRedisDisk(ctx context.Context, opts RedisOptions) (Disk, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("storage/redis: ping %s: %w", opts.Addr, err)
	}
	return newRedisDisk(client, opts.Prefix), nil
}

func newRedisDisk(client redis.Cmdable, prefix string) *redisDisk {
	return &redisDisk{client: client, prefix: prefix}
}

func (d *redisDisk) key(path string) string { return d.prefix + path }

func (d *redisDisk) Put(ctx context.Context, path string, content []byte) error {
	if err := d.client.Set(ctx, d.key(path), content, 0).Err(); err != nil {
		return fmt.Errorf("storage/redis: put %s: %w", path, err)
	}
	return nil
}

func (d *redisDisk) Get(ctx context.Context, path string) ([]byte, error) {
	data, err := d.client.Get(ctx, d.key(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("storage/redis: get %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage/redis: get %s: %w", path, err)
	}
	return data, nil
}

func (d *redisDisk) Exists(ctx context.Context, path string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(path)).Result()
	if err != nil {
		return false, fmt.Errorf("storage/redis: exists %s: %w", path, err)
	}
	return n > 0, nil
}

func (d *redisDisk) Delete(ctx context.Context, path string) error {
	if err := d.client.Del(ctx, d.key(path)).Err(); err != nil {
		return fmt.Errorf("storage/redis: delete %s: %w", path, err)
	}
	return nil
}
