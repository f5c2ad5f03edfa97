package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mezonai/snapledger/logx"
	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 5 * time.Second

// RedisProvider implements DatabaseProvider for Redis. Keys are stored under
// namespace so several journals can share one server.
type RedisProvider struct {
	client    redis.UniversalClient
	namespace string
}

// NewRedisProvider connects to address and verifies the connection
func NewRedisProvider(address, namespace string) (*RedisProvider, error) {
	client := redis.NewClient(&redis.Options{
		Addr: address,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", address, err)
	}
	return NewRedisProviderWithClient(client, namespace), nil
}

// NewRedisProviderWithClient wraps an existing client
func NewRedisProviderWithClient(client redis.UniversalClient, namespace string) *RedisProvider {
	return &RedisProvider{client: client, namespace: namespace}
}

func (p *RedisProvider) key(key []byte) string {
	return p.namespace + string(key)
}

func (p *RedisProvider) Get(key []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	value, err := p.client.Get(ctx, p.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return value, nil
}

func (p *RedisProvider) Put(key, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return p.client.Set(ctx, p.key(key), value, 0).Err()
}

func (p *RedisProvider) Delete(key []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return p.client.Del(ctx, p.key(key)).Err()
}

func (p *RedisProvider) Has(key []byte) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	count, err := p.client.Exists(ctx, p.key(key)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IteratePrefix uses SCAN, so keys are not visited in order
func (p *RedisProvider) IteratePrefix(prefix []byte, fn func(key, value []byte) bool) error {
	ctx := context.Background()
	pattern := escapeGlob(p.key(prefix)) + "*"
	var cursor uint64
	for {
		keys, next, err := p.client.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return err
		}
		for _, k := range keys {
			val, err := p.client.Get(ctx, k).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				return err
			}
			if !fn([]byte(k[len(p.namespace):]), val) {
				return nil
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (p *RedisProvider) Close() error {
	return p.client.Close()
}

// Batch queues writes in a MULTI/EXEC pipeline
func (p *RedisProvider) Batch() DatabaseBatch {
	return &RedisBatch{
		provider: p,
		pipe:     p.client.TxPipeline(),
	}
}

// RedisBatch implements DatabaseBatch for Redis
type RedisBatch struct {
	provider *RedisProvider
	pipe     redis.Pipeliner
}

func (b *RedisBatch) Put(key, value []byte) {
	b.pipe.Set(context.Background(), b.provider.key(key), value, 0)
}

func (b *RedisBatch) Delete(key []byte) {
	b.pipe.Del(context.Background(), b.provider.key(key))
}

func (b *RedisBatch) Write() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if _, err := b.pipe.Exec(ctx); err != nil {
		logx.Error("REDIS", "Batch exec failed:", err)
		return err
	}
	return nil
}

func (b *RedisBatch) Reset() {
	b.pipe.Discard()
}

func (b *RedisBatch) Close() error {
	b.pipe.Discard()
	return nil
}
