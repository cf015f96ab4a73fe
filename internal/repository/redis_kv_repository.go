package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisKVRepository 基于 Redis 字符串的键值实现
type RedisKVRepository struct {
	client *redis.Client
	prefix func(key string) string
}

// NewRedisKVRepository 创建 Redis 键值仓库。prefix 用于拼接键名，可为 nil
func NewRedisKVRepository(client *redis.Client, prefix func(key string) string) *RedisKVRepository {
	if prefix == nil {
		prefix = func(key string) string { return key }
	}
	return &RedisKVRepository{client: client, prefix: prefix}
}

// Get 读取键值
func (r *RedisKVRepository) Get(key string) ([]byte, error) {
	value, err := r.client.Get(context.Background(), r.prefix(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put 写入键值（不设过期，存储区是持久态）
func (r *RedisKVRepository) Put(key string, value []byte) error {
	return r.client.Set(context.Background(), r.prefix(key), value, 0).Err()
}

// Delete 删除键
func (r *RedisKVRepository) Delete(key string) error {
	return r.client.Del(context.Background(), r.prefix(key)).Err()
}
