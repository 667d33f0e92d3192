package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix 会话哈希键的默认前缀
const DefaultPrefix = "libconsole:session"

// SessionBackend 把客户端会话保存在一个Redis Hash里
// 设计说明：
// 1. Key设计：{prefix}:{profile}，field是存储键（cf_lib_access_token/cf_lib_user）
// 2. 不同profile互不干扰，同一台机器可以同时登录多个账号
// 3. ttl>0时每次写入刷新过期时间，长时间不用自动登出
type SessionBackend struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewSessionBackend 创建会话存储
func NewSessionBackend(client *redis.Client, prefix, profile string, ttl time.Duration) *SessionBackend {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if profile == "" {
		profile = "default"
	}
	return &SessionBackend{
		client: client,
		key:    fmt.Sprintf("%s:%s", prefix, profile),
		ttl:    ttl,
	}
}

// Key 会话使用的Redis键
func (s *SessionBackend) Key() string {
	return s.key
}

// Get 读取一个字段
func (s *SessionBackend) Get(ctx context.Context, field string) (string, bool, error) {
	value, err := s.client.HGet(ctx, s.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("读取会话失败: %w", err)
	}
	return value, true, nil
}

// Set 写入一个字段
// 学习要点：HSet与Expire放进同一个Pipeline，减少网络往返
func (s *SessionBackend) Set(ctx context.Context, field, value string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key, field, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("保存会话失败: %w", err)
	}
	return nil
}

// Delete 删除字段；所有字段都删除后Hash自动消失
func (s *SessionBackend) Delete(ctx context.Context, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, s.key, fields...).Err(); err != nil {
		return fmt.Errorf("删除会话失败: %w", err)
	}
	return nil
}
