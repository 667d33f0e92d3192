// Package auth 客户端会话存储
//
// 设计说明:
//  1. 会话拆成两个键保存：访问令牌与用户快照（JSON）
//  2. 读取是同步的；读到损坏的用户快照时视为未登录并顺手删掉
//  3. SetAuth/ClearAuth之后通知所有订阅者（界面绑定、路由守卫）
//  4. 实际存放位置由Backend决定：内存、本地文件、Redis或数据库
package auth

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/xiebiao/libconsole/internal/domain/user"
)

// 默认存储键
const (
	DefaultTokenKey = "cf_lib_access_token"
	DefaultUserKey  = "cf_lib_user"
)

// Backend 键值存储
// Get在键不存在时返回ok=false且err=nil
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Store 会话存储
type Store struct {
	backend  Backend
	tokenKey string
	userKey  string
	logger   zerolog.Logger

	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
}

// Option 存储选项
type Option func(*Store)

// WithKeys 替换存储键，空串保持默认
func WithKeys(tokenKey, userKey string) Option {
	return func(s *Store) {
		if tokenKey != "" {
			s.tokenKey = tokenKey
		}
		if userKey != "" {
			s.userKey = userKey
		}
	}
}

// WithLogger 日志
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore 创建会话存储
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		tokenKey:  DefaultTokenKey,
		userKey:   DefaultUserKey,
		logger:    zerolog.Nop(),
		listeners: map[int]func(){},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token 当前访问令牌，未登录返回空串
func (s *Store) Token() string {
	token, _ := s.get(s.tokenKey)
	return token
}

// User 当前用户快照，未登录或快照损坏时返回nil
func (s *Store) User() *user.Profile {
	raw, ok := s.get(s.userKey)
	if !ok || raw == "" {
		return nil
	}
	var profile user.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		s.logger.Warn().Err(err).Msg("用户快照已损坏，已清除")
		if err := s.backend.Delete(context.Background(), s.userKey); err != nil {
			s.logger.Error().Err(err).Msg("清除用户快照失败")
		}
		return nil
	}
	return &profile
}

// SetAuth 保存会话中出现的部分（令牌或用户），然后通知订阅者
// session为nil时什么也不做
func (s *Store) SetAuth(session *user.Session) error {
	if session == nil {
		return nil
	}
	ctx := context.Background()
	if session.AccessToken != "" {
		if err := s.backend.Set(ctx, s.tokenKey, session.AccessToken); err != nil {
			return err
		}
	}
	if session.User != nil {
		raw, err := json.Marshal(session.User)
		if err != nil {
			return err
		}
		if err := s.backend.Set(ctx, s.userKey, string(raw)); err != nil {
			return err
		}
	}
	s.notify()
	return nil
}

// ClearAuth 删除令牌与用户快照，然后通知订阅者
// 重复调用是安全的
func (s *Store) ClearAuth() error {
	if err := s.backend.Delete(context.Background(), s.tokenKey, s.userKey); err != nil {
		return err
	}
	s.notify()
	return nil
}

// IsAuthenticated 是否持有令牌
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// HasRole 当前用户是否持有角色
func (s *Store) HasRole(role string) bool {
	return s.User().HasRole(role)
}

// HasAnyRole 当前用户是否持有任一角色
func (s *Store) HasAnyRole(roles ...string) bool {
	return s.User().HasAnyRole(roles...)
}

// Subscribe 订阅会话变化，返回取消订阅的函数
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// notify 按订阅顺序回调；回调在锁外执行，可以再次读写存储
func (s *Store) notify() {
	s.mu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *Store) get(key string) (string, bool) {
	value, ok, err := s.backend.Get(context.Background(), key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("读取会话失败")
		return "", false
	}
	return value, ok
}
