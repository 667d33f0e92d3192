// Package session 会话相关用例
//
// 用例层负责编排：调用接口 → 写入/清除会话存储。
// 会话存储的变更会广播auth-changed事件，路由守卫据此重新评估当前页面。
package session

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/xiebiao/libconsole/internal/domain/user"
	"github.com/xiebiao/libconsole/internal/dto"
)

// API 用例依赖的接口调用（*client.Client满足此接口）
type API interface {
	Login(ctx context.Context, req dto.LoginRequest) (*user.Session, error)
	Register(ctx context.Context, req dto.RegisterRequest) (*user.Session, error)
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
	Logout(ctx context.Context) error
}

// Store 用例依赖的会话存储（*auth.Store满足此接口）
type Store interface {
	SetAuth(session *user.Session) error
	ClearAuth() error
	User() *user.Profile
}

// ErrEmptySession 接口成功但没有返回令牌
var ErrEmptySession = errors.New("登录响应缺少accessToken")

// Service 会话用例集合
// 设计说明：
// 1. 登录/注册成功后写入会话，两者的返回结构相同
// 2. 登出不论接口是否成功都清除本地会话（接口失败的提示已经由分发器发出）
// 3. 重置密码不改变当前会话
type Service struct {
	api    API
	store  Store
	logger zerolog.Logger
}

// NewService 创建会话用例
func NewService(api API, store Store, logger zerolog.Logger) *Service {
	return &Service{api: api, store: store, logger: logger}
}

// Login 登录并保存会话
func (s *Service) Login(ctx context.Context, username, password string) (*user.Session, error) {
	session, err := s.api.Login(ctx, dto.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	return s.save(session)
}

// Register 注册并保存会话（注册即登录）
func (s *Service) Register(ctx context.Context, req dto.RegisterRequest) (*user.Session, error) {
	session, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.save(session)
}

// ResetPassword 重置密码
func (s *Service) ResetPassword(ctx context.Context, username, newPassword string) error {
	return s.api.ResetPassword(ctx, dto.ResetPasswordRequest{Username: username, NewPassword: newPassword})
}

// Logout 登出
// 返回接口错误供调用方判断，本地会话总是被清除
func (s *Service) Logout(ctx context.Context) error {
	apiErr := s.api.Logout(ctx)
	if apiErr != nil {
		s.logger.Warn().Err(apiErr).Msg("登出接口失败，仍清除本地会话")
	}
	if err := s.store.ClearAuth(); err != nil {
		return errors.Join(apiErr, err)
	}
	return apiErr
}

// Current 当前登录用户，未登录返回nil
func (s *Service) Current() *user.Profile {
	return s.store.User()
}

func (s *Service) save(session *user.Session) (*user.Session, error) {
	if session == nil || session.AccessToken == "" {
		return nil, ErrEmptySession
	}
	if err := s.store.SetAuth(session); err != nil {
		return nil, err
	}
	if session.User != nil {
		s.logger.Info().Str("username", session.User.Username).Strs("roles", session.User.Roles).Msg("登录成功")
	}
	return session, nil
}
