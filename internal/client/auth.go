package client

import (
	"context"
	"net/http"

	"github.com/xiebiao/libconsole/internal/domain/user"
	"github.com/xiebiao/libconsole/internal/dto"
)

// Login 登录，返回会话（不写入会话存储）
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*user.Session, error) {
	var session user.Session
	if err := c.anonymous(ctx, "/auth/login", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Register 读者自助注册，成功即登录
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*user.Session, error) {
	var session user.Session
	if err := c.anonymous(ctx, "/auth/register", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ResetPassword 按用户名重置密码
func (c *Client) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	return c.anonymous(ctx, "/auth/password/reset", req, nil)
}

// Logout 通知服务端登出
func (c *Client) Logout(ctx context.Context) error {
	return c.send(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}
