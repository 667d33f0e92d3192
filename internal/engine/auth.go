package engine

import (
	"context"
	"strings"

	"github.com/xiebiao/libconsole/internal/domain/user"
	"github.com/xiebiao/libconsole/internal/dto"
	"github.com/xiebiao/libconsole/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/libconsole/pkg/errors"
)

// login 登录
// 用户不存在与密码错误返回同一个错误，不泄露用户名是否存在
func (e *Engine) login(ctx context.Context, c *call) (any, error) {
	var req dto.LoginRequest
	if err := c.bind(&req); err != nil {
		return nil, err
	}

	var session *user.Session
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		u := tx.UserByUsername(req.Username)
		if u == nil || !u.CheckPassword(req.Password) {
			return user.ErrInvalidCredentials
		}
		var err error
		session, err = e.newSession(u)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// register 读者自助注册，成功后直接返回会话
func (e *Engine) register(ctx context.Context, c *call) (any, error) {
	var req dto.RegisterRequest
	if err := c.bind(&req); err != nil {
		return nil, err
	}
	if req.Username == "" || req.Password == "" || req.Nickname == "" {
		return nil, user.ErrRegistrationIncomplete
	}

	// bcrypt较慢，放在锁外
	hashed, err := user.HashPassword(req.Password, e.store.PasswordCost())
	if err != nil {
		return nil, apperrors.Wrap(err, "注册失败")
	}

	var session *user.Session
	err = e.store.Do(ctx, func(tx *memory.Tx) error {
		if tx.UserByUsername(req.Username) != nil {
			return user.ErrUsernameTaken
		}
		u := user.NewUser(req.Username, hashed, req.Nickname, []string{user.RoleReader})
		u.ID = tx.NextID(memory.KindUser)
		u.Phone = req.Phone
		u.Email = req.Email
		tx.Users.Append(u)

		var err error
		session, err = e.newSession(u)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// resetPassword 按用户名重置密码，不校验旧密码
func (e *Engine) resetPassword(ctx context.Context, c *call) (any, error) {
	var req dto.ResetPasswordRequest
	if err := c.bind(&req); err != nil {
		return nil, err
	}

	// 先确认用户存在，保证未知用户名总是404
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		if tx.UserByUsername(req.Username) == nil {
			return user.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		return nil, user.ErrPasswordRequired
	}

	hashed, err := user.HashPassword(req.NewPassword, e.store.PasswordCost())
	if err != nil {
		return nil, apperrors.Wrap(err, "重置密码失败")
	}
	return nil, e.store.Do(ctx, func(tx *memory.Tx) error {
		u := tx.UserByUsername(req.Username)
		if u == nil {
			return user.ErrUserNotFound
		}
		u.Password = hashed
		return nil
	})
}

// logout 无服务端会话，总是成功
func (e *Engine) logout(context.Context, *call) (any, error) {
	return nil, nil
}

func (e *Engine) newSession(u *user.User) (*user.Session, error) {
	token, err := e.tokens.Issue(u)
	if err != nil {
		return nil, apperrors.Wrap(err, "签发令牌失败")
	}
	return &user.Session{AccessToken: token, User: u.Profile()}, nil
}

// currentUserID 解析Bearer令牌并确认用户仍然存在（需在Do内调用）
func (e *Engine) currentUserID(tx *memory.Tx, token string) (string, error) {
	if token == "" {
		return "", apperrors.ErrUnauthorized
	}
	id, err := e.tokens.Resolve(token)
	if err != nil {
		return "", err
	}
	if tx.Users.Find(id) == nil {
		return "", apperrors.ErrUnauthorized
	}
	return id, nil
}
