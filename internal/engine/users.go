package engine

import (
	"context"
	"slices"

	"github.com/xiebiao/libconsole/internal/domain/user"
	"github.com/xiebiao/libconsole/internal/dto"
	"github.com/xiebiao/libconsole/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/libconsole/pkg/errors"
	"github.com/xiebiao/libconsole/pkg/response"
)

func (e *Engine) listRoles(ctx context.Context, _ *call) (any, error) {
	var roles []user.Role
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		roles = slices.Clone(tx.Roles)
		return nil
	})
	return roles, err
}

// listUsers 关键字匹配username/nickname/phone/email，可按status过滤
func (e *Engine) listUsers(ctx context.Context, c *call) (any, error) {
	page, size := c.pagination()
	keyword := c.queryValue("keyword")
	status, byStatus := c.intFilter("status")

	var profiles []*user.Profile
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		for _, u := range tx.Users.Filter(func(u *user.User) bool {
			return matchKeyword(keyword, u.Username, u.Nickname, u.Phone, u.Email) &&
				(!byStatus || int(u.Status) == status)
		}) {
			profiles = append(profiles, u.Profile())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response.NewPage(profiles, page, size), nil
}

func (e *Engine) getUser(ctx context.Context, c *call) (any, error) {
	var profile *user.Profile
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		u := tx.Users.Find(c.param("id"))
		if u == nil {
			return user.ErrUserNotFound
		}
		profile = u.Profile()
		return nil
	})
	return profile, err
}

// createUser 管理员新增用户：状态默认启用，角色默认为空
func (e *Engine) createUser(ctx context.Context, c *call) (any, error) {
	var req dto.UserCreateRequest
	if err := c.bind(&req); err != nil {
		return nil, err
	}
	if req.Username == "" || req.Password == "" || req.Nickname == "" {
		return nil, user.ErrUserIncomplete
	}
	status := user.StatusEnabled
	if req.Status != nil {
		status = user.Status(*req.Status)
		if !status.Valid() {
			return nil, user.ErrInvalidStatus
		}
	}

	hashed, err := user.HashPassword(req.Password, e.store.PasswordCost())
	if err != nil {
		return nil, apperrors.Wrap(err, "新增用户失败")
	}

	return nil, e.store.Do(ctx, func(tx *memory.Tx) error {
		if tx.UserByUsername(req.Username) != nil {
			return user.ErrUsernameTaken
		}
		u := user.NewUser(req.Username, hashed, req.Nickname, user.NormalizeRoles(req.Roles))
		u.ID = tx.NextID(memory.KindUser)
		u.Phone = req.Phone
		u.Email = req.Email
		u.Status = status
		tx.Users.Append(u)
		return nil
	})
}

// updateUser 修改用户
// 查询参数带roles时只替换角色集合，忽略请求体；否则合并请求体中出现的字段
func (e *Engine) updateUser(ctx context.Context, c *call) (any, error) {
	replaceRoles := c.hasQuery("roles")

	var req dto.UserUpdateRequest
	if !replaceRoles {
		if err := c.bind(&req); err != nil {
			return nil, err
		}
		if req.Status != nil && !user.Status(*req.Status).Valid() {
			return nil, user.ErrInvalidStatus
		}
	}

	return nil, e.store.Do(ctx, func(tx *memory.Tx) error {
		u := tx.Users.Find(c.param("id"))
		if u == nil {
			return user.ErrUserNotFound
		}
		if replaceRoles {
			u.ReplaceRoles(c.query["roles"])
			return nil
		}
		if req.Nickname != nil {
			u.Nickname = *req.Nickname
		}
		if req.Phone != nil {
			u.Phone = *req.Phone
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.Status != nil {
			u.Status = user.Status(*req.Status)
		}
		return nil
	})
}

func (e *Engine) deleteUser(ctx context.Context, c *call) (any, error) {
	return nil, e.store.Do(ctx, func(tx *memory.Tx) error {
		if !tx.Users.Remove(c.param("id")) {
			return user.ErrUserNotFound
		}
		return nil
	})
}
