package client

import (
	"context"
	"net/http"

	"github.com/xiebiao/libconsole/internal/domain/user"
	"github.com/xiebiao/libconsole/internal/dto"
	"github.com/xiebiao/libconsole/pkg/response"
)

// ListRoles 全部角色
func (c *Client) ListRoles(ctx context.Context) ([]user.Role, error) {
	var roles []user.Role
	if err := c.get(ctx, "/roles", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// ListUsers 分页查询用户
func (c *Client) ListUsers(ctx context.Context, q dto.UserQuery) (*response.Page[user.Profile], error) {
	var page response.Page[user.Profile]
	if err := c.get(ctx, "/users", q.Params(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetUser 用户详情
func (c *Client) GetUser(ctx context.Context, id string) (*user.Profile, error) {
	var profile user.Profile
	if err := c.get(ctx, itemPath("/users", id), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateUser 新增用户
func (c *Client) CreateUser(ctx context.Context, req dto.UserCreateRequest) error {
	return c.send(ctx, http.MethodPost, "/users", nil, req, nil)
}

// UpdateUser 修改资料（不含角色）
func (c *Client) UpdateUser(ctx context.Context, id string, req dto.UserUpdateRequest) error {
	return c.send(ctx, http.MethodPut, itemPath("/users", id), nil, req, nil)
}

// AssignRoles 替换角色集合；roles为空时清空
// roles必须是非nil的空切片：BuildQuery会把它编码成roles=，引擎据此清空角色；
// nil切片会被丢弃，请求就变成了普通的更新
func (c *Client) AssignRoles(ctx context.Context, id string, roles []string) error {
	if roles == nil {
		roles = []string{}
	}
	return c.send(ctx, http.MethodPut, itemPath("/users", id), map[string]any{"roles": roles}, nil, nil)
}

// DeleteUser 删除用户
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, itemPath("/users", id), nil, nil, nil)
}
