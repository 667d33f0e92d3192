package user

import "slices"

// Profile 对外暴露的用户信息（不含密码）
// 同时也是客户端会话里保存的用户快照
type Profile struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Nickname string   `json:"nickname"`
	Phone    string   `json:"phone"`
	Email    string   `json:"email"`
	Status   Status   `json:"status"`
	Roles    []string `json:"roles"`
}

// HasRole 是否持有角色
func (p *Profile) HasRole(code string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, code)
}

// HasAnyRole 是否持有任一角色；codes为空时返回false
func (p *Profile) HasAnyRole(codes ...string) bool {
	for _, code := range codes {
		if p.HasRole(code) {
			return true
		}
	}
	return false
}

// Session 登录/注册成功后的会话
type Session struct {
	AccessToken string   `json:"accessToken"`
	User        *Profile `json:"user"`
}

// Role 角色
type Role struct {
	ID       string `json:"id"`
	RoleCode string `json:"roleCode"`
	RoleName string `json:"roleName"`
	Status   Status `json:"status"`
}
