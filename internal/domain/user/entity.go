package user

import (
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Status 用户与角色的启用状态
type Status int

const (
	StatusDisabled Status = 0 // 停用
	StatusEnabled  Status = 1 // 启用
)

// String 实现Stringer接口(方便日志输出)
func (s Status) String() string {
	switch s {
	case StatusEnabled:
		return "启用"
	case StatusDisabled:
		return "停用"
	default:
		return "未知状态"
	}
}

// Valid 是否为已定义的状态值
func (s Status) Valid() bool {
	return s == StatusEnabled || s == StatusDisabled
}

// 内置角色编码
const (
	RoleAdmin     = "ADMIN"
	RoleLibrarian = "LIBRARIAN"
	RoleReader    = "READER"
)

// User 用户实体（聚合根）
// 设计说明：
// 1. Password保存bcrypt哈希，永远不参与序列化，对外只暴露Profile
// 2. Roles保存角色编码，没有引用完整性约束（与角色表之间是松耦合）
type User struct {
	ID       string
	Username string
	Password string // bcrypt哈希值
	Nickname string
	Phone    string
	Email    string
	Status   Status
	Roles    []string
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是HashPassword的结果；roles为nil时保存为空集合
func NewUser(username, hashedPassword, nickname string, roles []string) *User {
	if roles == nil {
		roles = []string{}
	}
	return &User{
		Username: username,
		Password: hashedPassword,
		Nickname: nickname,
		Status:   StatusEnabled,
		Roles:    roles,
	}
}

// HashPassword 使用bcrypt加密明文密码
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword 校验明文密码
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// HasRole 是否持有角色
func (u *User) HasRole(code string) bool {
	return slices.Contains(u.Roles, code)
}

// ReplaceRoles 整体替换角色集合（领域行为）
func (u *User) ReplaceRoles(roles []string) {
	u.Roles = NormalizeRoles(roles)
}

// Profile 脱敏后的用户视图
func (u *User) Profile() *Profile {
	return &Profile{
		ID:       u.ID,
		Username: u.Username,
		Nickname: u.Nickname,
		Phone:    u.Phone,
		Email:    u.Email,
		Status:   u.Status,
		Roles:    slices.Clone(u.Roles),
	}
}

// NormalizeRoles 规范化角色列表
// 每个元素都可能是逗号拼接的多个编码（"ADMIN, READER"），
// 拆分后去掉首尾空白，丢弃空串与重复项，保持首次出现的顺序
func NormalizeRoles(values []string) []string {
	roles := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" || slices.Contains(roles, part) {
				continue
			}
			roles = append(roles, part)
		}
	}
	return roles
}
