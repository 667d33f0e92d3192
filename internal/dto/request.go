// Package dto 定义客户端与引擎之间的请求体
//
// 更新类请求的字段全部是指针：nil表示"未提供，保持原值"，
// 非nil（包括空串）表示覆盖。JSON里的null与缺省等价。
package dto

// LoginRequest 登录
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest 读者自助注册
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ResetPasswordRequest 重置密码（不校验旧密码）
type ResetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"newPassword"`
}

// UserCreateRequest 管理员新增用户
type UserCreateRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Nickname string   `json:"nickname"`
	Phone    string   `json:"phone,omitempty"`
	Email    string   `json:"email,omitempty"`
	Status   *Int     `json:"status,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// UserUpdateRequest 修改用户资料
// 角色不在请求体里，通过查询参数roles单独替换
type UserUpdateRequest struct {
	Nickname *string `json:"nickname,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Status   *Int    `json:"status,omitempty"`
}

// CategoryRequest 新增/修改分类
type CategoryRequest struct {
	ParentID *ID     `json:"parentId,omitempty"`
	Name     *string `json:"name,omitempty"`
	Code     *string `json:"code,omitempty"`
}

// BookRequest 新增/修改书目
type BookRequest struct {
	ISBN        *string `json:"isbn,omitempty"`
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	Publisher   *string `json:"publisher,omitempty"`
	PublishDate *string `json:"publishDate,omitempty"`
	CategoryID  *ID     `json:"categoryId,omitempty"`
	Tags        *string `json:"tags,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CopyRequest 新增/修改副本
// 修改时只接受location；status只能由借还流程改变
type CopyRequest struct {
	BookID   *ID     `json:"bookId,omitempty"`
	CopyCode *string `json:"copyCode,omitempty"`
	Location *string `json:"location,omitempty"`
	Status   *Int    `json:"status,omitempty"`
}

// BorrowRequest 借阅；copyId与days也可以放在查询参数里
type BorrowRequest struct {
	CopyID ID   `json:"copyId,omitempty"`
	Days   *Int `json:"days,omitempty"`
}

// ReturnRequest 归还
type ReturnRequest struct {
	CopyID ID `json:"copyId,omitempty"`
}

// String 构造可选字符串字段
func String(s string) *string {
	return &s
}

// IDPtr 构造可选ID字段
func IDPtr(s string) *ID {
	id := ID(s)
	return &id
}
