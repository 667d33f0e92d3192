// Package navigation 路由守卫
//
// 守卫只影响页面跳转的体验，真正的权限校验在服务端。
// Decide是纯函数：给定目标地址和会话状态，返回放行或重定向目标。
package navigation

import "github.com/xiebiao/libconsole/internal/domain/user"

// 页面路径
const (
	PathRoot          = "/"
	PathLogin         = "/login"
	PathRegister      = "/register"
	PathPasswordReset = "/password-reset"
	PathCategories    = "/categories"
	PathBooks         = "/books"
	PathCopies        = "/copies"
	PathLoans         = "/loans"
	PathUsers         = "/users"
	PathRoles         = "/roles"
	PathForbidden     = "/forbidden"
)

// NotFound 未登记页面的路由名
const NotFound = "not-found"

// Route 路由表中的一项
// Public与Roles都为空的路由不做限制；只有Roles非空才要求登录
type Route struct {
	Path     string
	Name     string
	Public   bool
	Roles    []string // 任一命中即可访问
	Redirect string   // 非空时直接跳转
}

// guestOnly 已登录用户访问时跳到书目页
func (r Route) guestOnly() bool {
	switch r.Name {
	case "login", "register", "password-reset":
		return true
	}
	return false
}

// DefaultRoutes 控制台的路由表
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathLogin, Name: "login", Public: true},
		{Path: PathRegister, Name: "register", Public: true},
		{Path: PathPasswordReset, Name: "password-reset", Public: true},
		{Path: PathRoot, Name: "root", Redirect: PathLogin},
		{Path: PathCategories, Name: "categories", Public: true},
		{Path: PathBooks, Name: "books", Public: true},
		{Path: PathCopies, Name: "copies", Public: true},
		{Path: PathLoans, Name: "loans", Public: true},
		{Path: PathUsers, Name: "users", Roles: []string{user.RoleAdmin}},
		{Path: PathRoles, Name: "roles", Roles: []string{user.RoleAdmin}},
		{Path: PathForbidden, Name: "forbidden", Public: true},
	}
}
