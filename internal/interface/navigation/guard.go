package navigation

import (
	"net/url"
	"strings"
)

// AuthState 守卫读取的会话状态（*auth.Store满足此接口）
type AuthState interface {
	IsAuthenticated() bool
	HasAnyRole(roles ...string) bool
}

// Decision 守卫的判定结果
type Decision struct {
	Route    Route
	Allow    bool
	Redirect string // Allow为false时的跳转目标（可能带查询串）
}

// Guard 路由守卫
type Guard struct {
	routes map[string]Route
}

// NewGuard 用路由表创建守卫；后登记的同路径路由覆盖先登记的
func NewGuard(routes []Route) *Guard {
	g := &Guard{routes: make(map[string]Route, len(routes))}
	for _, r := range routes {
		g.routes[cleanPath(r.Path)] = r
	}
	return g
}

// Match 按地址查路由（忽略查询串），未登记的返回公开的not-found路由
func (g *Guard) Match(target string) Route {
	p, _ := splitTarget(target)
	if r, ok := g.routes[p]; ok {
		return r
	}
	return Route{Path: p, Name: NotFound, Public: true}
}

// Decide 判定一次跳转
// 规则（按顺序）:
//  1. 路由本身是跳转项：直接跳转
//  2. 公开页面：已登录访问登录/注册/重置密码时跳到/books，其余放行
//  3. 没有角色要求：放行
//  4. 未登录：跳到/login?redirect=<原地址>
//  5. 要求角色但一个都没有：跳到/forbidden
//  6. 放行
func (g *Guard) Decide(target string, auth AuthState) Decision {
	path, fullPath := splitTarget(target)
	route := g.Match(path)

	if route.Redirect != "" {
		return Decision{Route: route, Redirect: route.Redirect}
	}

	authenticated := auth != nil && auth.IsAuthenticated()
	if route.Public {
		if authenticated && route.guestOnly() {
			return Decision{Route: route, Redirect: PathBooks}
		}
		return Decision{Route: route, Allow: true}
	}

	if len(route.Roles) == 0 {
		return Decision{Route: route, Allow: true}
	}
	if !authenticated {
		return Decision{Route: route, Redirect: LoginRedirect(fullPath)}
	}
	if !auth.HasAnyRole(route.Roles...) {
		return Decision{Route: route, Redirect: PathForbidden}
	}
	return Decision{Route: route, Allow: true}
}

// LoginRedirect 登录页地址，登录后回到fullPath
func LoginRedirect(fullPath string) string {
	return PathLogin + "?" + url.Values{"redirect": {fullPath}}.Encode()
}

// RedirectTarget 取出登录页上的redirect参数，没有或不是站内地址时返回/books
func RedirectTarget(loginURL string) string {
	u, err := url.Parse(loginURL)
	if err != nil {
		return PathBooks
	}
	if r := u.Query().Get("redirect"); strings.HasPrefix(r, "/") && !strings.HasPrefix(r, "//") {
		return r
	}
	return PathBooks
}

// splitTarget 拆出路径与完整地址（路径+查询串）
func splitTarget(target string) (path, fullPath string) {
	u, err := url.Parse(target)
	if err != nil || u.Path == "" {
		p := target
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
		return cleanPath(p), target
	}
	path = cleanPath(u.Path)
	fullPath = path
	if u.RawQuery != "" {
		fullPath += "?" + u.RawQuery
	}
	return path, fullPath
}

func cleanPath(p string) string {
	if p == "" {
		return PathRoot
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = PathRoot
		}
	}
	return p
}
