package navigation

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// maxRedirects 一次跳转最多跟随的重定向次数
const maxRedirects = 8

// ErrRedirectLoop 重定向次数超过上限
var ErrRedirectLoop = errors.New("navigation: too many redirects")

// Subscriber 会话变更通知源（*auth.Store满足此接口）
type Subscriber interface {
	Subscribe(fn func()) (unsubscribe func())
}

// History 当前页面与跳转记录
// 学习要点：
// 1. 每次跳转都经过守卫，重定向会一直跟随到放行为止
// 2. 实现dispatcher.Navigator，401后由分发器调用Redirect("/login")
// 3. Watch之后，会话变更会让当前页面重新过一遍守卫（登出后停留在需登录的页面会被送回登录页）
type History struct {
	guard  *Guard
	auth   AuthState
	logger zerolog.Logger

	mu      sync.Mutex
	current string
	trail   []string
}

// NewHistory 创建History，初始位置为start（会先过守卫）
func NewHistory(guard *Guard, auth AuthState, logger zerolog.Logger, start string) *History {
	h := &History{guard: guard, auth: auth, logger: logger}
	if start == "" {
		start = PathRoot
	}
	_, _ = h.Navigate(start)
	return h
}

// Navigate 跳转到target，返回最终停留的地址
func (h *History) Navigate(target string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.navigate(target)
}

func (h *History) navigate(target string) (string, error) {
	next := target
	for i := 0; i <= maxRedirects; i++ {
		d := h.guard.Decide(next, h.auth)
		if d.Allow {
			if next != h.current {
				h.trail = append(h.trail, next)
			}
			h.current = next
			h.logger.Debug().Str("target", target).Str("location", next).Str("route", d.Route.Name).Msg("navigate")
			return next, nil
		}
		next = d.Redirect
	}
	h.logger.Warn().Str("target", target).Msg("重定向次数过多")
	return h.current, ErrRedirectLoop
}

// Redirect 实现dispatcher.Navigator
func (h *History) Redirect(path string) {
	if _, err := h.Navigate(path); err != nil {
		h.logger.Error().Err(err).Str("path", path).Msg("跳转失败")
	}
}

// Current 当前地址
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Route 当前地址对应的路由
func (h *History) Route() Route {
	return h.guard.Match(h.Current())
}

// Trail 依次停留过的地址（副本）
func (h *History) Trail() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.trail...)
}

// Watch 订阅会话变更，每次变更重新判定当前页面
func (h *History) Watch(s Subscriber) (unsubscribe func()) {
	return s.Subscribe(h.Reevaluate)
}

// Reevaluate 重新判定当前页面
func (h *History) Reevaluate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.navigate(h.current); err != nil {
		h.logger.Error().Err(err).Msg("重新判定当前页面失败")
	}
}
