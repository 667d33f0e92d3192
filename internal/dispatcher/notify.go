package dispatcher

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/xiebiao/libconsole/pkg/metrics"
)

// 默认提示文案
const (
	MessageNetworkError = "网络异常，请稍后再试"
	MessageForbidden    = "无权限"
	MessageFailed       = "请求失败"
)

// Notifier 用户可见的错误提示
type Notifier interface {
	NotifyError(message string)
}

// Navigator 页面跳转（路由守卫的History实现此接口）
type Navigator interface {
	Redirect(path string)
}

// LoginPath 会话失效后跳转的页面
const LoginPath = "/login"

// LogNotifier 把提示写进日志
type LogNotifier struct {
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewLogNotifier 创建日志提示器
func NewLogNotifier(logger zerolog.Logger, m *metrics.Metrics) *LogNotifier {
	return &LogNotifier{logger: logger, metrics: m}
}

// NotifyError 实现Notifier
func (n *LogNotifier) NotifyError(message string) {
	n.metrics.IncNotification("error")
	n.logger.Warn().Str("notification", message).Msg("请求失败提示")
}

// Recorder 记录所有提示，供测试与REPL回显
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// NotifyError 实现Notifier
func (r *Recorder) NotifyError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages 已记录的提示（副本）
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Drain 取出并清空
func (r *Recorder) Drain() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.messages
	r.messages = nil
	return out
}

// NotifierFunc 函数适配器
type NotifierFunc func(message string)

// NotifyError 实现Notifier
func (f NotifierFunc) NotifyError(message string) { f(message) }

// NavigatorFunc 函数适配器
type NavigatorFunc func(path string)

// Redirect 实现Navigator
func (f NavigatorFunc) Redirect(path string) { f(path) }
