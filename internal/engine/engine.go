// Package engine 内存版的图书馆业务后端
//
// 设计说明:
//  1. 请求按(方法, 路径模板)查路由表分发，未登记的组合返回"未实现的接口"
//  2. 每次调用先等待固定延迟再读写状态，模拟真实网络
//  3. 读写全部在memory.Store.Do内完成，借出/归还的检查与修改是一个原子操作
//  4. 借还成功后才发布事件，发布失败只记日志，不影响调用结果
package engine

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/libconsole/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/libconsole/pkg/errors"
	"github.com/xiebiao/libconsole/pkg/metrics"
)

// 默认值
const (
	DefaultLatency  = 120 * time.Millisecond
	DefaultLoanDays = 14
)

// Request 一次引擎调用
type Request struct {
	Method string
	Path   string     // 可带/api/v1前缀
	Query  url.Values // 已解析的查询参数
	Body   []byte     // JSON请求体，可为空
	Token  string     // Bearer令牌，未登录为空
}

// Engine 业务引擎
type Engine struct {
	store    *memory.Store
	router   *router
	latency  time.Duration
	loanDays int
	tokens   TokenIssuer
	events   EventPublisher
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

// Option 引擎选项
type Option func(*Engine)

// WithLatency 每次调用前的固定延迟，0表示不等待
func WithLatency(d time.Duration) Option {
	return func(e *Engine) { e.latency = d }
}

// WithDefaultLoanDays 借阅未指定天数时的默认值
func WithDefaultLoanDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.loanDays = days
		}
	}
}

// WithTokenIssuer 替换令牌签发方式
func WithTokenIssuer(t TokenIssuer) Option {
	return func(e *Engine) { e.tokens = t }
}

// WithEventPublisher 借阅事件出口
func WithEventPublisher(p EventPublisher) Option {
	return func(e *Engine) { e.events = p }
}

// WithMetrics 指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger 日志
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock 替换时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New 创建引擎
func New(store *memory.Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		latency:  DefaultLatency,
		loanDays: DefaultLoanDays,
		tokens:   SimpleTokens{},
		events:   NopPublisher{},
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.router = e.routes()
	return e
}

// Store 底层存储
func (e *Engine) Store() *memory.Store {
	return e.store
}

// Handle 处理一次调用
// 成功返回业务数据（写操作为nil），失败返回*apperrors.AppError；
// context取消时返回ctx.Err()
func (e *Engine) Handle(ctx context.Context, req *Request) (any, error) {
	if err := e.wait(ctx); err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	query := req.Query
	if query == nil {
		query = url.Values{}
	}

	rt, params := e.router.match(method, normalizePath(req.Path))
	if rt == nil {
		err := apperrors.NotImplemented(method, req.Path)
		e.metrics.IncEngineRequest("unmatched", err.Code)
		e.logger.Warn().Str("method", method).Str("path", req.Path).Msg("未实现的接口")
		return nil, err
	}

	data, err := rt.handle(ctx, &call{req: req, params: params, query: query})

	code := apperrors.CodeSuccess
	if err != nil {
		code = apperrors.StatusOf(err)
	}
	e.metrics.IncEngineRequest(rt.pattern, code)
	e.logger.Debug().
		Str("method", method).
		Str("route", rt.pattern).
		Int("code", code).
		Err(err).
		Msg("引擎请求")
	return data, err
}

func (e *Engine) wait(ctx context.Context) error {
	if e.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(e.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// publish 发布借阅事件，失败只记录日志
func (e *Engine) publish(ctx context.Context, evt LoanEvent) {
	if err := e.events.PublishLoanEvent(ctx, evt); err != nil {
		e.logger.Error().Err(err).Str("type", evt.Type).Str("loan_no", evt.LoanNo).Msg("发布借阅事件失败")
		return
	}
	e.metrics.IncLoanEvent(evt.Type)
}

func (e *Engine) routes() *router {
	r := &router{}

	r.add(http.MethodPost, "/auth/login", e.login)
	r.add(http.MethodPost, "/auth/register", e.register)
	r.add(http.MethodPost, "/auth/password/reset", e.resetPassword)
	r.add(http.MethodPost, "/auth/logout", e.logout)

	r.add(http.MethodGet, "/roles", e.listRoles)

	r.add(http.MethodGet, "/users", e.listUsers)
	r.add(http.MethodPost, "/users", e.createUser)
	r.add(http.MethodGet, "/users/{id}", e.getUser)
	r.add(http.MethodPut, "/users/{id}", e.updateUser)
	r.add(http.MethodDelete, "/users/{id}", e.deleteUser)

	r.add(http.MethodGet, "/categories", e.listCategories)
	r.add(http.MethodPost, "/categories", e.createCategory)
	r.add(http.MethodGet, "/categories/{id}", e.getCategory)
	r.add(http.MethodPut, "/categories/{id}", e.updateCategory)
	r.add(http.MethodDelete, "/categories/{id}", e.deleteCategory)

	r.add(http.MethodGet, "/books", e.listBooks)
	r.add(http.MethodPost, "/books", e.createBook)
	r.add(http.MethodGet, "/books/{id}", e.getBook)
	r.add(http.MethodPut, "/books/{id}", e.updateBook)
	r.add(http.MethodDelete, "/books/{id}", e.deleteBook)

	r.add(http.MethodGet, "/copies", e.listCopies)
	r.add(http.MethodPost, "/copies", e.createCopy)
	r.add(http.MethodGet, "/copies/{id}", e.getCopy)
	r.add(http.MethodPut, "/copies/{id}", e.updateCopy)
	r.add(http.MethodDelete, "/copies/{id}", e.deleteCopy)

	r.add(http.MethodGet, "/loans", e.listLoans)
	r.add(http.MethodPost, "/loans/borrow", e.borrow)
	r.add(http.MethodPost, "/loans/return", e.returnCopy)

	return r
}
