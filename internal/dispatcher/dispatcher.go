// Package dispatcher 统一的请求分发
//
// 所有业务调用都经过Dispatch：
//  1. 拼接查询串、按需附带Bearer令牌
//  2. 交给Transport（进程内引擎或HTTP）
//  3. 归一化结果：信封code为200时返回data，否则返回*apperrors.AppError
//  4. 401清除会话并跳转登录页；每次失败恰好一条用户提示
package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "github.com/xiebiao/libconsole/pkg/errors"
	"github.com/xiebiao/libconsole/pkg/metrics"
	"github.com/xiebiao/libconsole/pkg/tracing"
)

const tracerName = "libconsole/dispatcher"

// Call 一次逻辑调用
type Call struct {
	Path      string
	Method    string         // 为空时按GET处理
	Params    map[string]any // 查询参数
	Body      any            // JSON请求体，GET请求忽略
	Anonymous bool           // true时不附带令牌（登录、注册等）
}

// Session 分发器需要的会话能力（auth.Store满足此接口）
type Session interface {
	Token() string
	ClearAuth() error
}

// Dispatcher 请求分发器
type Dispatcher struct {
	transport Transport
	session   Session
	navigator Navigator
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// Option 分发器选项
type Option func(*Dispatcher)

// WithNavigator 401后的跳转
func WithNavigator(n Navigator) Option {
	return func(d *Dispatcher) { d.navigator = n }
}

// WithNotifier 用户提示
func WithNotifier(n Notifier) Option {
	return func(d *Dispatcher) { d.notifier = n }
}

// WithMetrics 指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithLogger 日志
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// New 创建分发器
func New(transport Transport, session Session, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		transport: transport,
		session:   session,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.notifier == nil {
		d.notifier = NewLogNotifier(d.logger, d.metrics)
	}
	return d
}

// SetNavigator 启动后再绑定跳转（History依赖会话存储，创建顺序晚于分发器时使用）
func (d *Dispatcher) SetNavigator(n Navigator) {
	d.navigator = n
}

// Do 分发并把data解码到out；out为nil或data为空时不解码
func (d *Dispatcher) Do(ctx context.Context, call Call, out any) error {
	data, err := d.Dispatch(ctx, call)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return d.fail(&apperrors.AppError{Message: MessageFailed, Err: fmt.Errorf("解析响应失败: %w", err)})
	}
	return nil
}

// Dispatch 分发一次调用，成功返回信封中的data（可能为nil）
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) (data json.RawMessage, err error) {
	method := strings.ToUpper(call.Method)
	if method == "" {
		method = http.MethodGet
	}
	requestID := uuid.NewString()
	start := time.Now()

	ctx, span := tracing.StartSpan(ctx, tracerName, method+" "+call.Path)
	outcome := metrics.OutcomeSuccess
	defer func() {
		tracing.EndSpan(span, err)
		d.metrics.ObserveDispatch(method, metrics.Resource(call.Path), outcome, time.Since(start))
		d.logger.Debug().
			Str("request_id", requestID).
			Str("method", method).
			Str("path", call.Path).
			Str("outcome", outcome).
			Dur("elapsed", time.Since(start)).
			Msg("dispatch")
	}()

	out := &Outgoing{
		Method:    method,
		Path:      call.Path,
		Query:     BuildQuery(call.Params),
		RequestID: requestID,
	}
	if call.Body != nil && method != http.MethodGet {
		raw, err := json.Marshal(call.Body)
		if err != nil {
			outcome = metrics.OutcomeFailure
			return nil, d.fail(&apperrors.AppError{Message: MessageFailed, Err: fmt.Errorf("请求体序列化失败: %w", err)})
		}
		out.Body = raw
	}
	if !call.Anonymous && d.session != nil {
		out.Token = d.session.Token()
	}

	reply, err := d.transport.RoundTrip(ctx, out)
	if err != nil {
		outcome = metrics.OutcomeTransport
		d.logger.Error().Err(err).Str("request_id", requestID).Str("path", call.Path).Msg("传输异常")
		return nil, d.fail(&apperrors.AppError{Message: MessageNetworkError, Err: err})
	}

	data, err = d.normalize(reply)
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	return data, err
}

// normalize 把传输结果归一化成data或错误
func (d *Dispatcher) normalize(reply *Reply) (json.RawMessage, error) {
	env := reply.Envelope

	if reply.Status < 200 || reply.Status >= 300 {
		code, message := reply.Status, ""
		if env != nil {
			if env.Code != 0 {
				code = env.Code
			}
			message = env.Message
		}
		return nil, d.reject(reply.Status, code, message)
	}

	if env == nil {
		return nil, nil
	}
	if env.Code != apperrors.CodeSuccess {
		return nil, d.reject(reply.Status, env.Code, env.Message)
	}
	return env.Data, nil
}

// reject 处理认证/授权副作用并提示一次
// message为空时：403提示"无权限"，非2xx提示"请求失败 (状态码)"，其余提示"请求失败"
func (d *Dispatcher) reject(status, code int, message string) error {
	unauthorized := status == http.StatusUnauthorized || code == apperrors.ErrCodeUnauthorized
	forbidden := status == http.StatusForbidden || code == apperrors.ErrCodeForbidden

	if message == "" {
		switch {
		case forbidden:
			message = MessageForbidden
		case status < 200 || status >= 300:
			message = fmt.Sprintf("%s (%d)", MessageFailed, status)
		default:
			message = MessageFailed
		}
	}

	if unauthorized {
		if d.session != nil {
			if err := d.session.ClearAuth(); err != nil {
				d.logger.Error().Err(err).Msg("清除会话失败")
			}
		}
		if d.navigator != nil {
			d.navigator.Redirect(LoginPath)
		}
	}
	return d.fail(&apperrors.AppError{Code: code, Status: status, Message: message})
}

// fail 提示并返回错误
func (d *Dispatcher) fail(appErr *apperrors.AppError) error {
	d.notifier.NotifyError(appErr.Message)
	return appErr
}
