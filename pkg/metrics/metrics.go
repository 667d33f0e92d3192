// Package metrics 提供基于Prometheus的指标收集
//
// 指标分三组：
//   - 请求分发：客户端每次逻辑调用的结果与耗时
//   - 内存引擎：每条路由的处理结果、借还流程计数
//   - 基础设施：熔断器状态、消息发布
//
// 与全局promauto注册不同，这里每个Metrics实例绑定自己的Registry，
// 测试中可以创建互不干扰的实例。
//
// # 使用示例
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	m.ObserveDispatch("GET", "books", metrics.OutcomeSuccess, time.Since(start))
//
//	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
//
// # 命名规范
//
//  1. Counter以_total结尾
//  2. Histogram以单位结尾（_seconds）
//  3. 标签只用有限取值（method、resource、outcome），不要用id
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 分发结果标签取值
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeTransport = "transport_error"
)

// Metrics 指标集合
type Metrics struct {
	// DispatchTotal 分发请求总数
	// 标签：method、resource（/api/v1后的第一段路径）、outcome
	DispatchTotal *prometheus.CounterVec

	// DispatchDuration 分发耗时（包含模拟延迟）
	DispatchDuration *prometheus.HistogramVec

	// NotificationsTotal 用户可见通知总数
	// 标签：level（error）
	NotificationsTotal *prometheus.CounterVec

	// EngineRequestsTotal 内存引擎处理总数
	// 标签：route（路由模板）、code（业务码）
	EngineRequestsTotal *prometheus.CounterVec

	// LoanEventsTotal 借还事件总数
	// 标签：type（loan.borrowed/loan.returned）
	LoanEventsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// MessagesPublishedTotal 消息发布总数
	// 标签：exchange、routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec
}

// New 创建指标并注册到reg
// reg为nil时使用一个新的私有Registry
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		DispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "libconsole_dispatch_total",
				Help: "请求分发总数",
			},
			[]string{"method", "resource", "outcome"},
		),
		DispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "libconsole_dispatch_duration_seconds",
				Help: "请求分发耗时（秒）",
				// 内存引擎固定延迟120ms，桶覆盖它的两侧
				Buckets: []float64{0.01, 0.05, 0.1, 0.15, 0.25, 0.5, 1, 5},
			},
			[]string{"method", "resource"},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "libconsole_notifications_total",
				Help: "用户可见通知总数",
			},
			[]string{"level"},
		),
		EngineRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "libconsole_engine_requests_total",
				Help: "内存引擎处理请求总数",
			},
			[]string{"route", "code"},
		),
		LoanEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "libconsole_loan_events_total",
				Help: "借还事件总数",
			},
			[]string{"type"},
		),
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "libconsole_circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		),
		MessagesPublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "libconsole_messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"exchange", "routing_key", "result"},
		),
	}
}

// ObserveDispatch 记录一次分发
func (m *Metrics) ObserveDispatch(method, resource, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.DispatchTotal.WithLabelValues(method, resource, outcome).Inc()
	m.DispatchDuration.WithLabelValues(method, resource).Observe(elapsed.Seconds())
}

// IncNotification 记录一次通知
func (m *Metrics) IncNotification(level string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(level).Inc()
}

// IncEngineRequest 记录一次引擎处理
func (m *Metrics) IncEngineRequest(route string, code int) {
	if m == nil {
		return
	}
	m.EngineRequestsTotal.WithLabelValues(route, codeLabel(code)).Inc()
}

// IncLoanEvent 记录一次借还事件
func (m *Metrics) IncLoanEvent(eventType string) {
	if m == nil {
		return
	}
	m.LoanEventsTotal.WithLabelValues(eventType).Inc()
}

// SetCircuitBreakerState 更新熔断器状态
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// IncPublished 记录一次消息发布
func (m *Metrics) IncPublished(exchange, routingKey string, err error) {
	if m == nil {
		return
	}
	result := OutcomeSuccess
	if err != nil {
		result = OutcomeFailure
	}
	m.MessagesPublishedTotal.WithLabelValues(exchange, routingKey, result).Inc()
}

// Resource 把请求路径归约成低基数的资源名
// /api/v1/users/3 → users，/loans/borrow → loans
func Resource(path string) string {
	path = strings.TrimPrefix(path, "/api/v1")
	path = strings.Trim(path, "/")
	if path == "" {
		return "root"
	}
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

func codeLabel(code int) string {
	if code == 200 || (code >= 400 && code < 600) {
		return strconv.Itoa(code)
	}
	return "other"
}
