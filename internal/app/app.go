// Package app 按配置组装进程内的全部组件
//
// 依赖注入链（手动组装，cmd/console/wire.go是同一条链的Wire版本）:
//
//	Config → Logger/Metrics/Tracing
//	       → memory.Store → Engine（令牌、事件发布）
//	       → auth.Backend → auth.Store
//	       → Transport（进程内引擎或HTTP+熔断器）→ Dispatcher → Client
//	       → session.Service、navigation.History
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/xiebiao/libconsole/internal/application/session"
	"github.com/xiebiao/libconsole/internal/auth"
	"github.com/xiebiao/libconsole/internal/client"
	"github.com/xiebiao/libconsole/internal/dispatcher"
	"github.com/xiebiao/libconsole/internal/engine"
	"github.com/xiebiao/libconsole/internal/infrastructure/config"
	"github.com/xiebiao/libconsole/internal/infrastructure/persistence/database"
	"github.com/xiebiao/libconsole/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/libconsole/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/libconsole/internal/interface/navigation"
	"github.com/xiebiao/libconsole/pkg/circuitbreaker"
	"github.com/xiebiao/libconsole/pkg/jwt"
	"github.com/xiebiao/libconsole/pkg/logger"
	"github.com/xiebiao/libconsole/pkg/metrics"
	"github.com/xiebiao/libconsole/pkg/mq"
	"github.com/xiebiao/libconsole/pkg/tracing"
)

// Container 组装好的组件
type Container struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Engine     *engine.Engine // 使用HTTP传输时为nil
	Auth       *auth.Store
	Dispatcher *dispatcher.Dispatcher
	Client     *client.Client
	Session    *session.Service
	History    *navigation.History

	closers []func()
}

// Option 组装选项
type Option func(*options)

type options struct {
	logger       *zerolog.Logger
	wrapNotifier func(dispatcher.Notifier) dispatcher.Notifier
}

// WithLogger 使用外部Logger，不再按log配置创建
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// WithNotifier 包装默认的日志提示器（控制台用它把提示打印到终端）
func WithNotifier(wrap func(base dispatcher.Notifier) dispatcher.Notifier) Option {
	return func(o *options) { o.wrapNotifier = wrap }
}

// New 按配置组装
// 出错时已经创建的资源会被释放
func New(cfg *config.Config, opts ...Option) (_ *Container, err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{Config: cfg}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	if o.logger != nil {
		c.Logger = *o.logger
	} else {
		log, closer, err := logger.New(logger.Options{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: cfg.Log.Output,
		})
		if err != nil {
			return nil, err
		}
		c.Logger = log
		c.onClose(func() { _ = closer.Close() })
	}

	c.Registry = prometheus.NewRegistry()
	c.Metrics = metrics.New(c.Registry)

	shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		return nil, err
	}
	c.onClose(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	})

	backend, closeBackend, err := NewAuthBackend(cfg, c.Logger)
	if err != nil {
		return nil, err
	}
	c.onClose(closeBackend)
	c.Auth = auth.NewStore(backend,
		auth.WithKeys(cfg.Auth.TokenKey, cfg.Auth.UserKey),
		auth.WithLogger(c.Logger),
	)

	var transport dispatcher.Transport
	if cfg.API.UseMock {
		eng, closeEngine, err := NewEngine(cfg, c.Logger, c.Metrics)
		if err != nil {
			return nil, err
		}
		c.onClose(closeEngine)
		c.Engine = eng
		transport = dispatcher.NewMockTransport(eng)
	} else {
		transport = NewHTTPTransport(cfg, c.Logger, c.Metrics)
	}

	var notifier dispatcher.Notifier = dispatcher.NewLogNotifier(c.Logger, c.Metrics)
	if o.wrapNotifier != nil {
		notifier = o.wrapNotifier(notifier)
	}
	c.Dispatcher = dispatcher.New(transport, c.Auth,
		dispatcher.WithNotifier(notifier),
		dispatcher.WithMetrics(c.Metrics),
		dispatcher.WithLogger(c.Logger),
	)
	c.Client = client.New(c.Dispatcher)
	c.Session = session.NewService(c.Client, c.Auth, c.Logger)

	// History依赖会话存储，创建后再交给分发器
	c.History = navigation.NewHistory(navigation.NewGuard(navigation.DefaultRoutes()), c.Auth, c.Logger, navigation.PathRoot)
	c.Dispatcher.SetNavigator(c.History)
	c.onClose(c.History.Watch(c.Auth))

	c.Logger.Debug().
		Bool("use_mock", cfg.API.UseMock).
		Str("auth_backend", cfg.Auth.Backend).
		Str("location", c.History.Current()).
		Msg("组件初始化完成")
	return c, nil
}

func (c *Container) onClose(fn func()) {
	c.closers = append(c.closers, fn)
}

// Close 按创建的逆序释放资源，可以重复调用
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// NewEngine 创建内存引擎，配置了mq.url时借还事件发布到消息队列
func NewEngine(cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) (*engine.Engine, func(), error) {
	store, err := memory.NewStore(cfg.Mock.PasswordCost)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化内存数据失败: %w", err)
	}

	opts := []engine.Option{
		engine.WithLatency(cfg.Mock.Latency),
		engine.WithDefaultLoanDays(cfg.Mock.DefaultLoanDays),
		engine.WithMetrics(m),
		engine.WithLogger(log),
	}
	if cfg.Mock.TokenMode == "jwt" {
		opts = append(opts, engine.WithTokenIssuer(engine.NewJWTTokens(jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expire))))
	}

	// 消息队列不可用时只是不发布事件，借还照常进行
	cleanup := func() {}
	if cfg.MQ.URL != "" {
		pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
		if err != nil {
			log.Warn().Err(err).Msg("消息队列不可用，借阅事件不会发布")
		} else {
			opts = append(opts, engine.WithEventPublisher(engine.NewMQPublisher(pub, m)))
			cleanup = func() { _ = pub.Close() }
		}
	}

	return engine.New(store, opts...), cleanup, nil
}

// NewAuthBackend 按auth.backend选择会话存储
func NewAuthBackend(cfg *config.Config, log zerolog.Logger) (auth.Backend, func(), error) {
	noop := func() {}
	switch cfg.Auth.Backend {
	case "memory":
		return auth.NewMemoryBackend(), noop, nil

	case "file":
		return auth.NewFileBackend(cfg.Auth.FilePath), noop, nil

	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout+time.Second)
		defer cancel()
		rdb, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		backend := redis.NewSessionBackend(rdb, cfg.Auth.RedisPrefix, cfg.Auth.Profile, cfg.Auth.SessionTTL)
		log.Debug().Str("key", backend.Key()).Msg("会话保存在Redis")
		return backend, func() { _ = rdb.Close() }, nil

	case "database":
		db, err := database.NewDB(cfg.Database, cfg.Log.Level == "debug")
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return database.NewSessionBackend(db, cfg.Auth.Profile), closeDB, nil
	}
	return nil, nil, fmt.Errorf("未知的会话存储: %s", cfg.Auth.Backend)
}

// NewHTTPTransport 连接远端服务的传输，外面包一层熔断器
func NewHTTPTransport(cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) *dispatcher.HTTPTransport {
	cb := cfg.CircuitBreaker
	breaker := circuitbreaker.NewCircuitBreaker("api", circuitbreaker.Config{
		MaxRequests: cb.MaxRequests,
		Interval:    cb.Interval,
		Timeout:     cb.Timeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cb.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			m.SetCircuitBreakerState(name, int(to))
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("熔断器状态变化")
		},
	})
	return dispatcher.NewHTTPTransport(cfg.API.BaseURL, cfg.API.Timeout, breaker)
}
