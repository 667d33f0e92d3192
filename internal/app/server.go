package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/xiebiao/libconsole/internal/engine"
	"github.com/xiebiao/libconsole/internal/infrastructure/config"
	"github.com/xiebiao/libconsole/internal/interface/http/handler"
	"github.com/xiebiao/libconsole/pkg/logger"
	"github.com/xiebiao/libconsole/pkg/metrics"
	"github.com/xiebiao/libconsole/pkg/tracing"
)

// Server 模拟服务端：通过HTTP暴露内存引擎，供HTTPTransport或其他前端联调
type Server struct {
	HTTP   *http.Server
	Engine *engine.Engine
	Logger zerolog.Logger

	closers []func()
}

// NewServer 组装模拟服务端
func NewServer(cfg *config.Config) (_ *Server, err error) {
	s := &Server{}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	log, closer, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, err
	}
	s.Logger = log
	s.closers = append(s.closers, func() { _ = closer.Close() })

	shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() { _ = shutdown(context.Background()) })

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	eng, closeEngine, err := NewEngine(cfg, log, m)
	if err != nil {
		return nil, err
	}
	s.Engine = eng
	s.closers = append(s.closers, closeEngine)

	router := handler.NewRouter(handler.NewEngineHandler(eng, log), handler.RouterOptions{
		Mode:        cfg.Server.Mode,
		CORSOrigins: cfg.Server.CORSOrigins,
		Gatherer:    reg,
		Swagger:     cfg.Server.Mode != "release",
		Logger:      log,
	})

	s.HTTP = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

// Shutdown 优雅关闭HTTP服务并释放资源
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := s.HTTP.Shutdown(ctx)
	s.Close()
	return err
}

// Close 释放资源（不等待进行中的请求）
func (s *Server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
