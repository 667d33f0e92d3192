package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/libconsole/internal/interface/http/docs" // 注册swagger文档
	"github.com/xiebiao/libconsole/internal/interface/http/middleware"
	"github.com/xiebiao/libconsole/pkg/response"
)

// RouterOptions 路由依赖
type RouterOptions struct {
	Mode        string // debug | release | test
	CORSOrigins []string
	Gatherer    prometheus.Gatherer // 为nil时不注册/metrics
	Swagger     bool
	Logger      zerolog.Logger
}

// NewRouter 创建模拟服务端的gin引擎
// 中间件执行顺序：Logger → Recovery → CORS → BearerToken → Handler
func NewRouter(h *EngineHandler, opts RouterOptions) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(middleware.Logger(opts.Logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(opts.CORSOrigins))

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	// 访问 http://localhost:8080/swagger/index.html 查看接口文档
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1", middleware.BearerToken())
	v1.Any("/*path", h.Forward)

	return r
}
