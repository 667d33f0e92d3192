package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

const requestHeadersKey = "Access-Control-Request-Headers"

// CORS 跨域资源共享中间件
// 教学要点：
// 1. 头部的计算交给rs/cors，这里只负责接到gin上
// 2. 预检请求（OPTIONS + Access-Control-Request-Method）直接返回204，不进入Handler
// 3. origins为空或包含"*"时允许任意来源，此时不能携带Cookie
// 4. rs/cors只认小写的Access-Control-Request-Headers（浏览器就是这样发的），
//    非浏览器客户端可能发大写，先统一转成小写
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Accept", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         600,
	})
	return func(ctx *gin.Context) {
		if values := ctx.Request.Header.Values(requestHeadersKey); len(values) > 0 {
			ctx.Request.Header.Set(requestHeadersKey, strings.ToLower(strings.Join(values, ",")))
		}
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions && ctx.GetHeader("Access-Control-Request-Method") != "" {
			ctx.AbortWithStatus(http.StatusNoContent)
		}
	}
}
