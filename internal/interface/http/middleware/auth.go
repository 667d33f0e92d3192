package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const tokenKey = "access_token"

// BearerToken 提取Authorization头里的令牌
// 设计说明：
// 1. 这里只解析格式，不校验令牌，校验由引擎在需要登录的操作里完成
// 2. 缺少或格式不对的头按匿名处理，登录、注册等接口照常可用
// 3. 令牌写入Context，Handler通过GetToken读取
func BearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := parseBearer(c.GetHeader("Authorization")); token != "" {
			c.Set(tokenKey, token)
		}
		c.Next()
	}
}

// GetToken 从Context获取令牌，匿名请求返回空串
func GetToken(c *gin.Context) string {
	if v, exists := c.Get(tokenKey); exists {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}

// parseBearer 格式：Authorization: Bearer <token>（scheme大小写不敏感）
func parseBearer(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
