package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/xiebiao/libconsole/internal/engine"
	"github.com/xiebiao/libconsole/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/libconsole/pkg/errors"
	"github.com/xiebiao/libconsole/pkg/response"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 1 << 20

// Engine 内存引擎（*engine.Engine满足此接口）
type Engine interface {
	Handle(ctx context.Context, req *engine.Request) (any, error)
}

// EngineHandler 把HTTP请求原样转给内存引擎
// 设计说明：
// 1. 路由匹配、参数校验、业务规则都在引擎里，Handler只做HTTP与引擎请求之间的转换
// 2. HTTP状态码与信封code一致，客户端两条判断路径得到相同结论
// 3. 未登记的接口由引擎返回404"未实现的接口"
type EngineHandler struct {
	engine Engine
	logger zerolog.Logger
}

// NewEngineHandler 创建处理器
func NewEngineHandler(e Engine, logger zerolog.Logger) *EngineHandler {
	return &EngineHandler{engine: e, logger: logger}
}

// Forward 转发到引擎
// @Summary      模拟接口
// @Description  /api/v1下的所有操作，详见各资源说明
// @Tags         引擎
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        path path string true "资源路径，如books、users/3、loans/borrow"
// @Success      200 {object} response.Envelope "code=200，data为操作结果"
// @Failure      400 {object} response.Envelope "参数错误或业务规则冲突"
// @Failure      401 {object} response.Envelope "未登录或令牌无效"
// @Failure      404 {object} response.Envelope "资源不存在或未实现的接口"
// @Router       /api/v1/{path} [get]
// @Router       /api/v1/{path} [post]
// @Router       /api/v1/{path} [put]
// @Router       /api/v1/{path} [delete]
func (h *EngineHandler) Forward(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	data, err := h.engine.Handle(c.Request.Context(), &engine.Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Body:   body,
		Token:  middleware.GetToken(c),
	})
	if err != nil {
		if !apperrors.IsAppError(err) {
			h.logger.Error().Err(err).
				Str("request_id", middleware.GetRequestID(c)).
				Str("path", c.Request.URL.Path).
				Msg("引擎处理失败")
		}
		response.Error(c, err)
		return
	}
	response.Success(c, data)
}
