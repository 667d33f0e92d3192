package response

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/libconsole/pkg/errors"
)

// Envelope 统一响应信封
// 设计说明：
// 1. Code是业务码，200表示成功，其余均视为失败
// 2. Message是用户友好的提示信息
// 3. Data是业务数据；写操作成功时为空
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// RawEnvelope 客户端解析用的信封，Data延迟解码
type RawEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// OK 构造成功信封
func OK(data interface{}) Envelope {
	return Envelope{
		Code:    apperrors.CodeSuccess,
		Message: "success",
		Data:    data,
	}
}

// Fail 根据错误构造失败信封（非AppError按500处理）
func Fail(err error) (int, Envelope) {
	appErr := apperrors.GetAppError(err)
	return appErr.HTTPStatus(), Envelope{
		Code:    appErr.Code,
		Message: appErr.Message,
	}
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(apperrors.CodeSuccess, OK(data))
}

// Error 错误响应（自动处理AppError）
// HTTP状态码与信封里的业务码保持一致，客户端两条路径都能识别
func Error(c *gin.Context, err error) {
	status, env := Fail(err)
	if appErr := apperrors.GetAppError(err); appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	c.JSON(status, env)
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	Error(c, apperrors.New(code, message))
}

// =========================================
// 分页响应结构
// =========================================

// Page 分页数据封装
// total是过滤后的总数，不是当前页的条数
type Page[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// NewPage 从完整结果集中截取一页
// 越界的页返回空items，total保持不变
// page与size来自查询串，可能接近int上限，边界计算不能直接相乘相加
func NewPage[T any](all []T, page, size int) *Page[T] {
	n := len(all)
	start, end := 0, 0
	if size > 0 {
		switch {
		case page < 1:
			start = 0
		case page-1 >= pageCount(n, size):
			start = n
		default:
			// page-1 < pageCount，乘积不超过n
			start = (page - 1) * size
		}
		end = start + min(size, n-start)
	}
	items := make([]T, 0, end-start)
	items = append(items, all[start:end]...)
	return &Page[T]{
		Items: items,
		Page:  page,
		Size:  size,
		Total: len(all),
	}
}

// TotalPages 总页数
func (p *Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return pageCount(p.Total, p.Size)
}

func pageCount(total, size int) int {
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}
