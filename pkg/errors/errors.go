package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是响应信封里的业务码（成功为200，失败沿用HTTP语义：400/401/403/404）
// 2. Status是传输层的HTTP状态码，内存引擎返回的错误中与Code相同
// 3. Message是用户友好的提示信息，会直接展示在通知里
// 4. Err是内部错误，仅记录到日志，不返回给调用方
type AppError struct {
	Code    int    `json:"code"`    // 业务码
	Status  int    `json:"-"`       // HTTP状态码（0表示未知）
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 业务码与提示相同即视为同一错误
// 错误经过信封往返后是新的实例，仍能与领域包导出的哨兵错误比较
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// HTTPStatus 返回该错误对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	if e.Code >= 400 && e.Code < 600 {
		return e.Code
	}
	return http.StatusInternalServerError
}

// New 创建新的AppError，Status与Code一致
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Status:  code,
		Message: message,
	}
}

// Newf 格式化创建AppError
func Newf(code int, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap 包装系统错误（如存储错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Status:  ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// =========================================
// 错误码定义
// =========================================
// 规范：沿用HTTP语义，客户端只需要识别少数几类
// - 200: 成功
// - 400: 参数校验失败、业务规则冲突
// - 401: 未登录或会话失效
// - 403: 已登录但无权限
// - 404: 资源不存在、接口未实现
// - 500: 内部错误

const (
	CodeSuccess = http.StatusOK

	ErrCodeBadRequest     = http.StatusBadRequest
	ErrCodeUnauthorized   = http.StatusUnauthorized
	ErrCodeForbidden      = http.StatusForbidden
	ErrCodeNotFound       = http.StatusNotFound
	ErrCodeInternal       = http.StatusInternalServerError
	ErrCodeNotImplemented = http.StatusNotFound // 未实现的接口按404处理
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	ErrInternal     = New(ErrCodeInternal, "系统内部错误")
	ErrUnauthorized = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken = New(ErrCodeUnauthorized, "无效的Token")
	ErrTokenExpired = New(ErrCodeUnauthorized, "Token已过期")
	ErrForbidden    = New(ErrCodeForbidden, "无权限")
	ErrNotFound     = New(ErrCodeNotFound, "资源不存在")
	ErrBadRequest   = New(ErrCodeBadRequest, "参数错误")
	ErrBindError    = New(ErrCodeBadRequest, "参数格式错误")
)

// NotImplemented 未登记的接口
func NotImplemented(method, path string) *AppError {
	return Newf(ErrCodeNotImplemented, "未实现的接口: %s %s", method, path)
}

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// StatusOf 返回错误携带的状态：优先HTTP状态，其次业务码；非AppError返回0
func StatusOf(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return 0
	}
	if appErr.Status != 0 {
		return appErr.Status
	}
	return appErr.Code
}

// IsUnauthorized 是否为401（HTTP状态或业务码任一命中）
func IsUnauthorized(err error) bool {
	return hasCode(err, ErrCodeUnauthorized)
}

// IsForbidden 是否为403
func IsForbidden(err error) bool {
	return hasCode(err, ErrCodeForbidden)
}

// IsNotFound 是否为404
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func hasCode(err error, code int) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Status == code || appErr.Code == code
}
