package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/xiebiao/libconsole/internal/engine"
	apperrors "github.com/xiebiao/libconsole/pkg/errors"
	"github.com/xiebiao/libconsole/pkg/response"
)

// Outgoing 传输层看到的请求
type Outgoing struct {
	Method    string
	Path      string
	Query     url.Values
	Body      []byte // JSON，GET请求或无请求体时为nil
	Token     string // 不需要认证时为空
	RequestID string
}

// Reply 传输层的原始结果
// Envelope为nil表示响应体不是可解析的JSON信封
type Reply struct {
	Status   int
	Envelope *response.RawEnvelope
}

// Transport 传输方式
// 返回error表示传输异常（网络不可达、熔断、被取消），与业务失败区分开
type Transport interface {
	RoundTrip(ctx context.Context, out *Outgoing) (*Reply, error)
}

// Handler 进程内引擎（engine.Engine满足此接口）
type Handler interface {
	Handle(ctx context.Context, req *engine.Request) (any, error)
}

// MockTransport 把请求直接交给进程内引擎
// 引擎的结果会被编码成与HTTP服务端相同的信封，两种传输走同一套归一化逻辑
type MockTransport struct {
	engine Handler
}

// NewMockTransport 创建进程内传输
func NewMockTransport(h Handler) *MockTransport {
	return &MockTransport{engine: h}
}

// RoundTrip 实现Transport
func (t *MockTransport) RoundTrip(ctx context.Context, out *Outgoing) (*Reply, error) {
	data, err := t.engine.Handle(ctx, &engine.Request{
		Method: out.Method,
		Path:   out.Path,
		Query:  out.Query,
		Body:   out.Body,
		Token:  out.Token,
	})
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			return nil, err
		}
		return &Reply{
			Status: appErr.HTTPStatus(),
			Envelope: &response.RawEnvelope{
				Code:    appErr.Code,
				Message: appErr.Message,
			},
		}, nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	env := response.OK(nil)
	return &Reply{
		Status: http.StatusOK,
		Envelope: &response.RawEnvelope{
			Code:    env.Code,
			Message: env.Message,
			Data:    raw,
		},
	}, nil
}
