// Package client 类型化的接口调用
//
// 每个方法对应引擎识别的一个操作，路径、方法、查询参数与请求体在这里固定下来，
// 调用方只面对领域类型。失败时返回分发器归一化后的*apperrors.AppError，
// 用户提示已经由分发器发出，调用方不需要再提示。
package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/xiebiao/libconsole/internal/dispatcher"
	"github.com/xiebiao/libconsole/internal/engine"
)

// Doer 分发能力（*dispatcher.Dispatcher满足此接口）
type Doer interface {
	Do(ctx context.Context, call dispatcher.Call, out any) error
}

// Client 类型化客户端
type Client struct {
	doer Doer
}

// New 创建客户端
func New(doer Doer) *Client {
	return &Client{doer: doer}
}

func (c *Client) get(ctx context.Context, path string, params map[string]any, out any) error {
	return c.doer.Do(ctx, dispatcher.Call{
		Path:   engine.APIPrefix + path,
		Method: http.MethodGet,
		Params: params,
	}, out)
}

func (c *Client) send(ctx context.Context, method, path string, params map[string]any, body any, out any) error {
	return c.doer.Do(ctx, dispatcher.Call{
		Path:   engine.APIPrefix + path,
		Method: method,
		Params: params,
		Body:   body,
	}, out)
}

func (c *Client) anonymous(ctx context.Context, path string, body any, out any) error {
	return c.doer.Do(ctx, dispatcher.Call{
		Path:      engine.APIPrefix + path,
		Method:    http.MethodPost,
		Body:      body,
		Anonymous: true,
	}, out)
}

func itemPath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}
