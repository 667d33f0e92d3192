package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/xiebiao/libconsole/pkg/circuitbreaker"
	"github.com/xiebiao/libconsole/pkg/response"
)

// errServerStatus 5xx响应，只用于让熔断器计为失败
var errServerStatus = errors.New("server error status")

// HTTPTransport 通过HTTP访问真实（或模拟）服务端
// 学习要点：
// 1. 连接失败、超时、5xx都会计入熔断器；熔断打开后直接返回传输异常
// 2. 4xx是业务失败，不影响熔断器
// 3. 调用方取消的请求不计入熔断器
type HTTPTransport struct {
	baseURL string
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

// NewHTTPTransport 创建HTTP传输
// baseURL形如http://localhost:8080，path会直接拼在后面；breaker可为nil
func NewHTTPTransport(baseURL string, timeout time.Duration, breaker *circuitbreaker.CircuitBreaker) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

// RoundTrip 实现Transport
func (t *HTTPTransport) RoundTrip(ctx context.Context, out *Outgoing) (*Reply, error) {
	var reply *Reply
	send := func(ctx context.Context) error {
		var err error
		reply, err = t.send(ctx, out)
		if err != nil {
			return err
		}
		if reply.Status >= http.StatusInternalServerError {
			return errServerStatus
		}
		return nil
	}

	var err error
	if t.breaker != nil {
		err = t.breaker.ExecuteContext(ctx, send)
	} else {
		err = send(ctx)
	}
	if errors.Is(err, errServerStatus) {
		return reply, nil
	}
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (t *HTTPTransport) send(ctx context.Context, out *Outgoing) (*Reply, error) {
	var body io.Reader
	if out.Body != nil {
		body = bytes.NewReader(out.Body)
	}
	req, err := http.NewRequestWithContext(ctx, out.Method, t.baseURL+out.Path+encodeQuery(out.Query), body)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if out.Token != "" {
		req.Header.Set("Authorization", "Bearer "+out.Token)
	}
	if out.RequestID != "" {
		req.Header.Set("X-Request-ID", out.RequestID)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	reply := &Reply{Status: resp.StatusCode}
	if !isJSON(resp.Header.Get("Content-Type")) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return reply, nil
	}
	var env response.RawEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
		reply.Envelope = &env
	}
	return reply, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mediaType == "application/json"
}
