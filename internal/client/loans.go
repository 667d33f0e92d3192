package client

import (
	"context"
	"net/http"

	"github.com/xiebiao/libconsole/internal/domain/loan"
	"github.com/xiebiao/libconsole/internal/dto"
	"github.com/xiebiao/libconsole/pkg/response"
)

// ListLoans 分页查询借阅记录（新的在前）
func (c *Client) ListLoans(ctx context.Context, q dto.LoanQuery) (*response.Page[loan.Loan], error) {
	var page response.Page[loan.Loan]
	if err := c.get(ctx, "/loans", q.Params(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Borrow 以当前登录用户借阅副本；days<=0时使用默认借期
func (c *Client) Borrow(ctx context.Context, copyID string, days int) error {
	params := map[string]any{"copyId": copyID}
	if days > 0 {
		params["days"] = days
	}
	return c.send(ctx, http.MethodPost, "/loans/borrow", params, nil, nil)
}

// Return 归还副本
func (c *Client) Return(ctx context.Context, copyID string) error {
	return c.send(ctx, http.MethodPost, "/loans/return", map[string]any{"copyId": copyID}, nil, nil)
}
