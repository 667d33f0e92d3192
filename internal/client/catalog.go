package client

import (
	"context"
	"net/http"

	"github.com/xiebiao/libconsole/internal/domain/book"
	"github.com/xiebiao/libconsole/internal/domain/bookcopy"
	"github.com/xiebiao/libconsole/internal/domain/category"
	"github.com/xiebiao/libconsole/internal/dto"
	"github.com/xiebiao/libconsole/pkg/response"
)

// =========================================
// 分类
// =========================================

// ListCategories 全部分类（不分页，按parentId组成树）
func (c *Client) ListCategories(ctx context.Context) ([]category.Category, error) {
	var items []category.Category
	if err := c.get(ctx, "/categories", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetCategory 分类详情
func (c *Client) GetCategory(ctx context.Context, id string) (*category.Category, error) {
	var item category.Category
	if err := c.get(ctx, itemPath("/categories", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateCategory 新增分类
func (c *Client) CreateCategory(ctx context.Context, req dto.CategoryRequest) error {
	return c.send(ctx, http.MethodPost, "/categories", nil, req, nil)
}

// UpdateCategory 修改分类
func (c *Client) UpdateCategory(ctx context.Context, id string, req dto.CategoryRequest) error {
	return c.send(ctx, http.MethodPut, itemPath("/categories", id), nil, req, nil)
}

// DeleteCategory 删除分类
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, itemPath("/categories", id), nil, nil, nil)
}

// =========================================
// 书目
// =========================================

// ListBooks 分页查询书目
func (c *Client) ListBooks(ctx context.Context, q dto.BookQuery) (*response.Page[book.Book], error) {
	var page response.Page[book.Book]
	if err := c.get(ctx, "/books", q.Params(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBook 书目详情
func (c *Client) GetBook(ctx context.Context, id string) (*book.Book, error) {
	var item book.Book
	if err := c.get(ctx, itemPath("/books", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateBook 新增书目
func (c *Client) CreateBook(ctx context.Context, req dto.BookRequest) error {
	return c.send(ctx, http.MethodPost, "/books", nil, req, nil)
}

// UpdateBook 修改书目
func (c *Client) UpdateBook(ctx context.Context, id string, req dto.BookRequest) error {
	return c.send(ctx, http.MethodPut, itemPath("/books", id), nil, req, nil)
}

// DeleteBook 删除书目
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, itemPath("/books", id), nil, nil, nil)
}

// =========================================
// 副本
// =========================================

// ListCopies 分页查询副本
func (c *Client) ListCopies(ctx context.Context, q dto.CopyQuery) (*response.Page[bookcopy.Copy], error) {
	var page response.Page[bookcopy.Copy]
	if err := c.get(ctx, "/copies", q.Params(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetCopy 副本详情
func (c *Client) GetCopy(ctx context.Context, id string) (*bookcopy.Copy, error) {
	var item bookcopy.Copy
	if err := c.get(ctx, itemPath("/copies", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateCopy 新增副本
func (c *Client) CreateCopy(ctx context.Context, req dto.CopyRequest) error {
	return c.send(ctx, http.MethodPost, "/copies", nil, req, nil)
}

// UpdateCopy 修改副本
func (c *Client) UpdateCopy(ctx context.Context, id string, req dto.CopyRequest) error {
	return c.send(ctx, http.MethodPut, itemPath("/copies", id), nil, req, nil)
}

// DeleteCopy 删除副本
func (c *Client) DeleteCopy(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, itemPath("/copies", id), nil, nil, nil)
}
