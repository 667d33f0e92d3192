package engine

import (
	"context"
	"strings"

	"github.com/xiebiao/libconsole/internal/domain/bookcopy"
	"github.com/xiebiao/libconsole/internal/dto"
	"github.com/xiebiao/libconsole/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/libconsole/pkg/response"
)

// listCopies 按bookId、status过滤，关键字匹配条码与位置
func (e *Engine) listCopies(ctx context.Context, c *call) (any, error) {
	page, size := c.pagination()
	keyword := c.queryValue("keyword")
	bookID := c.queryValue("bookId")
	status, byStatus := c.intFilter("status")

	var items []bookcopy.Copy
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		items = tx.Copies.Filter(func(cp *bookcopy.Copy) bool {
			return cp.Matches(keyword) &&
				(bookID == "" || cp.BookID == bookID) &&
				(!byStatus || int(cp.Status) == status)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response.NewPage(items, page, size), nil
}

func (e *Engine) getCopy(ctx context.Context, c *call) (any, error) {
	var found bookcopy.Copy
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		item := tx.Copies.Find(c.param("id"))
		if item == nil {
			return bookcopy.ErrCopyNotFound
		}
		found = *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// createCopy 新增副本，条码必填且全局唯一，状态默认在架
func (e *Engine) createCopy(ctx context.Context, c *call) (any, error) {
	var req dto.CopyRequest
	if err := c.bind(&req); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(deref(req.CopyCode))
	if code == "" {
		return nil, bookcopy.ErrCopyCodeRequired
	}
	var status bookcopy.Status
	if req.Status != nil {
		status = bookcopy.Status(*req.Status)
	}
	var bookID string
	if req.BookID != nil {
		bookID = req.BookID.String()
	}
	item, err := bookcopy.NewCopy(bookID, code, deref(req.Location), status)
	if err != nil {
		return nil, err
	}

	return nil, e.store.Do(ctx, func(tx *memory.Tx) error {
		if copyCodeTaken(tx, code, "") {
			return bookcopy.ErrCopyCodeTaken
		}
		item.ID = tx.NextID(memory.KindCopy)
		tx.Copies.Append(item)
		return nil
	})
}

// updateCopy 修改位置与条码
// 请求体里的status只允许等于当前值，状态只能通过借还改变
func (e *Engine) updateCopy(ctx context.Context, c *call) (any, error) {
	var req dto.CopyRequest
	if err := c.bind(&req); err != nil {
		return nil, err
	}
	if req.CopyCode != nil && strings.TrimSpace(*req.CopyCode) == "" {
		return nil, bookcopy.ErrCopyCodeRequired
	}

	return nil, e.store.Do(ctx, func(tx *memory.Tx) error {
		item := tx.Copies.Find(c.param("id"))
		if item == nil {
			return bookcopy.ErrCopyNotFound
		}
		if req.Status != nil && bookcopy.Status(*req.Status) != item.Status {
			return bookcopy.ErrStatusImmutable
		}
		if req.CopyCode != nil {
			code := strings.TrimSpace(*req.CopyCode)
			if copyCodeTaken(tx, code, item.ID) {
				return bookcopy.ErrCopyCodeTaken
			}
			item.CopyCode = code
		}
		merge(&item.Location, req.Location)
		return nil
	})
}

func (e *Engine) deleteCopy(ctx context.Context, c *call) (any, error) {
	return nil, e.store.Do(ctx, func(tx *memory.Tx) error {
		if !tx.Copies.Remove(c.param("id")) {
			return bookcopy.ErrCopyNotFound
		}
		return nil
	})
}

func copyCodeTaken(tx *memory.Tx, code, exceptID string) bool {
	return tx.Copies.FindFunc(func(cp *bookcopy.Copy) bool {
		return cp.CopyCode == code && cp.ID != exceptID
	}) != nil
}
