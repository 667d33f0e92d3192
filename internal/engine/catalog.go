package engine

import (
	"context"
	"strings"

	"github.com/xiebiao/libconsole/internal/domain/book"
	"github.com/xiebiao/libconsole/internal/domain/category"
	"github.com/xiebiao/libconsole/internal/dto"
	"github.com/xiebiao/libconsole/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/libconsole/pkg/response"
)

// listCategories 返回完整分类列表，树结构由parentId表达
func (e *Engine) listCategories(ctx context.Context, _ *call) (any, error) {
	var items []category.Category
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		items = tx.Categories.Filter(nil)
		return nil
	})
	return items, err
}

func (e *Engine) getCategory(ctx context.Context, c *call) (any, error) {
	var found category.Category
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		item := tx.Categories.Find(c.param("id"))
		if item == nil {
			return category.ErrCategoryNotFound
		}
		found = *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (e *Engine) createCategory(ctx context.Context, c *call) (any, error) {
	var req dto.CategoryRequest
	if err := c.bind(&req); err != nil {
		return nil, err
	}
	name := deref(req.Name)
	if strings.TrimSpace(name) == "" {
		return nil, category.ErrNameRequired
	}
	var parentID string
	if req.ParentID != nil {
		parentID = req.ParentID.String()
	}
	item := category.NewCategory(parentID, name, deref(req.Code))

	return nil, e.store.Do(ctx, func(tx *memory.Tx) error {
		if err := category.ValidateParent("", item.ParentID, tx.CategoryLookup()); err != nil {
			return err
		}
		item.ID = tx.NextID(memory.KindCategory)
		tx.Categories.Append(item)
		return nil
	})
}

// updateCategory 合并parentId/name/code；移动节点时不能挂到自己的子孙下
func (e *Engine) updateCategory(ctx context.Context, c *call) (any, error) {
	var req dto.CategoryRequest
	if err := c.bind(&req); err != nil {
		return nil, err
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, category.ErrNameRequired
	}

	return nil, e.store.Do(ctx, func(tx *memory.Tx) error {
		item := tx.Categories.Find(c.param("id"))
		if item == nil {
			return category.ErrCategoryNotFound
		}
		if req.ParentID != nil {
			parentID := req.ParentID.String()
			if parentID == "" {
				parentID = category.RootID
			}
			if err := category.ValidateParent(item.ID, parentID, tx.CategoryLookup()); err != nil {
				return err
			}
			item.ParentID = parentID
		}
		if req.Name != nil {
			item.Name = *req.Name
		}
		if req.Code != nil {
			item.Code = *req.Code
		}
		return nil
	})
}

func (e *Engine) deleteCategory(ctx context.Context, c *call) (any, error) {
	return nil, e.store.Do(ctx, func(tx *memory.Tx) error {
		if !tx.Categories.Remove(c.param("id")) {
			return category.ErrCategoryNotFound
		}
		return nil
	})
}

// listBooks 关键字匹配title/author/isbn，可按categoryId过滤
func (e *Engine) listBooks(ctx context.Context, c *call) (any, error) {
	page, size := c.pagination()
	keyword := c.queryValue("keyword")
	categoryID := c.queryValue("categoryId")

	var items []book.Book
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		items = tx.Books.Filter(func(b *book.Book) bool {
			return b.Matches(keyword) && (categoryID == "" || b.CategoryID == categoryID)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response.NewPage(items, page, size), nil
}

func (e *Engine) getBook(ctx context.Context, c *call) (any, error) {
	var found book.Book
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		item := tx.Books.Find(c.param("id"))
		if item == nil {
			return book.ErrBookNotFound
		}
		found = *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// createBook 新增书目；tags与description缺省为空串
func (e *Engine) createBook(ctx context.Context, c *call) (any, error) {
	var req dto.BookRequest
	if err := c.bind(&req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(deref(req.Title)) == "" {
		return nil, book.ErrTitleRequired
	}
	item := &book.Book{
		ISBN:        deref(req.ISBN),
		Title:       deref(req.Title),
		Author:      deref(req.Author),
		Publisher:   deref(req.Publisher),
		PublishDate: deref(req.PublishDate),
		Tags:        deref(req.Tags),
		Description: deref(req.Description),
	}
	if req.CategoryID != nil {
		item.CategoryID = req.CategoryID.String()
	}

	return nil, e.store.Do(ctx, func(tx *memory.Tx) error {
		item.ID = tx.NextID(memory.KindBook)
		tx.Books.Append(item)
		return nil
	})
}

func (e *Engine) updateBook(ctx context.Context, c *call) (any, error) {
	var req dto.BookRequest
	if err := c.bind(&req); err != nil {
		return nil, err
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, book.ErrTitleRequired
	}

	return nil, e.store.Do(ctx, func(tx *memory.Tx) error {
		item := tx.Books.Find(c.param("id"))
		if item == nil {
			return book.ErrBookNotFound
		}
		merge(&item.ISBN, req.ISBN)
		merge(&item.Title, req.Title)
		merge(&item.Author, req.Author)
		merge(&item.Publisher, req.Publisher)
		merge(&item.PublishDate, req.PublishDate)
		merge(&item.Tags, req.Tags)
		merge(&item.Description, req.Description)
		if req.CategoryID != nil {
			item.CategoryID = req.CategoryID.String()
		}
		return nil
	})
}

func (e *Engine) deleteBook(ctx context.Context, c *call) (any, error) {
	return nil, e.store.Do(ctx, func(tx *memory.Tx) error {
		if !tx.Books.Remove(c.param("id")) {
			return book.ErrBookNotFound
		}
		return nil
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// merge 字段出现时覆盖
func merge(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
