package engine

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/libconsole/internal/domain/book"
	"github.com/xiebiao/libconsole/internal/domain/bookcopy"
	"github.com/xiebiao/libconsole/internal/domain/category"
	"github.com/xiebiao/libconsole/internal/domain/user"
	"github.com/xiebiao/libconsole/pkg/response"
)

func listBooks(t *testing.T, e *Engine, query url.Values) *response.Page[book.Book] {
	t.Helper()
	data := mustDo(t, e, request{method: http.MethodGet, path: "/api/v1/books", query: query})
	page, ok := data.(*response.Page[book.Book])
	require.True(t, ok)
	return page
}

func TestEngine_BookPagination(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 11; i++ {
		mustDo(t, e, request{
			method: http.MethodPost,
			path:   "/api/v1/books",
			body:   map[string]string{"title": fmt.Sprintf("测试书%02d", i), "author": "作者"},
		})
	}

	t.Run("分页往返覆盖完整结果集", func(t *testing.T) {
		all := listBooks(t, e, url.Values{"size": {"100"}})
		require.Equal(t, 13, all.Total)

		var collected []book.Book
		for p := 1; p <= 3; p++ {
			page := listBooks(t, e, url.Values{"page": {fmt.Sprint(p)}, "size": {"5"}})
			assert.Equal(t, 13, page.Total)
			assert.Equal(t, p, page.Page)
			assert.Equal(t, 5, page.Size)
			collected = append(collected, page.Items...)
		}
		assert.Equal(t, all.Items, collected)
	})

	t.Run("越界页为空", func(t *testing.T) {
		page := listBooks(t, e, url.Values{"page": {"9"}})
		assert.Empty(t, page.Items)
		assert.NotNil(t, page.Items)
		assert.Equal(t, 13, page.Total)
	})

	t.Run("超大分页参数不溢出", func(t *testing.T) {
		page := listBooks(t, e, url.Values{"page": {"4611686018427387905"}, "size": {"4"}})
		assert.Empty(t, page.Items)
		assert.Equal(t, 13, page.Total)

		page = listBooks(t, e, url.Values{"page": {"2"}, "size": {"9223372036854775807"}})
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)

		page = listBooks(t, e, url.Values{"page": {"1"}, "size": {"9223372036854775807"}})
		assert.Len(t, page.Items, 13)
	})

	t.Run("非法分页参数使用默认值", func(t *testing.T) {
		page := listBooks(t, e, url.Values{"page": {"abc"}, "size": {"-1"}})
		assert.Equal(t, DefaultPage, page.Page)
		assert.Equal(t, DefaultSize, page.Size)
		assert.Len(t, page.Items, 10)
	})

	t.Run("新增的ID接着初始序列", func(t *testing.T) {
		page := listBooks(t, e, url.Values{"keyword": {"测试书00"}})
		require.Len(t, page.Items, 1)
		assert.Equal(t, "13", page.Items[0].ID)
		assert.Empty(t, page.Items[0].Tags)
	})
}

func TestEngine_BookFilters(t *testing.T) {
	e := newTestEngine(t)

	t.Run("关键字无命中", func(t *testing.T) {
		page := listBooks(t, e, url.Values{"keyword": {"不存在的书"}})
		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.Total)
	})

	t.Run("关键字大小写不敏感且匹配ISBN", func(t *testing.T) {
		assert.Equal(t, 1, listBooks(t, e, url.Values{"keyword": {"9787273"}}).Total)
		assert.Equal(t, 2, listBooks(t, e, url.Values{"keyword": {"工程化"}}).Total)
	})

	t.Run("按分类过滤", func(t *testing.T) {
		page := listBooks(t, e, url.Values{"categoryId": {"6"}})
		require.Len(t, page.Items, 1)
		assert.Equal(t, "6", page.Items[0].ID)
	})
}

func TestEngine_BookCRUD(t *testing.T) {
	e := newTestEngine(t)

	t.Run("书名必填", func(t *testing.T) {
		_, err := do(t, e, request{method: http.MethodPost, path: "/books", body: map[string]string{"author": "x"}})
		assert.ErrorIs(t, err, book.ErrTitleRequired)
	})

	t.Run("只合并出现的字段", func(t *testing.T) {
		mustDo(t, e, request{
			method: http.MethodPut,
			path:   "/books/12",
			body:   map[string]any{"tags": "", "categoryId": 1},
		})
		got := mustDo(t, e, request{method: http.MethodGet, path: "/books/12"}).(*book.Book)
		assert.Equal(t, "深入理解 工程化", got.Title)
		assert.Equal(t, "", got.Tags)
		assert.Equal(t, "1", got.CategoryID)
	})

	t.Run("删除后不存在", func(t *testing.T) {
		mustDo(t, e, request{method: http.MethodDelete, path: "/books/12"})
		_, err := do(t, e, request{method: http.MethodDelete, path: "/books/12"})
		assert.ErrorIs(t, err, book.ErrBookNotFound)
		_, err = do(t, e, request{method: http.MethodPut, path: "/books/12", body: map[string]string{}})
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

func TestEngine_Categories(t *testing.T) {
	e := newTestEngine(t)
	list := func() []category.Category {
		return mustDo(t, e, request{method: http.MethodGet, path: "/categories"}).([]category.Category)
	}

	t.Run("返回完整列表", func(t *testing.T) {
		assert.Len(t, list(), 3)
	})

	t.Run("缺省挂在根下", func(t *testing.T) {
		mustDo(t, e, request{method: http.MethodPost, path: "/categories", body: map[string]string{"name": "历史", "code": "HIS"}})
		got := mustDo(t, e, request{method: http.MethodGet, path: "/categories/7"}).(*category.Category)
		assert.True(t, got.IsRoot())
	})

	t.Run("上级不存在", func(t *testing.T) {
		_, err := do(t, e, request{method: http.MethodPost, path: "/categories", body: map[string]string{"name": "x", "parentId": "99"}})
		assert.ErrorIs(t, err, category.ErrParentNotFound)
	})

	t.Run("不能移动到子分类下", func(t *testing.T) {
		_, err := do(t, e, request{method: http.MethodPut, path: "/categories/5", body: map[string]string{"parentId": "6"}})
		assert.ErrorIs(t, err, category.ErrCategoryCycle)
	})

	t.Run("名称不能改为空", func(t *testing.T) {
		_, err := do(t, e, request{method: http.MethodPut, path: "/categories/1", body: map[string]string{"name": " "}})
		assert.ErrorIs(t, err, category.ErrNameRequired)
	})

	t.Run("移动到根下", func(t *testing.T) {
		mustDo(t, e, request{method: http.MethodPut, path: "/categories/6", body: map[string]string{"parentId": "0", "code": "ML"}})
		got := mustDo(t, e, request{method: http.MethodGet, path: "/categories/6"}).(*category.Category)
		assert.Equal(t, category.RootID, got.ParentID)
		assert.Equal(t, "ML", got.Code)
		assert.Equal(t, "人工智能", got.Name)
	})

	t.Run("删除不存在的分类", func(t *testing.T) {
		_, err := do(t, e, request{method: http.MethodDelete, path: "/categories/99"})
		assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	})
}

func TestEngine_Copies(t *testing.T) {
	e := newTestEngine(t)
	list := func(query url.Values) *response.Page[bookcopy.Copy] {
		return mustDo(t, e, request{method: http.MethodGet, path: "/copies", query: query}).(*response.Page[bookcopy.Copy])
	}

	t.Run("按状态过滤", func(t *testing.T) {
		page := list(url.Values{"status": {"1"}})
		require.Len(t, page.Items, 1)
		assert.Equal(t, "11", page.Items[0].ID)
	})

	t.Run("无法解析的状态不命中任何副本", func(t *testing.T) {
		assert.Equal(t, 0, list(url.Values{"status": {"available"}}).Total)
	})

	t.Run("关键字匹配位置", func(t *testing.T) {
		assert.Equal(t, 1, list(url.Values{"keyword": {"a-9-18"}, "bookId": {"6"}}).Total)
	})

	t.Run("新增副本默认在架", func(t *testing.T) {
		mustDo(t, e, request{method: http.MethodPost, path: "/copies", body: map[string]any{"bookId": 12, "copyCode": "BC2025000012", "location": "B-1-01"}})
		got := mustDo(t, e, request{method: http.MethodGet, path: "/copies/12"}).(*bookcopy.Copy)
		assert.Equal(t, bookcopy.StatusAvailable, got.Status)
		assert.Equal(t, "12", got.BookID)
	})

	t.Run("条码重复", func(t *testing.T) {
		_, err := do(t, e, request{method: http.MethodPost, path: "/copies", body: map[string]string{"copyCode": "BC2025000011"}})
		assert.ErrorIs(t, err, bookcopy.ErrCopyCodeTaken)
		_, err = do(t, e, request{method: http.MethodPut, path: "/copies/12", body: map[string]string{"copyCode": "BC2025000010"}})
		assert.ErrorIs(t, err, bookcopy.ErrCopyCodeTaken)
	})

	t.Run("无效状态", func(t *testing.T) {
		_, err := do(t, e, request{method: http.MethodPost, path: "/copies", body: map[string]any{"copyCode": "X1", "status": 5}})
		assert.ErrorIs(t, err, bookcopy.ErrInvalidStatus)
	})

	t.Run("修改时不能直接改状态", func(t *testing.T) {
		_, err := do(t, e, request{method: http.MethodPut, path: "/copies/11", body: map[string]any{"status": 2}})
		assert.ErrorIs(t, err, bookcopy.ErrStatusImmutable)

		mustDo(t, e, request{method: http.MethodPut, path: "/copies/11", body: map[string]any{"status": "1", "location": "C-2-02"}})
		got := mustDo(t, e, request{method: http.MethodGet, path: "/copies/11"}).(*bookcopy.Copy)
		assert.Equal(t, "C-2-02", got.Location)
	})
}

func TestEngine_Users(t *testing.T) {
	e := newTestEngine(t)
	list := func(query url.Values) *response.Page[*user.Profile] {
		return mustDo(t, e, request{method: http.MethodGet, path: "/users", query: query}).(*response.Page[*user.Profile])
	}

	t.Run("关键字匹配邮箱与手机号", func(t *testing.T) {
		assert.Equal(t, 1, list(url.Values{"keyword": {"LIBRARIAN@"}}).Total)
		assert.Equal(t, 3, list(url.Values{"keyword": {"138000"}}).Total)
	})

	t.Run("新增用户默认无角色", func(t *testing.T) {
		mustDo(t, e, request{method: http.MethodPost, path: "/users", body: map[string]any{
			"username": "staff", "password": "pw", "nickname": "员工", "status": 0,
		}})
		got := mustDo(t, e, request{method: http.MethodGet, path: "/users/4"}).(*user.Profile)
		assert.Empty(t, got.Roles)
		assert.NotNil(t, got.Roles)
		assert.Equal(t, user.StatusDisabled, got.Status)
		assert.Equal(t, 1, list(url.Values{"status": {"0"}}).Total)
	})

	t.Run("缺少必填项", func(t *testing.T) {
		_, err := do(t, e, request{method: http.MethodPost, path: "/users", body: map[string]string{"username": "x"}})
		assert.ErrorIs(t, err, user.ErrUserIncomplete)
	})

	t.Run("查询参数roles只替换角色", func(t *testing.T) {
		mustDo(t, e, request{
			method: http.MethodPut,
			path:   "/users/4",
			query:  url.Values{"roles": {"LIBRARIAN, READER"}},
			body:   map[string]string{"nickname": "忽略"},
		})
		got := mustDo(t, e, request{method: http.MethodGet, path: "/users/4"}).(*user.Profile)
		assert.Equal(t, []string{user.RoleLibrarian, user.RoleReader}, got.Roles)
		assert.Equal(t, "员工", got.Nickname)
	})

	t.Run("合并资料字段", func(t *testing.T) {
		mustDo(t, e, request{method: http.MethodPut, path: "/users/4", body: map[string]any{"email": "s@example.com", "status": 1}})
		got := mustDo(t, e, request{method: http.MethodGet, path: "/users/4"}).(*user.Profile)
		assert.Equal(t, "s@example.com", got.Email)
		assert.Equal(t, user.StatusEnabled, got.Status)
		assert.Equal(t, []string{user.RoleLibrarian, user.RoleReader}, got.Roles)
	})

	t.Run("无效状态", func(t *testing.T) {
		_, err := do(t, e, request{method: http.MethodPut, path: "/users/4", body: map[string]any{"status": 7}})
		assert.ErrorIs(t, err, user.ErrInvalidStatus)
	})

	t.Run("删除", func(t *testing.T) {
		mustDo(t, e, request{method: http.MethodDelete, path: "/users/4"})
		_, err := do(t, e, request{method: http.MethodGet, path: "/users/4"})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}
