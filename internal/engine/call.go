package engine

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/xiebiao/libconsole/pkg/errors"
)

// 分页默认值
const (
	DefaultPage = 1
	DefaultSize = 10
)

// call 一次已匹配路由的请求
type call struct {
	req    *Request
	params map[string]string
	query  url.Values
}

// param 路径参数
func (c *call) param(name string) string {
	return c.params[name]
}

// queryValue 查询参数的第一个值（去掉首尾空白）
func (c *call) queryValue(key string) string {
	return strings.TrimSpace(c.query.Get(key))
}

// hasQuery 查询参数是否出现（哪怕值为空）
func (c *call) hasQuery(key string) bool {
	_, ok := c.query[key]
	return ok
}

// bind 解析JSON请求体；空请求体视为{}
func (c *call) bind(v any) error {
	body := bytes.TrimSpace(c.req.Body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeBadRequest,
			Status:  apperrors.ErrCodeBadRequest,
			Message: apperrors.ErrBindError.Message,
			Err:     err,
		}
	}
	return nil
}

// pagination 读取page/size
// 缺省、无法解析或小于1时使用默认值
func (c *call) pagination() (page, size int) {
	return positiveInt(c.queryValue("page"), DefaultPage),
		positiveInt(c.queryValue("size"), DefaultSize)
}

// intFilter 枚举类过滤条件
// 未提供时ok为false；提供了但无法解析时返回-1，-1不会命中任何状态
func (c *call) intFilter(key string) (value int, ok bool) {
	raw := c.queryValue(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1, true
	}
	return n, true
}

func positiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// matchKeyword 关键字命中任一字段（大小写不敏感），空关键字全部命中
func matchKeyword(keyword string, fields ...string) bool {
	if keyword == "" {
		return true
	}
	kw := strings.ToLower(keyword)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), kw) {
			return true
		}
	}
	return false
}
