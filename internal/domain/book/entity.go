package book

import (
	"strings"

	apperrors "github.com/xiebiao/libconsole/pkg/errors"
)

// Book 书目（一种书，而不是一本实体书）
// 设计说明:
// 1. 实体书是bookcopy.Copy，一个书目对应多个副本
// 2. CategoryID不做引用校验，分类删除后书目保留原值
// 3. Tags是逗号拼接的标签串，保持与前端表单一致
type Book struct {
	ID          string `json:"id"`
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	PublishDate string `json:"publishDate"`
	CategoryID  string `json:"categoryId"`
	Tags        string `json:"tags"`
	Description string `json:"description"`
}

// TagList 拆分标签串
func (b *Book) TagList() []string {
	var tags []string
	for _, t := range strings.Split(b.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Matches 关键字是否命中书名、作者或ISBN（大小写不敏感）
func (b *Book) Matches(keyword string) bool {
	if keyword == "" {
		return true
	}
	kw := strings.ToLower(keyword)
	for _, field := range []string{b.Title, b.Author, b.ISBN} {
		if strings.Contains(strings.ToLower(field), kw) {
			return true
		}
	}
	return false
}

// 书目领域错误定义
var (
	ErrBookNotFound  = apperrors.New(apperrors.ErrCodeNotFound, "书目不存在")
	ErrTitleRequired = apperrors.New(apperrors.ErrCodeBadRequest, "书名不能为空")
)
