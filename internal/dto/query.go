package dto

// 列表查询参数
// Params返回的map交给分发器拼接查询串，值为nil或空串的键会被丢弃，
// 所以零值字段不需要特别处理

// PageQuery 分页
type PageQuery struct {
	Page int
	Size int
}

func (q PageQuery) fill(m map[string]any) map[string]any {
	if q.Page > 0 {
		m["page"] = q.Page
	}
	if q.Size > 0 {
		m["size"] = q.Size
	}
	return m
}

// UserQuery 用户列表
type UserQuery struct {
	PageQuery
	Keyword string // 匹配username/nickname/phone/email
	Status  *int
}

// Params 转成查询参数
func (q UserQuery) Params() map[string]any {
	return q.fill(map[string]any{
		"keyword": q.Keyword,
		"status":  intOrNil(q.Status),
	})
}

// BookQuery 书目列表
type BookQuery struct {
	PageQuery
	Keyword    string // 匹配title/author/isbn
	CategoryID string
}

// Params 转成查询参数
func (q BookQuery) Params() map[string]any {
	return q.fill(map[string]any{
		"keyword":    q.Keyword,
		"categoryId": q.CategoryID,
	})
}

// CopyQuery 副本列表
type CopyQuery struct {
	PageQuery
	Keyword string // 匹配copyCode/location
	BookID  string
	Status  *int
}

// Params 转成查询参数
func (q CopyQuery) Params() map[string]any {
	return q.fill(map[string]any{
		"keyword": q.Keyword,
		"bookId":  q.BookID,
		"status":  intOrNil(q.Status),
	})
}

// LoanQuery 借阅列表
type LoanQuery struct {
	PageQuery
	UserID string
	CopyID string
	Status *int
}

// Params 转成查询参数
func (q LoanQuery) Params() map[string]any {
	return q.fill(map[string]any{
		"userId": q.UserID,
		"copyId": q.CopyID,
		"status": intOrNil(q.Status),
	})
}

func intOrNil(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
