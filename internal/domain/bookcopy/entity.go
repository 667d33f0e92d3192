package bookcopy

import (
	"strings"

	apperrors "github.com/xiebiao/libconsole/pkg/errors"
)

// Status 副本状态
// 状态流转只发生在借还流程中：
//
//	Available --借出--> OnLoan --归还--> Available
type Status int

const (
	StatusAvailable Status = 1 // 在架可借
	StatusOnLoan    Status = 2 // 已借出
)

// String 实现Stringer接口(方便日志输出)
func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "在架"
	case StatusOnLoan:
		return "借出"
	default:
		return "未知状态"
	}
}

// Valid 是否为已定义的状态值
func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusOnLoan
}

// Copy 实体书副本
type Copy struct {
	ID       string `json:"id"`
	BookID   string `json:"bookId"`
	CopyCode string `json:"copyCode"` // 条码，全局唯一
	Location string `json:"location"` // 馆藏位置
	Status   Status `json:"status"`
}

// NewCopy 创建副本，status为0时默认在架
func NewCopy(bookID, copyCode, location string, status Status) (*Copy, error) {
	if status == 0 {
		status = StatusAvailable
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return &Copy{
		BookID:   bookID,
		CopyCode: copyCode,
		Location: location,
		Status:   status,
	}, nil
}

// CanBorrow 是否可借
func (c *Copy) CanBorrow() bool {
	return c.Status == StatusAvailable
}

// Lend 借出（领域行为）
func (c *Copy) Lend() error {
	if !c.CanBorrow() {
		return ErrCopyUnavailable
	}
	c.Status = StatusOnLoan
	return nil
}

// Release 归还后重新上架
func (c *Copy) Release() {
	c.Status = StatusAvailable
}

// Matches 关键字是否命中条码或位置
func (c *Copy) Matches(keyword string) bool {
	if keyword == "" {
		return true
	}
	kw := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(c.CopyCode), kw) ||
		strings.Contains(strings.ToLower(c.Location), kw)
}

// 副本领域错误定义
var (
	ErrCopyNotFound     = apperrors.New(apperrors.ErrCodeNotFound, "副本不存在")
	ErrCopyUnavailable  = apperrors.New(apperrors.ErrCodeBadRequest, "该副本不可借")
	ErrCopyCodeTaken    = apperrors.New(apperrors.ErrCodeBadRequest, "副本条码已存在")
	ErrCopyCodeRequired = apperrors.New(apperrors.ErrCodeBadRequest, "副本条码不能为空")
	ErrCopyIDRequired   = apperrors.New(apperrors.ErrCodeBadRequest, "缺少副本ID")
	ErrInvalidStatus    = apperrors.New(apperrors.ErrCodeBadRequest, "无效的副本状态")
	ErrStatusImmutable  = apperrors.New(apperrors.ErrCodeBadRequest, "副本状态只能通过借还流程变更")
)
