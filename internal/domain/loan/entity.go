package loan

import (
	"time"
)

// Status 借阅状态
// 教学要点:
// 1. Overdue只是"仍未归还且已超期"的标记，与Active一样可以归还
// 2. Returned是终态
type Status int

const (
	StatusActive   Status = 1 // 借阅中
	StatusReturned Status = 2 // 已归还
	StatusOverdue  Status = 3 // 已逾期
)

// String 实现Stringer接口(方便日志输出)
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "借阅中"
	case StatusReturned:
		return "已归还"
	case StatusOverdue:
		return "已逾期"
	default:
		return "未知状态"
	}
}

// transitions 合法的状态转换
var transitions = map[Status][]Status{
	StatusActive:   {StatusReturned, StatusOverdue},
	StatusOverdue:  {StatusReturned},
	StatusReturned: {},
}

// Loan 借阅记录
type Loan struct {
	ID         string    `json:"id"`
	LoanNo     string    `json:"loanNo"` // 业务编号 LN+日期+序号
	UserID     string    `json:"userId"`
	CopyID     string    `json:"copyId"`
	BorrowedAt DateTime  `json:"borrowedAt"`
	DueAt      DateTime  `json:"dueAt"`
	ReturnedAt *DateTime `json:"returnedAt"` // 归还前为null
	Status     Status    `json:"status"`
}

// NewLoan 创建借阅记录(工厂方法)
// 到期时间 = 借出时间 + days天
func NewLoan(loanNo, userID, copyID string, borrowedAt time.Time, days int) *Loan {
	return &Loan{
		LoanNo:     loanNo,
		UserID:     userID,
		CopyID:     copyID,
		BorrowedAt: NewDateTime(borrowedAt),
		DueAt:      NewDateTime(borrowedAt.AddDate(0, 0, days)),
		Status:     StatusActive,
	}
}

// IsOpen 是否仍未归还（借阅中或已逾期）
func (l *Loan) IsOpen() bool {
	return l.Status == StatusActive || l.Status == StatusOverdue
}

// CanTransitionTo 检查是否可以转换到目标状态
func (l *Loan) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[l.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
func (l *Loan) TransitionTo(target Status) error {
	if !l.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	l.Status = target
	return nil
}

// Return 归还(领域行为)
func (l *Loan) Return(at time.Time) error {
	if err := l.TransitionTo(StatusReturned); err != nil {
		return err
	}
	returned := NewDateTime(at)
	l.ReturnedAt = &returned
	return nil
}
