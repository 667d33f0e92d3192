package engine

import (
	"context"
	"strconv"

	"github.com/xiebiao/libconsole/internal/domain/bookcopy"
	"github.com/xiebiao/libconsole/internal/domain/loan"
	"github.com/xiebiao/libconsole/internal/dto"
	"github.com/xiebiao/libconsole/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/libconsole/pkg/response"
)

// listLoans 按userId、copyId、status过滤，最新的借阅在前
func (e *Engine) listLoans(ctx context.Context, c *call) (any, error) {
	page, size := c.pagination()
	userID := c.queryValue("userId")
	copyID := c.queryValue("copyId")
	status, byStatus := c.intFilter("status")

	var items []loan.Loan
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		items = tx.Loans.Filter(func(l *loan.Loan) bool {
			return (userID == "" || l.UserID == userID) &&
				(copyID == "" || l.CopyID == copyID) &&
				(!byStatus || int(l.Status) == status)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response.NewPage(items, page, size), nil
}

// borrow 借阅
// 流程（同一把锁内完成）:
//  1. 令牌解析出当前用户
//  2. 副本存在且在架
//  3. 生成借阅记录插到最前，副本标记为借出
func (e *Engine) borrow(ctx context.Context, c *call) (any, error) {
	var req dto.BorrowRequest
	if err := c.bind(&req); err != nil {
		return nil, err
	}
	copyID := firstNonEmpty(c.queryValue("copyId"), req.CopyID.String())

	days := e.loanDays
	if raw := c.queryValue("days"); raw != "" {
		// 查询参数无法解析时按默认天数处理
		if n, err := strconv.Atoi(raw); err == nil {
			days = n
		}
	} else if req.Days != nil {
		days = int(*req.Days)
	}
	if days < 1 {
		return nil, loan.ErrInvalidDays
	}

	var created loan.Loan
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		userID, err := e.currentUserID(tx, c.req.Token)
		if err != nil {
			return err
		}
		if copyID == "" {
			return bookcopy.ErrCopyIDRequired
		}
		cp := tx.Copies.Find(copyID)
		if cp == nil {
			return bookcopy.ErrCopyNotFound
		}
		if err := cp.Lend(); err != nil {
			return err
		}

		now := e.now()
		l := loan.NewLoan(tx.NextLoanNo(now), userID, copyID, now, days)
		l.ID = tx.NextID(memory.KindLoan)
		tx.Loans.Prepend(l)
		created = *l
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, newLoanEvent(EventLoanBorrowed, &created, created.BorrowedAt))
	return nil, nil
}

// returnCopy 归还
// 按集合顺序找到该副本第一条借阅中/已逾期的记录；不校验归还人
func (e *Engine) returnCopy(ctx context.Context, c *call) (any, error) {
	var req dto.ReturnRequest
	if err := c.bind(&req); err != nil {
		return nil, err
	}
	copyID := firstNonEmpty(c.queryValue("copyId"), req.CopyID.String())

	var returned loan.Loan
	err := e.store.Do(ctx, func(tx *memory.Tx) error {
		if copyID == "" {
			return bookcopy.ErrCopyIDRequired
		}
		cp := tx.Copies.Find(copyID)
		if cp == nil {
			return bookcopy.ErrCopyNotFound
		}
		l := tx.Loans.FindFunc(func(l *loan.Loan) bool {
			return l.CopyID == copyID && l.IsOpen()
		})
		if l == nil {
			return loan.ErrNoActiveLoan
		}
		if err := l.Return(e.now()); err != nil {
			return err
		}
		cp.Release()
		returned = *l
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, newLoanEvent(EventLoanReturned, &returned, *returned.ReturnedAt))
	return nil, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
