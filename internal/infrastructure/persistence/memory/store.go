// Package memory 内存版的引擎存储
//
// 设计说明:
//  1. 存储是一个显式的实例，而不是包级全局变量；测试之间互不影响
//  2. 所有读写都通过Do在同一把互斥锁内完成，一个回调就是一个原子操作
//  3. 各实体的ID序列用atomic.Int64，借阅编号另有按天计数的序列
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xiebiao/libconsole/internal/domain/book"
	"github.com/xiebiao/libconsole/internal/domain/bookcopy"
	"github.com/xiebiao/libconsole/internal/domain/category"
	"github.com/xiebiao/libconsole/internal/domain/loan"
	"github.com/xiebiao/libconsole/internal/domain/user"
)

// Kind ID序列的种类
type Kind int

const (
	KindUser Kind = iota
	KindCategory
	KindBook
	KindCopy
	KindLoan
	kindCount
)

// Store 引擎存储
type Store struct {
	mu   sync.Mutex
	cost int // bcrypt cost，测试里用bcrypt.MinCost加速

	seq      [kindCount]atomic.Int64
	loanDays map[string]int // DayKey -> 当日已用的最大序号

	tx *Tx
}

// Tx Do回调里可见的数据视图
type Tx struct {
	Roles      []user.Role
	Users      *Collection[user.User]
	Categories *Collection[category.Category]
	Books      *Collection[book.Book]
	Copies     *Collection[bookcopy.Copy]
	Loans      *Collection[loan.Loan]

	store *Store
}

// NewStore 创建存储并写入初始数据
func NewStore(passwordCost int) (*Store, error) {
	s := &Store{cost: passwordCost}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset 丢弃所有数据，恢复到初始数据与初始序列
func (s *Store) Reset() error {
	tx, err := seed(s.cost)
	if err != nil {
		return err
	}
	tx.store = s

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tx = tx
	for kind, v := range seedSequences {
		s.seq[kind].Store(v)
	}
	s.loanDays = map[string]int{"20251228": 2}
	return nil
}

// Do 在锁内执行fn
// 校验先于修改，fn返回错误时不应留下部分修改
func (s *Store) Do(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.tx)
}

// PasswordCost 新密码使用的bcrypt cost
func (s *Store) PasswordCost() int {
	return s.cost
}

// NextID 取下一个ID
func (tx *Tx) NextID(kind Kind) string {
	return strconv.FormatInt(tx.store.seq[kind].Add(1), 10)
}

// NextLoanNo 取借出日当天的下一个借阅编号
// 计数器只增不减，删除或归还借阅都不会产生重复编号
func (tx *Tx) NextLoanNo(at time.Time) string {
	key := loan.DayKey(at)
	tx.store.loanDays[key]++
	return loan.FormatLoanNo(at, tx.store.loanDays[key])
}

// Role 按编码查角色
func (tx *Tx) Role(code string) (user.Role, bool) {
	for _, r := range tx.Roles {
		if r.RoleCode == code {
			return r, true
		}
	}
	return user.Role{}, false
}

// UserByUsername 按用户名查找
func (tx *Tx) UserByUsername(username string) *user.User {
	return tx.Users.FindFunc(func(u *user.User) bool { return u.Username == username })
}

// CategoryLookup 供category.ValidateParent使用
func (tx *Tx) CategoryLookup() category.Lookup {
	return func(id string) *category.Category { return tx.Categories.Find(id) }
}

var seedSequences = map[Kind]int64{
	KindUser:     3,
	KindCategory: 6,
	KindBook:     12,
	KindCopy:     11,
	KindLoan:     2,
}

func seed(cost int) (*Tx, error) {
	type account struct {
		id, username, nickname, role string
	}
	accounts := []account{
		{"1", "admin", "管理员", user.RoleAdmin},
		{"2", "librarian", "图书管理员", user.RoleLibrarian},
		{"3", "reader", "读者", user.RoleReader},
	}

	users := make([]*user.User, 0, len(accounts))
	for i, a := range accounts {
		// 初始密码与用户名相同
		hashed, err := user.HashPassword(a.username, cost)
		if err != nil {
			return nil, fmt.Errorf("hash seed password: %w", err)
		}
		u := user.NewUser(a.username, hashed, a.nickname, []string{a.role})
		u.ID = a.id
		u.Phone = fmt.Sprintf("1380000000%d", i+1)
		u.Email = a.username + "@example.com"
		users = append(users, u)
	}

	return &Tx{
		Roles: []user.Role{
			{ID: "1", RoleCode: user.RoleAdmin, RoleName: "系统管理员", Status: user.StatusEnabled},
			{ID: "2", RoleCode: user.RoleLibrarian, RoleName: "图书管理员", Status: user.StatusEnabled},
			{ID: "3", RoleCode: user.RoleReader, RoleName: "读者", Status: user.StatusEnabled},
		},
		Users: newCollection(func(u *user.User) string { return u.ID }, users...),
		Categories: newCollection(func(c *category.Category) string { return c.ID },
			&category.Category{ID: "1", ParentID: category.RootID, Name: "文学", Code: "LIT"},
			&category.Category{ID: "5", ParentID: category.RootID, Name: "计算机", Code: "CS"},
			&category.Category{ID: "6", ParentID: "5", Name: "人工智能", Code: "AI"},
		),
		Books: newCollection(func(b *book.Book) string { return b.ID },
			&book.Book{
				ID:          "6",
				ISBN:        "9787362863730",
				Title:       "算法与数据结构：工程化",
				Author:      "韩磊",
				Publisher:   "北京大学出版社",
				PublishDate: "2025-02-20",
				CategoryID:  "6",
				Tags:        "AI,MySQL",
				Description: "示例数据：算法与数据结构：工程化，用于CRUD/RBAC联调与分页检索。",
			},
			&book.Book{
				ID:          "12",
				ISBN:        "9787273461957",
				Title:       "深入理解 工程化",
				Author:      "高峰",
				Publisher:   "北京大学出版社",
				PublishDate: "2021-10-07",
				CategoryID:  "5",
				Tags:        "DDD,Network,Java,OS",
				Description: "示例数据：深入理解 工程化，用于CRUD/RBAC联调与分页检索。",
			},
		),
		Copies: newCollection(func(c *bookcopy.Copy) string { return c.ID },
			&bookcopy.Copy{ID: "10", BookID: "6", CopyCode: "BC2025000010", Location: "A-9-12", Status: bookcopy.StatusOnLoan},
			&bookcopy.Copy{ID: "11", BookID: "6", CopyCode: "BC2025000011", Location: "A-9-18", Status: bookcopy.StatusAvailable},
		),
		Loans: newCollection(func(l *loan.Loan) string { return l.ID },
			&loan.Loan{
				ID:         "2",
				LoanNo:     "LN20251228000002",
				UserID:     "3",
				CopyID:     "10",
				BorrowedAt: loan.MustParseDateTime("2025-08-08 10:00:00"),
				DueAt:      loan.MustParseDateTime("2025-08-29 10:00:00"),
				Status:     loan.StatusOverdue,
			},
		),
	}, nil
}
