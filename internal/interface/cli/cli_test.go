package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/libconsole/internal/application/session"
	"github.com/xiebiao/libconsole/internal/auth"
	"github.com/xiebiao/libconsole/internal/client"
	"github.com/xiebiao/libconsole/internal/dispatcher"
	"github.com/xiebiao/libconsole/internal/domain/loan"
	"github.com/xiebiao/libconsole/internal/engine"
	"github.com/xiebiao/libconsole/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/libconsole/internal/interface/navigation"
	"github.com/xiebiao/libconsole/pkg/mq"
)

// harness 每次run相当于一次新的进程：引擎与会话存储跨run保留，
// 分发器、History都重新创建
type harness struct {
	engine *engine.Engine
	auth   *auth.Store
	events func() (EventSource, error)
	builds int

	out    bytes.Buffer
	errOut bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := memory.NewStore(bcrypt.MinCost)
	require.NoError(t, err)
	return &harness{
		engine: engine.New(store, engine.WithLatency(0)),
		auth:   auth.NewStore(auth.NewMemoryBackend()),
	}
}

func (h *harness) build(_ string, stdio IO) (*App, func(), error) {
	h.builds++
	d := dispatcher.New(dispatcher.NewMockTransport(h.engine), h.auth,
		dispatcher.WithNotifier(NewNotifier(stdio.Err, nil)))
	c := client.New(d)
	history := navigation.NewHistory(navigation.NewGuard(navigation.DefaultRoutes()), h.auth, zerolog.Nop(), navigation.PathRoot)
	d.SetNavigator(history)
	unwatch := history.Watch(h.auth)
	return &App{
		IO:         stdio,
		Client:     c,
		Session:    session.NewService(c, h.auth, zerolog.Nop()),
		History:    history,
		OpenEvents: h.events,
	}, unwatch, nil
}

func (h *harness) run(input string, args ...string) int {
	h.out.Reset()
	h.errOut.Reset()
	return Run(context.Background(), h.build, args, IO{
		In:  strings.NewReader(input),
		Out: &h.out,
		Err: &h.errOut,
	})
}

func TestRun_Session(t *testing.T) {
	h := newHarness(t)

	t.Run("未登录访问用户列表", func(t *testing.T) {
		assert.Equal(t, 1, h.run("", "users"))
		assert.Contains(t, h.errOut.String(), "需要登录才能访问 /users")
	})

	t.Run("密码错误只提示一次", func(t *testing.T) {
		assert.Equal(t, 1, h.run("", "login", "admin", "-p", "bad"))
		assert.Equal(t, "✗ 用户名或密码错误\n", h.errOut.String())
	})

	t.Run("管理员登录后进入书目页", func(t *testing.T) {
		require.Equal(t, 0, h.run("", "login", "admin", "-p", "admin"))
		assert.Contains(t, h.out.String(), "欢迎，管理员（ADMIN）")
		assert.Contains(t, h.out.String(), "当前页面: /books")
	})

	t.Run("会话跨进程保留", func(t *testing.T) {
		require.Equal(t, 0, h.run("", "whoami"))
		assert.Contains(t, h.out.String(), "admin@example.com")
		assert.Contains(t, h.out.String(), "当前页面: /books")
	})

	t.Run("已登录时不能重复登录", func(t *testing.T) {
		assert.Equal(t, 1, h.run("", "login", "reader", "-p", "reader"))
		assert.Contains(t, h.errOut.String(), "已登录为 admin")
	})

	t.Run("已登录时访问重置密码页被送回书目页", func(t *testing.T) {
		assert.Equal(t, 1, h.run("", "reset-password", "reader", "-p", "x"))
		assert.Contains(t, h.errOut.String(), "已跳转到 /books")
	})

	t.Run("管理员查看用户与角色", func(t *testing.T) {
		require.Equal(t, 0, h.run("", "users", "--keyword", "reader"))
		assert.Contains(t, h.out.String(), "reader@example.com")
		assert.Contains(t, h.out.String(), "共 1 条")

		require.Equal(t, 0, h.run("", "roles"))
		assert.Contains(t, h.out.String(), "系统管理员")
	})

	t.Run("替换与清空角色", func(t *testing.T) {
		require.Equal(t, 0, h.run("", "users", "assign-roles", "3", "READER", "LIBRARIAN"))
		require.Equal(t, 0, h.run("", "users", "-k", "reader"))
		assert.Contains(t, h.out.String(), "READER,LIBRARIAN")

		require.Equal(t, 0, h.run("", "users", "assign-roles", "2"))
		require.Equal(t, 0, h.run("", "users", "-k", "librarian@"))
		assert.NotContains(t, h.out.String(), "LIBRARIAN\n")
	})

	t.Run("登出", func(t *testing.T) {
		require.Equal(t, 0, h.run("", "logout"))
		assert.Contains(t, h.out.String(), "已退出登录")
		require.Equal(t, 0, h.run("", "whoami"))
		assert.Equal(t, "未登录\n", h.out.String())
	})

	t.Run("从标准输入读取密码", func(t *testing.T) {
		require.Equal(t, 0, h.run("reader\n", "login", "reader"))
		assert.Contains(t, h.errOut.String(), "密码: ")
		assert.Contains(t, h.out.String(), "欢迎，读者")
	})

	t.Run("读者无权访问用户列表", func(t *testing.T) {
		assert.Equal(t, 1, h.run("", "users"))
		assert.Contains(t, h.errOut.String(), "当前账号无权访问 /users")
	})
}

func TestRun_RegisterAndReset(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("", "register", "alice", "-p", "pw", "--email", "alice@example.com"))
	assert.Contains(t, h.out.String(), "欢迎，alice（READER）")
	assert.Contains(t, h.out.String(), "当前页面: /books")

	require.Equal(t, 0, h.run("", "logout"))

	t.Run("重复注册", func(t *testing.T) {
		assert.Equal(t, 1, h.run("", "register", "alice", "-p", "pw"))
		assert.Contains(t, h.errOut.String(), "✗ ")
	})

	t.Run("重置密码后用新密码登录", func(t *testing.T) {
		require.Equal(t, 0, h.run("", "reset-password", "alice", "-p", "pw2"))
		assert.Contains(t, h.out.String(), "密码已重置")
		assert.Contains(t, h.out.String(), "当前页面: /login")

		assert.Equal(t, 1, h.run("", "login", "alice", "-p", "pw"))
		assert.Equal(t, 0, h.run("", "login", "alice", "-p", "pw2"))
	})

	t.Run("空密码", func(t *testing.T) {
		require.Equal(t, 0, h.run("", "logout"))
		assert.Equal(t, 1, h.run("\n", "login", "alice"))
		assert.Contains(t, h.errOut.String(), "错误: 密码不能为空")
	})
}

func TestRun_Catalog(t *testing.T) {
	h := newHarness(t)

	t.Run("书目关键字搜索", func(t *testing.T) {
		require.Equal(t, 0, h.run("", "books", "-k", "工程化"))
		assert.Contains(t, h.out.String(), "共 2 条，第 1 页，每页 10 条")
	})

	t.Run("空结果", func(t *testing.T) {
		require.Equal(t, 0, h.run("", "books", "-k", "不存在的书"))
		assert.Contains(t, h.out.String(), "共 0 条")
	})

	t.Run("书目详情与不存在的书目", func(t *testing.T) {
		require.Equal(t, 0, h.run("", "books", "show", "6"))
		assert.Contains(t, h.out.String(), "算法与数据结构：工程化")

		assert.Equal(t, 1, h.run("", "books", "show", "999"))
		assert.Equal(t, "✗ 书目不存在\n", h.errOut.String())
	})

	t.Run("分类树", func(t *testing.T) {
		require.Equal(t, 0, h.run("", "categories"))
		assert.Contains(t, h.out.String(), "5 [CS] 计算机\n  6 [AI] 人工智能\n")
	})

	t.Run("按状态筛选副本", func(t *testing.T) {
		require.Equal(t, 0, h.run("", "copies", "--status", "2"))
		assert.Contains(t, h.out.String(), "BC2025000010")
		assert.NotContains(t, h.out.String(), "BC2025000011")
	})
}

func TestRun_Loans(t *testing.T) {
	h := newHarness(t)

	t.Run("未登录借阅", func(t *testing.T) {
		assert.Equal(t, 1, h.run("", "borrow", "11"))
		assert.Equal(t, "✗ 请先登录\n", h.errOut.String())
	})

	require.Equal(t, 0, h.run("", "login", "reader", "-p", "reader"))

	t.Run("借阅与归还", func(t *testing.T) {
		require.Equal(t, 0, h.run("", "borrow", "11", "--days", "14"))
		assert.Contains(t, h.out.String(), "借阅成功: 副本 11")

		assert.Equal(t, 1, h.run("", "borrow", "11"))
		assert.Equal(t, "✗ 该副本不可借\n", h.errOut.String())

		require.Equal(t, 0, h.run("", "loans", "--copy", "11", "--status", "1"))
		assert.Contains(t, h.out.String(), "借阅中")
		assert.Contains(t, h.out.String(), "共 1 条")

		require.Equal(t, 0, h.run("", "return", "11"))
		assert.Contains(t, h.out.String(), "归还成功: 副本 11")
	})
}

func TestRun_Navigate(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("", "navigate", "/users"))
	assert.Equal(t, "当前页面: /login?redirect=%2Fusers (login)\n", h.out.String())

	require.Equal(t, 0, h.run("", "navigate", "/nowhere"))
	assert.Equal(t, "当前页面: /nowhere (not-found)\n", h.out.String())
}

func TestRun_REPL(t *testing.T) {
	h := newHarness(t)
	input := strings.Join([]string{
		"users",
		"login admin -p admin",
		"",
		"repl",
		"nosuchcommand",
		"books -k 工程化",
		"exit",
		"whoami",
	}, "\n") + "\n"

	require.Equal(t, 0, h.run(input, "repl"))
	assert.Equal(t, 1, h.builds)

	out := h.out.String()
	assert.Contains(t, out, "guest@/login> ")
	// 登录后回到被拦截的页面
	assert.Contains(t, out, "当前页面: /users")
	assert.Contains(t, out, "已经在交互模式中")
	assert.Contains(t, out, "admin@/users> ")
	assert.Contains(t, out, "共 2 条")
	assert.NotContains(t, out, "未登录")

	assert.Contains(t, h.errOut.String(), "需要登录才能访问 /users")
	assert.Contains(t, h.errOut.String(), "错误: unknown command \"nosuchcommand\"")

	t.Run("EOF结束", func(t *testing.T) {
		assert.Equal(t, 0, h.run("whoami", "repl"))
		assert.Contains(t, h.out.String(), "admin@example.com")
	})
}

// fakeEvents 把预置消息交给handler
type fakeEvents struct {
	messages map[string][]byte
	closed   bool
}

func (f *fakeEvents) Consume(ctx context.Context, handler mq.Handler) error {
	for _, key := range []string{engine.EventLoanBorrowed, "broken"} {
		if err := handler(ctx, key, f.messages[key]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeEvents) Close() error {
	f.closed = true
	return nil
}

func TestRun_Events(t *testing.T) {
	h := newHarness(t)

	t.Run("未配置消息队列", func(t *testing.T) {
		assert.Equal(t, 1, h.run("", "events"))
		assert.Contains(t, h.errOut.String(), ErrEventsDisabled.Error())
	})

	t.Run("打印借阅事件", func(t *testing.T) {
		borrowed, err := json.Marshal(engine.LoanEvent{
			Type:       engine.EventLoanBorrowed,
			LoanNo:     "LN2025090100001",
			UserID:     "3",
			CopyID:     "11",
			DueAt:      loan.MustParseDateTime("2025-09-15 10:00:00"),
			OccurredAt: loan.MustParseDateTime("2025-09-01 10:00:00"),
		})
		require.NoError(t, err)
		src := &fakeEvents{messages: map[string][]byte{
			engine.EventLoanBorrowed: borrowed,
			"broken":                 []byte("{"),
		}}
		h.events = func() (EventSource, error) { return src, nil }

		require.Equal(t, 0, h.run("", "events"))
		assert.Contains(t, h.out.String(),
			"[2025-09-01 10:00:00] 借出 LN2025090100001 用户=3 副本=11 到期=2025-09-15 10:00:00")
		assert.Contains(t, h.errOut.String(), "无法解析的事件 broken")
		assert.True(t, src.closed)
	})

	t.Run("连接失败", func(t *testing.T) {
		h.events = func() (EventSource, error) { return nil, errors.New("dial tcp: connection refused") }
		assert.Equal(t, 1, h.run("", "events"))
		assert.Contains(t, h.errOut.String(), "错误: dial tcp: connection refused")
	})
}

func TestRun_BuildFailure(t *testing.T) {
	var errOut bytes.Buffer
	build := func(string, IO) (*App, func(), error) { return nil, nil, errors.New("bad config") }
	code := Run(context.Background(), build, []string{"--config", "x.yaml", "books"}, IO{
		In:  strings.NewReader(""),
		Out: &bytes.Buffer{},
		Err: &errOut,
	})
	assert.Equal(t, 1, code)
	assert.Equal(t, "错误: 初始化失败: bad config\n", errOut.String())
}

func TestPromptPassword(t *testing.T) {
	origRead, origTerm := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = origRead, origTerm })

	t.Run("终端输入不回显", func(t *testing.T) {
		isTerminal = func(int) bool { return true }
		readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }

		var errOut bytes.Buffer
		a := &App{IO: IO{In: os.Stdin, Err: &errOut}}
		pw, err := a.promptPassword("密码")
		require.NoError(t, err)
		assert.Equal(t, "secret", pw)
		assert.Equal(t, "密码: \n", errOut.String())
	})

	t.Run("终端读取失败", func(t *testing.T) {
		isTerminal = func(int) bool { return true }
		readPassword = func(int) ([]byte, error) { return nil, errors.New("inappropriate ioctl") }

		a := &App{IO: IO{In: os.Stdin, Err: &bytes.Buffer{}}}
		_, err := a.promptPassword("密码")
		assert.ErrorContains(t, err, "读取密码失败")
	})

	t.Run("非终端按行读取", func(t *testing.T) {
		a := &App{IO: IO{In: strings.NewReader("  pw  \nnext\n"), Err: &bytes.Buffer{}}}
		pw, err := a.promptPassword("密码")
		require.NoError(t, err)
		assert.Equal(t, "pw", pw)

		line, err := a.promptLine("用户名")
		require.NoError(t, err)
		assert.Equal(t, "next", line)
	})
}
