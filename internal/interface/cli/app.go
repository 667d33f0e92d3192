// Package cli 控制台命令
//
// 每个子命令对应控制台的一个页面：先经过路由守卫进入页面，
// 再通过client调用接口。接口失败的提示由分发器通过Notifier输出，
// 命令本身只负责打印成功结果。
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xiebiao/libconsole/internal/application/session"
	"github.com/xiebiao/libconsole/internal/client"
	"github.com/xiebiao/libconsole/internal/interface/navigation"
	apperrors "github.com/xiebiao/libconsole/pkg/errors"
	"github.com/xiebiao/libconsole/pkg/mq"
)

// IO 标准输入输出
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// EventSource 借阅事件订阅（*mq.Consumer满足此接口）
type EventSource interface {
	Consume(ctx context.Context, handler mq.Handler) error
	Close() error
}

// App 命令依赖的组件
type App struct {
	IO
	Client  *client.Client
	Session *session.Service
	History *navigation.History

	// OpenEvents 连接消息队列；未配置时为nil
	OpenEvents func() (EventSource, error)

	reader *bufio.Reader
}

// lineReader 所有交互输入共用一个缓冲，REPL与密码提示不会互相吞字符
func (a *App) lineReader() *bufio.Reader {
	if a.reader == nil {
		a.reader = bufio.NewReader(a.In)
	}
	return a.reader
}

// Builder 按配置文件组装App，返回的cleanup释放连接
type Builder func(configPath string, stdio IO) (*App, func(), error)

// ErrRedirected 守卫没有放行目标页面（提示已经打印）
var ErrRedirected = errors.New("cli: redirected")

// Run 执行一次命令行调用，返回进程退出码
func Run(ctx context.Context, build Builder, args []string, stdio IO) int {
	r := &runner{build: build, stdio: stdio}
	defer r.close()

	root := r.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdio.In)
	root.SetOut(stdio.Out)
	root.SetErr(stdio.Err)
	if err := root.ExecuteContext(ctx); err != nil {
		r.report(err)
		return 1
	}
	return 0
}

// runner 持有懒加载的App；REPL里每一行复用同一个App
type runner struct {
	build      Builder
	stdio      IO
	configPath string

	app     *App
	cleanup func()
}

func (r *runner) ensure() error {
	if r.app != nil {
		return nil
	}
	app, cleanup, err := r.build(r.configPath, r.stdio)
	if err != nil {
		return fmt.Errorf("初始化失败: %w", err)
	}
	r.app, r.cleanup = app, cleanup
	return nil
}

func (r *runner) close() {
	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
}

// report 打印没有被提示过的错误
// AppError已经由分发器提示过，ErrRedirected已经打印过跳转结果
func (r *runner) report(err error) {
	if apperrors.IsAppError(err) || errors.Is(err, ErrRedirected) {
		return
	}
	fmt.Fprintln(r.stdio.Err, "错误:", err)
}
