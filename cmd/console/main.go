package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xiebiao/libconsole/internal/app"
	"github.com/xiebiao/libconsole/internal/interface/cli"
)

// main 控制台入口
// 默认连接进程内的模拟引擎，会话保存在.libconsole/session.json，
// 所以连续执行 `console login admin` 与 `console users` 可以共享登录状态
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Run(ctx, app.BuildConsole, os.Args[1:], cli.IO{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	})
	stop()
	os.Exit(code)
}
