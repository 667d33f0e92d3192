//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. main.go使用app.BuildConsole手动组装，本文件声明同一条依赖链，供`wire gen ./cmd/console`生成代码
// 2. Provider按层次分组：配置 → 组件容器 → 命令依赖
// 3. cleanup函数由Wire按依赖的逆序串起来，容器的Close会释放连接

package main

import (
	"github.com/google/wire"

	"github.com/xiebiao/libconsole/internal/app"
	"github.com/xiebiao/libconsole/internal/interface/cli"
)

// consoleSet 控制台依赖
var consoleSet = wire.NewSet(
	app.LoadConfig,          // .env + 配置文件 + 环境变量
	app.NewConsoleContainer, // 日志、指标、引擎、会话存储、分发器、History
	app.ConsoleApp,          // 转换成命令需要的依赖
)

// initializeConsole 与app.BuildConsole签名相同，可以直接作为cli.Builder
func initializeConsole(configPath string, stdio cli.IO) (*cli.App, func(), error) {
	wire.Build(consoleSet)
	return nil, nil, nil
}
