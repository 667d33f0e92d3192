package app

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"

	"github.com/xiebiao/libconsole/internal/dispatcher"
	"github.com/xiebiao/libconsole/internal/infrastructure/config"
	"github.com/xiebiao/libconsole/internal/interface/cli"
	"github.com/xiebiao/libconsole/pkg/mq"
)

// EnvFile 启动时读取的环境变量文件，里面的LIBCONSOLE_*会覆盖配置文件
var EnvFile = ".env"

// LoadConfig 先加载.env再读取配置
// .env不存在不算错误；已经存在的环境变量不会被覆盖
func LoadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取%s失败: %w", EnvFile, err)
	}
	return config.Load(path)
}

// NewConsoleContainer 控制台用的组装：失败提示同时写日志和打印到终端
func NewConsoleContainer(cfg *config.Config, stdio cli.IO) (*Container, func(), error) {
	c, err := New(cfg, WithNotifier(func(base dispatcher.Notifier) dispatcher.Notifier {
		return cli.NewNotifier(stdio.Err, base)
	}))
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

// ConsoleApp 把容器转换成命令需要的依赖
func ConsoleApp(c *Container, stdio cli.IO) *cli.App {
	a := &cli.App{
		IO:      stdio,
		Client:  c.Client,
		Session: c.Session,
		History: c.History,
	}
	if mqCfg := c.Config.MQ; mqCfg.URL != "" {
		a.OpenEvents = func() (cli.EventSource, error) {
			// 临时队列，只接收连接之后的事件
			consumer, err := mq.NewConsumer(mqCfg.URL, mqCfg.Exchange, mqCfg.ExchangeType, "", []string{"loan.#"}, c.Logger)
			if err != nil {
				return nil, err
			}
			return consumer, nil
		}
	}
	return a
}

// BuildConsole 实现cli.Builder
func BuildConsole(configPath string, stdio cli.IO) (*cli.App, func(), error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	c, cleanup, err := NewConsoleContainer(cfg, stdio)
	if err != nil {
		return nil, nil, err
	}
	return ConsoleApp(c, stdio), cleanup, nil
}
