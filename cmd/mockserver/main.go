package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiebiao/libconsole/internal/app"
)

// main 模拟服务端入口
// 把内存引擎挂在HTTP上，控制台设置api.use_mock=false、api.base_url指向这里即可联调
func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	// 1. 加载配置（.env → 配置文件 → 环境变量）
	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ 加载配置失败: %v", err)
	}

	// 2. 组装引擎与路由
	srv, err := app.NewServer(cfg)
	if err != nil {
		log.Fatalf("❌ 初始化失败: %v", err)
	}
	logger := srv.Logger

	// 3. 启动HTTP服务器（goroutine）
	go func() {
		fmt.Printf("🚀 模拟服务端启动成功: http://localhost:%d\n", cfg.Server.Port)
		fmt.Printf("   健康检查: http://localhost:%d/ping\n", cfg.Server.Port)
		fmt.Printf("   接口前缀: http://localhost:%d/api/v1\n", cfg.Server.Port)
		if cfg.Server.Mode != "release" {
			fmt.Printf("   接口文档: http://localhost:%d/swagger/index.html\n", cfg.Server.Port)
		}
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP服务器启动失败")
		}
	}()

	// 4. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在优雅关闭服务...")
	if err := srv.Shutdown(10 * time.Second); err != nil {
		logger.Error().Err(err).Msg("服务器强制关闭")
		os.Exit(1)
	}
	logger.Info().Msg("服务已关闭")
}
