package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"CrimeStats/internal/api"
	"CrimeStats/internal/config"
	"CrimeStats/internal/database"
	"CrimeStats/internal/observability"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logrusLogger := config.NewLogger(cfg.Log)
	logrusLogger.Info("配置文件加载成功")

	// 3. 连接数据库（库不存在则先创建再连）并迁移表结构
	db, err := database.Open(cfg.Database, logrusLogger)
	if err != nil {
		logrusLogger.Fatalf("初始化数据库失败: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logrusLogger.WithError(err).Warn("关闭数据库连接失败")
		}
	}()

	// 4. 配置Gin运行模式（从配置读取：debug/release）
	gin.SetMode(cfg.Server.Mode)
	logrusLogger.Infof("Gin运行模式: %s", cfg.Server.Mode)

	// 5. 注册API路由
	metrics := observability.NewMetrics()
	r := api.NewRouter(db, cfg.Server, logrusLogger, metrics)

	// 6. 启动服务（从配置读取端口），收到信号后优雅退出
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logrusLogger.Infof("服务启动成功，端口：%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrusLogger.Fatalf("启动服务失败: %v", err)
		}
	}()

	<-ctx.Done()
	logrusLogger.Info("收到退出信号，正在关闭服务…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrusLogger.WithError(err).Error("服务关闭失败")
	}
}
