package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/mangli-store/internal/app"
	"github.com/mangli-store/internal/config"
	"github.com/mangli-store/internal/logger"
	"github.com/mangli-store/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
	ansiCyan  = "\033[36m"
)

func main() {
	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.JWT.SecretKey) {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
		if cfg.Admin.Password == "admin" {
			stdLog.Fatalf("管理员密码仍为默认值，请在生产环境中更换")
		}
	} else if isWeakSecret(cfg.JWT.SecretKey) {
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}

	// 初始化键值存储。redis 驱动的读写由容器内的 redis 仓库接管，
	// 这里退回 sqlite 建好数据库，redis 不可用时作兜底
	if err := models.InitDB(databaseDriver(cfg.Storage.Driver), cfg.Storage.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Storage.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Storage.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Storage.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Storage.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("存储初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("存储迁移失败: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + "███╗   ███╗ █████╗ ███╗   ██╗ ██████╗ ██╗     ██╗" + ansiReset)
	fmt.Println(ansiCyan + "████╗ ████║██╔══██╗████╗  ██║██╔════╝ ██║     ██║" + ansiReset)
	fmt.Println(ansiCyan + "██╔████╔██║███████║██╔██╗ ██║██║  ███╗██║     ██║" + ansiReset)
	fmt.Println(ansiCyan + "██║╚██╔╝██║██╔══██║██║╚██╗██║██║   ██║██║     ██║" + ansiReset)
	fmt.Println(ansiCyan + "██║ ╚═╝ ██║██║  ██║██║ ╚████║╚██████╔╝███████╗██║" + ansiReset)
	fmt.Println(ansiCyan + "╚═╝     ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝ ╚═════╝ ╚══════╝╚═╝" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Mangli.Store API" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

// databaseDriver 把存储驱动映射为数据库方言。
// redis 不是数据库方言，映射为 sqlite 兜底库
func databaseDriver(driver string) string {
	if strings.EqualFold(strings.TrimSpace(driver), "redis") {
		return "sqlite"
	}
	return driver
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
