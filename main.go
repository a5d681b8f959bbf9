// @title Campus LMS API
// @version 1.0
// @description Learning-management backend: courses, enrollments, users and course resources.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"campus_lms_backend/internal/app"
	"campus_lms_backend/internal/config"
	"campus_lms_backend/pkg/configwatcher"
	"campus_lms_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 配置热更新：运行中只有日志级别可以安全切换，其余改动需重启
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		logger.InitLogger(newCfg)
		logger.Log.Info("config reloaded")
	})

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application.Run()
}
