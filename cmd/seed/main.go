package main

import (
	"encoding/json"
	"flag"
	"strings"

	"github.com/mangli-store/internal/cache"
	"github.com/mangli-store/internal/config"
	"github.com/mangli-store/internal/constants"
	"github.com/mangli-store/internal/logger"
	"github.com/mangli-store/internal/models"
	"github.com/mangli-store/internal/repository"
)

func main() {
	var force bool
	flag.BoolVar(&force, "force", false, "覆盖已有目录数据并清空购物车")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	var kv repository.KVRepository
	if strings.EqualFold(strings.TrimSpace(cfg.Storage.Driver), "redis") {
		if err := cache.InitRedis(&cfg.Redis); err != nil {
			stdLog.Fatalf("Failed to connect redis: %v", err)
		}
		if !cache.Enabled() {
			stdLog.Fatalf("Storage driver is redis but redis is disabled in config")
		}
		kv = repository.NewRedisKVRepository(cache.Client(), cache.BuildKey)
	} else {
		if err := models.InitDB(cfg.Storage.Driver, cfg.Storage.DSN, models.DBPoolConfig{
			MaxOpenConns:           cfg.Storage.Pool.MaxOpenConns,
			MaxIdleConns:           cfg.Storage.Pool.MaxIdleConns,
			ConnMaxLifetimeSeconds: cfg.Storage.Pool.ConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: cfg.Storage.Pool.ConnMaxIdleTimeSeconds,
		}); err != nil {
			stdLog.Fatalf("Failed to open storage: %v", err)
		}
		if err := models.AutoMigrate(); err != nil {
			stdLog.Fatalf("Failed to migrate storage: %v", err)
		}
		kv = repository.NewKVRepository(models.DB)
	}

	seedList := func(key string, value interface{}) {
		if !force {
			existing, err := kv.Get(key)
			if err != nil {
				stdLog.Fatalf("Failed to read %s: %v", key, err)
			}
			if existing != nil {
				stdLog.Printf("Key already seeded, skipping: %s", key)
				return
			}
		}
		raw, err := json.Marshal(value)
		if err != nil {
			stdLog.Fatalf("Failed to encode %s: %v", key, err)
		}
		if err := kv.Put(key, raw); err != nil {
			stdLog.Fatalf("Failed to write %s: %v", key, err)
		}
		stdLog.Printf("Seeded key: %s", key)
	}

	seedList(constants.StorageKeyProducts, models.DefaultProducts())
	seedList(constants.StorageKeyCategories, models.DefaultCategories())
	seedList(constants.StorageKeyCart, []models.CartItem{})

	if force {
		if err := kv.Delete(constants.StorageKeyLastOrder); err != nil {
			stdLog.Fatalf("Failed to clear %s: %v", constants.StorageKeyLastOrder, err)
		}
		stdLog.Printf("Cleared key: %s", constants.StorageKeyLastOrder)
	}

	stdLog.Printf("Seed completed")
}
