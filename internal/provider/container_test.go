package provider

import (
	"testing"

	"github.com/mangli-store/internal/config"
	"github.com/mangli-store/internal/models"
	"github.com/mangli-store/internal/repository"
)

func TestNewContainerRedisDriverFallsBackToDatabase(t *testing.T) {
	if err := models.InitDB("sqlite", "file::memory:", models.DBPoolConfig{}); err != nil {
		t.Fatalf("init storage failed: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("migrate storage failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Storage.Driver = "redis"
	cfg.Redis.Enabled = false
	cfg.Store = config.StoreConfig{
		Name:           "Mangli.Store",
		OrderStartHour: 8,
		OrderEndHour:   20,
	}

	// redis 驱动但 redis 未就绪：容器必须退回数据库存储继续服务，
	// 而不是在启动阶段崩掉
	c := NewContainer(cfg)
	defer c.Close()

	if _, ok := c.KVRepo.(*repository.GormKVRepository); !ok {
		t.Fatalf("redis unavailable must fall back to the database repository, got %T", c.KVRepo)
	}
	if c.CatalogService == nil || c.CartService == nil {
		t.Fatalf("services must be constructed on the fallback path")
	}
	if got := len(c.CatalogService.ListProducts()); got != len(models.DefaultProducts()) {
		t.Fatalf("catalog must seed defaults on the fallback path, got %d products", got)
	}
}
