package provider

import (
	"strings"

	"github.com/mangli-store/internal/cache"
	"github.com/mangli-store/internal/config"
	"github.com/mangli-store/internal/logger"
	"github.com/mangli-store/internal/models"
	"github.com/mangli-store/internal/notify"
	"github.com/mangli-store/internal/queue"
	"github.com/mangli-store/internal/repository"
	"github.com/mangli-store/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Notifier    notify.ChangeNotifier

	// Repositories
	KVRepo      repository.KVRepository
	CatalogRepo repository.CatalogRepository
	CartRepo    repository.CartRepository

	// Services
	AuthService       *service.AuthService
	CatalogService    *service.CatalogService
	CartService       *service.CartService
	ImageCheckService *service.ImageCheckService

	redisNotifier *notify.RedisNotifier
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initStorage()
	c.initServices()

	return c
}

// initStorage 选择键值存储后端与变更通知通道。
// redis 可用时变更经 pub/sub 广播，多进程间互相可见；
// 否则退化为进程内 fanout
func (c *Container) initStorage() {
	if strings.EqualFold(strings.TrimSpace(c.Config.Storage.Driver), "redis") {
		if cache.Enabled() {
			c.KVRepo = repository.NewRedisKVRepository(cache.Client(), cache.BuildKey)
		} else {
			// redis 驱动但 redis 未就绪，退回数据库存储继续服务
			logger.Warnw("storage_redis_unavailable", "fallback", "database")
			c.KVRepo = repository.NewKVRepository(models.DB)
		}
	} else {
		c.KVRepo = repository.NewKVRepository(models.DB)
	}
	c.CatalogRepo = repository.NewCatalogRepository(c.KVRepo)
	c.CartRepo = repository.NewCartRepository(c.KVRepo)

	if cache.Enabled() {
		c.redisNotifier = notify.NewRedisNotifier(cache.Client(), "")
		c.Notifier = c.redisNotifier
	} else {
		c.Notifier = notify.NewFanout()
	}
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config)
	c.CatalogService = service.NewCatalogService(c.CatalogRepo, c.Notifier)
	c.CartService = service.NewCartService(c.CartRepo, c.Config.Store, c.Notifier)
	c.ImageCheckService = service.NewImageCheckService(c.KVRepo)
}

// Close 释放容器持有的资源
func (c *Container) Close() {
	if c.CartService != nil {
		c.CartService.Close()
	}
	if c.CatalogService != nil {
		c.CatalogService.Close()
	}
	if c.redisNotifier != nil {
		c.redisNotifier.Close()
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
