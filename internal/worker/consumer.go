package worker

import (
	"context"
	"encoding/json"

	"github.com/mangli-store/internal/logger"
	"github.com/mangli-store/internal/models"
	"github.com/mangli-store/internal/provider"
	"github.com/mangli-store/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskImageCheck, c.handleImageCheck)
}

func (c *Consumer) handleImageCheck(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_image_check_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ImageCheckPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_image_check_unmarshal_failed", "error", err)
		return err
	}

	products := c.selectProducts(payload.ProductIDs)
	if len(products) == 0 {
		logger.Debugw("worker_image_check_skip_empty_catalog")
		return nil
	}

	report, err := c.ImageCheckService.CheckCatalog(ctx, products)
	if err != nil {
		logger.Warnw("worker_image_check_failed", "error", err)
		return err
	}

	invalid := 0
	for _, result := range report.Results {
		if !result.IsValid {
			invalid++
		}
	}
	logger.Infow("worker_image_check_done", "checked", len(report.Results), "invalid", invalid)
	return nil
}

// selectProducts 载荷里给了商品 ID 就只查这些，否则全目录
func (c *Consumer) selectProducts(ids []string) []models.Product {
	products := c.CatalogService.ListProducts()
	if len(ids) == 0 {
		return products
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	selected := make([]models.Product, 0, len(ids))
	for _, p := range products {
		if _, ok := wanted[p.ID]; ok {
			selected = append(selected, p)
		}
	}
	return selected
}
