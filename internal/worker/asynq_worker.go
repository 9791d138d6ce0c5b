package worker

import (
	"context"

	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/provider"
	"github.com/Umair-Web/BTOBPortal/internal/queue"

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
	mux.HandleFunc(queue.TaskProductImageCleanup, c.handleProductImageCleanup)
}

// handleProductImageCleanup 删除商品图片文件；清理失败只记录日志，不重试
func (c *Consumer) handleProductImageCleanup(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_image_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseProductImageCleanupPayload(task)
	if err != nil {
		logger.Warnw("worker_image_cleanup_unmarshal_failed", "error", err)
		return err
	}
	if len(payload.URLs) == 0 {
		logger.Debugw("worker_image_cleanup_skip_empty_payload", "product_id", payload.ProductID)
		return nil
	}
	if c.Container == nil || c.ImageCleaner == nil {
		logger.Warnw("worker_image_cleanup_skip_cleaner_nil", "product_id", payload.ProductID)
		return nil
	}
	c.ImageCleaner.Run(ctx, payload.ProductID, payload.URLs)
	return nil
}
