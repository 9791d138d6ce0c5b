package service

import (
	"context"
	"io"

	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/queue"

	"github.com/hibiken/asynq"
)

// ObjectStorage 对象存储能力
type ObjectStorage interface {
	Save(ctx context.Context, dir, name string, r io.Reader) (string, error)
	Open(ctx context.Context, url string) (io.ReadCloser, error)
	Delete(ctx context.Context, urls []string) error
}

// CleanupDispatcher 图片清理任务投递能力
type CleanupDispatcher interface {
	Enabled() bool
	EnqueueProductImageCleanup(payload queue.ProductImageCleanupPayload, opts ...asynq.Option) error
}

// ImageCleaner 商品图片尽力清理：失败只记录日志，不影响主流程
type ImageCleaner struct {
	storage ObjectStorage
	queue   CleanupDispatcher
}

// NewImageCleaner 创建图片清理器，dispatcher 可为 nil
func NewImageCleaner(storage ObjectStorage, dispatcher CleanupDispatcher) *ImageCleaner {
	return &ImageCleaner{storage: storage, queue: dispatcher}
}

// Dispatch 队列可用时异步清理，否则同步清理
func (c *ImageCleaner) Dispatch(ctx context.Context, productID uint, urls []string) {
	if c == nil || len(urls) == 0 {
		return
	}
	if c.queue != nil && c.queue.Enabled() {
		err := c.queue.EnqueueProductImageCleanup(queue.ProductImageCleanupPayload{
			ProductID: productID,
			URLs:      urls,
		})
		if err == nil {
			logger.Debugw("product_image_cleanup_enqueued", "product_id", productID, "count", len(urls))
			return
		}
		logger.Warnw("product_image_cleanup_enqueue_failed",
			"product_id", productID,
			"error", err,
			"fallback", "sync",
		)
	}
	c.Run(ctx, productID, urls)
}

// Run 同步删除图片文件
func (c *ImageCleaner) Run(ctx context.Context, productID uint, urls []string) {
	if c == nil || c.storage == nil || len(urls) == 0 {
		return
	}
	if err := c.storage.Delete(ctx, urls); err != nil {
		logger.Warnw("product_image_cleanup_failed",
			"product_id", productID,
			"urls", urls,
			"error", err,
		)
		return
	}
	logger.Infow("product_image_cleanup_done", "product_id", productID, "count", len(urls))
}
