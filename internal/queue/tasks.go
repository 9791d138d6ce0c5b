package queue

import (
	"encoding/json"
	"fmt"

	"github.com/Umair-Web/BTOBPortal/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskProductImageCleanup 商品删除后的图片清理任务
	TaskProductImageCleanup = constants.TaskProductImageCleanup
)

// ProductImageCleanupPayload 图片清理任务载荷
type ProductImageCleanupPayload struct {
	ProductID uint     `json:"product_id"`
	URLs      []string `json:"urls"`
}

// NewProductImageCleanupTask 创建图片清理任务
func NewProductImageCleanupTask(payload ProductImageCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProductImageCleanup, body), nil
}

// ParseProductImageCleanupPayload 解析图片清理任务载荷
func ParseProductImageCleanupPayload(task *asynq.Task) (ProductImageCleanupPayload, error) {
	var payload ProductImageCleanupPayload
	if task == nil {
		return payload, fmt.Errorf("task is nil")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
