package queue

import (
	"encoding/json"

	"github.com/mangli-store/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskImageCheck 商品图片地址校验任务
	TaskImageCheck = constants.TaskImageCheck
)

// ImageCheckPayload 图片校验任务载荷。ProductIDs 为空表示全目录校验
type ImageCheckPayload struct {
	ProductIDs []string `json:"product_ids,omitempty"`
}

// NewImageCheckTask 创建图片校验任务
func NewImageCheckTask(payload ImageCheckPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskImageCheck, body), nil
}
