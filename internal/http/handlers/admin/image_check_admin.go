package admin

import (
	"github.com/mangli-store/internal/http/response"
	"github.com/mangli-store/internal/queue"

	"github.com/gin-gonic/gin"
)

// TriggerImageCheck 触发全目录图片地址校验。
// 队列可用时异步执行，否则在请求内完成
func (h *Handler) TriggerImageCheck(c *gin.Context) {
	if h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueImageCheck(queue.ImageCheckPayload{}); err != nil {
			respondError(c, response.CodeInternal, "failed to schedule image check", err)
			return
		}
		response.SuccessWithMsg(c, "image check scheduled", gin.H{"async": true})
		return
	}

	report, err := h.ImageCheckService.CheckCatalog(c.Request.Context(), h.CatalogService.ListProducts())
	if err != nil {
		respondError(c, response.CodeInternal, "image check failed", err)
		return
	}
	response.Success(c, report)
}

// GetImageCheckReport 读取最近一次图片校验结果
func (h *Handler) GetImageCheckReport(c *gin.Context) {
	report, err := h.ImageCheckService.LatestReport()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load image check report", err)
		return
	}
	if report == nil {
		respondError(c, response.CodeNotFound, "no image check has run yet", nil)
		return
	}
	response.Success(c, report)
}
