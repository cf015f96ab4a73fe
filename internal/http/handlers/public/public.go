package public

import (
	"github.com/mangli-store/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetConfig 获取店铺公开配置与当前营业窗口状态
func (h *Handler) GetConfig(c *gin.Context) {
	store := h.Config.Store
	response.Success(c, gin.H{
		"store_name":              store.Name,
		"currency":                store.Currency,
		"whatsapp_number":         store.WhatsAppNumber,
		"order_start_hour":        store.OrderStartHour,
		"order_end_hour":          store.OrderEndHour,
		"delivery_charge":         store.DeliveryCharge,
		"free_delivery_threshold": store.FreeDeliveryThreshold,
		"order_window":            h.CartService.OrderWindowState(),
	})
}
