package public

import (
	"errors"
	"fmt"

	"github.com/mangli-store/internal/http/response"
	"github.com/mangli-store/internal/service"

	"github.com/gin-gonic/gin"
)

func storeOpensAt(h *Handler) string {
	return fmt.Sprintf("%02d:00", h.Config.Store.OrderStartHour)
}

// Checkout 结算：生成 WhatsApp 深链并清空购物车。
// 尚未开门与当日已打烊分别返回不同的提示文案
func (h *Handler) Checkout(c *gin.Context) {
	result, err := h.CartService.Checkout()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreClosed):
			respondError(c, response.CodeBadRequest, "store has not opened yet, orders start at "+storeOpensAt(h), nil)
		case errors.Is(err, service.ErrCartEmpty):
			respondError(c, response.CodeBadRequest, "cart is empty", nil)
		default:
			respondError(c, response.CodeInternal, "checkout failed", err)
		}
		return
	}

	requestLog(c).Infow("checkout_completed", "after_hours", result.AfterHours)
	response.Success(c, result)
}

// GetLastOrder 查询是否存在最近订单快照
func (h *Handler) GetLastOrder(c *gin.Context) {
	response.Success(c, gin.H{"exists": h.CartService.HasLastOrder()})
}

// RepeatLastOrder 用最近订单快照整体替换当前购物车
func (h *Handler) RepeatLastOrder(c *gin.Context) {
	if _, err := h.CartService.RepeatLastOrder(); err != nil {
		if errors.Is(err, service.ErrNoLastOrder) {
			respondError(c, response.CodeNotFound, "no previous order to repeat", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to repeat order", err)
		return
	}
	response.Success(c, h.cartView())
}
