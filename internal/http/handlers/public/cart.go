package public

import (
	"errors"

	"github.com/mangli-store/internal/http/response"
	"github.com/mangli-store/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求。quantity 省略或非正数时按加购一件处理，
// 给定正数时加购后把该行数量绝对设置为给定值
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest 购物车数量更新请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) cartView() gin.H {
	return gin.H{
		"items":  h.CartService.Items(),
		"totals": h.CartService.Totals(),
	}
}

// GetCart 获取购物车行项目与派生金额
func (h *Handler) GetCart(c *gin.Context) {
	response.Success(c, h.cartView())
}

// AddCartItem 按当前目录快照加购一件商品
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.CatalogService.GetProduct(req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to add to cart", err)
		return
	}
	if !product.Enabled {
		respondError(c, response.CodeBadRequest, "product is not available", nil)
		return
	}

	if err := h.CartService.AddToCart(product); err != nil {
		respondError(c, response.CodeInternal, "failed to add to cart", err)
		return
	}
	if req.Quantity > 0 {
		if err := h.CartService.UpdateQuantity(req.ProductID, req.Quantity); err != nil {
			respondError(c, response.CodeInternal, "failed to add to cart", err)
			return
		}
	}
	response.Success(c, h.cartView())
}

// UpdateCartItem 绝对设置商品行数量，0 或负数即删除该行
func (h *Handler) UpdateCartItem(c *gin.Context) {
	productID := c.Param("product_id")
	if productID == "" {
		respondError(c, response.CodeBadRequest, "product id is required", nil)
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.CartService.UpdateQuantity(productID, req.Quantity); err != nil {
		respondError(c, response.CodeInternal, "failed to update cart", err)
		return
	}
	response.Success(c, h.cartView())
}

// DeleteCartItem 删除商品行
func (h *Handler) DeleteCartItem(c *gin.Context) {
	productID := c.Param("product_id")
	if productID == "" {
		respondError(c, response.CodeBadRequest, "product id is required", nil)
		return
	}
	if err := h.CartService.RemoveFromCart(productID); err != nil {
		respondError(c, response.CodeInternal, "failed to update cart", err)
		return
	}
	response.Success(c, h.cartView())
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.CartService.ClearCart(); err != nil {
		respondError(c, response.CodeInternal, "failed to update cart", err)
		return
	}
	response.Success(c, h.cartView())
}
