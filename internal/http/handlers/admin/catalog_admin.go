package admin

import (
	"errors"
	"strings"

	"github.com/mangli-store/internal/http/response"
	"github.com/mangli-store/internal/models"
	"github.com/mangli-store/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 新增商品请求
type ProductRequest struct {
	Name     string       `json:"name" binding:"required"`
	Price    models.Money `json:"price" binding:"required"`
	Unit     string       `json:"unit" binding:"required"`
	Category string       `json:"category" binding:"required"`
	Image    string       `json:"image" binding:"required"`
}

// ProductPatchRequest 商品部分更新请求，缺省字段保持原值
type ProductPatchRequest struct {
	Name     *string       `json:"name"`
	Price    *models.Money `json:"price"`
	Unit     *string       `json:"unit"`
	Category *string       `json:"category"`
	Image    *string       `json:"image"`
	Enabled  *bool         `json:"enabled"`
}

// CategoryRequest 新增分类请求
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetProducts 获取全量商品列表（含下架）
func (h *Handler) GetProducts(c *gin.Context) {
	response.Success(c, gin.H{"products": h.CatalogService.ListProducts()})
}

// GetCategories 获取全量分类列表（含停用）
func (h *Handler) GetCategories(c *gin.Context) {
	response.Success(c, gin.H{"categories": h.CatalogService.ListCategories()})
}

// CreateProduct 新增商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(c, response.CodeBadRequest, "product name is required", nil)
		return
	}
	if !req.Price.IsPositive() {
		respondError(c, response.CodeBadRequest, "price must be positive", nil)
		return
	}

	product, err := h.CatalogService.AddProduct(service.ProductInput{
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		Unit:     req.Unit,
		Category: req.Category,
		Image:    req.Image,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidUnit) {
			respondError(c, response.CodeBadRequest, "unknown unit", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to save product", err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 部分更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	var req ProductPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		respondError(c, response.CodeBadRequest, "product name is required", nil)
		return
	}
	if req.Price != nil && !req.Price.IsPositive() {
		respondError(c, response.CodeBadRequest, "price must be positive", nil)
		return
	}

	product, err := h.CatalogService.UpdateProduct(id, models.ProductPatch{
		Name:     req.Name,
		Price:    req.Price,
		Unit:     req.Unit,
		Category: req.Category,
		Image:    req.Image,
		Enabled:  req.Enabled,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "product not found", nil)
		case errors.Is(err, service.ErrInvalidUnit):
			respondError(c, response.CodeBadRequest, "unknown unit", nil)
		default:
			respondError(c, response.CodeInternal, "failed to save product", err)
		}
		return
	}
	response.Success(c, product)
}

// ToggleProduct 切换商品上下架
func (h *Handler) ToggleProduct(c *gin.Context) {
	product, err := h.CatalogService.ToggleProductEnabled(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to save product", err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品，重复删除视为成功
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.CatalogService.DeleteProduct(c.Param("id")); err != nil {
		respondError(c, response.CodeInternal, "failed to delete product", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// CreateCategory 新增分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	category, err := h.CatalogService.AddCategory(req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNameEmpty):
			respondError(c, response.CodeBadRequest, "category name is required", nil)
		case errors.Is(err, service.ErrCategoryExists):
			respondError(c, response.CodeBadRequest, "category already exists", nil)
		default:
			respondError(c, response.CodeInternal, "failed to save category", err)
		}
		return
	}
	response.Success(c, category)
}

// ToggleCategory 切换分类启用状态，不级联下架商品
func (h *Handler) ToggleCategory(c *gin.Context) {
	category, err := h.CatalogService.ToggleCategoryEnabled(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "category not found", nil)
			return
		case errors.Is(err, service.ErrCategoryReserved):
			respondError(c, response.CodeBadRequest, "the all category cannot be disabled", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to save category", err)
		return
	}
	response.Success(c, category)
}
