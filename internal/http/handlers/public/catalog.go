package public

import (
	"github.com/mangli-store/internal/constants"
	"github.com/mangli-store/internal/http/response"
	"github.com/mangli-store/internal/models"
	"github.com/mangli-store/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取上架商品列表，按名称排序，支持按分类过滤
func (h *Handler) GetProducts(c *gin.Context) {
	products := h.CatalogService.ListEnabledProducts()

	category := c.Query("category")
	if category != "" && category != constants.CategoryAllID {
		filtered := make([]models.Product, 0, len(products))
		for _, p := range products {
			if p.Category == category {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	response.Success(c, gin.H{"products": service.SortedByName(products)})
}

// GetCategories 获取启用的分类，按名称排序供筛选栏展示，
// 保留分类 all 固定在最前
func (h *Handler) GetCategories(c *gin.Context) {
	categories := h.CatalogService.ListEnabledCategories()

	sorted := make([]models.Category, 0, len(categories))
	var rest []models.Category
	for _, cat := range categories {
		if cat.ID == constants.CategoryAllID {
			sorted = append(sorted, cat)
			continue
		}
		rest = append(rest, cat)
	}
	sorted = append(sorted, service.SortedCategoriesByName(rest)...)

	response.Success(c, gin.H{"categories": sorted})
}
