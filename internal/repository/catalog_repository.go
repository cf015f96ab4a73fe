package repository

import (
	"encoding/json"

	"github.com/mangli-store/internal/constants"
	"github.com/mangli-store/internal/models"
)

// CatalogRepository 商品目录持久化接口
type CatalogRepository interface {
	// LoadProducts 读取商品列表。键不存在返回 (nil, nil)，内容损坏返回错误
	LoadProducts() ([]models.Product, error)
	SaveProducts(products []models.Product) error
	LoadCategories() ([]models.Category, error)
	SaveCategories(categories []models.Category) error
}

// KVCatalogRepository 基于键值存储的实现
type KVCatalogRepository struct {
	kv KVRepository
}

// NewCatalogRepository 创建目录仓库
func NewCatalogRepository(kv KVRepository) *KVCatalogRepository {
	return &KVCatalogRepository{kv: kv}
}

// LoadProducts 读取商品列表
func (r *KVCatalogRepository) LoadProducts() ([]models.Product, error) {
	raw, err := r.kv.Get(constants.StorageKeyProducts)
	if err != nil || raw == nil {
		return nil, err
	}
	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SaveProducts 整表写回商品列表
func (r *KVCatalogRepository) SaveProducts(products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return r.kv.Put(constants.StorageKeyProducts, raw)
}

// LoadCategories 读取分类列表
func (r *KVCatalogRepository) LoadCategories() ([]models.Category, error) {
	raw, err := r.kv.Get(constants.StorageKeyCategories)
	if err != nil || raw == nil {
		return nil, err
	}
	var categories []models.Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// SaveCategories 整表写回分类列表
func (r *KVCatalogRepository) SaveCategories(categories []models.Category) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return r.kv.Put(constants.StorageKeyCategories, raw)
}
