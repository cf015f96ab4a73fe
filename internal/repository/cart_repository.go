package repository

import (
	"encoding/json"

	"github.com/mangli-store/internal/constants"
	"github.com/mangli-store/internal/models"
)

// CartRepository 购物车与最近订单快照的持久化接口
type CartRepository interface {
	// LoadCart 读取购物车。键不存在返回 (nil, nil)，内容损坏返回错误
	LoadCart() ([]models.CartItem, error)
	SaveCart(items []models.CartItem) error
	// LoadLastOrder 读取最近一次下单的快照
	LoadLastOrder() ([]models.CartItem, error)
	SaveLastOrder(items []models.CartItem) error
}

// KVCartRepository 基于键值存储的实现
type KVCartRepository struct {
	kv KVRepository
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(kv KVRepository) *KVCartRepository {
	return &KVCartRepository{kv: kv}
}

// LoadCart 读取购物车
func (r *KVCartRepository) LoadCart() ([]models.CartItem, error) {
	return r.loadItems(constants.StorageKeyCart)
}

// SaveCart 整表写回购物车
func (r *KVCartRepository) SaveCart(items []models.CartItem) error {
	return r.saveItems(constants.StorageKeyCart, items)
}

// LoadLastOrder 读取最近订单快照
func (r *KVCartRepository) LoadLastOrder() ([]models.CartItem, error) {
	return r.loadItems(constants.StorageKeyLastOrder)
}

// SaveLastOrder 写入最近订单快照（仅在结算时调用）
func (r *KVCartRepository) SaveLastOrder(items []models.CartItem) error {
	return r.saveItems(constants.StorageKeyLastOrder, items)
}

func (r *KVCartRepository) loadItems(key string) ([]models.CartItem, error) {
	raw, err := r.kv.Get(key)
	if err != nil || raw == nil {
		return nil, err
	}
	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *KVCartRepository) saveItems(key string, items []models.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.kv.Put(key, raw)
}
