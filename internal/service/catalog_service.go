package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mangli-store/internal/constants"
	"github.com/mangli-store/internal/logger"
	"github.com/mangli-store/internal/models"
	"github.com/mangli-store/internal/notify"
	"github.com/mangli-store/internal/repository"
)

// ProductInput 新增商品输入。字段合法性（名称非空、价格为正、
// 图片地址存在）由管理端边界校验，这里只负责单位枚举
type ProductInput struct {
	Name     string
	Price    models.Money
	Unit     string
	Category string
	Image    string
}

// CatalogService 商品目录存储。会话期间内存态为准，
// 每次成功变更整表写回存储，收到外部变更通知时整表重读
type CatalogService struct {
	mu       sync.RWMutex
	repo     repository.CatalogRepository
	notifier notify.ChangeNotifier
	subToken string

	products   []models.Product
	categories []models.Category

	// lastProductID 保证时间戳 ID 单调，同一毫秒内连续新增也不冲突
	lastProductID int64
	now           func() time.Time
}

// NewCatalogService 创建目录存储并完成初始加载。
// 存储为空时写入内置目录；内容损坏时记录日志并整体重置为内置目录
func NewCatalogService(repo repository.CatalogRepository, notifier notify.ChangeNotifier) *CatalogService {
	s := &CatalogService{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
	s.products = s.loadProductsOrReset()
	s.categories = s.loadCategoriesOrReset()
	if notifier != nil {
		s.subToken = notifier.Subscribe(s.onStorageChange)
	}
	return s
}

// Close 退订变更通知并把内存态刷回存储
func (s *CatalogService) Close() {
	if s.notifier != nil && s.subToken != "" {
		s.notifier.Unsubscribe(s.subToken)
		s.subToken = ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.repo.SaveProducts(s.products); err != nil {
		logger.Warnw("catalog_flush_products_failed", "error", err)
	}
	if err := s.repo.SaveCategories(s.categories); err != nil {
		logger.Warnw("catalog_flush_categories_failed", "error", err)
	}
}

// ListProducts 返回全部商品（管理端视图）
func (s *CatalogService) ListProducts() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product(nil), s.products...)
}

// ListEnabledProducts 返回上架商品（顾客端视图）
func (s *CatalogService) ListEnabledProducts() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enabled := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	return enabled
}

// ListCategories 返回全部分类（管理端视图）
func (s *CatalogService) ListCategories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category(nil), s.categories...)
}

// ListEnabledCategories 返回可见分类（顾客端筛选栏）
func (s *CatalogService) ListEnabledCategories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enabled := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if c.Enabled {
			enabled = append(enabled, c)
		}
	}
	return enabled
}

// GetProduct 按 ID 查找商品
func (s *CatalogService) GetProduct(id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

// AddProduct 新增商品：分配时间戳 ID，置为上架，插入列表头部
// （未排序展示时最新优先）
func (s *CatalogService) AddProduct(input ProductInput) (models.Product, error) {
	if !models.ValidUnit(input.Unit) {
		return models.Product{}, ErrInvalidUnit
	}

	s.mu.Lock()
	product := models.Product{
		ID:       s.nextProductIDLocked(),
		Name:     input.Name,
		Price:    input.Price,
		Unit:     input.Unit,
		Category: input.Category,
		Image:    input.Image,
		Enabled:  true,
	}
	s.products = append([]models.Product{product}, s.products...)
	err := s.repo.SaveProducts(s.products)
	s.mu.Unlock()

	if err != nil {
		return models.Product{}, err
	}
	s.publish(constants.StorageKeyProducts)
	logger.Infow("catalog_product_added", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// UpdateProduct 合并部分更新到既有商品，ID 不可变
func (s *CatalogService) UpdateProduct(id string, patch models.ProductPatch) (models.Product, error) {
	if patch.Unit != nil && !models.ValidUnit(*patch.Unit) {
		return models.Product{}, ErrInvalidUnit
	}

	s.mu.Lock()
	idx := s.indexOfProductLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Product{}, ErrNotFound
	}
	patch.Apply(&s.products[idx])
	updated := s.products[idx]
	err := s.repo.SaveProducts(s.products)
	s.mu.Unlock()

	if err != nil {
		return models.Product{}, err
	}
	s.publish(constants.StorageKeyProducts)
	return updated, nil
}

// ToggleProductEnabled 翻转商品上架状态
func (s *CatalogService) ToggleProductEnabled(id string) (models.Product, error) {
	s.mu.Lock()
	idx := s.indexOfProductLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Product{}, ErrNotFound
	}
	s.products[idx].Enabled = !s.products[idx].Enabled
	updated := s.products[idx]
	err := s.repo.SaveProducts(s.products)
	s.mu.Unlock()

	if err != nil {
		return models.Product{}, err
	}
	s.publish(constants.StorageKeyProducts)
	return updated, nil
}

// DeleteProduct 删除商品，重复删除等价于删除一次
func (s *CatalogService) DeleteProduct(id string) error {
	s.mu.Lock()
	idx := s.indexOfProductLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.products = append(s.products[:idx], s.products[idx+1:]...)
	err := s.repo.SaveProducts(s.products)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.publish(constants.StorageKeyProducts)
	logger.Infow("catalog_product_deleted", "product_id", id)
	return nil
}

// AddCategory 新增分类。名称去除首尾空白后为空或与既有分类
// 不区分大小写重名时创建失败；ID 由名称小写化、空白转连字符得出
func (s *CatalogService) AddCategory(name string) (models.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return models.Category{}, ErrCategoryNameEmpty
	}

	s.mu.Lock()
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, trimmed) {
			s.mu.Unlock()
			return models.Category{}, ErrCategoryExists
		}
	}
	category := models.Category{
		ID:      strings.Join(strings.Fields(strings.ToLower(trimmed)), "-"),
		Name:    trimmed,
		Enabled: true,
	}
	s.categories = append(s.categories, category)
	err := s.repo.SaveCategories(s.categories)
	s.mu.Unlock()

	if err != nil {
		return models.Category{}, err
	}
	s.publish(constants.StorageKeyCategories)
	logger.Infow("catalog_category_added", "category_id", category.ID, "name", category.Name)
	return category, nil
}

// ToggleCategoryEnabled 翻转分类可见状态。停用的分类只是从
// 筛选栏隐藏，不会级联下架其中的商品；保留分类 all 不可停用
func (s *CatalogService) ToggleCategoryEnabled(id string) (models.Category, error) {
	s.mu.Lock()
	idx := -1
	for i, c := range s.categories {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.Category{}, ErrNotFound
	}
	if s.categories[idx].IsReserved() {
		s.mu.Unlock()
		return models.Category{}, ErrCategoryReserved
	}
	s.categories[idx].Enabled = !s.categories[idx].Enabled
	updated := s.categories[idx]
	err := s.repo.SaveCategories(s.categories)
	s.mu.Unlock()

	if err != nil {
		return models.Category{}, err
	}
	s.publish(constants.StorageKeyCategories)
	return updated, nil
}

// SortedByName 返回按名称排序的商品副本（展示层约定）
func SortedByName(products []models.Product) []models.Product {
	sorted := append([]models.Product(nil), products...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// SortedCategoriesByName 返回按名称排序的分类副本
func SortedCategoriesByName(categories []models.Category) []models.Category {
	sorted := append([]models.Category(nil), categories...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// onStorageChange 处理外部存储变更：整表重读并替换内存态，
// 后写覆盖先写，不做合并
func (s *CatalogService) onStorageChange(key string) {
	switch key {
	case constants.StorageKeyProducts:
		products := s.loadProductsOrReset()
		s.mu.Lock()
		s.products = products
		s.mu.Unlock()
		logger.Debugw("catalog_products_resynced", "count", len(products))
	case constants.StorageKeyCategories:
		categories := s.loadCategoriesOrReset()
		s.mu.Lock()
		s.categories = categories
		s.mu.Unlock()
		logger.Debugw("catalog_categories_resynced", "count", len(categories))
	}
}

func (s *CatalogService) publish(key string) {
	if s.notifier != nil {
		s.notifier.Publish(key, s.subToken)
	}
}

// loadProductsOrReset 读取商品列表。损坏时整体重置为内置目录，
// 不尝试部分恢复，避免在残缺状态上继续经营
func (s *CatalogService) loadProductsOrReset() []models.Product {
	products, err := s.repo.LoadProducts()
	if err != nil {
		logger.Errorw("catalog_products_corrupt_reset", "error", err)
		products = nil
	}
	if products == nil {
		products = models.DefaultProducts()
		if saveErr := s.repo.SaveProducts(products); saveErr != nil {
			logger.Warnw("catalog_products_seed_failed", "error", saveErr)
		}
	}
	return products
}

func (s *CatalogService) loadCategoriesOrReset() []models.Category {
	categories, err := s.repo.LoadCategories()
	if err != nil {
		logger.Errorw("catalog_categories_corrupt_reset", "error", err)
		categories = nil
	}
	if categories == nil {
		categories = models.DefaultCategories()
		if saveErr := s.repo.SaveCategories(categories); saveErr != nil {
			logger.Warnw("catalog_categories_seed_failed", "error", saveErr)
		}
	}
	return categories
}

func (s *CatalogService) indexOfProductLocked(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *CatalogService) nextProductIDLocked() string {
	id := s.now().UnixMilli()
	if id <= s.lastProductID {
		id = s.lastProductID + 1
	}
	s.lastProductID = id
	return fmt.Sprintf("prod-%d", id)
}
