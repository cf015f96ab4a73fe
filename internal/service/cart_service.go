package service

import (
	"sync"
	"time"

	"github.com/mangli-store/internal/config"
	"github.com/mangli-store/internal/constants"
	"github.com/mangli-store/internal/logger"
	"github.com/mangli-store/internal/models"
	"github.com/mangli-store/internal/notify"
	"github.com/mangli-store/internal/repository"

	"github.com/shopspring/decimal"
)

// CartTotals 购物车派生金额，每次读取重新计算
type CartTotals struct {
	Subtotal       models.Money `json:"subtotal"`
	DeliveryCharge models.Money `json:"delivery_charge"`
	Total          models.Money `json:"total"`
	TotalItems     int          `json:"total_items"`
}

// CheckoutResult 结算结果：WhatsApp 深链与订单摘要文本。
// 调用方打开链接即完成下单交接，本系统不等待任何回执
type CheckoutResult struct {
	WhatsAppURL string `json:"whatsapp_url"`
	Message     string `json:"message"`
	AfterHours  bool   `json:"after_hours"`
}

// CartService 购物车引擎。持有当前未提交订单的行项目，
// 每次变更写回存储，结算时另存最近订单快照
type CartService struct {
	mu       sync.Mutex
	repo     repository.CartRepository
	notifier notify.ChangeNotifier
	subToken string

	store config.StoreConfig
	now   func() time.Time

	deliveryCharge models.Money
	freeThreshold  models.Money

	items []models.CartItem
}

// NewCartService 创建购物车引擎并完成初始加载。
// 存储损坏时记录日志并重置为空车
func NewCartService(repo repository.CartRepository, store config.StoreConfig, notifier notify.ChangeNotifier) *CartService {
	s := &CartService{
		repo:           repo,
		notifier:       notifier,
		store:          store,
		now:            time.Now,
		deliveryCharge: models.NewMoneyFromFloat(store.DeliveryCharge),
		freeThreshold:  models.NewMoneyFromFloat(store.FreeDeliveryThreshold),
	}
	s.items = s.loadCartOrReset()
	if notifier != nil {
		s.subToken = notifier.Subscribe(s.onStorageChange)
	}
	return s
}

// Close 退订变更通知并把购物车刷回存储
func (s *CartService) Close() {
	if s.notifier != nil && s.subToken != "" {
		s.notifier.Unsubscribe(s.subToken)
		s.subToken = ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveCart(s.items); err != nil {
		logger.Warnw("cart_flush_failed", "error", err)
	}
}

// Items 返回当前购物车行项目副本
func (s *CartService) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartItem(nil), s.items...)
}

// AddToCart 加入购物车：已有同商品行则数量加一，
// 否则按当前商品快照新建数量为 1 的行
func (s *CartService) AddToCart(product models.Product) error {
	s.mu.Lock()
	idx := s.indexOfLocked(product.ID)
	if idx >= 0 {
		s.items[idx].Quantity++
	} else {
		s.items = append(s.items, models.SnapshotCartItem(product))
	}
	err := s.repo.SaveCart(s.items)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.publishCart()
	return nil
}

// RemoveFromCart 无条件删除商品行
func (s *CartService) RemoveFromCart(productID string) error {
	s.mu.Lock()
	idx := s.indexOfLocked(productID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	err := s.repo.SaveCart(s.items)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.publishCart()
	return nil
}

// UpdateQuantity 将商品行数量设为给定值（绝对值而非增量），
// 数量 <= 0 等价于删除，购物车里永远不存零数量行
func (s *CartService) UpdateQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(productID)
	}

	s.mu.Lock()
	idx := s.indexOfLocked(productID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.items[idx].Quantity = quantity
	err := s.repo.SaveCart(s.items)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.publishCart()
	return nil
}

// GetItemQuantity 返回商品行数量，不存在返回 0
func (s *CartService) GetItemQuantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOfLocked(productID); idx >= 0 {
		return s.items[idx].Quantity
	}
	return 0
}

// ClearCart 清空购物车
func (s *CartService) ClearCart() error {
	s.mu.Lock()
	s.items = nil
	err := s.repo.SaveCart(s.items)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.publishCart()
	return nil
}

// Totals 重新计算派生金额：小计、运费、合计、总件数。
// 小计为正且低于免运费门槛时收固定运费，门槛判断取严格小于
func (s *CartService) Totals() CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

func (s *CartService) totalsLocked() CartTotals {
	subtotal := decimal.Zero
	totalItems := 0
	for _, item := range s.items {
		subtotal = subtotal.Add(item.LineTotal().Decimal)
		totalItems += item.Quantity
	}

	deliveryCharge := decimal.Zero
	if subtotal.IsPositive() && subtotal.LessThan(s.freeThreshold.Decimal) {
		deliveryCharge = s.deliveryCharge.Decimal
	}

	return CartTotals{
		Subtotal:       models.NewMoneyFromDecimal(subtotal),
		DeliveryCharge: models.NewMoneyFromDecimal(deliveryCharge),
		Total:          models.NewMoneyFromDecimal(subtotal.Add(deliveryCharge)),
		TotalItems:     totalItems,
	}
}

// IsWithinOrderHours 当前本地小时处于营业窗口 [start, end)
func (s *CartService) IsWithinOrderHours() bool {
	hour := s.now().Hour()
	return hour >= s.store.OrderStartHour && hour < s.store.OrderEndHour
}

// IsAfterOrderHours 当前本地小时已过营业结束时间。
// 早于开始时间的小时段两个判定都为假，表示“尚未开门”
func (s *CartService) IsAfterOrderHours() bool {
	return s.now().Hour() >= s.store.OrderEndHour
}

// OrderWindowState 营业窗口状态：open / before_hours / after_hours
func (s *CartService) OrderWindowState() string {
	switch {
	case s.IsWithinOrderHours():
		return "open"
	case s.IsAfterOrderHours():
		return "after_hours"
	default:
		return "before_hours"
	}
}

// Checkout 结算：把当前购物车另存为最近订单快照，生成订单摘要
// 文本与 WhatsApp 深链，然后清空购物车。空车结算先于营业窗口
// 判定；打烊后下单附带次日配送提示；尚未开门时拒绝下单
// （区别于当日已打烊）
func (s *CartService) Checkout() (CheckoutResult, error) {
	afterHours := s.IsAfterOrderHours()

	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return CheckoutResult{}, ErrCartEmpty
	}
	if !s.IsWithinOrderHours() && !afterHours {
		s.mu.Unlock()
		return CheckoutResult{}, ErrStoreClosed
	}

	if err := s.repo.SaveLastOrder(s.items); err != nil {
		s.mu.Unlock()
		return CheckoutResult{}, err
	}

	totals := s.totalsLocked()
	message := buildOrderMessage(s.store.Name, s.store.Currency, s.items, totals, afterHours)

	s.items = nil
	err := s.repo.SaveCart(s.items)
	s.mu.Unlock()

	if err != nil {
		return CheckoutResult{}, err
	}
	s.publishCart()
	if s.notifier != nil {
		s.notifier.Publish(constants.StorageKeyLastOrder, s.subToken)
	}

	logger.Infow("cart_checkout",
		"total", totals.Total.String(),
		"total_items", totals.TotalItems,
		"after_hours", afterHours,
	)
	return CheckoutResult{
		WhatsAppURL: buildWhatsAppURL(s.store.WhatsAppNumber, message),
		Message:     message,
		AfterHours:  afterHours,
	}, nil
}

// HasLastOrder 判断存储中是否有最近订单快照
func (s *CartService) HasLastOrder() bool {
	items, err := s.repo.LoadLastOrder()
	return err == nil && len(items) > 0
}

// RepeatLastOrder 用最近订单快照整体替换当前购物车（不合并）。
// 没有快照时购物车保持不变
func (s *CartService) RepeatLastOrder() ([]models.CartItem, error) {
	lastOrder, err := s.repo.LoadLastOrder()
	if err != nil {
		return nil, err
	}
	if len(lastOrder) == 0 {
		return nil, ErrNoLastOrder
	}

	s.mu.Lock()
	s.items = append([]models.CartItem(nil), lastOrder...)
	err = s.repo.SaveCart(s.items)
	items := append([]models.CartItem(nil), s.items...)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	s.publishCart()
	return items, nil
}

// onStorageChange 处理外部存储变更：整表重读并替换购物车
func (s *CartService) onStorageChange(key string) {
	if key != constants.StorageKeyCart {
		return
	}
	items := s.loadCartOrReset()
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	logger.Debugw("cart_resynced", "count", len(items))
}

func (s *CartService) publishCart() {
	if s.notifier != nil {
		s.notifier.Publish(constants.StorageKeyCart, s.subToken)
	}
}

func (s *CartService) loadCartOrReset() []models.CartItem {
	items, err := s.repo.LoadCart()
	if err != nil {
		logger.Errorw("cart_corrupt_reset", "error", err)
		items = nil
		if saveErr := s.repo.SaveCart(items); saveErr != nil {
			logger.Warnw("cart_reset_save_failed", "error", saveErr)
		}
	}
	return items
}

func (s *CartService) indexOfLocked(productID string) int {
	for i, item := range s.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
