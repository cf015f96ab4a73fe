package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mangli-store/internal/config"
	"github.com/mangli-store/internal/models"
	"github.com/mangli-store/internal/notify"
	"github.com/mangli-store/internal/repository"
)

func testStoreConfig() config.StoreConfig {
	return config.StoreConfig{
		Name:                  "Mangli.Store",
		WhatsAppNumber:        "911234567890",
		Currency:              "₹",
		OrderStartHour:        8,
		OrderEndHour:          20,
		DeliveryCharge:        20,
		FreeDeliveryThreshold: 500,
	}
}

func newTestCart(t *testing.T) (*CartService, repository.CartRepository) {
	t.Helper()
	repo := repository.NewCartRepository(newServiceKV(t))
	svc := NewCartService(repo, testStoreConfig(), notify.NewFanout())
	t.Cleanup(svc.Close)
	return svc, repo
}

func atHour(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 5, 1, hour, 30, 0, 0, time.Local)
	}
}

func tomato() models.Product {
	return models.DefaultProducts()[0] // Tomato, ₹40/kg
}

func onion() models.Product {
	return models.DefaultProducts()[2] // Onion, ₹35/kg
}

func mustAdd(t *testing.T, svc *CartService, p models.Product, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		if err := svc.AddToCart(p); err != nil {
			t.Fatalf("add to cart failed: %v", err)
		}
	}
}

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	svc, _ := newTestCart(t)

	mustAdd(t, svc, tomato(), 3)

	items := svc.Items()
	if len(items) != 1 {
		t.Fatalf("repeated adds of one product must keep a single line, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", items[0].Quantity)
	}
	if got := svc.GetItemQuantity(tomato().ID); got != 3 {
		t.Fatalf("GetItemQuantity = %d, want 3", got)
	}
	if got := svc.GetItemQuantity("prod-nope"); got != 0 {
		t.Fatalf("absent product quantity must be 0, got %d", got)
	}
}

func TestUpdateQuantityRemovesAtZeroOrNegative(t *testing.T) {
	svc, _ := newTestCart(t)
	mustAdd(t, svc, tomato(), 1)
	mustAdd(t, svc, onion(), 1)

	if err := svc.UpdateQuantity(tomato().ID, 5); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if got := svc.GetItemQuantity(tomato().ID); got != 5 {
		t.Fatalf("quantity must be set absolutely, got %d", got)
	}

	if err := svc.UpdateQuantity(tomato().ID, 0); err != nil {
		t.Fatalf("update to zero failed: %v", err)
	}
	if err := svc.UpdateQuantity(onion().ID, -5); err != nil {
		t.Fatalf("update to negative failed: %v", err)
	}
	if got := len(svc.Items()); got != 0 {
		t.Fatalf("zero and negative quantities must remove the line, %d lines left", got)
	}
}

func TestTotals(t *testing.T) {
	svc, _ := newTestCart(t)
	mustAdd(t, svc, tomato(), 2) // 2 x 40 = 80
	mustAdd(t, svc, onion(), 1)  // 1 x 35 = 35

	totals := svc.Totals()
	if totals.Subtotal.String() != "115.00" {
		t.Fatalf("subtotal = %s, want 115.00", totals.Subtotal)
	}
	if totals.DeliveryCharge.String() != "20.00" {
		t.Fatalf("delivery = %s, want 20.00", totals.DeliveryCharge)
	}
	if totals.Total.String() != "135.00" {
		t.Fatalf("total = %s, want 135.00", totals.Total)
	}
	if totals.TotalItems != 3 {
		t.Fatalf("total items = %d, want 3", totals.TotalItems)
	}
}

func TestTotalsFreeDeliveryBoundary(t *testing.T) {
	svc, _ := newTestCart(t)

	// 空车：小计为零不收运费
	if got := svc.Totals().DeliveryCharge.String(); got != "0.00" {
		t.Fatalf("empty cart delivery = %s, want 0.00", got)
	}

	// 恰好到达门槛（4 x 120 + 20 = 500）免运费，门槛判断取严格小于
	mustAdd(t, svc, models.DefaultProducts()[4], 4) // Apple ₹120
	mustAdd(t, svc, models.DefaultProducts()[3], 1) // Spinach ₹20
	totals := svc.Totals()
	if totals.Subtotal.String() != "500.00" {
		t.Fatalf("subtotal = %s, want 500.00", totals.Subtotal)
	}
	if totals.DeliveryCharge.String() != "0.00" {
		t.Fatalf("delivery at exactly the threshold = %s, want 0.00", totals.DeliveryCharge)
	}
	if totals.Total.String() != "500.00" {
		t.Fatalf("total = %s, want 500.00", totals.Total)
	}
}

func TestOrderWindowState(t *testing.T) {
	svc, _ := newTestCart(t)

	cases := []struct {
		hour   int
		within bool
		after  bool
		state  string
	}{
		{7, false, false, "before_hours"},
		{8, true, false, "open"},
		{19, true, false, "open"},
		{20, false, true, "after_hours"},
		{23, false, true, "after_hours"},
	}
	for _, tc := range cases {
		svc.now = atHour(tc.hour)
		if got := svc.IsWithinOrderHours(); got != tc.within {
			t.Fatalf("hour %d: within = %v, want %v", tc.hour, got, tc.within)
		}
		if got := svc.IsAfterOrderHours(); got != tc.after {
			t.Fatalf("hour %d: after = %v, want %v", tc.hour, got, tc.after)
		}
		if got := svc.OrderWindowState(); got != tc.state {
			t.Fatalf("hour %d: state = %s, want %s", tc.hour, got, tc.state)
		}
	}
}

func TestCheckout(t *testing.T) {
	svc, repo := newTestCart(t)
	svc.now = atHour(10)
	mustAdd(t, svc, tomato(), 2)
	mustAdd(t, svc, onion(), 1)

	result, err := svc.Checkout()
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	want := "Hello Mangli.Store, I'd like to place an order:\n" +
		"-----------------------------------\n" +
		"Tomato - 2 kg x ₹40.00 = ₹80.00\n" +
		"Onion - 1 kg x ₹35.00 = ₹35.00\n" +
		"-----------------------------------\n" +
		"Subtotal: ₹115.00\n" +
		"Delivery: ₹20.00\n" +
		"*Total: ₹135.00*\n" +
		"\nThank you!"
	if result.Message != want {
		t.Fatalf("order message mismatch:\ngot:\n%s\nwant:\n%s", result.Message, want)
	}
	if result.AfterHours {
		t.Fatalf("daytime order must not be flagged after hours")
	}
	if !strings.HasPrefix(result.WhatsAppURL, "https://wa.me/911234567890?text=") {
		t.Fatalf("unexpected deep link: %s", result.WhatsAppURL)
	}
	if strings.ContainsAny(result.WhatsAppURL, " \n") {
		t.Fatalf("deep link must be fully escaped: %s", result.WhatsAppURL)
	}

	if got := len(svc.Items()); got != 0 {
		t.Fatalf("checkout must clear the cart, %d lines left", got)
	}
	lastOrder, err := repo.LoadLastOrder()
	if err != nil {
		t.Fatalf("load last order failed: %v", err)
	}
	if len(lastOrder) != 2 || lastOrder[0].Quantity != 2 {
		t.Fatalf("last order snapshot must hold the checked-out cart, got %+v", lastOrder)
	}
	if !svc.HasLastOrder() {
		t.Fatalf("HasLastOrder must report the saved snapshot")
	}
}

func TestCheckoutAfterHoursAddsNotice(t *testing.T) {
	svc, _ := newTestCart(t)
	svc.now = atHour(21)
	mustAdd(t, svc, tomato(), 1)

	result, err := svc.Checkout()
	if err != nil {
		t.Fatalf("after-hours checkout must succeed: %v", err)
	}
	if !result.AfterHours {
		t.Fatalf("after-hours order must be flagged")
	}
	if !strings.Contains(result.Message, afterHoursNotice) {
		t.Fatalf("message must carry the next-morning notice:\n%s", result.Message)
	}
	if !strings.HasSuffix(result.Message, "\n\nThank you!") {
		t.Fatalf("notice must come before the sign-off:\n%s", result.Message)
	}
}

func TestCheckoutBeforeHoursRejected(t *testing.T) {
	svc, _ := newTestCart(t)
	svc.now = atHour(7)
	mustAdd(t, svc, tomato(), 1)

	if _, err := svc.Checkout(); !errors.Is(err, ErrStoreClosed) {
		t.Fatalf("expected ErrStoreClosed before opening, got %v", err)
	}
	if got := len(svc.Items()); got != 1 {
		t.Fatalf("rejected checkout must leave the cart intact, got %d lines", got)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _ := newTestCart(t)
	svc.now = atHour(10)

	if _, err := svc.Checkout(); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestCheckoutEmptyCartBeforeHours(t *testing.T) {
	svc, _ := newTestCart(t)
	svc.now = atHour(7)

	// 空车判定先于营业窗口判定
	if _, err := svc.Checkout(); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("empty cart must win over the order-hours gate, got %v", err)
	}
}

func TestRepeatLastOrder(t *testing.T) {
	svc, _ := newTestCart(t)
	svc.now = atHour(10)

	// 没有历史订单：报错且购物车不变
	mustAdd(t, svc, onion(), 1)
	if _, err := svc.RepeatLastOrder(); !errors.Is(err, ErrNoLastOrder) {
		t.Fatalf("expected ErrNoLastOrder, got %v", err)
	}
	if got := svc.GetItemQuantity(onion().ID); got != 1 {
		t.Fatalf("failed repeat must not touch the cart, got quantity %d", got)
	}

	if err := svc.ClearCart(); err != nil {
		t.Fatalf("clear cart failed: %v", err)
	}
	mustAdd(t, svc, tomato(), 2)
	if _, err := svc.Checkout(); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// 复购整体替换当前购物车，而不是合并
	mustAdd(t, svc, onion(), 5)
	items, err := svc.RepeatLastOrder()
	if err != nil {
		t.Fatalf("repeat last order failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != tomato().ID || items[0].Quantity != 2 {
		t.Fatalf("repeat must restore the snapshot verbatim, got %+v", items)
	}
	if got := svc.GetItemQuantity(onion().ID); got != 0 {
		t.Fatalf("repeat must replace, not merge, onion quantity = %d", got)
	}
}

func TestCartPersistsAcrossInstances(t *testing.T) {
	repo := repository.NewCartRepository(newServiceKV(t))

	first := NewCartService(repo, testStoreConfig(), nil)
	if err := first.AddToCart(tomato()); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
	first.Close()

	second := NewCartService(repo, testStoreConfig(), nil)
	t.Cleanup(second.Close)
	if got := second.GetItemQuantity(tomato().ID); got != 1 {
		t.Fatalf("cart must survive a restart, got quantity %d", got)
	}
}

func TestCartCorruptStorageResetsEmpty(t *testing.T) {
	kv := newServiceKV(t)
	if err := kv.Put("mangli-cart", []byte("{not-json")); err != nil {
		t.Fatalf("put corrupt payload failed: %v", err)
	}

	repo := repository.NewCartRepository(kv)
	svc := NewCartService(repo, testStoreConfig(), nil)
	t.Cleanup(svc.Close)

	if got := len(svc.Items()); got != 0 {
		t.Fatalf("corrupt cart must reset to empty, got %d lines", got)
	}
	if items, err := repo.LoadCart(); err != nil || len(items) != 0 {
		t.Fatalf("reset must be written back, items=%v err=%v", items, err)
	}
}

func TestCartStorageChangeResyncs(t *testing.T) {
	kv := newServiceKV(t)
	fanout := notify.NewFanout()
	repo := repository.NewCartRepository(kv)

	first := NewCartService(repo, testStoreConfig(), fanout)
	t.Cleanup(first.Close)
	second := NewCartService(repo, testStoreConfig(), fanout)
	t.Cleanup(second.Close)

	if err := first.AddToCart(tomato()); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
	if got := second.GetItemQuantity(tomato().ID); got != 1 {
		t.Fatalf("second engine must observe the change, got quantity %d", got)
	}
}
