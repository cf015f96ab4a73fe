package public_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/mangli-store/internal/config"
	"github.com/mangli-store/internal/logger"
	"github.com/mangli-store/internal/models"
	"github.com/mangli-store/internal/notify"
	"github.com/mangli-store/internal/provider"
	"github.com/mangli-store/internal/repository"
	"github.com/mangli-store/internal/router"
	"github.com/mangli-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// newTestServer 组装一套指向内存存储的完整路由。
// 营业窗口设为全天，结算相关用例不受真实时钟影响
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		Log:    config.LogConfig{Dir: t.TempDir()},
		JWT:    config.JWTConfig{SecretKey: "public-handler-test-secret", ExpireHours: 1},
		Admin:  config.AdminConfig{Username: "admin", Password: "admin"},
		Store: config.StoreConfig{
			Name:                  "Mangli.Store",
			WhatsAppNumber:        "911234567890",
			Currency:              "₹",
			OrderStartHour:        0,
			OrderEndHour:          24,
			DeliveryCharge:        20,
			FreeDeliveryThreshold: 500,
		},
	}
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		t.Fatalf("auto migrate kv entries failed: %v", err)
	}
	kv := repository.NewKVRepository(db)
	fanout := notify.NewFanout()

	catalog := service.NewCatalogService(repository.NewCatalogRepository(kv), fanout)
	t.Cleanup(catalog.Close)
	cart := service.NewCartService(repository.NewCartRepository(kv), cfg.Store, fanout)
	t.Cleanup(cart.Close)

	container := &provider.Container{
		Config:            cfg,
		Notifier:          fanout,
		KVRepo:            kv,
		CatalogService:    catalog,
		CartService:       cart,
		AuthService:       service.NewAuthService(cfg),
		ImageCheckService: service.NewImageCheckService(kv),
	}
	return router.SetupRouter(cfg, container)
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, token string) envelope {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status %d", method, path, w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: unmarshal response failed: %v", method, path, err)
	}
	return resp
}

func TestPublicConfig(t *testing.T) {
	r := newTestServer(t)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/public/config", "", "")
	if resp.StatusCode != 0 {
		t.Fatalf("config fetch failed: %s", resp.Msg)
	}
	var data struct {
		StoreName   string `json:"store_name"`
		Currency    string `json:"currency"`
		OrderWindow string `json:"order_window"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unmarshal config failed: %v", err)
	}
	if data.StoreName != "Mangli.Store" || data.Currency != "₹" {
		t.Fatalf("unexpected store config: %+v", data)
	}
	if data.OrderWindow != "open" {
		t.Fatalf("all-day window must be open, got %s", data.OrderWindow)
	}
}

func TestPublicProductsHideDisabled(t *testing.T) {
	r := newTestServer(t)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/public/products", "", "")
	var data struct {
		Products []models.Product `json:"products"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unmarshal products failed: %v", err)
	}
	if len(data.Products) == 0 {
		t.Fatalf("seed catalog must not be empty")
	}
	for _, p := range data.Products {
		if !p.Enabled {
			t.Fatalf("storefront must not list disabled product %s", p.ID)
		}
	}
	sorted := sort.SliceIsSorted(data.Products, func(i, j int) bool {
		return data.Products[i].Name < data.Products[j].Name
	})
	if !sorted {
		t.Fatalf("storefront products must be sorted by name")
	}
}

func TestAddCartItemWithQuantity(t *testing.T) {
	r := newTestServer(t)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", `{"product_id":"prod-1","quantity":5}`, "")
	if resp.StatusCode != 0 {
		t.Fatalf("add with quantity failed: %s", resp.Msg)
	}
	var cartData struct {
		Items []models.CartItem `json:"items"`
	}
	if err := json.Unmarshal(resp.Data, &cartData); err != nil {
		t.Fatalf("unmarshal cart failed: %v", err)
	}
	if len(cartData.Items) != 1 || cartData.Items[0].Quantity != 5 {
		t.Fatalf("quantity must be set absolutely on add, got %+v", cartData.Items)
	}
}

func TestCartAndCheckoutFlow(t *testing.T) {
	r := newTestServer(t)

	// 加购两份 Tomato 与一份 Onion
	doJSON(t, r, http.MethodPost, "/api/v1/cart/items", `{"product_id":"prod-1"}`, "")
	doJSON(t, r, http.MethodPost, "/api/v1/cart/items", `{"product_id":"prod-1"}`, "")
	resp := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", `{"product_id":"prod-3"}`, "")

	var cartData struct {
		Items  []models.CartItem `json:"items"`
		Totals struct {
			Subtotal   string `json:"subtotal"`
			Delivery   string `json:"delivery_charge"`
			Total      string `json:"total"`
			TotalItems int    `json:"total_items"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(resp.Data, &cartData); err != nil {
		t.Fatalf("unmarshal cart failed: %v", err)
	}
	if len(cartData.Items) != 2 || cartData.Totals.TotalItems != 3 {
		t.Fatalf("unexpected cart state: %+v", cartData)
	}
	if cartData.Totals.Subtotal != "115.00" || cartData.Totals.Total != "135.00" {
		t.Fatalf("unexpected totals: %+v", cartData.Totals)
	}

	// 结算
	resp = doJSON(t, r, http.MethodPost, "/api/v1/checkout", "", "")
	if resp.StatusCode != 0 {
		t.Fatalf("checkout failed: %s", resp.Msg)
	}
	var checkout struct {
		WhatsAppURL string `json:"whatsapp_url"`
		Message     string `json:"message"`
		AfterHours  bool   `json:"after_hours"`
	}
	if err := json.Unmarshal(resp.Data, &checkout); err != nil {
		t.Fatalf("unmarshal checkout failed: %v", err)
	}
	if !strings.HasPrefix(checkout.WhatsAppURL, "https://wa.me/911234567890?text=") {
		t.Fatalf("unexpected deep link: %s", checkout.WhatsAppURL)
	}
	if !strings.Contains(checkout.Message, "Subtotal: ₹115.00") {
		t.Fatalf("unexpected order message:\n%s", checkout.Message)
	}

	// 结算后购物车清空，最近订单可复购
	resp = doJSON(t, r, http.MethodGet, "/api/v1/cart", "", "")
	if err := json.Unmarshal(resp.Data, &cartData); err != nil {
		t.Fatalf("unmarshal cart failed: %v", err)
	}
	if len(cartData.Items) != 0 {
		t.Fatalf("cart must be empty after checkout, got %+v", cartData.Items)
	}

	resp = doJSON(t, r, http.MethodGet, "/api/v1/cart/last-order", "", "")
	var lastOrder struct {
		Exists bool `json:"exists"`
	}
	if err := json.Unmarshal(resp.Data, &lastOrder); err != nil {
		t.Fatalf("unmarshal last order failed: %v", err)
	}
	if !lastOrder.Exists {
		t.Fatalf("last order must exist after checkout")
	}

	resp = doJSON(t, r, http.MethodPost, "/api/v1/cart/repeat", "", "")
	if err := json.Unmarshal(resp.Data, &cartData); err != nil {
		t.Fatalf("unmarshal cart failed: %v", err)
	}
	if cartData.Totals.TotalItems != 3 {
		t.Fatalf("repeat must restore the snapshot, got %+v", cartData.Totals)
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	r := newTestServer(t)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/checkout", "", "")
	if resp.StatusCode != 400 {
		t.Fatalf("empty cart checkout must fail with 400, got %d (%s)", resp.StatusCode, resp.Msg)
	}
}

func TestAdminFlow(t *testing.T) {
	r := newTestServer(t)

	// 未带 token 的管理端请求被拒绝
	resp := doJSON(t, r, http.MethodGet, "/api/v1/admin/products", "", "")
	if resp.StatusCode != 401 {
		t.Fatalf("unauthenticated admin request must fail with 401, got %d", resp.StatusCode)
	}

	resp = doJSON(t, r, http.MethodPost, "/api/v1/admin/login", `{"username":"admin","password":"admin"}`, "")
	if resp.StatusCode != 0 {
		t.Fatalf("login failed: %s", resp.Msg)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &login); err != nil {
		t.Fatalf("unmarshal login failed: %v", err)
	}
	if login.Token == "" {
		t.Fatalf("expected a session token")
	}

	// 新增商品后店面立即可见
	body := `{"name":"Ginger","price":"90","unit":"kg","category":"vegetables","image":"https://example.com/ginger.jpg"}`
	resp = doJSON(t, r, http.MethodPost, "/api/v1/admin/products", body, login.Token)
	if resp.StatusCode != 0 {
		t.Fatalf("create product failed: %s", resp.Msg)
	}
	var created models.Product
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("unmarshal product failed: %v", err)
	}
	if created.ID == "" || !created.Enabled {
		t.Fatalf("unexpected created product: %+v", created)
	}

	resp = doJSON(t, r, http.MethodGet, "/api/v1/public/products", "", "")
	var data struct {
		Products []models.Product `json:"products"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unmarshal products failed: %v", err)
	}
	found := false
	for _, p := range data.Products {
		if p.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("new product must appear on the storefront")
	}

	// 下架后从店面消失
	resp = doJSON(t, r, http.MethodPost, "/api/v1/admin/products/"+created.ID+"/toggle", "", login.Token)
	if resp.StatusCode != 0 {
		t.Fatalf("toggle product failed: %s", resp.Msg)
	}
	resp = doJSON(t, r, http.MethodGet, "/api/v1/public/products", "", "")
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unmarshal products failed: %v", err)
	}
	for _, p := range data.Products {
		if p.ID == created.ID {
			t.Fatalf("disabled product must be hidden from the storefront")
		}
	}
}
