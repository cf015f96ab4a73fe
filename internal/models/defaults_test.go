package models

import (
	"strings"
	"testing"

	"github.com/mangli-store/internal/constants"
)

func TestDefaultCatalogShape(t *testing.T) {
	if got := len(DefaultCategories()); got != 5 {
		t.Fatalf("expected 5 seed categories, got %d", got)
	}
	if got := len(DefaultProducts()); got != 11 {
		t.Fatalf("expected 11 seed products, got %d", got)
	}
}

func TestDefaultProductsIncludeImageCheckDemo(t *testing.T) {
	var demo *Product
	products := DefaultProducts()
	for i := range products {
		if products[i].ID == "prod-11" {
			demo = &products[i]
			break
		}
	}
	if demo == nil {
		t.Fatalf("prod-11 missing from the seed catalog")
	}
	if demo.Name != "Invalid Image Product" || !demo.Enabled {
		t.Fatalf("unexpected demo product: %+v", demo)
	}
	if demo.Unit != constants.UnitPiece || demo.Category != "vegetables" {
		t.Fatalf("unexpected demo product unit/category: %+v", demo)
	}
	if demo.Price.StringFixed(2) != "99.00" {
		t.Fatalf("expected price 99.00, got %s", demo.Price.StringFixed(2))
	}
	// 坏图商品不能指向占位图库，否则图片校验演示不出失败样例
	if strings.Contains(demo.Image, "picsum.photos") {
		t.Fatalf("demo product must keep a broken image URL, got %s", demo.Image)
	}
}
