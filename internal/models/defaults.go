package models

import (
	"fmt"

	"github.com/mangli-store/internal/constants"

	"github.com/shopspring/decimal"
)

func seedImage(seed string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/400/400", seed)
}

func seedPrice(amount int64) Money {
	return NewMoneyFromDecimal(decimal.NewFromInt(amount))
}

// DefaultCategories 内置分类。存储为空或损坏时以此为准
func DefaultCategories() []Category {
	return []Category{
		{ID: constants.CategoryAllID, Name: "All", Enabled: true},
		{ID: "vegetables", Name: "Vegetables", Enabled: true},
		{ID: "fruits", Name: "Fruits", Enabled: true},
		{ID: "dairy", Name: "Dairy & Eggs", Enabled: true},
		{ID: "bakery", Name: "Bakery", Enabled: false},
	}
}

// DefaultProducts 内置商品目录
func DefaultProducts() []Product {
	return []Product{
		{ID: "prod-1", Name: "Tomato", Price: seedPrice(40), Unit: constants.UnitKilogram, Category: "vegetables", Image: seedImage("tomato"), Enabled: true},
		{ID: "prod-2", Name: "Potato", Price: seedPrice(30), Unit: constants.UnitKilogram, Category: "vegetables", Image: seedImage("potato"), Enabled: true},
		{ID: "prod-3", Name: "Onion", Price: seedPrice(35), Unit: constants.UnitKilogram, Category: "vegetables", Image: seedImage("onion"), Enabled: true},
		{ID: "prod-4", Name: "Spinach", Price: seedPrice(20), Unit: constants.UnitBunch, Category: "vegetables", Image: seedImage("spinach"), Enabled: true},
		{ID: "prod-5", Name: "Apple", Price: seedPrice(120), Unit: constants.UnitKilogram, Category: "fruits", Image: seedImage("apple"), Enabled: true},
		{ID: "prod-6", Name: "Banana", Price: seedPrice(50), Unit: constants.UnitKilogram, Category: "fruits", Image: seedImage("banana"), Enabled: true},
		{ID: "prod-7", Name: "Milk", Price: seedPrice(28), Unit: constants.UnitPack, Category: "dairy", Image: seedImage("milk"), Enabled: true},
		{ID: "prod-8", Name: "Bread", Price: seedPrice(45), Unit: constants.UnitPack, Category: "bakery", Image: seedImage("bread"), Enabled: false},
		{ID: "prod-9", Name: "Eggs", Price: seedPrice(7), Unit: constants.UnitPiece, Category: "dairy", Image: seedImage("eggs"), Enabled: true},
		{ID: "prod-10", Name: "Carrot", Price: seedPrice(60), Unit: constants.UnitKilogram, Category: "vegetables", Image: seedImage("carrot"), Enabled: true},
		// 故意保留的坏图商品，给后台图片校验演示用
		{ID: "prod-11", Name: "Invalid Image Product", Price: seedPrice(99), Unit: constants.UnitPiece, Category: "vegetables", Image: "https://example.com/invalid-image.jpg", Enabled: true},
	}
}
