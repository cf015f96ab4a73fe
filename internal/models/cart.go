package models

import "github.com/shopspring/decimal"

// CartItem 购物车行。加入购物车时对商品做快照，之后商品被
// 修改或下架不影响已有购物车行
type CartItem struct {
	ProductID string `json:"id"`       // 商品 ID（购物车内唯一）
	Name      string `json:"name"`     // 加入时的商品名
	Price     Money  `json:"price"`    // 加入时的单价
	Unit      string `json:"unit"`     // 加入时的计量单位
	Image     string `json:"image"`    // 加入时的图片地址
	Quantity  int    `json:"quantity"` // 数量，恒 >= 1
}

// LineTotal 行小计 = 单价 × 数量
func (item CartItem) LineTotal() Money {
	return NewMoneyFromDecimal(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
}

// SnapshotCartItem 从商品创建数量为 1 的购物车行
func SnapshotCartItem(product Product) CartItem {
	return CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Unit:      product.Unit,
		Image:     product.Image,
		Quantity:  1,
	}
}
