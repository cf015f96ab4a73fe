package models

import (
	"github.com/mangli-store/internal/constants"
)

// Product 商品。字段与持久化 JSON 一一对应
type Product struct {
	ID       string `json:"id"`       // 唯一标识（prod-<毫秒时间戳>）
	Name     string `json:"name"`     // 商品名称
	Price    Money  `json:"price"`    // 单价
	Unit     string `json:"unit"`     // 计量单位（kg/g/pc/bunch/pack）
	Category string `json:"category"` // 所属分类 ID
	Image    string `json:"image"`    // 图片地址
	Enabled  bool   `json:"enabled"`  // 是否上架
}

// Category 商品分类
type Category struct {
	ID      string `json:"id"`      // 唯一标识（小写、空白转连字符）
	Name    string `json:"name"`    // 显示名称（不区分大小写唯一）
	Enabled bool   `json:"enabled"` // 是否可见
}

// IsReserved 判断是否为保留的“全部商品”分类
func (c Category) IsReserved() bool {
	return c.ID == constants.CategoryAllID
}

// ValidUnit 判断计量单位是否合法
func ValidUnit(unit string) bool {
	switch unit {
	case constants.UnitKilogram, constants.UnitGram, constants.UnitPiece,
		constants.UnitBunch, constants.UnitPack:
		return true
	}
	return false
}

// ProductPatch 商品部分更新。nil 字段表示保持原值，ID 不可改
type ProductPatch struct {
	Name     *string `json:"name,omitempty"`
	Price    *Money  `json:"price,omitempty"`
	Unit     *string `json:"unit,omitempty"`
	Category *string `json:"category,omitempty"`
	Image    *string `json:"image,omitempty"`
	Enabled  *bool   `json:"enabled,omitempty"`
}

// Apply 将补丁合并到商品上
func (p ProductPatch) Apply(product *Product) {
	if product == nil {
		return
	}
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Unit != nil {
		product.Unit = *p.Unit
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Image != nil {
		product.Image = *p.Image
	}
	if p.Enabled != nil {
		product.Enabled = *p.Enabled
	}
}
