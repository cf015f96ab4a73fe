package service

import "errors"

// 业务哨兵错误，handler 层用 errors.Is 映射为响应码
var (
	// ErrNotFound 目标不存在
	ErrNotFound = errors.New("record not found")
	// ErrCategoryNameEmpty 分类名称为空
	ErrCategoryNameEmpty = errors.New("category name is empty")
	// ErrCategoryExists 分类名称已存在（不区分大小写）
	ErrCategoryExists = errors.New("category name already exists")
	// ErrCategoryReserved 保留分类（全部商品）不可停用
	ErrCategoryReserved = errors.New("category is reserved")
	// ErrInvalidUnit 商品计量单位不合法
	ErrInvalidUnit = errors.New("invalid product unit")
	// ErrCartEmpty 购物车为空，无法结算
	ErrCartEmpty = errors.New("cart is empty")
	// ErrStoreClosed 尚未到营业开始时间（区别于当日已打烊）
	ErrStoreClosed = errors.New("store has not opened yet")
	// ErrNoLastOrder 没有可重复下单的历史订单
	ErrNoLastOrder = errors.New("no previous order")
	// ErrInvalidCredentials 管理员用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid credentials")
)
