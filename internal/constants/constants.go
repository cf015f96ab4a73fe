package constants

// 键值存储使用的逻辑键名，各端共享
const (
	StorageKeyProducts    = "mangli-products"
	StorageKeyCategories  = "mangli-categories"
	StorageKeyCart        = "mangli-cart"
	StorageKeyLastOrder   = "mangli-last-order"
	StorageKeyImageChecks = "mangli-image-checks"
)

// 商品计量单位常量
const (
	UnitKilogram = "kg"
	UnitGram     = "g"
	UnitPiece    = "pc"
	UnitBunch    = "bunch"
	UnitPack     = "pack"
)

// 分类常量
const (
	// CategoryAllID 保留分类，表示“全部商品”
	CategoryAllID = "all"
)

// 队列常量
const (
	QueueDefault = "default"

	// TaskImageCheck 商品图片地址批量校验任务
	TaskImageCheck = "catalog:image_check"
)
