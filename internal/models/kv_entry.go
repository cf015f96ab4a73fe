package models

// KVEntry 键值存储表。四个逻辑键各占一行，整表即“本地存储区”
type KVEntry struct {
	Key   string `gorm:"primarykey" json:"key"`  // 逻辑键
	Value []byte `gorm:"type:blob" json:"value"` // 序列化后的值
}

// TableName 指定表名
func (KVEntry) TableName() string {
	return "kv_entries"
}
