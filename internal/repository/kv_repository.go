package repository

import (
	"errors"

	"github.com/mangli-store/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVRepository 键值存储访问接口。键不存在时 Get 返回 (nil, nil)
type KVRepository interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// GormKVRepository GORM 实现（sqlite / postgres）
type GormKVRepository struct {
	db *gorm.DB
}

// NewKVRepository 创建键值仓库
func NewKVRepository(db *gorm.DB) *GormKVRepository {
	return &GormKVRepository{db: db}
}

// Get 读取键值
func (r *GormKVRepository) Get(key string) ([]byte, error) {
	var entry models.KVEntry
	if err := r.db.Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entry.Value, nil
}

// Put 写入键值
func (r *GormKVRepository) Put(key string, value []byte) error {
	entry := models.KVEntry{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entry).Error
}

// Delete 删除键
func (r *GormKVRepository) Delete(key string) error {
	return r.db.Where("key = ?", key).Delete(&models.KVEntry{}).Error
}
