package models

import (
	"time"
)

// KVRecord 键值记录
// 存储服务的唯一表：整值读写，后写覆盖先写
// UpdatedAt 用于维护清理（长期无人touch的废弃对局记录）
type KVRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Key   string `gorm:"uniqueIndex:idx_kv_records_key;size:128;not null" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}

// TableName 指定表名
func (KVRecord) TableName() string {
	return "kv_records"
}
