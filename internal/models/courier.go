package models

import (
	"time"

	"gorm.io/gorm"
)

// Courier 配送方式表
type Courier struct {
	ID        uint           `gorm:"primarykey" json:"id"`                              // 主键
	Code      string         `gorm:"uniqueIndex;not null" json:"code"`                  // 配送编码（jne/sicepat 等）
	Name      string         `gorm:"not null" json:"name"`                              // 配送名称
	Cost      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cost"` // 配送费
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`               // 是否可用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                        // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间
}

// TableName 指定表名
func (Courier) TableName() string {
	return "couriers"
}
