package models

import (
	"time"

	"gorm.io/gorm"
)

// Address 收货地址表（每个用户至多一条主地址）
type Address struct {
	ID         uint           `gorm:"primarykey" json:"id"`           // 主键
	UserID     uint           `gorm:"index;not null" json:"user_id"`  // 用户ID
	Label      string         `gorm:"default:''" json:"label"`        // 标签（家/公司等）
	Recipient  string         `gorm:"not null" json:"recipient"`      // 收件人姓名
	Phone      string         `gorm:"not null" json:"phone"`          // 联系电话
	Street     string         `gorm:"not null" json:"street"`         // 街道详细地址
	City       string         `gorm:"not null" json:"city"`           // 城市
	Province   string         `gorm:"default:''" json:"province"`     // 省份
	PostalCode string         `gorm:"default:''" json:"postal_code"`  // 邮编
	IsPrimary  bool           `gorm:"default:false" json:"is_primary"` // 是否主地址
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`        // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                     // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                 // 软删除时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}
