package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	ProductCode string         `gorm:"uniqueIndex;not null" json:"product_code"`           // 商品编号
	Name        string         `gorm:"not null;index" json:"name"`                         // 商品名称
	Description string         `gorm:"type:text" json:"description"`                       // 商品描述
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 售价
	CostPrice   *Money         `gorm:"type:decimal(20,2)" json:"cost_price,omitempty"`     // 进货价（用于利润统计，可为空）
	Stock       int            `gorm:"not null;default:0" json:"stock"`                    // 库存数量（唯一库存口径）
	Limited     bool           `gorm:"default:false;index" json:"limited"`                 // 是否限量款
	Image       string         `gorm:"default:''" json:"image"`                            // 图片路径
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                  // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
