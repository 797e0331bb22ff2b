package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                     // 主键
	OrderCode         string         `gorm:"uniqueIndex;not null" json:"order_code"`                   // 订单编号
	UserID            uint           `gorm:"index;not null" json:"user_id"`                            // 用户ID
	Status            string         `gorm:"index;not null" json:"status"`                             // 订单状态（pending/shipping/done/cancelled）
	TotalPrice        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 订单总额
	PaymentRef        string         `gorm:"index" json:"payment_ref,omitempty"`                       // 支付网关订单号
	CancelRequestedBy *string        `gorm:"type:varchar(20);index" json:"cancel_requested_by"`        // 取消申请发起方（user/admin，空表示无申请）
	CancelApproved    bool           `gorm:"default:false" json:"cancel_approved"`                     // 取消是否已获对方确认
	CourierID         *uint          `gorm:"index" json:"courier_id,omitempty"`                        // 配送方式ID
	AddressID         *uint          `gorm:"index" json:"address_id,omitempty"`                        // 收货地址ID
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`   // 下单用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
