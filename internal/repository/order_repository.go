package repository

import (
	"errors"
	"time"

	"github.com/diecast-shop/internal/models"

	"gorm.io/gorm"
)

// AdminOrderRow 管理端订单列表行（含聚合字段）
type AdminOrderRow struct {
	ID                uint         `json:"id"`
	OrderCode         string       `json:"order_code"`
	UserName          string       `json:"user_name"`
	TotalItems        int          `json:"total_items"`
	TotalPrice        models.Money `json:"total_price"`
	Status            string       `json:"status"`
	CancelRequestedBy *string      `json:"cancel_requested_by"`
	CancelApproved    bool         `json:"cancel_approved"`
	CreatedAt         time.Time    `json:"created_at"`
}

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndUser(id, userID uint) (*models.Order, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]AdminOrderRow, int64, error)
	ListItems(orderID uint) ([]models.OrderItem, error)
	UpdateStatusFrom(id uint, fromStatus, status string, updates map[string]interface{}) (int64, error)
	MarkCancelRequested(id uint, actor string, now time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDAndUser 获取用户订单详情（归属校验）
func (r *GormOrderRepository) GetByIDAndUser(id, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByUser 获取用户订单列表
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("user_id = ?", filter.UserID)

	if filter.Status != "" {
		// 旧数据中的 history 等同于 cancelled
		if filter.Status == "cancelled" {
			query = query.Where("status IN ?", []string{"cancelled", "history"})
		} else {
			query = query.Where("status = ?", filter.Status)
		}
	}
	if filter.OrderCode != "" {
		query = query.Where("order_code LIKE ?", "%"+filter.OrderCode+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var orders []models.Order
	if err := query.Preload("Items").Preload("Items.Product").Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListAdmin 管理端订单列表（含下单人与条目聚合）
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]AdminOrderRow, int64, error) {
	base := r.db.Model(&models.Order{})
	if filter.UserID != 0 {
		base = base.Where("orders.user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		base = base.Where("orders.status = ?", filter.Status)
	}
	if filter.OrderCode != "" {
		base = base.Where("orders.order_code = ?", filter.OrderCode)
	}
	if filter.CreatedFrom != nil {
		base = base.Where("orders.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		base = base.Where("orders.created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Session(&gorm.Session{}).
		Select("orders.id", "orders.order_code", "users.name as user_name",
			"COALESCE(SUM(order_items.quantity), 0) as total_items",
			"orders.total_price", "orders.status",
			"orders.cancel_requested_by", "orders.cancel_approved", "orders.created_at").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id AND order_items.deleted_at IS NULL").
		Group("orders.id, orders.order_code, users.name, orders.total_price, orders.status, orders.cancel_requested_by, orders.cancel_approved, orders.created_at").
		Order("orders.created_at desc")

	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []AdminOrderRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListItems 获取订单项（含商品信息）
func (r *GormOrderRepository) ListItems(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.Preload("Product").Where("order_id = ?", orderID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatusFrom 条件更新订单状态：仅当前状态仍为 fromStatus 时生效，返回命中的行数。
// 调用方据此判断是否有并发方已抢先迁移过状态。
func (r *GormOrderRepository) UpdateStatusFrom(id uint, fromStatus, status string, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// MarkCancelRequested 登记取消申请：仅在 pending 且无在途申请时写入，返回命中的行数
func (r *GormOrderRepository) MarkCancelRequested(id uint, actor string, now time.Time) (int64, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND (cancel_requested_by IS NULL OR cancel_requested_by = '')", id, "pending").
		Updates(map[string]interface{}{
			"cancel_requested_by": actor,
			"cancel_approved":     false,
			"updated_at":          now,
		})
	return result.RowsAffected, result.Error
}
