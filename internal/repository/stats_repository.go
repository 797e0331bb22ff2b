package repository

import (
	"github.com/diecast-shop/internal/constants"
	"github.com/diecast-shop/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatsSummary 管理端看板统计结果
type StatsSummary struct {
	TotalProducts int64        `json:"total_products"`
	TotalUsers    int64        `json:"total_users"`
	TotalLimited  int64        `json:"total_limited"`
	TotalStock    int64        `json:"total_stock"`
	TotalProfit   models.Money `json:"total_profit"`
	TotalCapital  models.Money `json:"total_capital"`
}

// StatsRepository 看板统计数据访问接口
type StatsRepository interface {
	Summary() (*StatsSummary, error)
}

// GormStatsRepository GORM 实现
type GormStatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository 创建统计仓库
func NewStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

// Summary 聚合看板统计：商品/用户总数、限量款数、库存总量、已完成订单利润与商品进货成本。
func (r *GormStatsRepository) Summary() (*StatsSummary, error) {
	summary := &StatsSummary{}

	if err := r.db.Model(&models.Product{}).Count(&summary.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.User{}).Count(&summary.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Product{}).Where("limited = ?", true).Count(&summary.TotalLimited).Error; err != nil {
		return nil, err
	}

	var stockRow struct {
		Total int64
	}
	if err := r.db.Model(&models.Product{}).
		Select("COALESCE(SUM(stock), 0) as total").
		Scan(&stockRow).Error; err != nil {
		return nil, err
	}
	summary.TotalStock = stockRow.Total

	// 利润 = Σ 数量 ×（快照售价 − 进货价），仅统计已完成订单，进货价为空按 0 计
	var profitRow struct {
		Total decimal.Decimal
	}
	if err := r.db.Table("order_items").
		Select("COALESCE(SUM(order_items.quantity * (order_items.price - COALESCE(products.cost_price, 0))), 0) as total").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.status = ?", constants.OrderStatusDone).
		Where("order_items.deleted_at IS NULL AND orders.deleted_at IS NULL").
		Scan(&profitRow).Error; err != nil {
		return nil, err
	}
	summary.TotalProfit = models.NewMoneyFromDecimal(profitRow.Total)

	var capitalRow struct {
		Total decimal.Decimal
	}
	if err := r.db.Model(&models.Product{}).
		Select("COALESCE(SUM(cost_price), 0) as total").
		Where("cost_price IS NOT NULL").
		Scan(&capitalRow).Error; err != nil {
		return nil, err
	}
	summary.TotalCapital = models.NewMoneyFromDecimal(capitalRow.Total)

	return summary, nil
}
