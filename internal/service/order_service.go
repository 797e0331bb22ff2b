package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/diecast-shop/internal/constants"
	"github.com/diecast-shop/internal/logger"
	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/queue"
	"github.com/diecast-shop/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务：状态机、取消握手与查询。
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		queueClient: queueClient,
	}
}

// GetOrderByUser 获取用户订单详情
func (s *OrderService) GetOrderByUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	order.Status = normalizeOrderStatus(order.Status)
	return order, nil
}

// ListOrdersByUser 获取用户订单列表
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.ListByUser(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	for i := range orders {
		orders[i].Status = normalizeOrderStatus(orders[i].Status)
	}
	return orders, total, nil
}

// ListOrdersForAdmin 管理端订单列表（含聚合字段）
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]repository.AdminOrderRow, int64, error) {
	rows, total, err := s.orderRepo.ListAdmin(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	for i := range rows {
		rows[i].Status = normalizeOrderStatus(rows[i].Status)
	}
	return rows, total, nil
}

// ListOrderItemsForAdmin 管理端订单项明细
func (s *OrderService) ListOrderItemsForAdmin(orderID uint) ([]models.OrderItem, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	items, err := s.orderRepo.ListItems(orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	return items, nil
}

// RequestCancelByUser 用户发起取消申请（仅 pending，且对向无在途申请）
func (s *OrderService) RequestCancelByUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.GetOrderByUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	return s.requestCancel(order, constants.CancelActorUser)
}

// RequestCancelByAdmin 管理员发起取消申请（需用户确认）
func (s *OrderService) RequestCancelByAdmin(orderID uint) (*models.Order, error) {
	order, err := s.getOrderForAdmin(orderID)
	if err != nil {
		return nil, err
	}
	return s.requestCancel(order, constants.CancelActorAdmin)
}

func (s *OrderService) requestCancel(order *models.Order, actor string) (*models.Order, error) {
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderTransitionInvalid
	}
	// 任何在途申请（含同方重复申请）都视为冲突
	if order.CancelRequestedBy != nil && *order.CancelRequestedBy != "" {
		return nil, ErrCancelAlreadyRequested
	}
	now := time.Now()
	// 条件更新兜底并发：读后有人抢先登记或迁移了状态时命中 0 行
	rows, err := s.orderRepo.MarkCancelRequested(order.ID, actor, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}
	if rows == 0 {
		return nil, ErrCancelAlreadyRequested
	}
	order.CancelRequestedBy = &actor
	order.CancelApproved = false
	order.UpdatedAt = now
	return order, nil
}

// AcceptCancelByUser 用户同意管理员的取消申请，订单取消并回补库存
func (s *OrderService) AcceptCancelByUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.GetOrderByUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	return s.acceptCancel(order, constants.CancelActorAdmin)
}

// AcceptCancelByAdmin 管理员同意用户的取消申请，订单取消并回补库存
func (s *OrderService) AcceptCancelByAdmin(orderID uint) (*models.Order, error) {
	order, err := s.getOrderForAdmin(orderID)
	if err != nil {
		return nil, err
	}
	return s.acceptCancel(order, constants.CancelActorUser)
}

func (s *OrderService) acceptCancel(order *models.Order, requestedBy string) (*models.Order, error) {
	if order.Status != constants.OrderStatusPending ||
		order.CancelRequestedBy == nil || *order.CancelRequestedBy != requestedBy {
		return nil, ErrCancelNotRequested
	}
	return s.cancelOrder(order)
}

// ConfirmDone 用户确认收货（仅 shipping → done）
func (s *OrderService) ConfirmDone(orderID, userID uint) (*models.Order, error) {
	order, err := s.GetOrderByUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusShipping {
		return nil, ErrOrderTransitionInvalid
	}
	now := time.Now()
	rows, err := s.orderRepo.UpdateStatusFrom(order.ID, constants.OrderStatusShipping, constants.OrderStatusDone, map[string]interface{}{
		"updated_at": now,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}
	if rows == 0 {
		return nil, ErrOrderTransitionInvalid
	}
	order.Status = constants.OrderStatusDone
	order.UpdatedAt = now
	s.notifyStatusChanged(order.ID, order.Status)
	return order, nil
}

// UpdateStatusByAdmin 管理员修改订单状态。
// 直接置为 cancelled 仅在用户已发起取消申请时允许，否则要求走申请/确认握手。
func (s *OrderService) UpdateStatusByAdmin(orderID uint, targetStatus string) (*models.Order, error) {
	targetStatus = normalizeOrderStatus(targetStatus)
	if !isKnownOrderStatus(targetStatus) {
		return nil, ErrOrderTransitionInvalid
	}
	order, err := s.getOrderForAdmin(orderID)
	if err != nil {
		return nil, err
	}
	if targetStatus == constants.OrderStatusCancelled {
		if order.CancelRequestedBy == nil || *order.CancelRequestedBy != constants.CancelActorUser {
			return nil, ErrCancelNeedsHandshake
		}
		return s.cancelOrder(order)
	}
	if !isTransitionAllowed(order.Status, targetStatus) {
		return nil, ErrOrderTransitionInvalid
	}
	now := time.Now()
	rows, err := s.orderRepo.UpdateStatusFrom(order.ID, order.Status, targetStatus, map[string]interface{}{
		"updated_at": now,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}
	if rows == 0 {
		return nil, ErrOrderTransitionInvalid
	}
	order.Status = targetStatus
	order.UpdatedAt = now
	s.notifyStatusChanged(order.ID, order.Status)
	return order, nil
}

// cancelOrder 取消订单：回补每个订单项的库存并落终态，单事务完成。
// 先用条件更新抢占 pending → cancelled 的迁移，命中 0 行说明并发方已处理，
// 直接放弃，保证回补只执行一次。商品行已被删除时跳过该项回补。
func (s *OrderService) cancelOrder(order *models.Order) (*models.Order, error) {
	items := order.Items
	if len(items) == 0 {
		loaded, err := s.orderRepo.ListItems(order.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
		}
		items = loaded
	}
	now := time.Now()
	err := s.productRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		rows, err := orderRepo.UpdateStatusFrom(order.ID, constants.OrderStatusPending, constants.OrderStatusCancelled, map[string]interface{}{
			"cancel_approved": true,
			"updated_at":      now,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrOrderTransitionInvalid
		}
		for _, item := range items {
			if item.ProductID == 0 || item.Quantity <= 0 {
				continue
			}
			product, err := productRepo.GetForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				continue
			}
			if err := productRepo.AdjustStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderTransitionInvalid) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}
	order.Status = constants.OrderStatusCancelled
	order.CancelApproved = true
	order.UpdatedAt = now
	s.notifyStatusChanged(order.ID, order.Status)
	return order, nil
}

func (s *OrderService) getOrderForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	order.Status = normalizeOrderStatus(order.Status)
	return order, nil
}

func (s *OrderService) notifyStatusChanged(orderID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusEmail(orderID, status); err != nil {
		logger.Warnw("order_status_email_enqueue_failed", "order_id", orderID, "status", status, "error", err)
	}
}

// generateOrderCode 生成订单编号：ORD-YYYYMMDDHHMMSS-NNNN
func generateOrderCode() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s-%s-%d", constants.OrderCodePrefix, now, randInRange(1000, 9999))
}

func randInRange(min, max int64) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return min
	}
	return min + n.Int64()
}
