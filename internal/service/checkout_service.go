package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diecast-shop/internal/constants"
	"github.com/diecast-shop/internal/logger"
	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/payment/midtrans"
	"github.com/diecast-shop/internal/queue"
	"github.com/diecast-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// paidTransactionStatuses 确认下单接受的网关交易状态
var paidTransactionStatuses = map[string]bool{
	constants.PaymentStatusSettlement: true,
	constants.PaymentStatusCapture:    true,
	constants.PaymentStatusSuccess:    true,
}

// CheckoutInitiateResult 发起结算结果
type CheckoutInitiateResult struct {
	Token       string       `json:"token"`
	RedirectURL string       `json:"redirect_url"`
	PaymentRef  string       `json:"payment_ref"`
	GrossAmount models.Money `json:"gross_amount"`
}

// CheckoutService 结算编排：购物车 → 支付网关 → 订单。
type CheckoutService struct {
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	gateway     *midtrans.Client
	queueClient *queue.Client
}

// NewCheckoutService 创建结算服务（gateway 可为 nil，表示网关未配置）
func NewCheckoutService(cartRepo repository.CartRepository, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository, gateway *midtrans.Client, queueClient *queue.Client) *CheckoutService {
	return &CheckoutService{
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		queueClient: queueClient,
	}
}

// Initiate 发起结算：校验购物车与金额后向网关创建 Snap 交易。
// 不改动购物车与库存，仅换取收银台 token。
func (s *CheckoutService) Initiate(ctx context.Context, userID uint) (*CheckoutInitiateResult, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	gross, err := sumCartTotal(items)
	if err != nil {
		return nil, err
	}
	// Snap 的 gross_amount 为整数金额（IDR）
	if !gross.IsInteger() || gross.Sign() <= 0 {
		return nil, ErrAmountInvalid
	}
	if s.gateway == nil {
		return nil, ErrPaymentNotConfigured
	}

	paymentRef := fmt.Sprintf("%s-%d", constants.PaymentRefPrefix, time.Now().Unix())
	resp, err := s.gateway.CreateTransaction(ctx, midtrans.SnapRequest{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:     paymentRef,
			GrossAmount: gross.IntPart(),
		},
		CustomerDetails: &midtrans.CustomerDetails{
			FirstName: user.Name,
			Email:     user.Email,
		},
	})
	if err != nil {
		if errors.Is(err, midtrans.ErrConfigInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrPaymentNotConfigured, err)
		}
		logger.Warnw("checkout_gateway_request_failed", "user_id", userID, "payment_ref", paymentRef, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayRequestFailed, err)
	}

	return &CheckoutInitiateResult{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		PaymentRef:  paymentRef,
		GrossAmount: models.NewMoneyFromDecimal(gross),
	}, nil
}

// Confirm 支付确认后落单：校验交易状态白名单，单事务内按快照价建单并清空购物车。
// 购物车加入时已扣库存，确认只是把预占转移到订单上，不再动库存。
func (s *CheckoutService) Confirm(userID uint, transactionStatus, paymentRef string) (*models.Order, error) {
	status := strings.ToLower(strings.TrimSpace(transactionStatus))
	if !paidTransactionStatuses[status] {
		return nil, ErrPaymentNotConfirmed
	}

	var order *models.Order
	err := s.productRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		items, err := cartRepo.ListByUser(userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		now := time.Now()
		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			product := item.Product
			if product == nil || product.ID == 0 {
				p, err := productRepo.GetByID(item.ProductID)
				if err != nil {
					return err
				}
				product = p
			}
			if product == nil {
				// 商品已下架删除，跳过该行
				continue
			}
			total = total.Add(product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   item.ProductID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				Price:       product.Price,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
		if len(orderItems) == 0 {
			return ErrCartEmpty
		}

		order = &models.Order{
			OrderCode:  generateOrderCode(),
			UserID:     userID,
			Status:     constants.OrderStatusPending,
			TotalPrice: models.NewMoneyFromDecimal(total),
			PaymentRef: strings.TrimSpace(paymentRef),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := orderRepo.Create(order, orderItems); err != nil {
			return err
		}
		return cartRepo.ClearByUser(userID)
	})
	if err != nil {
		return nil, err
	}

	s.notifyOrderCreated(order)
	return order, nil
}

func (s *CheckoutService) notifyOrderCreated(order *models.Order) {
	if order == nil || s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusEmail(order.ID, order.Status); err != nil {
		logger.Warnw("checkout_order_email_enqueue_failed", "order_id", order.ID, "error", err)
	}
}

// sumCartTotal 计算购物车总额（空购物车返回 ErrCartEmpty）
func sumCartTotal(items []models.CartItem) (decimal.Decimal, error) {
	if len(items) == 0 {
		return decimal.Zero, ErrCartEmpty
	}
	total := decimal.Zero
	counted := 0
	for _, item := range items {
		if item.Product == nil || item.Product.ID == 0 {
			continue
		}
		total = total.Add(item.Product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
		counted++
	}
	if counted == 0 {
		return decimal.Zero, ErrCartEmpty
	}
	return total, nil
}
