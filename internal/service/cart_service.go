package service

import (
	"time"

	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/repository"

	"gorm.io/gorm"
)

// CartItemDetail 购物车项详情（用于响应）
type CartItemDetail struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice models.Money    `json:"unit_price"`
	Subtotal  models.Money    `json:"subtotal"`
	Product   *models.Product `json:"product"`
}

// CartService 购物车服务。
// 所有改变数量的操作都在单个事务内完成：先锁商品行、再动库存、最后写购物车，
// 一次仅持有一个商品行锁。
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ListByUser 获取用户购物车
func (s *CartService) ListByUser(userID uint) ([]CartItemDetail, error) {
	if userID == 0 {
		return nil, ErrCartItemNotFound
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	details := make([]CartItemDetail, 0, len(items))
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			// 商品已被删除，购物车行保留但不参与结算展示
			continue
		}
		details = append(details, CartItemDetail{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Subtotal:  product.Price.MulInt(item.Quantity),
			Product:   product,
		})
	}
	return details, nil
}

// AddItem 加入购物车并预占库存。
// 库存为 0 返回 ErrProductOutOfStock；不足则返回携带余量的 StockShortageError。
func (s *CartService) AddItem(userID, productID uint, quantity int) error {
	if userID == 0 || productID == 0 {
		return ErrProductNotFound
	}
	if quantity <= 0 {
		return ErrQuantityInvalid
	}
	return s.productRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		if !product.IsActive {
			return ErrProductNotAvailable
		}
		if product.Stock == 0 {
			return ErrProductOutOfStock
		}
		if product.Stock < quantity {
			return &StockShortageError{ProductID: productID, Requested: quantity, Available: product.Stock}
		}
		if err := productRepo.AdjustStock(productID, -quantity); err != nil {
			return err
		}

		existing, err := cartRepo.GetByUserAndProduct(userID, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			return cartRepo.UpdateQuantity(existing.ID, existing.Quantity+quantity)
		}
		now := time.Now()
		return cartRepo.Create(&models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
}

// SetItemQuantity 修改购物车项数量。
// 按差量调库存：调大预占差量，调小释放差量，相等不动库存。
func (s *CartService) SetItemQuantity(userID, cartItemID uint, quantity int) error {
	if userID == 0 || cartItemID == 0 {
		return ErrCartItemNotFound
	}
	if quantity <= 0 {
		return ErrQuantityInvalid
	}
	return s.productRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		item, err := cartRepo.GetByIDAndUser(cartItemID, userID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}

		delta := quantity - item.Quantity
		if delta == 0 {
			return nil
		}

		product, err := productRepo.GetForUpdate(item.ProductID)
		if err != nil {
			return err
		}
		if delta > 0 {
			if product == nil {
				return ErrProductNotFound
			}
			if product.Stock == 0 {
				return ErrProductOutOfStock
			}
			if product.Stock < delta {
				return &StockShortageError{ProductID: item.ProductID, Requested: delta, Available: product.Stock}
			}
			if err := productRepo.AdjustStock(item.ProductID, -delta); err != nil {
				return err
			}
		} else if product != nil {
			// 商品行已不存在时跳过回补
			if err := productRepo.AdjustStock(item.ProductID, -delta); err != nil {
				return err
			}
		}

		return cartRepo.UpdateQuantity(item.ID, quantity)
	})
}

// RemoveItem 删除购物车项并回补库存（商品已被删除时跳过回补）
func (s *CartService) RemoveItem(userID, cartItemID uint) error {
	if userID == 0 || cartItemID == 0 {
		return ErrCartItemNotFound
	}
	return s.productRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		item, err := cartRepo.GetByIDAndUser(cartItemID, userID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}

		product, err := productRepo.GetForUpdate(item.ProductID)
		if err != nil {
			return err
		}
		if product != nil {
			if err := productRepo.AdjustStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return cartRepo.Delete(item.ID)
	})
}
