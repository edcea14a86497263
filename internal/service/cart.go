package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/cakeshop/internal/model"
	"github.com/d60-Lab/cakeshop/internal/repository"
	"github.com/d60-Lab/cakeshop/pkg/logger"
)

// CartService 购物车行校验 + 会话购物车维护
type CartService struct {
	products repository.ProductRepository
	carts    repository.CartRepository
	ledger   *InventoryLedger
}

func NewCartService(products repository.ProductRepository, carts repository.CartRepository, ledger *InventoryLedger) *CartService {
	return &CartService{products: products, carts: carts, ledger: ledger}
}

// ValidateLine 判定一条购物车行是否可接受，按目录与库存现状做纯决策，无副作用。
// 返回的行带有校验时刻解析出的单价（有规格取规格价），该价格在成单时会再次复验
func (s *CartService) ValidateLine(ctx context.Context, customerID, productID string, qty int, variantName string) (*model.CartLine, error) {
	if customerID == "" {
		return nil, ErrAuthenticationRequired
	}
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	// 下架商品对购物端等同不存在
	if !product.Available {
		return nil, ErrProductNotFound
	}

	line := model.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  qty,
	}

	if variantName != "" {
		v := product.VariantByName(variantName)
		if v == nil {
			return nil, ErrVariantNotFound
		}
		line.VariantID = v.ID
		line.VariantName = v.Name
		line.UnitPrice = v.Price
	} else if product.RequiresVariant() {
		return nil, ErrVariantRequired
	}

	ok, stock, err := s.ledger.CheckAvailability(ctx, product.ID, qty)
	if err != nil {
		return nil, err
	}
	if !ok {
		// 永不悄悄收缩数量，把真实余量报回去
		return nil, &InsufficientStockError{ProductID: product.ID, Requested: qty, Available: stock}
	}

	return &line, nil
}

// Add 校验后并入会话购物车。同商品同规格合并数量，合并后的总量需重新过库存校验
func (s *CartService) Add(ctx context.Context, customerID, productID string, qty int, variantName string) (model.Cart, error) {
	line, err := s.ValidateLine(ctx, customerID, productID, qty, variantName)
	if err != nil {
		return model.Cart{}, err
	}

	lines, err := s.carts.Get(ctx, customerID)
	if err != nil {
		return model.Cart{}, err
	}

	merged := false
	for i := range lines {
		if lines[i].ProductID == line.ProductID && lines[i].VariantID == line.VariantID {
			combined := lines[i].Quantity + qty
			revalidated, err := s.ValidateLine(ctx, customerID, productID, combined, variantName)
			if err != nil {
				return model.Cart{}, err
			}
			lines[i] = *revalidated
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, *line)
	}

	if err := s.carts.Save(ctx, customerID, lines); err != nil {
		return model.Cart{}, err
	}
	logger.L().Info("cart line added",
		zap.String("customer_id", customerID),
		zap.String("product_id", productID),
		zap.Int("quantity", qty))
	return model.NewCart(lines), nil
}

// Get 读取会话购物车
func (s *CartService) Get(ctx context.Context, customerID string) (model.Cart, error) {
	if customerID == "" {
		return model.Cart{}, ErrAuthenticationRequired
	}
	lines, err := s.carts.Get(ctx, customerID)
	if err != nil {
		return model.Cart{}, err
	}
	return model.NewCart(lines), nil
}

// Clear 清空会话购物车
func (s *CartService) Clear(ctx context.Context, customerID string) error {
	if customerID == "" {
		return ErrAuthenticationRequired
	}
	return s.carts.Clear(ctx, customerID)
}
