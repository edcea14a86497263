package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/cakeshop/internal/repository"
)

// InventoryLedger 库存台账：回答可用性查询并执行扣减/回补。
// 只动库存计数，何时扣、何时补由订单生命周期决定
type InventoryLedger struct {
	products repository.ProductRepository
}

func NewInventoryLedger(products repository.ProductRepository) *InventoryLedger {
	return &InventoryLedger{products: products}
}

// WithTx 返回绑定到指定事务的台账
func (l *InventoryLedger) WithTx(tx *gorm.DB) *InventoryLedger {
	return &InventoryLedger{products: l.products.WithTx(tx)}
}

// CheckAvailability 查询请求量是否可满足，并返回当前库存
func (l *InventoryLedger) CheckAvailability(ctx context.Context, productID string, qty int) (bool, int, error) {
	stock, err := l.products.GetStock(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, 0, ErrProductNotFound
	}
	if err != nil {
		return false, 0, err
	}
	return qty <= stock, stock, nil
}

// Debit 扣减库存。条件更新未命中说明余量不足，返回携带当前库存的
// InsufficientStockError，库存保持不变
func (l *InventoryLedger) Debit(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	ok, err := l.products.DebitStock(ctx, productID, qty)
	if err != nil {
		return err
	}
	if !ok {
		stock, err := l.products.GetStock(ctx, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}
		return &InsufficientStockError{ProductID: productID, Requested: qty, Available: stock}
	}
	return nil
}

// Credit 回补库存
func (l *InventoryLedger) Credit(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	return l.products.CreditStock(ctx, productID, qty)
}
