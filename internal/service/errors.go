package service

import (
	"errors"
	"fmt"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrProductNotFound        = errors.New("product not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidQuantity        = errors.New("quantity must be at least 1")
	ErrVariantRequired        = errors.New("size selection is required for this product")
	ErrVariantNotFound        = errors.New("unknown size for this product")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrStockChanged           = errors.New("stock changed during checkout")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrAssemblyFailed         = errors.New("order assembly failed")

	ErrInvalidDeliveryMethod   = errors.New("delivery method must be pickup or delivery")
	ErrDeliveryAddressRequired = errors.New("delivery address is required for delivery orders")
	ErrPickupDateRequired      = errors.New("pickup date is required for pickup orders")
	ErrInvalidPaymentMethod    = errors.New("payment method must be cash or gcash")

	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidCakeSpec         = errors.New("invalid custom cake specification")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// InsufficientStockError 库存不足，携带当前可用量供调用方调整数量后重试
type InsufficientStockError struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// LineFailure 结账复验时失败的购物车行
type LineFailure struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// StockChangedError 加车后库存发生变化，整单中止，逐行报告失败原因
type StockChangedError struct {
	Failures []LineFailure `json:"failures"`
}

func (e *StockChangedError) Error() string {
	return fmt.Sprintf("stock changed during checkout: %d line(s) no longer satisfiable", len(e.Failures))
}

func (e *StockChangedError) Is(target error) bool { return target == ErrStockChanged }
