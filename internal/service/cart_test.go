package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/cakeshop/internal/model"
	"github.com/d60-Lab/cakeshop/internal/repository"
)

func TestValidateLineChecks(t *testing.T) {
	db := setupDB(t)
	products := repository.NewProductRepository(db)
	svc := NewCartService(products, setupCartRepo(t), NewInventoryLedger(products))
	ctx := context.Background()

	cake := seedProduct(t, db, "Ube Cake", model.CategoryCake, 0, 4,
		model.ProductVariant{Name: "6-inch", Price: 899},
		model.ProductVariant{Name: "8-inch", Price: 1299},
	)
	pastry := seedProduct(t, db, "Ensaymada", model.CategoryPastry, 65, 10)

	// 未认证调用先于一切库存检查被拒绝
	_, err := svc.ValidateLine(ctx, "", cake.ID, 1, "6-inch")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	_, err = svc.ValidateLine(ctx, "u1", cake.ID, 0, "6-inch")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.ValidateLine(ctx, "u1", "missing", 1, "")
	assert.ErrorIs(t, err, ErrProductNotFound)

	// 蛋糕必须选尺寸
	_, err = svc.ValidateLine(ctx, "u1", cake.ID, 1, "")
	assert.ErrorIs(t, err, ErrVariantRequired)

	_, err = svc.ValidateLine(ctx, "u1", cake.ID, 1, "12-inch")
	assert.ErrorIs(t, err, ErrVariantNotFound)

	// 超量：报告实际余量，不悄悄收缩
	_, err = svc.ValidateLine(ctx, "u1", cake.ID, 5, "6-inch")
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 4, stockErr.Available)

	// 规格价优先于基础价
	line, err := svc.ValidateLine(ctx, "u1", cake.ID, 2, "8-inch")
	require.NoError(t, err)
	assert.Equal(t, 1299.0, line.UnitPrice)
	assert.Equal(t, "8-inch", line.VariantName)

	// 无规格商品取基础价
	line, err = svc.ValidateLine(ctx, "u1", pastry.ID, 3, "")
	require.NoError(t, err)
	assert.Equal(t, 65.0, line.UnitPrice)
}

func TestAddMergesSameLine(t *testing.T) {
	db := setupDB(t)
	products := repository.NewProductRepository(db)
	svc := NewCartService(products, setupCartRepo(t), NewInventoryLedger(products))
	ctx := context.Background()

	p := seedProduct(t, db, "Ensaymada", model.CategoryPastry, 65, 5)

	cart, err := svc.Add(ctx, "u1", p.ID, 2, "")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)

	cart, err = svc.Add(ctx, "u1", p.ID, 2, "")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 4, cart.Lines[0].Quantity)
	assert.Equal(t, 260.0, cart.TotalPrice)

	// 合并后的总量同样受库存约束
	_, err = svc.Add(ctx, "u1", p.ID, 2, "")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// 失败的加车不得污染购物车
	cart, err = svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Lines[0].Quantity)
}

func TestClearCart(t *testing.T) {
	db := setupDB(t)
	products := repository.NewProductRepository(db)
	svc := NewCartService(products, setupCartRepo(t), NewInventoryLedger(products))
	ctx := context.Background()

	p := seedProduct(t, db, "Ensaymada", model.CategoryPastry, 65, 5)
	_, err := svc.Add(ctx, "u1", p.ID, 1, "")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "u1"))
	cart, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}
