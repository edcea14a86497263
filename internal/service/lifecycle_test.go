package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/cakeshop/internal/model"
	"github.com/d60-Lab/cakeshop/internal/repository"
)

type lifecycleFixture struct {
	db        *gorm.DB
	products  repository.ProductRepository
	orders    repository.OrderRepository
	lifecycle *LifecycleService
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	db := setupDB(t)
	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)
	return &lifecycleFixture{
		db:        db,
		products:  products,
		orders:    orders,
		lifecycle: NewLifecycleService(db, orders, NewInventoryLedger(products)),
	}
}

// seedOrder 直接落一张 pending 订单，items 为 (productID, qty) 对
func (f *lifecycleFixture) seedOrder(t *testing.T, items ...[2]any) *model.Order {
	t.Helper()
	order := &model.Order{
		ID:             uuid.New().String(),
		OrderNo:        fmt.Sprintf("T-%s", uuid.New().String()[:8]),
		CustomerID:     "u1",
		CustomerName:   "Maria Santos",
		CustomerEmail:  "maria@example.com",
		DeliveryMethod: model.DeliveryMethodPickup,
		PaymentMethod:  model.PaymentMethodCash,
		Status:         model.OrderStatusPending,
	}
	for _, it := range items {
		pid := it[0].(string)
		qty := it[1].(int)
		order.Items = append(order.Items, model.OrderItem{
			ID:        uuid.New().String(),
			ProductID: &pid,
			Name:      "item",
			UnitPrice: 100,
			Quantity:  qty,
			LineTotal: 100 * float64(qty),
		})
		order.TotalAmount += 100 * float64(qty)
	}
	require.NoError(t, f.orders.Create(context.Background(), order))
	return order
}

func (f *lifecycleFixture) stock(t *testing.T, productID string) int {
	t.Helper()
	stock, err := f.products.GetStock(context.Background(), productID)
	require.NoError(t, err)
	return stock
}

func TestAcceptDebitsStock(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	p1 := seedProduct(t, f.db, "Ube Cake", model.CategoryCake, 500, 5)
	p2 := seedProduct(t, f.db, "Ensaymada", model.CategoryPastry, 65, 3)
	order := f.seedOrder(t, [2]any{p1.ID, 2}, [2]any{p2.ID, 1})

	got, err := f.lifecycle.Transition(ctx, order.ID, model.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, got.Status)
	assert.Equal(t, 3, f.stock(t, p1.ID))
	assert.Equal(t, 2, f.stock(t, p2.ID))

	// 重复接单是显式失败的空操作，库存只扣一次
	_, err = f.lifecycle.Transition(ctx, order.ID, model.OrderStatusProcessing)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, 3, f.stock(t, p1.ID))
	assert.Equal(t, 2, f.stock(t, p2.ID))
}

func TestAcceptFailsWhenStockConsumed(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	// 库存 3，两张各要 2 的单：只有一张能接
	p := seedProduct(t, f.db, "Ensaymada", model.CategoryPastry, 65, 3)
	first := f.seedOrder(t, [2]any{p.ID, 2})
	second := f.seedOrder(t, [2]any{p.ID, 2})

	_, err := f.lifecycle.Transition(ctx, first.ID, model.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, 1, f.stock(t, p.ID))

	_, err = f.lifecycle.Transition(ctx, second.ID, model.OrderStatusProcessing)
	require.Error(t, err)
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 1, stockErr.Available)

	// 失败的接单整体回滚：订单仍 pending，库存不变、不为负
	reloaded, err := f.orders.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, reloaded.Status)
	assert.Equal(t, 1, f.stock(t, p.ID))
}

func TestAcceptRollsBackPartialDebit(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	p1 := seedProduct(t, f.db, "Ube Cake", model.CategoryCake, 500, 5)
	p2 := seedProduct(t, f.db, "Ensaymada", model.CategoryPastry, 65, 1)
	order := f.seedOrder(t, [2]any{p1.ID, 2}, [2]any{p2.ID, 3})

	_, err := f.lifecycle.Transition(ctx, order.ID, model.OrderStatusProcessing)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// 第一项的扣减随事务回滚
	assert.Equal(t, 5, f.stock(t, p1.ID))
	assert.Equal(t, 1, f.stock(t, p2.ID))
	reloaded, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, reloaded.Status)
}

func TestCancelCreditsOnlyWhenDebited(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	p := seedProduct(t, f.db, "Ensaymada", model.CategoryPastry, 65, 5)

	// pending 取消：从未扣过，不回补
	pending := f.seedOrder(t, [2]any{p.ID, 2})
	got, err := f.lifecycle.Transition(ctx, pending.ID, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, got.Status)
	assert.Equal(t, 5, f.stock(t, p.ID))

	// processing 取消：按接单时扣减的原量回补
	accepted := f.seedOrder(t, [2]any{p.ID, 2})
	_, err = f.lifecycle.Transition(ctx, accepted.ID, model.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, 3, f.stock(t, p.ID))

	_, err = f.lifecycle.Transition(ctx, accepted.ID, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 5, f.stock(t, p.ID))
}

func TestTransitionTable(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	p := seedProduct(t, f.db, "Ensaymada", model.CategoryPastry, 65, 100)

	advance := func(t *testing.T, orderID string, statuses ...string) {
		t.Helper()
		for _, s := range statuses {
			_, err := f.lifecycle.Transition(ctx, orderID, s)
			require.NoError(t, err)
		}
	}

	// 正向全程
	order := f.seedOrder(t, [2]any{p.ID, 1})
	advance(t, order.ID, model.OrderStatusProcessing, model.OrderStatusShipped, model.OrderStatusDelivered)

	// 非法迁移不改变状态
	for _, target := range []string{
		model.OrderStatusProcessing, // delivered → processing
		model.OrderStatusPending,
		model.OrderStatusCancelled, // 终态后不可取消
	} {
		_, err := f.lifecycle.Transition(ctx, order.ID, target)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	}
	reloaded, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, reloaded.Status)

	// shipped 不可取消（保守限制，见状态表）
	shipped := f.seedOrder(t, [2]any{p.ID, 1})
	advance(t, shipped.ID, model.OrderStatusProcessing, model.OrderStatusShipped)
	_, err = f.lifecycle.Transition(ctx, shipped.ID, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	// cancelled 是终态
	cancelled := f.seedOrder(t, [2]any{p.ID, 1})
	advance(t, cancelled.ID, model.OrderStatusCancelled)
	_, err = f.lifecycle.Transition(ctx, cancelled.ID, model.OrderStatusProcessing)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	// 不跳级
	skip := f.seedOrder(t, [2]any{p.ID, 1})
	_, err = f.lifecycle.Transition(ctx, skip.ID, model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	// 未知目标状态
	_, err = f.lifecycle.Transition(ctx, skip.ID, "refunded")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	// 订单不存在
	_, err = f.lifecycle.Transition(ctx, "missing", model.OrderStatusProcessing)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestConfirmPaymentOrthogonal(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	p := seedProduct(t, f.db, "Ensaymada", model.CategoryPastry, 65, 10)

	order := f.seedOrder(t, [2]any{p.ID, 1})
	got, err := f.lifecycle.ConfirmPayment(ctx, order.ID, "gcash-ref-001")
	require.NoError(t, err)
	assert.True(t, got.PaymentVerified)
	assert.Equal(t, "gcash-ref-001", got.PaymentID)
	// 核验不推动状态机
	assert.Equal(t, model.OrderStatusPending, got.Status)

	// 未核验支付不阻塞接单（货到付款）
	unpaid := f.seedOrder(t, [2]any{p.ID, 1})
	got, err = f.lifecycle.Transition(ctx, unpaid.ID, model.OrderStatusProcessing)
	require.NoError(t, err)
	assert.False(t, got.PaymentVerified)

	// 已取消订单拒绝核验
	cancelled := f.seedOrder(t, [2]any{p.ID, 1})
	_, err = f.lifecycle.Transition(ctx, cancelled.ID, model.OrderStatusCancelled)
	require.NoError(t, err)
	_, err = f.lifecycle.ConfirmPayment(ctx, cancelled.ID, "ref")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestAcceptSkipsCustomCakeLines(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	cakeID := uuid.New().String()
	order := &model.Order{
		ID:             uuid.New().String(),
		OrderNo:        "T-CUSTOM",
		CustomerID:     "u1",
		CustomerName:   "Maria Santos",
		CustomerEmail:  "maria@example.com",
		DeliveryMethod: model.DeliveryMethodPickup,
		PaymentMethod:  model.PaymentMethodGCash,
		Status:         model.OrderStatusPending,
		TotalAmount:    1649,
		Items: []model.OrderItem{{
			ID:           uuid.New().String(),
			CustomCakeID: &cakeID,
			Name:         "Custom 8-inch cake (ube)",
			UnitPrice:    1649,
			Quantity:     1,
			LineTotal:    1649,
		}},
	}
	require.NoError(t, f.orders.Create(ctx, order))

	// 无目录引用的明细没有库存可扣，接单/取消均直接跳过
	got, err := f.lifecycle.Transition(ctx, order.ID, model.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, got.Status)

	_, err = f.lifecycle.Transition(ctx, order.ID, model.OrderStatusCancelled)
	require.NoError(t, err)
}

func TestCustomerCancelOwnership(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	p := seedProduct(t, f.db, "Ensaymada", model.CategoryPastry, 65, 10)
	order := f.seedOrder(t, [2]any{p.ID, 1}) // customer u1

	_, err := f.lifecycle.Cancel(ctx, order.ID, "u2", model.RoleCustomer)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	got, err := f.lifecycle.Cancel(ctx, order.ID, "u1", model.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, got.Status)
}
