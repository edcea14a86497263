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

// 合法状态迁移表。cancelled 只能从 pending/processing 进入，
// 终态不再出边
var transitions = map[string][]string{
	model.OrderStatusPending:    {model.OrderStatusProcessing, model.OrderStatusCancelled},
	model.OrderStatusProcessing: {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped:    {model.OrderStatusDelivered},
}

func transitionAllowed(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// LifecycleService 订单状态机。接单是库存真正提交的时刻：
// pending→processing 逐项扣减库存；processing 取消按原量回补；
// pending 取消从未扣过，不做回补
type LifecycleService struct {
	db     *gorm.DB
	orders repository.OrderRepository
	ledger *InventoryLedger
}

func NewLifecycleService(db *gorm.DB, orders repository.OrderRepository, ledger *InventoryLedger) *LifecycleService {
	return &LifecycleService{db: db, orders: orders, ledger: ledger}
}

// Transition 执行一次状态迁移及其库存副作用，整个迁移在单个事务内。
// 状态更新带前置状态守卫：并发的两次同向迁移只有一次命中，另一次
// 返回 ErrInvalidStatusTransition，库存副作用因此恰好执行一次
func (s *LifecycleService) Transition(ctx context.Context, orderID, target string) (*model.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)

		order, err := orders.GetByID(ctx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		from := order.Status
		if !transitionAllowed(from, target) {
			return ErrInvalidStatusTransition
		}

		ok, err := orders.UpdateStatusFrom(ctx, orderID, from, target)
		if err != nil {
			return err
		}
		if !ok {
			// 读到事务开始后被并发迁移抢先改掉的状态
			return ErrInvalidStatusTransition
		}

		ledger := s.ledger.WithTx(tx)
		switch {
		case target == model.OrderStatusProcessing:
			// 接单扣库存。任一项不足则整个事务回滚，订单留在 pending，
			// 错误携带当前余量原样上报
			for _, item := range order.Items {
				if item.ProductID == nil {
					continue // 定制蛋糕无目录库存
				}
				if err := ledger.Debit(ctx, *item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		case target == model.OrderStatusCancelled && from == model.OrderStatusProcessing:
			// 只回补接单时真正扣过的量
			for _, item := range order.Items {
				if item.ProductID == nil {
					continue
				}
				if err := ledger.Credit(ctx, *item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	logger.L().Info("order status changed",
		zap.String("order_id", orderID),
		zap.String("status", order.Status))
	return order, nil
}

// Cancel 客户或员工取消订单。客户只能取消自己的单
func (s *LifecycleService) Cancel(ctx context.Context, orderID, callerID, callerRole string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if callerRole != model.RoleStaff && order.CustomerID != callerID {
		return nil, ErrOrderNotFound
	}
	return s.Transition(ctx, orderID, model.OrderStatusCancelled)
}

// ConfirmPayment 记录支付核验。支付核验与状态机解耦，只做记录，
// 不推动任何迁移；仅已取消订单拒绝核验
func (s *LifecycleService) ConfirmPayment(ctx context.Context, orderID, paymentID string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.Status == model.OrderStatusCancelled {
		return nil, ErrInvalidStatusTransition
	}
	if err := s.orders.MarkPaymentVerified(ctx, orderID, paymentID); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}
