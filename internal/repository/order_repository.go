package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/cakeshop/internal/model"
)

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Create 持久化订单与全部明细。订单必须至少带一条明细，
	// gorm 关联写入运行在单个事务内，保证 Order + OrderItems 同生同灭
	Create(ctx context.Context, order *model.Order) error

	// GetByID 查询订单，带明细
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// ListByCustomer 查询某客户订单列表
	ListByCustomer(ctx context.Context, customerID string, offset, limit int) ([]*model.Order, error)

	// List 查询全部订单（员工侧）
	List(ctx context.Context, offset, limit int) ([]*model.Order, error)

	// UpdateStatusFrom 带前置状态守卫的状态更新，返回是否命中。
	// 两个并发迁移只会有一个命中，另一个拿到 false
	UpdateStatusFrom(ctx context.Context, id, from, to string) (bool, error)

	// MarkPaymentVerified 记录支付核验
	MarkPaymentVerified(ctx context.Context, id, paymentID string) error

	// WithTx 返回绑定到指定事务的仓储
	WithTx(tx *gorm.DB) OrderRepository
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepository{db: db} }

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository { return &orderRepository{db: tx} }

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string, offset, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) List(ctx context.Context, offset, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatusFrom(ctx context.Context, id, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepository) MarkPaymentVerified(ctx context.Context, id, paymentID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{"payment_verified": true, "payment_id": paymentID}).Error
}
