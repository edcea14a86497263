package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/cakeshop/internal/model"
)

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// Create 创建商品（含规格）
	Create(ctx context.Context, p *model.Product) error

	// GetByID 查询商品，带规格
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetStock 查询当前库存
	GetStock(ctx context.Context, id string) (int, error)

	// DebitStock 条件扣减库存：stock >= qty 才生效，返回是否命中。
	// 单条 UPDATE 保证对同一商品的并发扣减互相串行，库存永不为负
	DebitStock(ctx context.Context, id string, qty int) (bool, error)

	// CreditStock 回补库存
	CreditStock(ctx context.Context, id string, qty int) error

	// WithTx 返回绑定到指定事务的仓储
	WithTx(tx *gorm.DB) ProductRepository
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepository{db: db} }

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository { return &productRepository{db: tx} }

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Variants").Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetStock(ctx context.Context, id string) (int, error) {
	var row struct{ Stock int }
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Select("stock").
		Take(&row).Error
	return row.Stock, err
}

func (r *productRepository) DebitStock(ctx context.Context, id string, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepository) CreditStock(ctx context.Context, id string, qty int) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}
