package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/cakeshop/internal/model"
	"github.com/d60-Lab/cakeshop/internal/repository"
	"github.com/d60-Lab/cakeshop/pkg/logger"
)

// 定制蛋糕定价：尺寸基价 + 加层费
var customCakeBasePrice = map[string]float64{
	"6-inch":  899.00,
	"8-inch":  1299.00,
	"10-inch": 1799.00,
}

const customCakeLayerPrice = 350.00

// CustomCakeSpec 定制蛋糕下单参数
type CustomCakeSpec struct {
	Size    string `json:"size"`
	Flavor  string `json:"flavor"`
	Layers  int    `json:"layers"`
	Message string `json:"message"`
}

// PriceCustomCake 计算定制蛋糕价格
func PriceCustomCake(spec CustomCakeSpec) (float64, error) {
	base, ok := customCakeBasePrice[spec.Size]
	if !ok {
		return 0, ErrInvalidCakeSpec
	}
	if spec.Flavor == "" || spec.Layers < 1 || spec.Layers > 5 {
		return 0, ErrInvalidCakeSpec
	}
	return base + float64(spec.Layers-1)*customCakeLayerPrice, nil
}

// PlaceOrderInput 下单参数。联系人字段随单快照
type PlaceOrderInput struct {
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	DeliveryMethod  string
	DeliveryAddress string
	PickupDate      *time.Time

	PaymentMethod string
	Notes         string

	// CustomCake 非空时走定制蛋糕通道，按单条合成明细成单，不读购物车
	CustomCake *CustomCakeSpec
}

// OrderService 订单装配与查询。
// 装配只做校验和快照，不扣库存——库存在订单被接单时才真正提交，
// 避免被弃置的结账流程占住库存
type OrderService struct {
	db     *gorm.DB
	orders repository.OrderRepository
	carts  repository.CartRepository
	ledger *InventoryLedger
}

func NewOrderService(db *gorm.DB, orders repository.OrderRepository, carts repository.CartRepository, ledger *InventoryLedger) *OrderService {
	return &OrderService{db: db, orders: orders, carts: carts, ledger: ledger}
}

// PlaceOrder 把会话购物车（或定制蛋糕规格）装配成不可变订单快照。
// 每行按当前库存与现价复验，任一行失败则整单中止，绝不产生部分订单。
// Order 与全部 OrderItem 在同一事务内落库，初始 status=pending、未核验支付
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*model.Order, error) {
	if in.CustomerID == "" {
		return nil, ErrAuthenticationRequired
	}
	if err := ValidatePaymentMethod(in.PaymentMethod); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssemblyFailed, err)
	}
	if err := ValidateFulfillment(in.DeliveryMethod, in.DeliveryAddress, in.PickupDate); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssemblyFailed, err)
	}

	order := &model.Order{
		ID:              uuid.New().String(),
		OrderNo:         newOrderNo(),
		CustomerID:      in.CustomerID,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		DeliveryMethod:  in.DeliveryMethod,
		DeliveryAddress: in.DeliveryAddress,
		PickupDate:      in.PickupDate,
		PaymentMethod:   in.PaymentMethod,
		Status:          model.OrderStatusPending,
		Notes:           in.Notes,
	}

	var custom *model.CustomCake
	if in.CustomCake != nil {
		price, err := PriceCustomCake(*in.CustomCake)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAssemblyFailed, err)
		}
		custom = &model.CustomCake{
			ID:         uuid.New().String(),
			CustomerID: in.CustomerID,
			Size:       in.CustomCake.Size,
			Flavor:     in.CustomCake.Flavor,
			Layers:     in.CustomCake.Layers,
			Message:    in.CustomCake.Message,
			Price:      price,
		}
		order.Items = []model.OrderItem{{
			ID:           uuid.New().String(),
			OrderID:      order.ID,
			CustomCakeID: &custom.ID,
			Name:         fmt.Sprintf("Custom %s cake (%s)", custom.Size, custom.Flavor),
			UnitPrice:    price,
			Quantity:     1,
			LineTotal:    price,
		}}
	} else {
		lines, err := s.carts.Get(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if len(lines) == 0 {
			return nil, fmt.Errorf("%w: %w", ErrAssemblyFailed, ErrEmptyCart)
		}
		items, err := s.snapshotLines(ctx, lines)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAssemblyFailed, err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		order.Items = items
	}

	for _, it := range order.Items {
		order.TotalAmount += it.LineTotal
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if custom != nil {
			if err := tx.Create(custom).Error; err != nil {
				return err
			}
		}
		return s.orders.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssemblyFailed, err)
	}

	// 成单后丢弃会话购物车；失败只记日志，不影响已落库订单
	if custom == nil {
		if err := s.carts.Clear(ctx, in.CustomerID); err != nil {
			logger.L().Warn("clear cart after checkout failed",
				zap.String("customer_id", in.CustomerID), zap.Error(err))
		}
	}

	logger.L().Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("order_no", order.OrderNo),
		zap.Float64("total", order.TotalAmount))
	return order, nil
}

// snapshotLines 逐行按当前目录复验并快照。加车后到结账之间库存可能已经变化，
// 以最后一次校验为准；所有失败行一次性收集返回，方便用户集中调整
func (s *OrderService) snapshotLines(ctx context.Context, lines []model.CartLine) ([]model.OrderItem, error) {
	items := make([]model.OrderItem, 0, len(lines))
	var failures []LineFailure

	for _, line := range lines {
		product, err := s.ledgerProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				failures = append(failures, LineFailure{
					ProductID: line.ProductID, Name: line.Name,
					Requested: line.Quantity, Available: 0,
				})
				continue
			}
			return nil, err
		}

		if line.Quantity > product.Stock {
			failures = append(failures, LineFailure{
				ProductID: line.ProductID, Name: line.Name,
				Requested: line.Quantity, Available: product.Stock,
			})
			continue
		}

		// 现价快照：规格价优先
		unit := product.Price
		var variantID *string
		if line.VariantName != "" {
			v := product.VariantByName(line.VariantName)
			if v == nil {
				failures = append(failures, LineFailure{
					ProductID: line.ProductID, Name: line.Name,
					Requested: line.Quantity, Available: 0,
				})
				continue
			}
			unit = v.Price
			variantID = &v.ID
		}

		items = append(items, model.OrderItem{
			ID:          uuid.New().String(),
			ProductID:   &line.ProductID,
			VariantID:   variantID,
			Name:        product.Name,
			VariantName: line.VariantName,
			UnitPrice:   unit,
			Quantity:    line.Quantity,
			LineTotal:   unit * float64(line.Quantity),
		})
	}

	if len(failures) > 0 {
		return nil, &StockChangedError{Failures: failures}
	}
	return items, nil
}

func (s *OrderService) ledgerProduct(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.ledger.products.GetByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if !product.Available {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetOrder 查询订单。非员工只能看自己的单
func (s *OrderService) GetOrder(ctx context.Context, orderID, callerID, callerRole string) (*model.Order, error) {
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
	return order, nil
}

// ListOrders 列出订单：员工看全部，客户看自己的
func (s *OrderService) ListOrders(ctx context.Context, callerID, callerRole string, page, pageSize int) ([]*model.Order, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	if callerRole == model.RoleStaff {
		return s.orders.List(ctx, offset, pageSize)
	}
	return s.orders.ListByCustomer(ctx, callerID, offset, pageSize)
}

func newOrderNo() string {
	return fmt.Sprintf("CS-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(uuid.New().String()[:8]))
}
