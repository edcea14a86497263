package model

import "time"

// 订单状态
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// 配送方式
const (
	DeliveryMethodPickup   = "pickup"
	DeliveryMethodDelivery = "delivery"
)

// 支付方式
const (
	PaymentMethodCash  = "cash"
	PaymentMethodGCash = "gcash"
)

// Order 订单。联系人字段在下单时快照，不随用户资料变更
type Order struct {
	ID            string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNo       string `json:"order_no" gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerID    string `json:"customer_id" gorm:"type:varchar(36);index:idx_order_customer;not null"`
	CustomerName  string `json:"customer_name" gorm:"type:varchar(128);not null"`
	CustomerEmail string `json:"customer_email" gorm:"type:varchar(128);not null"`
	CustomerPhone string `json:"customer_phone" gorm:"type:varchar(32)"`

	DeliveryMethod  string     `json:"delivery_method" gorm:"type:varchar(16);not null"`
	DeliveryAddress string     `json:"delivery_address" gorm:"type:text"`
	PickupDate      *time.Time `json:"pickup_date,omitempty"`

	PaymentMethod   string `json:"payment_method" gorm:"type:varchar(16);not null"`
	PaymentID       string `json:"payment_id" gorm:"type:varchar(64)"`
	PaymentVerified bool   `json:"payment_verified" gorm:"not null;default:false"`

	Status string `json:"status" gorm:"type:varchar(16);index;not null;default:pending"`
	// TotalAmount 建单时按明细精确求和，此后不变
	TotalAmount float64 `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Notes       string  `json:"notes" gorm:"type:text"`

	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 订单明细。名称与单价为下单时快照，目录后续改价不影响已有订单
type OrderItem struct {
	ID      string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID string `json:"order_id" gorm:"type:varchar(36);index:idx_item_order;not null"`
	// 目录引用可为空：目录条目之后被删除时仅置空引用，快照字段保证订单仍可读
	ProductID    *string   `json:"product_id,omitempty" gorm:"type:varchar(36);index"`
	VariantID    *string   `json:"variant_id,omitempty" gorm:"type:varchar(36)"`
	CustomCakeID *string   `json:"custom_cake_id,omitempty" gorm:"type:varchar(36)"`
	Name         string    `json:"name" gorm:"type:varchar(128);not null"`
	VariantName  string    `json:"variant_name" gorm:"type:varchar(64)"`
	UnitPrice    float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Quantity     int       `json:"quantity" gorm:"not null"`
	LineTotal    float64   `json:"line_total" gorm:"type:decimal(10,2);not null"`
	CreatedAt    time.Time `json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }

// IsTerminal 终态订单不再接受任何状态迁移
func IsTerminal(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}
