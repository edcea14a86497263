package model

import "time"

// CustomCake 定制蛋糕规格，作为单条合成明细挂到订单上
type CustomCake struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string `json:"customer_id" gorm:"type:varchar(36);index:idx_custom_customer;not null"`
	Size       string `json:"size" gorm:"type:varchar(32);not null"`
	Flavor     string `json:"flavor" gorm:"type:varchar(64);not null"`
	Layers     int    `json:"layers" gorm:"not null;default:1"`
	Message    string `json:"message" gorm:"type:varchar(255)"`
	// Price 按尺寸与层数定价，下单时确定
	Price     float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CustomCake) TableName() string { return "custom_cakes" }
