package model

import "time"

// 商品分类
const (
	CategoryCake     = "cake"
	CategoryPastry   = "pastry"
	CategoryBeverage = "beverage"
)

// Product 商品（菜单项）
type Product struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string `json:"name" gorm:"type:varchar(128);not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"type:varchar(32);index:idx_product_category;not null"`
	// Price 基础价；同商品存在规格时以规格价为准
	Price     float64          `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock     int              `json:"stock" gorm:"not null;default:0"`
	ImageURL  string           `json:"image_url" gorm:"type:varchar(255)"`
	Available bool             `json:"available" gorm:"not null;default:true"`
	Variants  []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// RequiresVariant 该分类下单前是否必须选择规格（蛋糕必须选尺寸）
func (p *Product) RequiresVariant() bool {
	return p.Category == CategoryCake
}

// VariantByName 按规格名查找
func (p *Product) VariantByName(name string) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].Name == name {
			return &p.Variants[i]
		}
	}
	return nil
}

// ProductVariant 商品规格（如蛋糕尺寸），自带价格
type ProductVariant struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);index:idx_variant_product;uniqueIndex:ux_variant_product_name;not null"`
	Name      string    `json:"name" gorm:"type:varchar(64);uniqueIndex:ux_variant_product_name;not null"`
	Price     float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProductVariant) TableName() string { return "product_variants" }
