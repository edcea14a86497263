package model

// CartLine 购物车行：下单前的候选条目，仅存活于会话（Redis），
// 成单或校验失败后即丢弃，不落 SQL
type CartLine struct {
	ProductID   string `json:"product_id"`
	VariantID   string `json:"variant_id,omitempty"`
	Name        string `json:"name"`
	VariantName string `json:"variant_name,omitempty"`
	// UnitPrice 加车时解析出的参考价，成单时以重新校验的现价为准
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal 行小计
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart 会话购物车
type Cart struct {
	Lines      []CartLine `json:"lines"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
}

// NewCart 汇总行数据构造购物车视图
func NewCart(lines []CartLine) Cart {
	c := Cart{Lines: lines}
	for _, l := range lines {
		c.TotalItems += l.Quantity
		c.TotalPrice += l.Subtotal()
	}
	return c
}
