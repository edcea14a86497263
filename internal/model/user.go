package model

import "time"

// 用户角色
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

// User 注册用户
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"type:varchar(128);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(128);not null"` // bcrypt 哈希
	Phone     string    `json:"phone" gorm:"type:varchar(32)"`
	Role      string    `json:"role" gorm:"type:varchar(16);not null;default:customer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
