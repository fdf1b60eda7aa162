package model

import (
	"time"
)

// 用户角色
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// 订阅状态（挂在用户上的汇总状态）
const (
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
	SubscriptionPending = "pending"
)

// User 会员/管理员。JSON 字段保持 camelCase，与表格后端的列名一致
type User struct {
	ID                 string    `gorm:"primaryKey;size:64" json:"id"`
	Name               string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Password           string    `gorm:"size:255" json:"password,omitempty"` // bcrypt 哈希，不以明文存储
	Role               string    `gorm:"size:20;default:member" json:"role"`
	QRCode             string    `gorm:"size:500;index" json:"qrCode"`
	SubscriptionStatus string    `gorm:"size:20;default:pending" json:"subscriptionStatus"`
	Phone              string    `gorm:"size:30" json:"phone,omitempty"`
	Email              string    `gorm:"size:100" json:"email,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
