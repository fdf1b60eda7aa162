package model

import (
	"time"
)

// 订阅类型
const (
	PlanMonthly   = "monthly"
	PlanQuarterly = "quarterly"
	PlanYearly    = "yearly"
)

// Subscription 一条订阅记录。日期统一为 YYYY-MM-DD 字符串，
// 不变式：EndDate > StartDate；一个用户同一时间最多一条 active 订阅
type Subscription struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"size:64;index;not null" json:"userId"`
	StartDate string    `gorm:"size:10;not null" json:"startDate"`
	EndDate   string    `gorm:"size:10;not null;index" json:"endDate"`
	Type      string    `gorm:"size:10;not null" json:"type"`
	Status    string    `gorm:"size:10;default:active;index" json:"status"` // active, expired
	CreatedAt time.Time `json:"createdAt"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
