package model

import (
	"time"
)

// 考勤类型
const (
	CheckIn  = "check-in"
	CheckOut = "check-out"
)

// Attendance 一条进出场记录。ID 在客户端生成（离线时也能生成），
// Synced 只会 false→true 单调翻转，远程确认后不再回退
type Attendance struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"size:64;index;not null" json:"userId"`
	Date      string    `gorm:"size:10;index" json:"date"` // YYYY-MM-DD
	Time      string    `gorm:"size:8" json:"time"`        // HH:MM:SS（24小时制）
	Type      string    `gorm:"size:10;not null" json:"type"`
	Synced    bool      `gorm:"default:false" json:"synced"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Attendance) TableName() string {
	return "attendance"
}
