package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/qr"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	user := &model.User{
		ID:                 qr.NewID(),
		Name:               fmt.Sprintf("member_%d", time.Now().UnixNano()%100000),
		Password:           "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
		Role:               model.RoleMember,
		SubscriptionStatus: model.SubscriptionActive,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithName 设置用户名
func WithName(name string) func(*model.User) {
	return func(u *model.User) {
		u.Name = name
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithStatus 设置订阅汇总状态
func WithStatus(status string) func(*model.User) {
	return func(u *model.User) {
		u.SubscriptionStatus = status
	}
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, userID string, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{
		ID:        qr.NewID(),
		UserID:    userID,
		StartDate: "2025-01-01",
		EndDate:   "2025-02-01",
		Type:      model.PlanMonthly,
		Status:    model.SubscriptionActive,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithDates 设置订阅起止日期
func WithDates(start, end string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.StartDate = start
		s.EndDate = end
	}
}

// WithSubStatus 设置订阅状态
func WithSubStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// TestAttendance 创建测试考勤记录
func TestAttendance(t *testing.T, db *gorm.DB, userID string, opts ...func(*model.Attendance)) *model.Attendance {
	t.Helper()

	rec := &model.Attendance{
		ID:     qr.NewID(),
		UserID: userID,
		Date:   "2025-01-15",
		Time:   "09:30:00",
		Type:   model.CheckIn,
		Synced: true,
	}

	for _, opt := range opts {
		opt(rec)
	}

	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("Failed to create test attendance: %v", err)
	}

	return rec
}

// WithRecordDate 设置考勤日期时间
func WithRecordDate(date, clock string) func(*model.Attendance) {
	return func(a *model.Attendance) {
		a.Date = date
		a.Time = clock
	}
}

// Unsynced 标记为未同步
func Unsynced() func(*model.Attendance) {
	return func(a *model.Attendance) {
		a.Synced = false
	}
}
