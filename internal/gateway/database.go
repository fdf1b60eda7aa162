package gateway

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/qr"
	"github.com/anouarkehili/DADAGYM3/internal/repository"
)

// DatabaseGateway MySQL 后端，委托给 gorm 仓储层
type DatabaseGateway struct {
	db      *gorm.DB
	users   *repository.UserRepository
	subs    *repository.SubscriptionRepository
	records *repository.AttendanceRepository
}

func NewDatabaseGateway(db *gorm.DB) *DatabaseGateway {
	return &DatabaseGateway{
		db:      db,
		users:   repository.NewUserRepository(db),
		subs:    repository.NewSubscriptionRepository(db),
		records: repository.NewAttendanceRepository(db),
	}
}

// JSON 字段名 → 列名，UpdateUser 的键来自统一的 camelCase 线上格式
var userColumns = map[string]string{
	"name":               "name",
	"password":           "password",
	"role":               "role",
	"qrCode":             "qr_code",
	"subscriptionStatus": "subscription_status",
	"phone":              "phone",
	"email":              "email",
}

func remoteErr(err error) error {
	return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
}

func (g *DatabaseGateway) GetUsers(ctx context.Context) ([]model.User, error) {
	users, err := g.users.GetAll()
	if err != nil {
		return nil, remoteErr(err)
	}
	return users, nil
}

func (g *DatabaseGateway) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := g.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, remoteErr(err)
	}
	return user, nil
}

func (g *DatabaseGateway) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	user, err := g.users.GetByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, remoteErr(err)
	}
	return user, nil
}

func (g *DatabaseGateway) AddUser(ctx context.Context, user *model.User) (string, error) {
	if user.ID == "" {
		user.ID = qr.NewID()
	}
	if err := g.users.Create(user); err != nil {
		return "", remoteErr(err)
	}
	return user.ID, nil
}

func (g *DatabaseGateway) UpdateUser(ctx context.Context, id string, updates map[string]interface{}) error {
	fields := make(map[string]interface{}, len(updates))
	for key, value := range updates {
		column, ok := userColumns[key]
		if !ok {
			continue
		}
		fields[column] = value
	}
	if len(fields) == 0 {
		return nil
	}
	if err := g.users.UpdateFields(id, fields); err != nil {
		return remoteErr(err)
	}
	return nil
}

func (g *DatabaseGateway) DeleteUser(ctx context.Context, id string) error {
	if err := g.users.Delete(id); err != nil {
		return remoteErr(err)
	}
	return nil
}

func (g *DatabaseGateway) GetPendingUsers(ctx context.Context) ([]model.User, error) {
	users, err := g.users.GetPending()
	if err != nil {
		return nil, remoteErr(err)
	}
	return users, nil
}

// ApproveUser 审批在一个事务里完成：建订阅 + 翻用户状态
func (g *DatabaseGateway) ApproveUser(ctx context.Context, userID string, sub *model.Subscription) error {
	if sub.ID == "" {
		sub.ID = qr.NewID()
	}
	err := g.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", userID).
			Update("subscription_status", model.SubscriptionActive).Error
	})
	if err != nil {
		return remoteErr(err)
	}
	return nil
}

func (g *DatabaseGateway) GetSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	subs, err := g.subs.GetAll()
	if err != nil {
		return nil, remoteErr(err)
	}
	return subs, nil
}

func (g *DatabaseGateway) AddSubscription(ctx context.Context, sub *model.Subscription) (string, error) {
	if sub.ID == "" {
		sub.ID = qr.NewID()
	}
	if err := g.subs.Create(sub); err != nil {
		return "", remoteErr(err)
	}
	return sub.ID, nil
}

func (g *DatabaseGateway) GetAttendance(ctx context.Context) ([]model.Attendance, error) {
	records, err := g.records.GetAll()
	if err != nil {
		return nil, remoteErr(err)
	}
	return records, nil
}

func (g *DatabaseGateway) RecordAttendance(ctx context.Context, rec *model.Attendance) error {
	if err := g.records.Create(rec); err != nil {
		return remoteErr(err)
	}
	return nil
}

// ExpireSubscriptionsBefore 一条 UPDATE 批量翻过期订阅
func (g *DatabaseGateway) ExpireSubscriptionsBefore(ctx context.Context, date string) (int64, error) {
	count, err := g.subs.ExpireEndingBefore(date)
	if err != nil {
		return 0, remoteErr(err)
	}
	return count, nil
}

// RecordAttendanceBatch 数据库后端的批量提交，逐条幂等写入
func (g *DatabaseGateway) RecordAttendanceBatch(ctx context.Context, records []model.Attendance) error {
	for i := range records {
		if err := g.records.Create(&records[i]); err != nil {
			return remoteErr(err)
		}
	}
	return nil
}
