package repository

import (
	"gorm.io/gorm"

	"github.com/anouarkehili/DADAGYM3/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetAll() ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.Find(&subs).Error
	return subs, err
}

func (r *SubscriptionRepository) GetActiveByUser(userID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("user_id = ? AND status = ?", userID, model.SubscriptionActive).
		Order("end_date DESC").First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) UpdateStatus(id, status string) error {
	return r.db.Model(&model.Subscription{}).Where("id = ?", id).
		Update("status", status).Error
}

// ExpireEndingBefore 把 endDate 早于给定日期且仍标记 active 的订阅批量翻成 expired，
// 到期扫描用，返回受影响行数
func (r *SubscriptionRepository) ExpireEndingBefore(date string) (int64, error) {
	res := r.db.Model(&model.Subscription{}).
		Where("status = ? AND end_date < ?", model.SubscriptionActive, date).
		Update("status", model.SubscriptionExpired)
	return res.RowsAffected, res.Error
}
