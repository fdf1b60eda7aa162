package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anouarkehili/DADAGYM3/internal/model"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create 写入一条考勤记录。ID 在客户端生成，重复提交同一 ID 视为已存在，
// 不报错（同步重试天然幂等）
func (r *AttendanceRepository) Create(rec *model.Attendance) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(rec).Error
}

func (r *AttendanceRepository) GetAll() ([]model.Attendance, error) {
	var records []model.Attendance
	err := r.db.Order("date DESC, time DESC").Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) GetByUser(userID string) ([]model.Attendance, error) {
	var records []model.Attendance
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC, time DESC").Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) GetByDate(date string) ([]model.Attendance, error) {
	var records []model.Attendance
	err := r.db.Where("date = ?", date).
		Order("time DESC").Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) CountByDate(date string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Attendance{}).Where("date = ?", date).Count(&count).Error
	return count, err
}
