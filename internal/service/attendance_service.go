package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/anouarkehili/DADAGYM3/internal/gateway"
	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/dateutil"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/pubsub"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/qr"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/queue"
	"github.com/anouarkehili/DADAGYM3/internal/store"
)

var (
	ErrUnknownMember         = errors.New("用户不存在")
	ErrInvalidAttendanceType = errors.New("考勤类型无效")
)

// AttendanceService 考勤记录器。先写本地（写前置），再尝试远程，
// 远程失败只影响 synced 标记，不影响本地历史
type AttendanceService struct {
	store     *store.Store
	gw        gateway.Gateway
	queue     *queue.Queue
	publisher *pubsub.Publisher
	gymName   string
}

func NewAttendanceService(st *store.Store, gw gateway.Gateway, q *queue.Queue, pub *pubsub.Publisher, gymName string) *AttendanceService {
	return &AttendanceService{
		store:     st,
		gw:        gw,
		queue:     q,
		publisher: pub,
		gymName:   gymName,
	}
}

// Record 记录一次进出场。两次连续 check-in 不做状态机拦截，
// 是否提供该操作由上层界面决定
func (s *AttendanceService) Record(ctx context.Context, userID, recordType string) (*model.Attendance, error) {
	if recordType != model.CheckIn && recordType != model.CheckOut {
		return nil, ErrInvalidAttendanceType
	}

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec := model.Attendance{
		ID:        qr.NewID(),
		UserID:    userID,
		Date:      dateutil.FormatDate(now),
		Time:      dateutil.FormatTime(now),
		Type:      recordType,
		Synced:    false,
		CreatedAt: now,
	}

	// 写前置：先落本地快照和缓存，离线时用户也能立刻看到这条记录
	s.store.AppendAttendance(ctx, rec)

	if err := s.gw.RecordAttendance(ctx, &rec); err != nil {
		// 远程失败不致命，留给同步器收尾
		log.Printf("Record attendance %s remote write failed, kept unsynced: %v", rec.ID, err)
		s.enqueueRetry(ctx, &rec)
	} else {
		s.store.MarkAttendanceSynced(ctx, rec.ID)
		rec.Synced = true
	}

	s.publishEvent(ctx, &rec, user.Name)

	return &rec, nil
}

// ScanCheckIn 会员扫场馆码自助签到。载荷必须是本馆的 gym_checkin 码，
// 配置了场馆名时还要求名称一致，防止拿别家的码蹭签到
func (s *AttendanceService) ScanCheckIn(ctx context.Context, userID, qrData string) (*model.Attendance, error) {
	payload, err := qr.ParseGymQR(qrData)
	if err != nil {
		return nil, err
	}
	if s.gymName != "" && payload.Gym != s.gymName {
		return nil, qr.ErrInvalidPayload
	}
	return s.Record(ctx, userID, model.CheckIn)
}

// GymQR 当前场馆的自助签到码内容
func (s *AttendanceService) GymQR() string {
	return qr.GenerateGymQR(s.gymName)
}

// History 考勤历史，按 (date, time) 降序。userID、date 为空表示不过滤
func (s *AttendanceService) History(userID, date string) []model.Attendance {
	records := s.store.Attendance()

	filtered := records[:0]
	for _, rec := range records {
		if userID != "" && rec.UserID != userID {
			continue
		}
		if date != "" && rec.Date != date {
			continue
		}
		filtered = append(filtered, rec)
	}

	sort.Slice(filtered, func(i, j int) bool {
		ti := dateutil.ParseDateTime(filtered[i].Date, filtered[i].Time)
		tj := dateutil.ParseDateTime(filtered[j].Date, filtered[j].Time)
		return ti.After(tj)
	})

	return filtered
}

// resolveUser 确认 userID 能解析到一个身份：先看本地快照，再问远程
func (s *AttendanceService) resolveUser(ctx context.Context, userID string) (*model.User, error) {
	if user, ok := s.store.FindUserByID(userID); ok {
		return user, nil
	}
	user, err := s.gw.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrUnknownMember
	}
	return user, nil
}

func (s *AttendanceService) enqueueRetry(ctx context.Context, rec *model.Attendance) {
	if s.queue == nil {
		return
	}
	err := s.queue.Push(ctx, &queue.SyncMessage{
		RecordID: rec.ID,
		UserID:   rec.UserID,
		Type:     rec.Type,
	})
	if err != nil {
		log.Printf("Enqueue sync retry for %s failed: %v", rec.ID, err)
	}
}

func (s *AttendanceService) publishEvent(ctx context.Context, rec *model.Attendance, userName string) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishAttendance(ctx, &pubsub.AttendanceEvent{
		RecordID: rec.ID,
		UserID:   rec.UserID,
		UserName: userName,
		Date:     rec.Date,
		Time:     rec.Time,
		Kind:     rec.Type,
		Synced:   rec.Synced,
	})
	if err != nil {
		log.Printf("Publish attendance event for %s failed: %v", rec.ID, err)
	}
}
