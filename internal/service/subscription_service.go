package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/anouarkehili/DADAGYM3/internal/gateway"
	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/model/dto"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/dateutil"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/qr"
	"github.com/anouarkehili/DADAGYM3/internal/store"
)

var (
	ErrInvalidDates = errors.New("订阅日期无效")
)

// SubscriptionService 订阅生命周期：查询状态、审批开通、到期扫描
type SubscriptionService struct {
	store *store.Store
	gw    gateway.Gateway
}

func NewSubscriptionService(st *store.Store, gw gateway.Gateway) *SubscriptionService {
	return &SubscriptionService{store: st, gw: gw}
}

// StatusForUser 按本地快照评估用户当前订阅状态
func (s *SubscriptionService) StatusForUser(userID string, now time.Time) *dto.SubscriptionStatusResponse {
	sub, _ := s.store.ActiveSubscriptionForUser(userID)
	status, days := StatusFor(sub, now)

	resp := &dto.SubscriptionStatusResponse{
		Status:          status,
		DaysUntilExpiry: days,
	}
	if sub != nil {
		resp.StartDate = sub.StartDate
		resp.EndDate = sub.EndDate
		resp.Type = sub.Type
	}
	return resp
}

// Approve 审批待审用户：建订阅、翻用户状态。endDate 为空时按套餐推算。
// 远程失败上抛，审批是管理动作，不做降级
func (s *SubscriptionService) Approve(ctx context.Context, userID, planType, startDate, endDate string) (*model.Subscription, error) {
	start, err := dateutil.ParseDate(startDate)
	if err != nil {
		return nil, ErrInvalidDates
	}

	if endDate == "" {
		computed, err := ComputeEndDate(startDate, planType)
		if err != nil {
			return nil, err
		}
		endDate = computed
	} else {
		end, err := dateutil.ParseDate(endDate)
		if err != nil || !end.After(start) {
			return nil, ErrInvalidDates
		}
	}

	sub := &model.Subscription{
		ID:        qr.NewID(),
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
		Type:      planType,
		Status:    model.SubscriptionActive,
	}

	if err := s.gw.ApproveUser(ctx, userID, sub); err != nil {
		return nil, err
	}

	s.store.AppendSubscription(ctx, *sub)
	if user, ok := s.store.FindUserByID(userID); ok {
		user.SubscriptionStatus = model.SubscriptionActive
		s.store.UpsertUser(ctx, *user)
	}
	return sub, nil
}

// ExpireOverdue 到期扫描：把 endDate 已过的 active 订阅翻成 expired，
// 顺带翻对应用户的 subscriptionStatus。远程失败不上抛，本地先翻，
// 下一次全量刷新会拉平差异。返回本地翻掉的数量
func (s *SubscriptionService) ExpireOverdue(ctx context.Context, now time.Time) int {
	today := dateutil.FormatDate(dateutil.Truncate(now))

	expired := 0
	for _, sub := range s.store.Subscriptions() {
		if sub.Status != model.SubscriptionActive {
			continue
		}
		if IsActive(sub.EndDate, now) {
			continue
		}

		sub.Status = model.SubscriptionExpired
		s.store.UpdateSubscription(ctx, sub)
		expired++

		if user, ok := s.store.FindUserByID(sub.UserID); ok {
			user.SubscriptionStatus = model.SubscriptionExpired
			s.store.UpsertUser(ctx, *user)
			if err := s.gw.UpdateUser(ctx, user.ID, map[string]interface{}{
				"subscriptionStatus": model.SubscriptionExpired,
			}); err != nil {
				log.Printf("Expire sweep: update user %s failed: %v", user.ID, err)
			}
		}
	}

	if expired == 0 {
		return 0
	}

	// 支持批量翻转的后端一条语句收尾，不支持的靠上面的逐用户更新兜底
	if expirer, ok := s.gw.(gateway.SubscriptionExpirer); ok {
		if count, err := expirer.ExpireSubscriptionsBefore(ctx, today); err != nil {
			log.Printf("Expire sweep: remote expire failed: %v", err)
		} else if count > 0 {
			log.Printf("Expire sweep: %d subscriptions expired remotely", count)
		}
	}
	return expired
}
