package cron

import (
	"context"
	"log"
	"time"

	"github.com/anouarkehili/DADAGYM3/internal/service"
)

// Service 后台定时任务：周期性离线同步 + 每日订阅到期扫描
type Service struct {
	syncService  *service.SyncService
	subsService  *service.SubscriptionService
	syncInterval time.Duration
	stopChan     chan struct{}
}

// NewService intervalMinutes <= 0 时关闭周期同步（worker 部署模式下由队列驱动）
func NewService(syncSvc *service.SyncService, subsSvc *service.SubscriptionService, intervalMinutes int) *Service {
	return &Service{
		syncService:  syncSvc,
		subsService:  subsSvc,
		syncInterval: time.Duration(intervalMinutes) * time.Minute,
		stopChan:     make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	if s.syncInterval > 0 {
		go s.runPeriodicSync()
	}
	go s.runDailyExpiry()
	log.Println("Cron service started (offline sync + subscription expiry)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runPeriodicSync 周期性把未同步考勤推到远程
func (s *Service) runPeriodicSync() {
	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			result := s.syncService.SyncOfflineData(context.Background())
			if result.Attempted > 0 {
				log.Printf("Periodic sync: attempted=%d synced=%d remaining=%d",
					result.Attempted, result.Synced, result.Remaining)
			}
		}
	}
}

// runDailyExpiry 每日零点后跑一次到期扫描
func (s *Service) runDailyExpiry() {
	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.expireSubscriptions()
			timer.Reset(24 * time.Hour)
		}
	}
}

func (s *Service) expireSubscriptions() {
	log.Println("Starting subscription expiry sweep...")
	count := s.subsService.ExpireOverdue(context.Background(), time.Now())
	log.Printf("Subscription expiry sweep completed: %d expired", count)
}
