package service

import (
	"context"
	"log"

	"github.com/anouarkehili/DADAGYM3/internal/gateway"
	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/model/dto"
	"github.com/anouarkehili/DADAGYM3/internal/store"
)

// SyncService 离线同步器。把快照里 synced=false 的考勤推到远程，
// 成功的翻标记，失败的留到下一轮，任何情况下都不会删记录。
// 幂等：没有新的未同步记录时整个操作是 no-op
type SyncService struct {
	store     *store.Store
	gw        gateway.Gateway
	batchSize int
}

func NewSyncService(st *store.Store, gw gateway.Gateway, batchSize int) *SyncService {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &SyncService{
		store:     st,
		gw:        gw,
		batchSize: batchSize,
	}
}

// SyncOfflineData 一轮完整的同步。远程失败不上抛（记录保持未同步即可），
// 重试节奏由调用方（定时器/手动触发）控制
func (s *SyncService) SyncOfflineData(ctx context.Context) *dto.SyncResult {
	pending := s.store.UnsyncedAttendance()
	result := &dto.SyncResult{Attempted: len(pending)}

	if len(pending) > 0 {
		if batcher, ok := s.gw.(gateway.BatchRecorder); ok {
			result.Synced = s.pushBatches(ctx, batcher, pending)
		} else {
			result.Synced = s.pushOneByOne(ctx, pending)
		}
	}

	// 同步后尽量用远程数据刷新全量快照，失败不影响本轮结果
	if err := s.RefreshData(ctx); err != nil {
		log.Printf("Refresh after sync failed: %v", err)
	}

	result.Remaining = len(s.store.UnsyncedAttendance())
	return result
}

func (s *SyncService) pushBatches(ctx context.Context, batcher gateway.BatchRecorder, pending []model.Attendance) int {
	synced := 0
	for start := 0; start < len(pending); start += s.batchSize {
		end := start + s.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		chunk := pending[start:end]

		if err := batcher.RecordAttendanceBatch(ctx, chunk); err != nil {
			log.Printf("Sync batch of %d failed: %v", len(chunk), err)
			continue
		}
		for _, rec := range chunk {
			s.store.MarkAttendanceSynced(ctx, rec.ID)
			synced++
		}
	}
	return synced
}

func (s *SyncService) pushOneByOne(ctx context.Context, pending []model.Attendance) int {
	synced := 0
	for i := range pending {
		if err := s.gw.RecordAttendance(ctx, &pending[i]); err != nil {
			log.Printf("Sync record %s failed: %v", pending[i].ID, err)
			continue
		}
		s.store.MarkAttendanceSynced(ctx, pending[i].ID)
		synced++
	}
	return synced
}

// RetryRecord 重试单条记录（worker 从重试队列触发）。
// 已同步的记录直接返回，天然幂等
func (s *SyncService) RetryRecord(ctx context.Context, recordID string) error {
	var target *model.Attendance
	for _, rec := range s.store.UnsyncedAttendance() {
		if rec.ID == recordID {
			found := rec
			target = &found
			break
		}
	}
	if target == nil {
		return nil
	}

	if err := s.gw.RecordAttendance(ctx, target); err != nil {
		return err
	}
	s.store.MarkAttendanceSynced(ctx, recordID)
	return nil
}

// RefreshData 从远程拉全量数据刷新本地快照和缓存。
// 远程拉回的考勤视为已确认，本地未同步的记录合并时保留
func (s *SyncService) RefreshData(ctx context.Context) error {
	users, err := s.gw.GetUsers(ctx)
	if err != nil {
		return err
	}
	subs, err := s.gw.GetSubscriptions(ctx)
	if err != nil {
		return err
	}
	records, err := s.gw.GetAttendance(ctx)
	if err != nil {
		return err
	}
	pending, err := s.gw.GetPendingUsers(ctx)
	if err != nil {
		return err
	}

	for i := range records {
		records[i].Synced = true
	}

	s.store.SetUsers(ctx, users)
	s.store.SetSubscriptions(ctx, subs)
	s.store.MergeRemoteAttendance(ctx, records)
	s.store.SetPendingUsers(ctx, pending)
	return nil
}
