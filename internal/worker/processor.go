package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/anouarkehili/DADAGYM3/internal/pkg/queue"
	"github.com/anouarkehili/DADAGYM3/internal/service"
)

// Processor 重试任务处理器。队列消息只是触发器，
// 记录是否还需要推送以快照的 synced 标记为准
type Processor struct {
	syncService *service.SyncService
}

// NewProcessor 创建任务处理器
func NewProcessor(syncService *service.SyncService) *Processor {
	return &Processor{syncService: syncService}
}

// Process 重试一条考勤记录的远程写入
func (p *Processor) Process(ctx context.Context, msg *queue.SyncMessage) error {
	if err := p.syncService.RetryRecord(ctx, msg.RecordID); err != nil {
		return fmt.Errorf("retry record %s: %w", msg.RecordID, err)
	}
	log.Printf("Record %s synced via retry queue", msg.RecordID)
	return nil
}
