package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Queue 同步重试队列。远程写失败的考勤记录进队，
// 由 worker 取出重试，队列只是触发器，真相始终在快照的 synced 标记里
type Queue struct {
	client    *redis.Client
	queueName string
}

// SyncMessage 一条待重试的考勤记录
type SyncMessage struct {
	RecordID string `json:"record_id"`
	UserID   string `json:"user_id"`
	Type     string `json:"type"`
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push 将记录加入重试队列
func (q *Queue) Push(ctx context.Context, msg *SyncMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop 从队列获取记录（阻塞）
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*SyncMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 超时，无任务
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg SyncMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return &msg, nil
}

// Length 获取队列长度
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
