package gateway

import (
	"context"
	"errors"

	"github.com/anouarkehili/DADAGYM3/internal/model"
)

var (
	// ErrRemoteUnavailable 远程后端故障（网络/超时/4xx/5xx/envelope success=false）。
	// 核心逻辑统一按可重试处理，不区分具体后端
	ErrRemoteUnavailable = errors.New("远程后端不可用")
	// ErrNotFound 查询无结果，不可重试
	ErrNotFound = errors.New("记录不存在")
)

// Gateway 远程数据后端的统一出入口。两个实现：
// database（MySQL，文档库的对位）与 sheets（表格 HTTP API），
// 组装时二选一，核心逻辑对具体后端无感知
type Gateway interface {
	GetUsers(ctx context.Context) ([]model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByName(ctx context.Context, name string) (*model.User, error)
	// AddUser 持久化用户；入参 ID 为空时由网关分配，返回最终 ID
	AddUser(ctx context.Context, user *model.User) (string, error)
	// UpdateUser 局部更新，键用 JSON 字段名（qrCode、subscriptionStatus …）
	UpdateUser(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteUser(ctx context.Context, id string) error
	GetPendingUsers(ctx context.Context) ([]model.User, error)
	// ApproveUser 开通订阅并把用户状态翻成 active
	ApproveUser(ctx context.Context, userID string, sub *model.Subscription) error

	GetSubscriptions(ctx context.Context) ([]model.Subscription, error)
	AddSubscription(ctx context.Context, sub *model.Subscription) (string, error)

	GetAttendance(ctx context.Context) ([]model.Attendance, error)
	RecordAttendance(ctx context.Context, rec *model.Attendance) error
}

// BatchRecorder 可选能力：支持批量提交考勤。
// 不支持的后端由同步器逐条提交，外部可见效果一致
type BatchRecorder interface {
	RecordAttendanceBatch(ctx context.Context, records []model.Attendance) error
}

// SubscriptionExpirer 可选能力：后端侧一次性把过期订阅翻成 expired。
// 不支持的后端由到期扫描逐个 UpdateUser
type SubscriptionExpirer interface {
	ExpireSubscriptionsBefore(ctx context.Context, date string) (int64, error)
}
