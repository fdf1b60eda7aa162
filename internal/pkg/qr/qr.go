package qr

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anouarkehili/DADAGYM3/internal/model"
)

var ErrInvalidPayload = errors.New("二维码数据无效")

// GymCheckInType 场馆自助签到码的固定 type 字段
const GymCheckInType = "gym_checkin"

// UserPayload 用户登录二维码的载荷，字段与线上格式一一对应，缺一不可
type UserPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Timestamp int64  `json:"timestamp"` // 签发时间，epoch 毫秒
}

// GymPayload 场馆自助签到码的载荷
type GymPayload struct {
	Type      string `json:"type"`
	Gym       string `json:"gym"`
	Timestamp int64  `json:"timestamp"`
}

// GenerateUserQR 生成用户二维码内容。必须在用户分配到 ID 之后调用
func GenerateUserQR(user *model.User) string {
	data, _ := json.Marshal(UserPayload{
		ID:        user.ID,
		Name:      user.Name,
		Role:      user.Role,
		Timestamp: time.Now().UnixMilli(),
	})
	return string(data)
}

// GenerateGymQR 生成场馆自助签到码内容
func GenerateGymQR(gymName string) string {
	data, _ := json.Marshal(GymPayload{
		Type:      GymCheckInType,
		Gym:       gymName,
		Timestamp: time.Now().UnixMilli(),
	})
	return string(data)
}

// ParseUserQR 解析用户登录二维码。非 JSON 或任一必填字段缺失都按解析失败处理，
// 不做部分信任
func ParseUserQR(qrData string) (*UserPayload, error) {
	var p UserPayload
	if err := json.Unmarshal([]byte(qrData), &p); err != nil {
		return nil, ErrInvalidPayload
	}
	if p.ID == "" || p.Name == "" || p.Role == "" || p.Timestamp == 0 {
		return nil, ErrInvalidPayload
	}
	return &p, nil
}

// ParseGymQR 解析场馆自助签到码，type 必须是 gym_checkin
func ParseGymQR(qrData string) (*GymPayload, error) {
	var p GymPayload
	if err := json.Unmarshal([]byte(qrData), &p); err != nil {
		return nil, ErrInvalidPayload
	}
	if p.Type != GymCheckInType || p.Gym == "" || p.Timestamp == 0 {
		return nil, ErrInvalidPayload
	}
	return &p, nil
}

// IssuedAt 载荷签发时间
func (p *UserPayload) IssuedAt() time.Time {
	return time.UnixMilli(p.Timestamp)
}

// NewID 生成客户端本地唯一 ID：毫秒时间戳 + 随机后缀。
// 多台离线设备同时生成时冲突概率可以忽略
func NewID() string {
	suffix := make([]byte, 5)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand 基本不会失败，兜底用纳秒
		return fmt.Sprintf("%d_%d", time.Now().UnixMilli(), time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), hex.EncodeToString(suffix))
}
