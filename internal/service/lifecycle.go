package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/dateutil"
)

var ErrUnknownPlan = errors.New("未知的订阅类型")

// 订阅展示状态
const (
	StatusActive       = "active"
	StatusExpiringSoon = "expiring_soon"
	StatusExpired      = "expired"
	StatusPending      = "pending"
)

// ExpiringSoonDays 剩余天数不超过该值时视为即将到期
const ExpiringSoonDays = 7

// IsActive 订阅是否仍然有效。边界取闭区间：endDate 当天仍算有效。
// 日期无法解析时按失效处理
func IsActive(endDate string, now time.Time) bool {
	end, err := dateutil.ParseDate(endDate)
	if err != nil {
		return false
	}
	return !end.Before(dateutil.Truncate(now))
}

// DaysUntilExpiry 距离到期的天数。当天到期为 0，
// 已过期为负数。只看日期部分，不受时分秒影响
func DaysUntilExpiry(endDate string, now time.Time) int {
	end, err := dateutil.ParseDate(endDate)
	if err != nil {
		return 0
	}
	return int(end.Sub(dateutil.Truncate(now)).Hours() / 24)
}

// ComputeEndDate 按套餐类型从开始日期推算结束日期，用日历运算而不是固定天数。
// 月末日期遵循 Go 的规范化规则（2025-01-31 + 1 个月 = 2025-03-03）
func ComputeEndDate(startDate, planType string) (string, error) {
	start, err := dateutil.ParseDate(startDate)
	if err != nil {
		return "", err
	}

	var end time.Time
	switch planType {
	case model.PlanMonthly:
		end = start.AddDate(0, 1, 0)
	case model.PlanQuarterly:
		end = start.AddDate(0, 3, 0)
	case model.PlanYearly:
		end = start.AddDate(1, 0, 0)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownPlan, planType)
	}

	return dateutil.FormatDate(end), nil
}

// StatusFor 派生订阅的展示状态和剩余天数。sub 为 nil 表示没有订阅记录
func StatusFor(sub *model.Subscription, now time.Time) (string, int) {
	if sub == nil {
		return StatusPending, 0
	}
	days := DaysUntilExpiry(sub.EndDate, now)
	if !IsActive(sub.EndDate, now) {
		return StatusExpired, days
	}
	if days <= ExpiringSoonDays {
		return StatusExpiringSoon, days
	}
	return StatusActive, days
}
