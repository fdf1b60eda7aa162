package dateutil

import (
	"fmt"
	"time"
)

// 统一的日期/时间序列化格式。全库只用这一种解析方式，
// 避免不同 locale 下排序和比较漂移
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTime 格式化为 HH:MM:SS（24小时制）
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseDate 按统一格式解析日期
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseDateTime 把 (date, time) 合成一个时间点，用于排序比较。
// time 解析失败时退化为当天零点，date 解析失败返回零值
func ParseDateTime(date, clock string) time.Time {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}
	}
	c, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return d
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC)
}

// Truncate 去掉时分秒，只留日期部分（UTC）
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
