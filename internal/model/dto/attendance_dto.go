package dto

// RecordAttendanceRequest 手动打卡请求。user_id 为空时记到当前登录用户名下，
// 管理员可以替其他用户打卡
type RecordAttendanceRequest struct {
	UserID string `json:"user_id"`
	Type   string `json:"type" binding:"required,oneof=check-in check-out"`
}

// ScanCheckInRequest 扫场馆码自助签到请求
type ScanCheckInRequest struct {
	QRData string `json:"qr_data" binding:"required"`
}

// SyncResult 一次离线同步的结果
type SyncResult struct {
	Attempted int `json:"attempted"`
	Synced    int `json:"synced"`
	Remaining int `json:"remaining"`
}

// StatsResponse 场馆统计
type StatsResponse struct {
	TotalMembers        int `json:"total_members"`
	PendingMembers      int `json:"pending_members"`
	TodayCheckIns       int `json:"today_check_ins"`
	ActiveSubscriptions int `json:"active_subscriptions"`
	UnsyncedRecords     int `json:"unsynced_records"`
}
