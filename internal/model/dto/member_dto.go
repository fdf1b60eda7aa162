package dto

// AddMemberRequest 管理员添加会员
type AddMemberRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=6,max=64"`
	Role     string `json:"role" binding:"omitempty,oneof=admin member"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// UpdateMemberRequest 更新会员资料，零值字段不变更
type UpdateMemberRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// ApproveMemberRequest 审批待定会员并开通订阅。
// end_date 省略时按套餐类型从 start_date 推算
type ApproveMemberRequest struct {
	Type      string `json:"type" binding:"required,oneof=monthly quarterly yearly"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"`
}

// SubscriptionStatusResponse 订阅状态查询响应
type SubscriptionStatusResponse struct {
	Status          string `json:"status"` // active, expiring_soon, expired, pending
	DaysUntilExpiry int    `json:"days_until_expiry"`
	StartDate       string `json:"start_date,omitempty"`
	EndDate         string `json:"end_date,omitempty"`
	Type            string `json:"type,omitempty"`
}
