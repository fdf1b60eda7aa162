package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=6,max=64"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// QRLoginRequest 扫码登录请求，qr_data 为扫描到的原始 JSON 字符串
type QRLoginRequest struct {
	QRData string `json:"qr_data" binding:"required"`
}

// LoginResponse 登录/注册响应
type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo 用户信息（返回给前端，不含凭据）
type UserInfo struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	QRCode             string `json:"qrCode"`
	SubscriptionStatus string `json:"subscriptionStatus"`
	Phone              string `json:"phone,omitempty"`
	Email              string `json:"email,omitempty"`
	CreatedAt          string `json:"createdAt"`
}
