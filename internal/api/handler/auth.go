package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anouarkehili/DADAGYM3/internal/api/middleware"
	"github.com/anouarkehili/DADAGYM3/internal/gateway"
	"github.com/anouarkehili/DADAGYM3/internal/model/dto"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/qr"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/response"
	"github.com/anouarkehili/DADAGYM3/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register 用户注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameExists):
			response.ParamError(c, err.Error())
		case errors.Is(err, gateway.ErrRemoteUnavailable):
			response.RemoteError(c, "远程后端暂不可用，请稍后重试")
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "注册成功，等待管理员审批", resp)
}

// Login 用户名密码登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "登录成功", resp)
}

// LoginQR 扫码登录
// POST /api/v1/auth/login/qr
func (h *AuthHandler) LoginQR(c *gin.Context) {
	var req dto.QRLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.LoginWithQR(c.Request.Context(), req.QRData)
	if err != nil {
		switch {
		case errors.Is(err, qr.ErrInvalidPayload):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrQRExpired):
			response.AuthError(c, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "登录成功", resp)
}

// Logout 登出
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	h.authService.Logout(c.Request.Context(), userID)
	response.SuccessWithMessage(c, "已登出", nil)
}
