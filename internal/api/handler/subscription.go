package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anouarkehili/DADAGYM3/internal/api/middleware"
	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/response"
	"github.com/anouarkehili/DADAGYM3/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Status 订阅状态。普通会员查自己，管理员可带 user_id 查任意会员
// GET /api/v1/subscription/status?user_id=xxx
func (h *SubscriptionHandler) Status(c *gin.Context) {
	callerID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)

	userID := c.Query("user_id")
	if userID == "" || role != model.RoleAdmin {
		userID = callerID
	}

	response.Success(c, h.subscriptionService.StatusForUser(userID, time.Now()))
}
