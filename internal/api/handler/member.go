package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anouarkehili/DADAGYM3/internal/gateway"
	"github.com/anouarkehili/DADAGYM3/internal/model/dto"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/response"
	"github.com/anouarkehili/DADAGYM3/internal/service"
)

type MemberHandler struct {
	memberService       *service.MemberService
	subscriptionService *service.SubscriptionService
}

func NewMemberHandler(memberService *service.MemberService, subscriptionService *service.SubscriptionService) *MemberHandler {
	return &MemberHandler{
		memberService:       memberService,
		subscriptionService: subscriptionService,
	}
}

// List 会员列表
// GET /api/v1/admin/members
func (h *MemberHandler) List(c *gin.Context) {
	users := h.memberService.List()
	infos := make([]*dto.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, service.UserInfoOf(&users[i]))
	}
	response.Success(c, infos)
}

// Get 单个会员
// GET /api/v1/admin/members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	user, err := h.memberService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, service.UserInfoOf(user))
}

// Create 添加会员
// POST /api/v1/admin/members
func (h *MemberHandler) Create(c *gin.Context) {
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	user, err := h.memberService.Create(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, "会员已添加", service.UserInfoOf(user))
}

// Update 更新会员资料
// PUT /api/v1/admin/members/:id
func (h *MemberHandler) Update(c *gin.Context) {
	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	user, err := h.memberService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, gateway.ErrRemoteUnavailable) && user != nil {
			// 本地已更新，远程落后，交给前端提示重试
			response.RemoteError(c, "资料已保存到本地，远程同步失败")
			return
		}
		h.writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, "资料已更新", service.UserInfoOf(user))
}

// Delete 删除会员
// DELETE /api/v1/admin/members/:id
func (h *MemberHandler) Delete(c *gin.Context) {
	if err := h.memberService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, "会员已删除", nil)
}

// Pending 待审批会员列表
// GET /api/v1/admin/members/pending
func (h *MemberHandler) Pending(c *gin.Context) {
	users := h.memberService.Pending(c.Request.Context())
	infos := make([]*dto.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, service.UserInfoOf(&users[i]))
	}
	response.Success(c, infos)
}

// Approve 审批会员并开通订阅
// POST /api/v1/admin/members/:id/approve
func (h *MemberHandler) Approve(c *gin.Context) {
	var req dto.ApproveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sub, err := h.subscriptionService.Approve(c.Request.Context(), c.Param("id"), req.Type, req.StartDate, req.EndDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDates):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUnknownPlan):
			response.ParamError(c, err.Error())
		default:
			h.writeError(c, err)
		}
		return
	}
	response.SuccessWithMessage(c, "审批通过", sub)
}

// Stats 管理面板统计
// GET /api/v1/admin/stats
func (h *MemberHandler) Stats(c *gin.Context) {
	response.Success(c, h.memberService.Stats(time.Now()))
}

func (h *MemberHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownMember):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrNameExists):
		response.ParamError(c, err.Error())
	case errors.Is(err, gateway.ErrRemoteUnavailable):
		response.RemoteError(c, "远程后端暂不可用，请稍后重试")
	case errors.Is(err, gateway.ErrNotFound):
		response.NotFoundError(c, "记录不存在")
	default:
		response.ServerError(c, "")
	}
}
