package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anouarkehili/DADAGYM3/internal/api/middleware"
	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/model/dto"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/qr"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/response"
	"github.com/anouarkehili/DADAGYM3/internal/service"
)

type AttendanceHandler struct {
	attendanceService *service.AttendanceService
	syncService       *service.SyncService
}

func NewAttendanceHandler(attendanceService *service.AttendanceService, syncService *service.SyncService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		syncService:       syncService,
	}
}

// Record 手动打卡。普通会员只能给自己打，管理员可以替他人补录
// POST /api/v1/attendance
func (h *AttendanceHandler) Record(c *gin.Context) {
	var req dto.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	callerID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)

	targetID := req.UserID
	if targetID == "" {
		targetID = callerID
	}
	if targetID != callerID && role != model.RoleAdmin {
		response.PermissionError(c, "只能为自己打卡")
		return
	}

	rec, err := h.attendanceService.Record(c.Request.Context(), targetID, req.Type)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownMember):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidAttendanceType):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, rec)
}

// Scan 扫场馆码自助签到
// POST /api/v1/attendance/scan
func (h *AttendanceHandler) Scan(c *gin.Context) {
	var req dto.ScanCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	userID, _ := middleware.GetUserID(c)
	rec, err := h.attendanceService.ScanCheckIn(c.Request.Context(), userID, req.QRData)
	if err != nil {
		switch {
		case errors.Is(err, qr.ErrInvalidPayload):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUnknownMember):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "签到成功", rec)
}

// History 考勤历史。普通会员只能看自己的，管理员可按 user_id、date 过滤
// GET /api/v1/attendance?user_id=xxx&date=2025-01-01
func (h *AttendanceHandler) History(c *gin.Context) {
	callerID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)

	userID := c.Query("user_id")
	if role != model.RoleAdmin {
		userID = callerID
	}

	records := h.attendanceService.History(userID, c.Query("date"))
	response.Success(c, records)
}

// GymQR 场馆自助签到码内容，前端据此渲染二维码
// GET /api/v1/attendance/gym-qr
func (h *AttendanceHandler) GymQR(c *gin.Context) {
	response.Success(c, gin.H{"qr_data": h.attendanceService.GymQR()})
}

// Sync 手动触发一轮离线同步
// POST /api/v1/attendance/sync
func (h *AttendanceHandler) Sync(c *gin.Context) {
	result := h.syncService.SyncOfflineData(c.Request.Context())
	response.Success(c, result)
}
