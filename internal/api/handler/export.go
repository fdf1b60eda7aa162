package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anouarkehili/DADAGYM3/internal/pkg/export"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/response"
	"github.com/anouarkehili/DADAGYM3/internal/service"
	"github.com/anouarkehili/DADAGYM3/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	store             *store.Store
	attendanceService *service.AttendanceService
}

func NewExportHandler(st *store.Store, attendanceService *service.AttendanceService) *ExportHandler {
	return &ExportHandler{
		store:             st,
		attendanceService: attendanceService,
	}
}

// Attendance 导出考勤 xlsx，可按 user_id、date 过滤
// GET /api/v1/admin/export/attendance?user_id=xxx&date=2025-01-01
func (h *ExportHandler) Attendance(c *gin.Context) {
	records := h.attendanceService.History(c.Query("user_id"), c.Query("date"))

	buf, err := export.AttendanceXLSX(records, h.store.Users())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	filename := fmt.Sprintf("attendance_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Members 导出会员名单 xlsx
// GET /api/v1/admin/export/members
func (h *ExportHandler) Members(c *gin.Context) {
	buf, err := export.MembersXLSX(h.store.Users())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	filename := fmt.Sprintf("members_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
