package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/anouarkehili/DADAGYM3/internal/model"
)

// AttendanceXLSX 考勤记录导出为 xlsx，返回文件字节
func AttendanceXLSX(records []model.Attendance, users []model.User) (*bytes.Buffer, error) {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Member", "Date", "Time", "Type", "Synced"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, rec := range records {
		name := names[rec.UserID]
		if name == "" {
			name = rec.UserID
		}
		values := []interface{}{rec.ID, name, rec.Date, rec.Time, rec.Type, rec.Synced}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write attendance xlsx: %w", err)
	}
	return buf, nil
}

// MembersXLSX 会员名单导出为 xlsx，不含凭据列
func MembersXLSX(users []model.User) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Members"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Name", "Role", "Subscription", "Phone", "Email", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, u := range users {
		values := []interface{}{
			u.ID, u.Name, u.Role, u.SubscriptionStatus,
			u.Phone, u.Email, u.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write members xlsx: %w", err)
	}
	return buf, nil
}
