package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/qr"
)

func setupAttendanceService(t *testing.T) (*AttendanceService, *fakeGateway) {
	t.Helper()

	st := newTestStore(t)
	gw := newFakeGateway()
	svc := NewAttendanceService(st, gw, nil, nil, "DADA GYM")

	st.UpsertUser(context.Background(), model.User{ID: "u1", Name: "ahmed", Role: model.RoleMember})
	return svc, gw
}

func TestRecordOnline(t *testing.T) {
	svc, gw := setupAttendanceService(t)
	ctx := context.Background()

	rec, err := svc.Record(ctx, "u1", model.CheckIn)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, model.CheckIn, rec.Type)
	assert.NotEmpty(t, rec.Date)
	assert.NotEmpty(t, rec.Time)
	// 远程在线，记录立即确认
	assert.True(t, rec.Synced)
	assert.Equal(t, 1, gw.writeCalls)
	assert.Empty(t, svc.store.UnsyncedAttendance())
}

func TestRecordOfflineKeepsLocal(t *testing.T) {
	svc, gw := setupAttendanceService(t)
	ctx := context.Background()
	gw.setOffline(true)

	rec, err := svc.Record(ctx, "u1", model.CheckIn)
	require.NoError(t, err, "remote failure must not fail the recording")

	assert.False(t, rec.Synced)
	pending := svc.store.UnsyncedAttendance()
	require.Len(t, pending, 1)
	assert.Equal(t, rec.ID, pending[0].ID)
}

func TestRecordUnknownUser(t *testing.T) {
	svc, _ := setupAttendanceService(t)

	_, err := svc.Record(context.Background(), "ghost", model.CheckIn)
	assert.ErrorIs(t, err, ErrUnknownMember)
}

func TestRecordInvalidType(t *testing.T) {
	svc, _ := setupAttendanceService(t)

	_, err := svc.Record(context.Background(), "u1", "lunch-break")
	assert.ErrorIs(t, err, ErrInvalidAttendanceType)
}

func TestRecordResolvesUserFromRemote(t *testing.T) {
	st := newTestStore(t)
	gw := newFakeGateway()
	gw.users["u9"] = &model.User{ID: "u9", Name: "karim", Role: model.RoleMember}
	svc := NewAttendanceService(st, gw, nil, nil, "DADA GYM")

	rec, err := svc.Record(context.Background(), "u9", model.CheckOut)
	require.NoError(t, err)
	assert.Equal(t, "u9", rec.UserID)
}

func TestRecordIDsAreUnique(t *testing.T) {
	svc, _ := setupAttendanceService(t)
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		rec, err := svc.Record(ctx, "u1", model.CheckIn)
		require.NoError(t, err)
		_, dup := seen[rec.ID]
		require.False(t, dup, "duplicate record id %s", rec.ID)
		seen[rec.ID] = struct{}{}
	}
}

func TestScanCheckIn(t *testing.T) {
	svc, _ := setupAttendanceService(t)
	ctx := context.Background()

	t.Run("valid gym code", func(t *testing.T) {
		rec, err := svc.ScanCheckIn(ctx, "u1", qr.GenerateGymQR("DADA GYM"))
		require.NoError(t, err)
		assert.Equal(t, model.CheckIn, rec.Type)
	})

	t.Run("foreign gym rejected", func(t *testing.T) {
		_, err := svc.ScanCheckIn(ctx, "u1", qr.GenerateGymQR("OTHER GYM"))
		assert.ErrorIs(t, err, qr.ErrInvalidPayload)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := svc.ScanCheckIn(ctx, "u1", "not a qr payload")
		assert.ErrorIs(t, err, qr.ErrInvalidPayload)
	})

	t.Run("user qr is not a gym qr", func(t *testing.T) {
		userQR := qr.GenerateUserQR(&model.User{ID: "u1", Name: "ahmed", Role: model.RoleMember})
		_, err := svc.ScanCheckIn(ctx, "u1", userQR)
		assert.ErrorIs(t, err, qr.ErrInvalidPayload)
	})
}

func TestHistory(t *testing.T) {
	svc, _ := setupAttendanceService(t)
	ctx := context.Background()
	st := svc.store

	st.AppendAttendance(ctx, model.Attendance{ID: "a1", UserID: "u1", Date: "2025-01-10", Time: "09:00:00", Type: model.CheckIn})
	st.AppendAttendance(ctx, model.Attendance{ID: "a2", UserID: "u1", Date: "2025-01-12", Time: "08:00:00", Type: model.CheckIn})
	st.AppendAttendance(ctx, model.Attendance{ID: "a3", UserID: "u2", Date: "2025-01-11", Time: "10:00:00", Type: model.CheckIn})
	st.AppendAttendance(ctx, model.Attendance{ID: "a4", UserID: "u1", Date: "2025-01-12", Time: "18:30:00", Type: model.CheckOut})

	t.Run("filter by user, newest first", func(t *testing.T) {
		records := svc.History("u1", "")
		require.Len(t, records, 3)
		assert.Equal(t, "a4", records[0].ID)
		assert.Equal(t, "a2", records[1].ID)
		assert.Equal(t, "a1", records[2].ID)
	})

	t.Run("filter by date", func(t *testing.T) {
		records := svc.History("", "2025-01-12")
		require.Len(t, records, 2)
		assert.Equal(t, "a4", records[0].ID)
	})

	t.Run("no filters returns everything", func(t *testing.T) {
		assert.Len(t, svc.History("", ""), 4)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, svc.History("nobody", ""))
	})
}
