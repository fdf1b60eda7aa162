package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anouarkehili/DADAGYM3/internal/cache"
	"github.com/anouarkehili/DADAGYM3/internal/model"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(cache.NewCache(client))
}

func TestAppendAndMarkAttendance(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	s.AppendAttendance(ctx, model.Attendance{ID: "a1", UserID: "u1", Synced: false})
	s.AppendAttendance(ctx, model.Attendance{ID: "a2", UserID: "u1", Synced: false})

	assert.Len(t, s.UnsyncedAttendance(), 2)

	assert.True(t, s.MarkAttendanceSynced(ctx, "a1"))
	assert.Len(t, s.UnsyncedAttendance(), 1)

	// 重复标记是 no-op
	assert.False(t, s.MarkAttendanceSynced(ctx, "a1"))
	assert.Len(t, s.UnsyncedAttendance(), 1)

	// 不存在的记录
	assert.False(t, s.MarkAttendanceSynced(ctx, "missing"))
}

func TestMergeRemoteAttendancePreservesUnsynced(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	s.AppendAttendance(ctx, model.Attendance{ID: "local-1", UserID: "u1", Synced: false})
	s.AppendAttendance(ctx, model.Attendance{ID: "confirmed", UserID: "u1", Synced: false})
	s.AppendAttendance(ctx, model.Attendance{ID: "old-synced", UserID: "u1", Synced: true})

	remote := []model.Attendance{
		{ID: "remote-1", UserID: "u2", Synced: true},
		{ID: "confirmed", UserID: "u1", Synced: true},
	}
	s.MergeRemoteAttendance(ctx, remote)

	all := s.Attendance()
	ids := make(map[string]bool, len(all))
	for _, rec := range all {
		ids[rec.ID] = rec.Synced
	}

	// 远程记录原样保留，远程已确认的本地记录以远程为准
	assert.True(t, ids["remote-1"])
	assert.True(t, ids["confirmed"])
	// 本地未同步且远程没有的记录不能丢
	synced, ok := ids["local-1"]
	require.True(t, ok, "unsynced local record must survive merge")
	assert.False(t, synced)
	// 已同步的本地记录被远程快照整体替换
	_, ok = ids["old-synced"]
	assert.False(t, ok)
	assert.Len(t, all, 3)
}

func TestLoadCachedRestoresSnapshot(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	c := cache.NewCache(client)

	ctx := context.Background()
	first := New(c)
	first.SetUsers(ctx, []model.User{{ID: "u1", Name: "ahmed"}})
	first.AppendAttendance(ctx, model.Attendance{ID: "a1", UserID: "u1", Synced: false})

	// 新进程：同一份缓存恢复出同样的快照
	second := New(c)
	second.LoadCached(ctx)

	users := second.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "ahmed", users[0].Name)
	assert.Len(t, second.UnsyncedAttendance(), 1)
}

func TestUpsertAndRemoveUser(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	s.UpsertUser(ctx, model.User{ID: "u1", Name: "ahmed"})
	s.UpsertUser(ctx, model.User{ID: "u2", Name: "sara"})
	s.UpsertUser(ctx, model.User{ID: "u1", Name: "ahmed-renamed"})

	assert.Len(t, s.Users(), 2)
	user, ok := s.FindUserByID("u1")
	require.True(t, ok)
	assert.Equal(t, "ahmed-renamed", user.Name)

	user, ok = s.FindUserByName("sara")
	require.True(t, ok)
	assert.Equal(t, "u2", user.ID)

	s.RemoveUser(ctx, "u1")
	assert.Len(t, s.Users(), 1)
	_, ok = s.FindUserByID("u1")
	assert.False(t, ok)
}

func TestActiveSubscriptionForUser(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	s.AppendSubscription(ctx, model.Subscription{ID: "s1", UserID: "u1", EndDate: "2025-02-01", Status: model.SubscriptionActive})
	s.AppendSubscription(ctx, model.Subscription{ID: "s2", UserID: "u1", EndDate: "2025-06-01", Status: model.SubscriptionActive})
	s.AppendSubscription(ctx, model.Subscription{ID: "s3", UserID: "u1", EndDate: "2025-12-01", Status: model.SubscriptionExpired})
	s.AppendSubscription(ctx, model.Subscription{ID: "s4", UserID: "u2", EndDate: "2025-09-01", Status: model.SubscriptionActive})

	sub, ok := s.ActiveSubscriptionForUser("u1")
	require.True(t, ok)
	assert.Equal(t, "s2", sub.ID)

	_, ok = s.ActiveSubscriptionForUser("nobody")
	assert.False(t, ok)
}

func TestUpdateSubscription(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	s.AppendSubscription(ctx, model.Subscription{ID: "s1", UserID: "u1", Status: model.SubscriptionActive})
	s.UpdateSubscription(ctx, model.Subscription{ID: "s1", UserID: "u1", Status: model.SubscriptionExpired})

	subs := s.Subscriptions()
	require.Len(t, subs, 1)
	assert.Equal(t, model.SubscriptionExpired, subs[0].Status)
}

func TestGettersReturnCopies(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	s.UpsertUser(ctx, model.User{ID: "u1", Name: "ahmed"})

	users := s.Users()
	users[0].Name = "mutated"

	fresh := s.Users()
	assert.Equal(t, "ahmed", fresh[0].Name)
}
