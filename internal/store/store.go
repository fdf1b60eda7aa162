package store

import (
	"context"
	"sync"

	"github.com/anouarkehili/DADAGYM3/internal/cache"
	"github.com/anouarkehili/DADAGYM3/internal/model"
)

// Store 内存中的最近一次数据快照，读写都经过同一把读写锁，
// 保证读取方不会看到写到一半的集合。每次变更都写穿到缓存，
// 进程重启后可以从缓存恢复离线期间的数据
type Store struct {
	mu            sync.RWMutex
	users         []model.User
	subscriptions []model.Subscription
	attendance    []model.Attendance
	pendingUsers  []model.User

	cache *cache.Cache
}

func New(c *cache.Cache) *Store {
	return &Store{cache: c}
}

// LoadCached 启动时从缓存恢复快照，缓存为空或故障时保持空集合
func (s *Store) LoadCached(ctx context.Context) {
	var users []model.User
	var subs []model.Subscription
	var attendance []model.Attendance
	var pending []model.User

	s.cache.Get(ctx, cache.KeyUsers, &users)
	s.cache.Get(ctx, cache.KeySubscriptions, &subs)
	s.cache.Get(ctx, cache.KeyAttendance, &attendance)
	s.cache.Get(ctx, cache.KeyPendingUsers, &pending)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.subscriptions = subs
	s.attendance = attendance
	s.pendingUsers = pending
}

// Users 用户快照副本
func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out
}

// Subscriptions 订阅快照副本
func (s *Store) Subscriptions() []model.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Subscription, len(s.subscriptions))
	copy(out, s.subscriptions)
	return out
}

// Attendance 考勤快照副本
func (s *Store) Attendance() []model.Attendance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Attendance, len(s.attendance))
	copy(out, s.attendance)
	return out
}

// PendingUsers 待审批用户快照副本
func (s *Store) PendingUsers() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, len(s.pendingUsers))
	copy(out, s.pendingUsers)
	return out
}

// SetUsers 整体替换用户快照
func (s *Store) SetUsers(ctx context.Context, users []model.User) {
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	s.cache.Set(ctx, cache.KeyUsers, users)
}

// SetSubscriptions 整体替换订阅快照
func (s *Store) SetSubscriptions(ctx context.Context, subs []model.Subscription) {
	s.mu.Lock()
	s.subscriptions = subs
	s.mu.Unlock()
	s.cache.Set(ctx, cache.KeySubscriptions, subs)
}

// SetPendingUsers 整体替换待审批快照
func (s *Store) SetPendingUsers(ctx context.Context, pending []model.User) {
	s.mu.Lock()
	s.pendingUsers = pending
	s.mu.Unlock()
	s.cache.Set(ctx, cache.KeyPendingUsers, pending)
}

// MergeRemoteAttendance 用远程拉回的考勤替换快照，
// 本地尚未同步的记录在远程确认之前保持本地权威，不会被覆盖丢弃
func (s *Store) MergeRemoteAttendance(ctx context.Context, remote []model.Attendance) {
	s.mu.Lock()
	seen := make(map[string]struct{}, len(remote))
	for _, rec := range remote {
		seen[rec.ID] = struct{}{}
	}
	merged := make([]model.Attendance, len(remote), len(remote)+8)
	copy(merged, remote)
	for _, rec := range s.attendance {
		if rec.Synced {
			continue
		}
		if _, ok := seen[rec.ID]; ok {
			continue // 远程已有，视为已确认
		}
		merged = append(merged, rec)
	}
	s.attendance = merged
	s.mu.Unlock()
	s.cache.Set(ctx, cache.KeyAttendance, merged)
}

// AppendAttendance 追加一条考勤记录（写前置：先落本地再尝试远程）
func (s *Store) AppendAttendance(ctx context.Context, rec model.Attendance) {
	s.mu.Lock()
	s.attendance = append(s.attendance, rec)
	snapshot := make([]model.Attendance, len(s.attendance))
	copy(snapshot, s.attendance)
	s.mu.Unlock()
	s.cache.Set(ctx, cache.KeyAttendance, snapshot)
}

// MarkAttendanceSynced 把指定记录标记为已同步。幂等：
// 已同步的记录重复标记是 no-op，返回值表示本次是否发生了翻转
func (s *Store) MarkAttendanceSynced(ctx context.Context, id string) bool {
	s.mu.Lock()
	flipped := false
	for i := range s.attendance {
		if s.attendance[i].ID == id {
			if !s.attendance[i].Synced {
				s.attendance[i].Synced = true
				flipped = true
			}
			break
		}
	}
	if !flipped {
		s.mu.Unlock()
		return false
	}
	snapshot := make([]model.Attendance, len(s.attendance))
	copy(snapshot, s.attendance)
	s.mu.Unlock()
	s.cache.Set(ctx, cache.KeyAttendance, snapshot)
	return true
}

// UnsyncedAttendance 所有未同步记录的副本
func (s *Store) UnsyncedAttendance() []model.Attendance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Attendance
	for _, rec := range s.attendance {
		if !rec.Synced {
			out = append(out, rec)
		}
	}
	return out
}

// UpsertUser 插入或按 ID 更新一个用户
func (s *Store) UpsertUser(ctx context.Context, user model.User) {
	s.mu.Lock()
	found := false
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = user
			found = true
			break
		}
	}
	if !found {
		s.users = append(s.users, user)
	}
	snapshot := make([]model.User, len(s.users))
	copy(snapshot, s.users)
	s.mu.Unlock()
	s.cache.Set(ctx, cache.KeyUsers, snapshot)
}

// RemoveUser 按 ID 删除用户
func (s *Store) RemoveUser(ctx context.Context, id string) {
	s.mu.Lock()
	kept := s.users[:0]
	for _, u := range s.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.users = kept
	snapshot := make([]model.User, len(s.users))
	copy(snapshot, s.users)
	s.mu.Unlock()
	s.cache.Set(ctx, cache.KeyUsers, snapshot)
}

// AppendSubscription 追加一条订阅
func (s *Store) AppendSubscription(ctx context.Context, sub model.Subscription) {
	s.mu.Lock()
	s.subscriptions = append(s.subscriptions, sub)
	snapshot := make([]model.Subscription, len(s.subscriptions))
	copy(snapshot, s.subscriptions)
	s.mu.Unlock()
	s.cache.Set(ctx, cache.KeySubscriptions, snapshot)
}

// UpdateSubscription 按 ID 覆盖一条订阅，不存在则忽略
func (s *Store) UpdateSubscription(ctx context.Context, sub model.Subscription) {
	s.mu.Lock()
	updated := false
	for i := range s.subscriptions {
		if s.subscriptions[i].ID == sub.ID {
			s.subscriptions[i] = sub
			updated = true
			break
		}
	}
	if !updated {
		s.mu.Unlock()
		return
	}
	snapshot := make([]model.Subscription, len(s.subscriptions))
	copy(snapshot, s.subscriptions)
	s.mu.Unlock()
	s.cache.Set(ctx, cache.KeySubscriptions, snapshot)
}

// FindUserByID 按 ID 查找用户
func (s *Store) FindUserByID(id string) (*model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			found := u
			return &found, true
		}
	}
	return nil, false
}

// FindUserByName 按名称查找用户
func (s *Store) FindUserByName(name string) (*model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Name == name {
			found := u
			return &found, true
		}
	}
	return nil, false
}

// ActiveSubscriptionForUser 用户当前的 active 订阅（EndDate 最晚的一条）
func (s *Store) ActiveSubscriptionForUser(userID string) (*model.Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *model.Subscription
	for i := range s.subscriptions {
		sub := s.subscriptions[i]
		if sub.UserID != userID || sub.Status != model.SubscriptionActive {
			continue
		}
		if best == nil || sub.EndDate > best.EndDate {
			found := sub
			best = &found
		}
	}
	return best, best != nil
}
