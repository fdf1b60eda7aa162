package service

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"github.com/anouarkehili/DADAGYM3/internal/cache"
	"github.com/anouarkehili/DADAGYM3/internal/gateway"
	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/qr"
	"github.com/anouarkehili/DADAGYM3/internal/store"
)

// fakeGateway 内存远程后端。offline=true 时所有操作返回 ErrRemoteUnavailable，
// 用来模拟断网
type fakeGateway struct {
	mu      sync.Mutex
	offline bool

	users       map[string]*model.User
	subs        map[string]*model.Subscription
	records     map[string]*model.Attendance
	writeCalls  int
	batchCalls  int
	updateCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		users:   make(map[string]*model.User),
		subs:    make(map[string]*model.Subscription),
		records: make(map[string]*model.Attendance),
	}
}

func (f *fakeGateway) setOffline(offline bool) {
	f.mu.Lock()
	f.offline = offline
	f.mu.Unlock()
}

func (f *fakeGateway) check() error {
	if f.offline {
		return gateway.ErrRemoteUnavailable
	}
	return nil
}

func (f *fakeGateway) GetUsers(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeGateway) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	found := *u
	return &found, nil
}

func (f *fakeGateway) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	for _, u := range f.users {
		if u.Name == name {
			found := *u
			return &found, nil
		}
	}
	return nil, gateway.ErrNotFound
}

func (f *fakeGateway) AddUser(ctx context.Context, user *model.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return "", err
	}
	if user.ID == "" {
		user.ID = qr.NewID()
	}
	stored := *user
	f.users[user.ID] = &stored
	return user.ID, nil
}

func (f *fakeGateway) UpdateUser(ctx context.Context, id string, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	u, ok := f.users[id]
	if !ok {
		return gateway.ErrNotFound
	}
	f.updateCalls++
	for key, value := range updates {
		s, _ := value.(string)
		switch key {
		case "name":
			u.Name = s
		case "password":
			u.Password = s
		case "qrCode":
			u.QRCode = s
		case "subscriptionStatus":
			u.SubscriptionStatus = s
		case "phone":
			u.Phone = s
		case "email":
			u.Email = s
		}
	}
	return nil
}

func (f *fakeGateway) DeleteUser(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	delete(f.users, id)
	return nil
}

func (f *fakeGateway) GetPendingUsers(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	var out []model.User
	for _, u := range f.users {
		if u.SubscriptionStatus == model.SubscriptionPending {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeGateway) ApproveUser(ctx context.Context, userID string, sub *model.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	stored := *sub
	f.subs[sub.ID] = &stored
	if u, ok := f.users[userID]; ok {
		u.SubscriptionStatus = model.SubscriptionActive
	}
	return nil
}

func (f *fakeGateway) GetSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	out := make([]model.Subscription, 0, len(f.subs))
	for _, s := range f.subs {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeGateway) AddSubscription(ctx context.Context, sub *model.Subscription) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return "", err
	}
	if sub.ID == "" {
		sub.ID = qr.NewID()
	}
	stored := *sub
	f.subs[sub.ID] = &stored
	return sub.ID, nil
}

func (f *fakeGateway) GetAttendance(ctx context.Context) ([]model.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	out := make([]model.Attendance, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeGateway) RecordAttendance(ctx context.Context, rec *model.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	f.writeCalls++
	stored := *rec
	f.records[rec.ID] = &stored
	return nil
}

// batchFakeGateway 在 fakeGateway 之上加批量能力
type batchFakeGateway struct {
	*fakeGateway
}

func (f *batchFakeGateway) RecordAttendanceBatch(ctx context.Context, records []model.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	f.batchCalls++
	for i := range records {
		stored := records[i]
		f.records[stored.ID] = &stored
	}
	return nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return store.New(cache.NewCache(client))
}
