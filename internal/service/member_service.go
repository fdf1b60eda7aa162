package service

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/anouarkehili/DADAGYM3/internal/gateway"
	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/model/dto"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/dateutil"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/qr"
	"github.com/anouarkehili/DADAGYM3/internal/store"
)

// MemberService 会员管理（管理员面）。写操作远程优先：
// 添加/删除必须远程确认，资料更新本地先行、远程失败上抛由前端重试
type MemberService struct {
	store *store.Store
	gw    gateway.Gateway
}

func NewMemberService(st *store.Store, gw gateway.Gateway) *MemberService {
	return &MemberService{store: st, gw: gw}
}

// Create 管理员录入会员。与注册同源：远程分配 ID 后才生成二维码
func (s *MemberService) Create(ctx context.Context, req *dto.AddMemberRequest) (*model.User, error) {
	if existing, err := s.gw.GetUserByName(ctx, req.Name); err == nil && existing != nil {
		return nil, ErrNameExists
	} else if err != nil && !errors.Is(err, gateway.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleMember
	}
	user := &model.User{
		Name:               req.Name,
		Password:           string(hashed),
		Role:               role,
		SubscriptionStatus: model.SubscriptionPending,
		Phone:              req.Phone,
		Email:              req.Email,
		CreatedAt:          time.Now(),
	}

	id, err := s.gw.AddUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	user.QRCode = qr.GenerateUserQR(user)
	if err := s.gw.UpdateUser(ctx, user.ID, map[string]interface{}{"qrCode": user.QRCode}); err != nil {
		log.Printf("Create member: save qr code for %s failed: %v", user.ID, err)
	}

	s.store.UpsertUser(ctx, *user)
	return user, nil
}

// Update 更新会员资料，零值字段跳过。改名会连带重发二维码，
// 旧码里的 name 与账号对不上，扫码登录会拒绝
func (s *MemberService) Update(ctx context.Context, id string, req *dto.UpdateMemberRequest) (*model.User, error) {
	user, ok := s.store.FindUserByID(id)
	if !ok {
		remote, err := s.gw.GetUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				return nil, ErrUnknownMember
			}
			return nil, err
		}
		user = remote
	}

	updates := make(map[string]interface{})
	if req.Name != "" && req.Name != user.Name {
		if existing, err := s.gw.GetUserByName(ctx, req.Name); err == nil && existing != nil && existing.ID != id {
			return nil, ErrNameExists
		}
		user.Name = req.Name
		updates["name"] = req.Name
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
		updates["password"] = user.Password
	}
	if req.Phone != "" {
		user.Phone = req.Phone
		updates["phone"] = req.Phone
	}
	if req.Email != "" {
		user.Email = req.Email
		updates["email"] = req.Email
	}
	if len(updates) == 0 {
		return user, nil
	}

	if _, renamed := updates["name"]; renamed {
		user.QRCode = qr.GenerateUserQR(user)
		updates["qrCode"] = user.QRCode
	}

	// 本地先落快照，远程失败时把错误交给调用方决定是否重试
	s.store.UpsertUser(ctx, *user)
	if err := s.gw.UpdateUser(ctx, id, updates); err != nil {
		return user, err
	}
	return user, nil
}

// Delete 删除会员。远程确认后才动本地快照
func (s *MemberService) Delete(ctx context.Context, id string) error {
	if err := s.gw.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.store.RemoveUser(ctx, id)
	return nil
}

// List 全部会员（本地快照）
func (s *MemberService) List() []model.User {
	return s.store.Users()
}

// Get 按 ID 取单个会员
func (s *MemberService) Get(ctx context.Context, id string) (*model.User, error) {
	if user, ok := s.store.FindUserByID(id); ok {
		return user, nil
	}
	user, err := s.gw.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, ErrUnknownMember
		}
		return nil, err
	}
	return user, nil
}

// Pending 待审批会员，远程优先、离线退快照
func (s *MemberService) Pending(ctx context.Context) []model.User {
	pending, err := s.gw.GetPendingUsers(ctx)
	if err != nil {
		log.Printf("List pending members remote fetch failed, using snapshot: %v", err)
		return s.store.PendingUsers()
	}
	s.store.SetPendingUsers(ctx, pending)
	return pending
}

// Stats 管理面板统计，完全基于本地快照计算
func (s *MemberService) Stats(now time.Time) *dto.StatsResponse {
	stats := &dto.StatsResponse{}

	for _, u := range s.store.Users() {
		if u.Role == model.RoleMember {
			stats.TotalMembers++
		}
		if u.SubscriptionStatus == model.SubscriptionPending {
			stats.PendingMembers++
		}
	}

	today := dateutil.FormatDate(now)
	for _, rec := range s.store.Attendance() {
		if rec.Date == today && rec.Type == model.CheckIn {
			stats.TodayCheckIns++
		}
		if !rec.Synced {
			stats.UnsyncedRecords++
		}
	}

	for _, sub := range s.store.Subscriptions() {
		if sub.Status != model.SubscriptionActive {
			continue
		}
		if IsActive(sub.EndDate, now) {
			stats.ActiveSubscriptions++
		}
	}

	return stats
}
