package service

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/anouarkehili/DADAGYM3/config"
	"github.com/anouarkehili/DADAGYM3/internal/cache"
	"github.com/anouarkehili/DADAGYM3/internal/gateway"
	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/model/dto"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/jwt"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/qr"
	"github.com/anouarkehili/DADAGYM3/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrNameExists         = errors.New("用户名已存在")
	ErrQRExpired          = errors.New("二维码已过期")
)

// AuthService 注册、密码登录、扫码登录
type AuthService struct {
	store  *store.Store
	gw     gateway.Gateway
	cache  *cache.Cache
	jwtCfg config.JWTConfig
	qrCfg  config.QRConfig
}

func NewAuthService(st *store.Store, gw gateway.Gateway, c *cache.Cache, jwtCfg config.JWTConfig, qrCfg config.QRConfig) *AuthService {
	return &AuthService{
		store:  st,
		gw:     gw,
		cache:  c,
		jwtCfg: jwtCfg,
		qrCfg:  qrCfg,
	}
}

// Register 注册新会员：状态 pending，等管理员审批后才有订阅。
// 二维码必须在拿到最终 ID 之后生成，否则扫出来的载荷对不上账号
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	if existing, err := s.gw.GetUserByName(ctx, req.Name); err == nil && existing != nil {
		return nil, ErrNameExists
	} else if err != nil && !errors.Is(err, gateway.ErrNotFound) {
		// 远程不可用时退回本地快照查重，避免注册整体瘫痪
		if _, ok := s.store.FindUserByName(req.Name); ok {
			return nil, ErrNameExists
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:               req.Name,
		Password:           string(hashed),
		Role:               model.RoleMember,
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

	qrCode := qr.GenerateUserQR(user)
	user.QRCode = qrCode
	if err := s.gw.UpdateUser(ctx, user.ID, map[string]interface{}{"qrCode": qrCode}); err != nil {
		log.Printf("Register: save qr code for %s failed: %v", user.ID, err)
	}

	s.store.UpsertUser(ctx, *user)
	return s.buildSession(ctx, user)
}

// Login 用户名+密码登录
func (s *AuthService) Login(ctx context.Context, name, password string) (*dto.LoginResponse, error) {
	user, err := s.gw.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		// 远程不可用时退回本地快照。快照里的哈希可能落后于远程的
		// 最新改密，离线窗口内旧密码仍然可用，刷新之后收敛
		cached, ok := s.store.FindUserByName(name)
		if !ok {
			return nil, ErrInvalidCredentials
		}
		user = cached
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	s.store.UpsertUser(ctx, *user)
	return s.buildSession(ctx, user)
}

// LoginWithQR 扫会员码登录。载荷校验是严格的：四个字段缺一不可，
// 且 name/role 必须与账号当前值一致，旧码在改名/改角色后立即失效
func (s *AuthService) LoginWithQR(ctx context.Context, qrData string) (*dto.LoginResponse, error) {
	payload, err := qr.ParseUserQR(qrData)
	if err != nil {
		return nil, err
	}

	if s.qrCfg.MaxAgeHours > 0 {
		maxAge := time.Duration(s.qrCfg.MaxAgeHours) * time.Hour
		if time.Since(payload.IssuedAt()) > maxAge {
			return nil, ErrQRExpired
		}
	}

	user, err := s.gw.GetUserByID(ctx, payload.ID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		cached, ok := s.store.FindUserByID(payload.ID)
		if !ok {
			return nil, ErrInvalidCredentials
		}
		user = cached
	}

	if user.Name != payload.Name || user.Role != payload.Role {
		return nil, qr.ErrInvalidPayload
	}

	s.store.UpsertUser(ctx, *user)
	return s.buildSession(ctx, user)
}

// Logout 清掉缓存里的当前会话
func (s *AuthService) Logout(ctx context.Context, userID string) {
	s.cache.Remove(ctx, cache.KeyCurrentUser)
}

func (s *AuthService) buildSession(ctx context.Context, user *model.User) (*dto.LoginResponse, error) {
	token, err := jwt.GenerateToken(user.ID, user.Role, s.jwtCfg.Secret, s.jwtCfg.ExpireHours)
	if err != nil {
		return nil, err
	}

	info := UserInfoOf(user)
	s.cache.Set(ctx, cache.KeyCurrentUser, info)

	return &dto.LoginResponse{Token: token, User: info}, nil
}

// UserInfoOf 剥掉凭据后的对外用户信息
func UserInfoOf(user *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:                 user.ID,
		Name:               user.Name,
		Role:               user.Role,
		QRCode:             user.QRCode,
		SubscriptionStatus: user.SubscriptionStatus,
		Phone:              user.Phone,
		Email:              user.Email,
		CreatedAt:          user.CreatedAt.Format(time.RFC3339),
	}
}
