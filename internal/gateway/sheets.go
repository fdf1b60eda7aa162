package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/anouarkehili/DADAGYM3/config"
	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/qr"
)

// sheetEnvelope 表格后端的统一响应包，success=false 一律按远程失败处理
type sheetEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// SheetsGateway 表格 HTTP API 后端（Google Apps Script / SheetDB 一类），
// 请求超时由配置给定，不依赖系统默认
type SheetsGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewSheetsGateway(cfg *config.GatewayConfig) *SheetsGateway {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SheetsGateway{
		baseURL: cfg.SheetsBaseURL,
		apiKey:  cfg.SheetsAPIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *SheetsGateway) request(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return remoteErr(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return remoteErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteErr(fmt.Errorf("http status %d", resp.StatusCode))
	}

	var env sheetEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return remoteErr(err)
	}
	if !env.Success {
		return remoteErr(errors.New(env.Error))
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return remoteErr(err)
		}
	}
	return nil
}

func (g *SheetsGateway) GetUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := g.request(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (g *SheetsGateway) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var users []model.User
	path := "/users/search?id=" + url.QueryEscape(id)
	if err := g.request(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return &users[0], nil
}

func (g *SheetsGateway) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	var users []model.User
	path := "/users/search?name=" + url.QueryEscape(name)
	if err := g.request(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return &users[0], nil
}

func (g *SheetsGateway) AddUser(ctx context.Context, user *model.User) (string, error) {
	if user.ID == "" {
		user.ID = qr.NewID()
	}
	if err := g.request(ctx, http.MethodPost, "/users", user, nil); err != nil {
		return "", err
	}
	return user.ID, nil
}

func (g *SheetsGateway) UpdateUser(ctx context.Context, id string, updates map[string]interface{}) error {
	return g.request(ctx, http.MethodPut, "/users/"+url.PathEscape(id), updates, nil)
}

func (g *SheetsGateway) DeleteUser(ctx context.Context, id string) error {
	return g.request(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

func (g *SheetsGateway) GetPendingUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	path := "/users/search?subscriptionStatus=" + model.SubscriptionPending
	if err := g.request(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (g *SheetsGateway) ApproveUser(ctx context.Context, userID string, sub *model.Subscription) error {
	if _, err := g.AddSubscription(ctx, sub); err != nil {
		return err
	}
	path := "/users/" + url.PathEscape(userID) + "/subscription-status"
	return g.request(ctx, http.MethodPut, path, map[string]string{"status": model.SubscriptionActive}, nil)
}

func (g *SheetsGateway) GetSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	var subs []model.Subscription
	if err := g.request(ctx, http.MethodGet, "/subscriptions", nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (g *SheetsGateway) AddSubscription(ctx context.Context, sub *model.Subscription) (string, error) {
	if sub.ID == "" {
		sub.ID = qr.NewID()
	}
	if err := g.request(ctx, http.MethodPost, "/subscriptions", sub, nil); err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (g *SheetsGateway) GetAttendance(ctx context.Context) ([]model.Attendance, error) {
	var records []model.Attendance
	if err := g.request(ctx, http.MethodGet, "/attendance", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (g *SheetsGateway) RecordAttendance(ctx context.Context, rec *model.Attendance) error {
	return g.request(ctx, http.MethodPost, "/attendance", rec, nil)
}

// RecordAttendanceBatch 批量提交离线积压的考勤
func (g *SheetsGateway) RecordAttendanceBatch(ctx context.Context, records []model.Attendance) error {
	body := map[string]interface{}{"records": records}
	return g.request(ctx, http.MethodPost, "/attendance/batch", body, nil)
}
