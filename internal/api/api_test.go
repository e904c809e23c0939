package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-mall/backend/internal/auth"
	"github.com/ai-mall/backend/internal/mail"
	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/services"
	"github.com/ai-mall/backend/internal/store"
	"github.com/ai-mall/backend/internal/store/sqlite"
)

type apiEnv struct {
	store  store.Store
	server *httptest.Server
	admin  *model.User
	vendor *model.User
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "aimall.db"))
	require.NoError(t, err)

	log := zerolog.Nop()
	fanout := services.NewFanout(s, services.DefaultBroadcastChunkSize, log)
	auditor := services.NewAuditor(s, log)
	mailer := mail.Noop{}

	router := NewRouter(Deps{
		Accounts:      services.NewAccountService(s),
		Catalog:       services.NewCatalogService(s, log),
		Moderation:    services.NewModerationService(s, fanout, auditor, mailer, "http://localhost:5173", log),
		Purchases:     services.NewPurchaseService(s, fanout, log),
		Vendors:       services.NewVendorService(s, fanout, mailer, "admin@example.com", "http://localhost:5173", log),
		Notifications: services.NewNotificationService(s),
		Auditor:       auditor,
		Authorizer:    auth.NewStoreAuthorizer(s),
		IsHealthy:     func() bool { return true },
	})

	env := &apiEnv{store: s, server: httptest.NewServer(router)}
	t.Cleanup(env.server.Close)

	ctx := context.Background()
	env.admin = env.mustCreateUser(t, ctx, "Admin", model.RoleAdmin)
	env.vendor = env.mustCreateUser(t, ctx, "Vendor", model.RoleVendor)
	env.vendor.IsVendor = true
	env.vendor.VendorStatus = model.VendorApproved
	env.vendor, err = s.Users().Update(ctx, env.vendor)
	require.NoError(t, err)

	return env
}

func (e *apiEnv) mustCreateUser(t *testing.T, ctx context.Context, name, role string) *model.User {
	t.Helper()
	id := uuid.NewString()
	u, err := e.store.Users().Create(ctx, &model.User{
		UserID: id,
		Name:   name,
		Email:  id[:8] + "@example.com",
		Role:   role,
	})
	require.NoError(t, err)
	return u
}

// do issues a request with the given caller credential and decodes the
// JSON body into out when non-nil.
func (e *apiEnv) do(t *testing.T, method, path, token string, payload, out interface{}) int {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *apiEnv) mustCreateAgent(t *testing.T) *model.Agent {
	t.Helper()
	var agent model.Agent
	code := e.do(t, http.MethodPost, "/api/agents", e.vendor.UserID,
		map[string]interface{}{"agentName": "Test Agent", "pricing": map[string]string{"type": "free"}}, &agent)
	require.Equal(t, http.StatusCreated, code)
	return &agent
}

func TestHealthEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	var body map[string]interface{}
	code := env.do(t, http.MethodGet, "/api/health", "", nil, &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
}

func TestAuthRequired(t *testing.T) {
	env := newAPIEnv(t)
	code := env.do(t, http.MethodGet, "/api/agents", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code = env.do(t, http.MethodGet, "/api/agents", "unknown-user", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestBlockedUserRejected(t *testing.T) {
	env := newAPIEnv(t)
	ctx := context.Background()
	u := env.mustCreateUser(t, ctx, "Blocked", model.RoleUser)
	u.IsBlocked = true
	_, err := env.store.Users().Update(ctx, u)
	require.NoError(t, err)

	code := env.do(t, http.MethodGet, "/api/agents", u.UserID, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAgentLifecycleOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	agent := env.mustCreateAgent(t)
	require.Equal(t, model.ReviewDraft, agent.ReviewStatus)

	// Submit, then approve as admin.
	var submitted model.Agent
	code := env.do(t, http.MethodPost, "/api/agents/"+agent.AgentID+"/submit", env.vendor.UserID, nil, &submitted)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.ReviewPending, submitted.ReviewStatus)

	var approved model.Agent
	code = env.do(t, http.MethodPost, "/api/admin/agents/"+agent.AgentID+"/approve", env.admin.UserID,
		map[string]string{"note": "ship it"}, &approved)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.StatusLive, approved.Status)

	// Now visible in the marketplace.
	var market struct {
		Agents []model.Agent `json:"agents"`
		Count  int           `json:"count"`
	}
	code = env.do(t, http.MethodGet, "/api/agents", env.vendor.UserID, nil, &market)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, market.Count)
}

func TestApproveRequiresAdminOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	agent := env.mustCreateAgent(t)

	code := env.do(t, http.MethodPost, "/api/admin/agents/"+agent.AgentID+"/approve", env.vendor.UserID, nil, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRejectValidationOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	agent := env.mustCreateAgent(t)

	code := env.do(t, http.MethodPost, "/api/admin/agents/"+agent.AgentID+"/reject", env.admin.UserID,
		map[string]string{"reason": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = env.do(t, http.MethodPost, "/api/admin/agents/"+agent.AgentID+"/reject", env.admin.UserID,
		map[string]string{"reason": "not ready"}, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestApproveUnknownAgentOverHTTP(t *testing.T) {
	env := newAPIEnv(t)

	code := env.do(t, http.MethodPost, "/api/admin/agents/"+uuid.NewString()+"/approve", env.admin.UserID, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code = env.do(t, http.MethodPost, "/api/admin/agents/not-a-uuid/approve", env.admin.UserID, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDeleteAgentOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	agent := env.mustCreateAgent(t)

	var res struct {
		Success bool   `json:"success"`
		AgentID string `json:"agentId"`
	}
	code := env.do(t, http.MethodDelete, "/api/admin/agents/"+agent.AgentID, env.admin.UserID, nil, &res)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, res.Success)
	assert.Equal(t, agent.AgentID, res.AgentID)

	code = env.do(t, http.MethodGet, "/api/agents/"+agent.AgentID, env.vendor.UserID, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBuyDuplicateOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	ctx := context.Background()
	agent := env.mustCreateAgent(t)
	code := env.do(t, http.MethodPost, "/api/admin/agents/"+agent.AgentID+"/approve", env.admin.UserID, nil, nil)
	require.Equal(t, http.StatusOK, code)

	buyer := env.mustCreateUser(t, ctx, "Buyer", model.RoleUser)
	code = env.do(t, http.MethodPost, "/api/agents/"+agent.AgentID+"/buy", buyer.UserID, nil, nil)
	assert.Equal(t, http.StatusCreated, code)
	code = env.do(t, http.MethodPost, "/api/agents/"+agent.AgentID+"/buy", buyer.UserID, nil, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestVendorOnboardingOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	ctx := context.Background()
	applicant := env.mustCreateUser(t, ctx, "Applicant", model.RoleUser)

	var registered model.User
	code := env.do(t, http.MethodPost, "/api/vendors/register", applicant.UserID,
		map[string]string{"companyName": "Acme AI", "companyType": "startup"}, &registered)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, model.VendorPending, registered.VendorStatus)

	// Status is readable without authentication.
	var status map[string]string
	code = env.do(t, http.MethodGet, "/api/vendors/status?email="+applicant.Email, "", nil, &status)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.VendorPending, status["vendorStatus"])

	code = env.do(t, http.MethodPost, "/api/admin/vendors/"+applicant.UserID+"/approve", env.admin.UserID, nil, nil)
	require.Equal(t, http.StatusOK, code)

	code = env.do(t, http.MethodGet, "/api/vendors/status?email="+applicant.Email, "", nil, &status)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.VendorApproved, status["vendorStatus"])
}

func TestNotificationFeedOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	agent := env.mustCreateAgent(t)
	code := env.do(t, http.MethodPost, "/api/agents/"+agent.AgentID+"/submit", env.vendor.UserID, nil, nil)
	require.Equal(t, http.StatusOK, code)

	var feed struct {
		Notifications []model.Notification `json:"notifications"`
		Count         int                  `json:"count"`
	}
	code = env.do(t, http.MethodGet, "/api/notifications", env.vendor.UserID, nil, &feed)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, feed.Count)

	var unread map[string]int
	code = env.do(t, http.MethodGet, "/api/notifications/unread", env.vendor.UserID, nil, &unread)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, unread["unread"])

	code = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/notifications/%s/read", feed.Notifications[0].NotificationID), env.vendor.UserID, nil, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code = env.do(t, http.MethodGet, "/api/notifications/unread", env.vendor.UserID, nil, &unread)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, unread["unread"])
}

func TestAuditTrailOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	agent := env.mustCreateAgent(t)
	code := env.do(t, http.MethodPost, "/api/admin/agents/"+agent.AgentID+"/approve", env.admin.UserID, nil, nil)
	require.Equal(t, http.StatusOK, code)

	var trail struct {
		Entries []model.AuditLogEntry `json:"entries"`
		Count   int                   `json:"count"`
	}
	code = env.do(t, http.MethodGet, "/api/admin/audit-logs", env.admin.UserID, nil, &trail)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, trail.Count)
	assert.Equal(t, model.ActionApproveAgent, trail.Entries[0].Action)

	// Non-admins cannot read the trail.
	code = env.do(t, http.MethodGet, "/api/admin/audit-logs", env.vendor.UserID, nil, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestCreateUserOverHTTP(t *testing.T) {
	env := newAPIEnv(t)

	var u model.User
	code := env.do(t, http.MethodPost, "/api/users", "",
		map[string]string{"name": "New User", "email": "new@example.com"}, &u)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, model.RoleUser, u.Role)

	code = env.do(t, http.MethodPost, "/api/users", "",
		map[string]string{"name": "Dup", "email": "new@example.com"}, nil)
	assert.Equal(t, http.StatusConflict, code)

	code = env.do(t, http.MethodPost, "/api/users", "",
		map[string]string{"name": "Bad", "email": "not-an-email"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
