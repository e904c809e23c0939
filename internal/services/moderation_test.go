package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-mall/backend/internal/mail"
	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store"
	"github.com/ai-mall/backend/internal/store/sqlite"
)

type moderationEnv struct {
	store      store.Store
	moderation *ModerationService
	catalog    *CatalogService
	purchases  *PurchaseService
	vendors    *VendorService
	admin      *model.User
	vendor     *model.User
}

func newEnv(t *testing.T) *moderationEnv {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "aimall.db"))
	require.NoError(t, err)

	log := zerolog.Nop()
	fanout := NewFanout(s, DefaultBroadcastChunkSize, log)
	auditor := NewAuditor(s, log)
	mailer := mail.Noop{}

	env := &moderationEnv{
		store:      s,
		moderation: NewModerationService(s, fanout, auditor, mailer, "http://localhost:5173", log),
		catalog:    NewCatalogService(s, log),
		purchases:  NewPurchaseService(s, fanout, log),
		vendors:    NewVendorService(s, fanout, mailer, "admin@example.com", "http://localhost:5173", log),
	}

	ctx := context.Background()
	env.admin = env.mustCreateUser(t, ctx, "Admin", model.RoleAdmin)
	env.vendor = env.mustCreateUser(t, ctx, "Vendor", model.RoleVendor)
	env.vendor.IsVendor = true
	env.vendor.VendorStatus = model.VendorApproved
	env.vendor, err = s.Users().Update(ctx, env.vendor)
	require.NoError(t, err)

	return env
}

func (e *moderationEnv) mustCreateUser(t *testing.T, ctx context.Context, name, role string) *model.User {
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

func (e *moderationEnv) mustCreateAgent(t *testing.T, ctx context.Context) *model.Agent {
	t.Helper()
	a, err := e.catalog.CreateAgent(ctx, e.vendor.UserID, CreateAgentInput{
		Name:    "Test Agent",
		Pricing: model.Pricing{Type: "free"},
	})
	require.NoError(t, err)
	return a
}

func countNotifications(t *testing.T, ctx context.Context, s store.Store, userID string) int {
	t.Helper()
	ns, err := s.Notifications().ListByUser(ctx, userID)
	require.NoError(t, err)
	return len(ns)
}

func TestSubmitForReview(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)

	out, err := env.moderation.SubmitForReview(ctx, a.AgentID, env.vendor.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.ReviewPending, out.ReviewStatus)
	assert.Equal(t, model.StatusInactive, out.Status)

	// Admin gets a review request, vendor gets a confirmation.
	assert.Equal(t, 1, countNotifications(t, ctx, env.store, env.admin.UserID))
	assert.Equal(t, 1, countNotifications(t, ctx, env.store, env.vendor.UserID))
}

func TestResubmitLiveAgentLeavesMarketplace(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)

	_, err := env.moderation.Approve(ctx, a.AgentID, env.admin.UserID, ApproveInput{})
	require.NoError(t, err)

	out, err := env.moderation.SubmitForReview(ctx, a.AgentID, env.vendor.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.ReviewPending, out.ReviewStatus)
	assert.Equal(t, model.StatusInactive, out.Status)

	listed, err := env.catalog.Marketplace(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSubmitForReviewNonOwner(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)
	other := env.mustCreateUser(t, ctx, "Other", model.RoleUser)

	_, err := env.moderation.SubmitForReview(ctx, a.AgentID, other.UserID)
	require.ErrorIs(t, err, model.ErrNotFound)

	got, err := env.store.Agents().Get(ctx, a.AgentID)
	require.NoError(t, err)
	assert.Equal(t, model.ReviewDraft, got.ReviewStatus)
}

func TestApprove(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)
	buyer := env.mustCreateUser(t, ctx, "Buyer", model.RoleUser)

	out, err := env.moderation.Approve(ctx, a.AgentID, env.admin.UserID, ApproveInput{Note: "looks good"})
	require.NoError(t, err)
	assert.Equal(t, model.ReviewApproved, out.ReviewStatus)
	assert.Equal(t, model.StatusLive, out.Status)

	// Broadcast reaches every user; the vendor additionally receives
	// the personal approval notice.
	assert.Equal(t, 1, countNotifications(t, ctx, env.store, buyer.UserID))
	assert.Equal(t, 1, countNotifications(t, ctx, env.store, env.admin.UserID))
	assert.Equal(t, 2, countNotifications(t, ctx, env.store, env.vendor.UserID))

	entries, err := env.store.AuditLogs().ListByTarget(ctx, a.AgentID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionApproveAgent, entries[0].Action)
	assert.Equal(t, env.admin.UserID, entries[0].AdminID)
	assert.Contains(t, entries[0].Details, "looks good")
}

func TestApproveReplacesAvatar(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)

	out, err := env.moderation.Approve(ctx, a.AgentID, env.admin.UserID, ApproveInput{Avatar: "https://cdn.example.com/x.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/x.png", out.Avatar)
}

func TestApproveInvalidID(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.moderation.Approve(ctx, "not-a-uuid", env.admin.UserID, ApproveInput{})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestApproveMissingAgentLeavesNoTrace(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.moderation.Approve(ctx, uuid.NewString(), env.admin.UserID, ApproveInput{})
	require.ErrorIs(t, err, model.ErrNotFound)

	// A failed approval must not fan anything out or land in the trail.
	assert.Equal(t, 0, countNotifications(t, ctx, env.store, env.admin.UserID))
	assert.Equal(t, 0, countNotifications(t, ctx, env.store, env.vendor.UserID))
	entries, err := env.store.AuditLogs().List(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApproveRequiresAdmin(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)

	_, err := env.moderation.Approve(ctx, a.AgentID, env.vendor.UserID, ApproveInput{})
	require.ErrorIs(t, err, model.ErrForbidden)

	got, err := env.store.Agents().Get(ctx, a.AgentID)
	require.NoError(t, err)
	assert.Equal(t, model.ReviewDraft, got.ReviewStatus)
}

func TestAdminRoleCheckIsCaseInsensitive(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)

	legacyAdmin := env.mustCreateUser(t, ctx, "Legacy", "ADMIN")
	_, err := env.moderation.Approve(ctx, a.AgentID, legacyAdmin.UserID, ApproveInput{})
	require.NoError(t, err)
}

func TestRejectRequiresReason(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)

	for _, reason := range []string{"", "   "} {
		_, err := env.moderation.Reject(ctx, a.AgentID, env.admin.UserID, reason, "")
		require.ErrorIs(t, err, model.ErrValidation)
	}

	got, err := env.store.Agents().Get(ctx, a.AgentID)
	require.NoError(t, err)
	assert.Equal(t, model.ReviewDraft, got.ReviewStatus)
	assert.Equal(t, 0, countNotifications(t, ctx, env.store, env.vendor.UserID))
}

func TestReject(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)

	out, err := env.moderation.Reject(ctx, a.AgentID, env.admin.UserID, "missing privacy policy", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewRejected, out.ReviewStatus)
	assert.Equal(t, model.StatusInactive, out.Status)
	assert.Equal(t, "missing privacy policy", out.RejectionReason)

	assert.Equal(t, 1, countNotifications(t, ctx, env.store, env.vendor.UserID))

	entries, err := env.store.AuditLogs().ListByTarget(ctx, a.AgentID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionRejectAgent, entries[0].Action)
	assert.Equal(t, "10.0.0.1", entries[0].IPAddress)
}

func TestRejectThenApproveClearsReason(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)

	_, err := env.moderation.Reject(ctx, a.AgentID, env.admin.UserID, "too slow", "")
	require.NoError(t, err)

	out, err := env.moderation.Approve(ctx, a.AgentID, env.admin.UserID, ApproveInput{})
	require.NoError(t, err)
	assert.Empty(t, out.RejectionReason)
	assert.Equal(t, model.StatusLive, out.Status)
}

func TestReactivateRequiresApproval(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)

	_, err := env.moderation.Reactivate(ctx, a.AgentID, env.vendor.UserID)
	require.ErrorIs(t, err, model.ErrConflict)

	_, err = env.moderation.Approve(ctx, a.AgentID, env.admin.UserID, ApproveInput{})
	require.NoError(t, err)

	out, err := env.moderation.Deactivate(ctx, a.AgentID, env.vendor.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, out.Status)
	assert.Equal(t, model.ReviewApproved, out.ReviewStatus)

	out, err = env.moderation.Reactivate(ctx, a.AgentID, env.vendor.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLive, out.Status)
}

func TestLiveAgentsAreAlwaysApproved(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	draft := env.mustCreateAgent(t, ctx)
	approved := env.mustCreateAgent(t, ctx)
	_, err := env.moderation.Approve(ctx, approved.AgentID, env.admin.UserID, ApproveInput{})
	require.NoError(t, err)

	agents, err := env.catalog.Marketplace(ctx, 0)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, approved.AgentID, agents[0].AgentID)
	for _, a := range agents {
		assert.Equal(t, model.StatusLive, a.Status)
		assert.Equal(t, model.ReviewApproved, a.ReviewStatus)
	}
	_ = draft
}

func TestDeleteAgentCascade(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)
	buyer := env.mustCreateUser(t, ctx, "Buyer", model.RoleUser)

	_, err := env.moderation.Approve(ctx, a.AgentID, env.admin.UserID, ApproveInput{})
	require.NoError(t, err)
	_, err = env.purchases.Buy(ctx, a.AgentID, buyer.UserID)
	require.NoError(t, err)
	_, err = env.store.VendorChats().Create(ctx, &model.VendorChat{
		ChatID: uuid.NewString(), AgentID: a.AgentID, UserID: buyer.UserID, VendorID: env.vendor.UserID,
	})
	require.NoError(t, err)
	_, err = env.store.VendorMessages().Create(ctx, &model.VendorMessage{
		MessageID: uuid.NewString(), AgentID: a.AgentID, VendorID: env.vendor.UserID, Message: "hello",
	})
	require.NoError(t, err)

	res, err := env.moderation.DeleteAgent(ctx, a.AgentID, env.admin.UserID, "")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, a.AgentID, res.AgentID)

	// Nothing referencing the agent survives.
	_, err = env.store.Agents().Get(ctx, a.AgentID)
	require.ErrorIs(t, err, model.ErrNotFound)

	owned, err := env.store.Users().Owns(ctx, buyer.UserID, a.AgentID)
	require.NoError(t, err)
	assert.False(t, owned)

	txns, err := env.store.Transactions().ListByAgent(ctx, a.AgentID)
	require.NoError(t, err)
	assert.Empty(t, txns)

	chats, err := env.store.VendorChats().ListByAgent(ctx, a.AgentID)
	require.NoError(t, err)
	assert.Empty(t, chats)

	msgs, err := env.store.VendorMessages().ListByAgent(ctx, a.AgentID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	ns, err := env.store.Notifications().ListByTarget(ctx, a.AgentID)
	require.NoError(t, err)
	assert.Empty(t, ns)

	// The deletion itself lands in the trail.
	entries, err := env.store.AuditLogs().ListByTarget(ctx, a.AgentID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestDeleteAgentRetryAfterPartialCascade(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)
	buyer := env.mustCreateUser(t, ctx, "Buyer", model.RoleUser)

	_, err := env.moderation.Approve(ctx, a.AgentID, env.admin.UserID, ApproveInput{})
	require.NoError(t, err)
	_, err = env.purchases.Buy(ctx, a.AgentID, buyer.UserID)
	require.NoError(t, err)
	_, err = env.store.VendorChats().Create(ctx, &model.VendorChat{
		ChatID: uuid.NewString(), AgentID: a.AgentID, UserID: buyer.UserID, VendorID: env.vendor.UserID,
	})
	require.NoError(t, err)

	// An earlier attempt that died mid-cascade: ownerships and
	// transactions already gone, agent row still present.
	require.NoError(t, env.store.Users().RemoveOwnedAgentAll(ctx, a.AgentID))
	require.NoError(t, env.store.Transactions().DeleteByAgent(ctx, a.AgentID))

	// The retry completes the cascade without erroring on the steps
	// that already ran.
	res, err := env.moderation.DeleteAgent(ctx, a.AgentID, env.admin.UserID, "")
	require.NoError(t, err)
	assert.True(t, res.Success)

	_, err = env.store.Agents().Get(ctx, a.AgentID)
	require.ErrorIs(t, err, model.ErrNotFound)

	chats, err := env.store.VendorChats().ListByAgent(ctx, a.AgentID)
	require.NoError(t, err)
	assert.Empty(t, chats)

	ns, err := env.store.Notifications().ListByTarget(ctx, a.AgentID)
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestDeleteAgentMissing(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.moderation.DeleteAgent(ctx, uuid.NewString(), env.admin.UserID, "")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestApproveVendor(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	applicant := env.mustCreateUser(t, ctx, "Applicant", model.RoleUser)
	_, err := env.vendors.Register(ctx, applicant.UserID, RegisterInput{CompanyName: "Acme AI", CompanyType: "startup"})
	require.NoError(t, err)

	out, err := env.moderation.ApproveVendor(ctx, applicant.UserID, env.admin.UserID, "")
	require.NoError(t, err)
	assert.Equal(t, model.VendorApproved, out.VendorStatus)

	u, err := env.store.Users().Get(ctx, applicant.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.VendorApproved, u.VendorStatus)
	require.NotNil(t, u.VendorApprovedAt)
	assert.Empty(t, u.RejectionReason)

	entries, err := env.store.AuditLogs().ListByTarget(ctx, applicant.UserID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionApproveVendor, entries[0].Action)
}

func TestRejectVendor(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	applicant := env.mustCreateUser(t, ctx, "Applicant", model.RoleUser)
	_, err := env.vendors.Register(ctx, applicant.UserID, RegisterInput{CompanyName: "Acme AI"})
	require.NoError(t, err)

	_, err = env.moderation.RejectVendor(ctx, applicant.UserID, env.admin.UserID, "", "")
	require.ErrorIs(t, err, model.ErrValidation)

	out, err := env.moderation.RejectVendor(ctx, applicant.UserID, env.admin.UserID, "incomplete application", "")
	require.NoError(t, err)
	assert.Equal(t, model.VendorRejected, out.VendorStatus)
	assert.Equal(t, "incomplete application", out.RejectionReason)

	u, err := env.store.Users().Get(ctx, applicant.UserID)
	require.NoError(t, err)
	require.NotNil(t, u.VendorRejectedAt)
}

func TestVendorDecisionOnNonVendor(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	plain := env.mustCreateUser(t, ctx, "Plain", model.RoleUser)
	_, err := env.moderation.ApproveVendor(ctx, plain.UserID, env.admin.UserID, "")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestBlockUnblockUser(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	target := env.mustCreateUser(t, ctx, "Target", model.RoleUser)

	out, err := env.moderation.BlockUser(ctx, target.UserID, env.admin.UserID, "")
	require.NoError(t, err)
	assert.True(t, out.IsBlocked)

	out, err = env.moderation.UnblockUser(ctx, target.UserID, env.admin.UserID, "")
	require.NoError(t, err)
	assert.False(t, out.IsBlocked)

	entries, err := env.store.AuditLogs().ListByTarget(ctx, target.UserID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
