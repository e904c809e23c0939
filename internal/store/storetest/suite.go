// Package storetest holds a driver-agnostic conformance suite for
// store.Store implementations. Each driver package runs it against a
// fresh database.
package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store"
)

// Factory returns a fresh, empty store for one test.
type Factory func(t *testing.T) store.Store

// Run executes the conformance suite against the given driver.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Ownership", func(t *testing.T) { testOwnership(t, newStore(t)) })
	t.Run("Agents", func(t *testing.T) { testAgents(t, newStore(t)) })
	t.Run("Notifications", func(t *testing.T) { testNotifications(t, newStore(t)) })
	t.Run("AuditLogs", func(t *testing.T) { testAuditLogs(t, newStore(t)) })
	t.Run("Transactions", func(t *testing.T) { testTransactions(t, newStore(t)) })
	t.Run("VendorChats", func(t *testing.T) { testVendorChats(t, newStore(t)) })
}

func newUser(role string) *model.User {
	id := uuid.NewString()
	return &model.User{
		UserID: id,
		Name:   "User " + id[:8],
		Email:  id[:8] + "@example.com",
		Role:   role,
	}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	u := newUser(model.RoleUser)
	created, err := s.Users().Create(ctx, u)
	require.NoError(t, err)
	require.Equal(t, u.UserID, created.UserID)
	require.False(t, created.CreationTime.IsZero())

	got, err := s.Users().Get(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = s.Users().Get(ctx, uuid.NewString())
	require.ErrorIs(t, err, model.ErrNotFound)

	// Email lookups are case-insensitive; duplicate emails conflict.
	byEmail, err := s.Users().GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.UserID, byEmail.UserID)

	dup := newUser(model.RoleUser)
	dup.Email = u.Email
	_, err = s.Users().Create(ctx, dup)
	require.ErrorIs(t, err, model.ErrConflict)

	// Update round-trips vendor sub-state.
	got.IsVendor = true
	got.VendorStatus = model.VendorPending
	got.CompanyName = "Acme AI"
	updated, err := s.Users().Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, model.VendorPending, updated.VendorStatus)
	assert.Equal(t, "Acme AI", updated.CompanyName)

	missing := newUser(model.RoleUser)
	_, err = s.Users().Update(ctx, missing)
	require.ErrorIs(t, err, model.ErrNotFound)

	// Admin listing excludes the given id.
	admin1 := newUser(model.RoleAdmin)
	admin2 := newUser(model.RoleAdmin)
	_, err = s.Users().Create(ctx, admin1)
	require.NoError(t, err)
	_, err = s.Users().Create(ctx, admin2)
	require.NoError(t, err)

	admins, err := s.Users().ListAdmins(ctx, admin1.UserID)
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, a := range admins {
		ids[a.UserID] = true
	}
	assert.False(t, ids[admin1.UserID])
	assert.True(t, ids[admin2.UserID])

	all, err := s.Users().ListIDs(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), 3)

	vendors, err := s.Users().ListVendors(ctx, model.VendorPending)
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, u.UserID, vendors[0].UserID)
}

func testOwnership(t *testing.T, s store.Store) {
	ctx := context.Background()

	u1, err := s.Users().Create(ctx, newUser(model.RoleUser))
	require.NoError(t, err)
	u2, err := s.Users().Create(ctx, newUser(model.RoleUser))
	require.NoError(t, err)

	agentID := uuid.NewString()

	owned, err := s.Users().Owns(ctx, u1.UserID, agentID)
	require.NoError(t, err)
	assert.False(t, owned)

	require.NoError(t, s.Users().AddOwnedAgent(ctx, u1.UserID, agentID))
	require.NoError(t, s.Users().AddOwnedAgent(ctx, u2.UserID, agentID))
	// Re-adding is a no-op.
	require.NoError(t, s.Users().AddOwnedAgent(ctx, u1.UserID, agentID))

	owned, err = s.Users().Owns(ctx, u1.UserID, agentID)
	require.NoError(t, err)
	assert.True(t, owned)

	ids, err := s.Users().OwnedAgentIDs(ctx, u1.UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{agentID}, ids)

	require.NoError(t, s.Users().RemoveOwnedAgentAll(ctx, agentID))
	for _, uid := range []string{u1.UserID, u2.UserID} {
		owned, err = s.Users().Owns(ctx, uid, agentID)
		require.NoError(t, err)
		assert.False(t, owned)
	}
	// Removing an absent reference is a no-op.
	require.NoError(t, s.Users().RemoveOwnedAgentAll(ctx, agentID))
}

func newAgent(ownerID string) *model.Agent {
	id := uuid.NewString()
	return &model.Agent{
		AgentID:      id,
		Slug:         "agent-" + id[:8],
		OwnerID:      ownerID,
		Name:         "Agent " + id[:8],
		Category:     "productivity",
		Pricing:      model.Pricing{Type: "free"},
		Status:       model.StatusInactive,
		ReviewStatus: model.ReviewDraft,
	}
}

func testAgents(t *testing.T, s store.Store) {
	ctx := context.Background()

	owner, err := s.Users().Create(ctx, newUser(model.RoleVendor))
	require.NoError(t, err)

	a := newAgent(owner.UserID)
	created, err := s.Agents().Create(ctx, a)
	require.NoError(t, err)
	require.False(t, created.CreationTime.IsZero())

	got, err := s.Agents().Get(ctx, a.AgentID)
	require.NoError(t, err)
	assert.Equal(t, a.Slug, got.Slug)
	assert.Equal(t, model.ReviewDraft, got.ReviewStatus)

	_, err = s.Agents().Get(ctx, uuid.NewString())
	require.ErrorIs(t, err, model.ErrNotFound)

	got.Status = model.StatusLive
	got.ReviewStatus = model.ReviewApproved
	updated, err := s.Agents().Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLive, updated.Status)

	// Second agent stays a draft; LiveOnly filtering must hide it.
	b := newAgent(owner.UserID)
	_, err = s.Agents().Create(ctx, b)
	require.NoError(t, err)

	live, err := s.Agents().List(ctx, store.ListAgentsFilter{LiveOnly: true})
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, a.AgentID, live[0].AgentID)

	mine, err := s.Agents().List(ctx, store.ListAgentsFilter{OwnerID: owner.UserID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	require.NoError(t, s.Agents().Delete(ctx, b.AgentID))
	_, err = s.Agents().Get(ctx, b.AgentID)
	require.ErrorIs(t, err, model.ErrNotFound)
	// Deleting an absent agent is a no-op.
	require.NoError(t, s.Agents().Delete(ctx, b.AgentID))
}

func testNotifications(t *testing.T, s store.Store) {
	ctx := context.Background()

	u, err := s.Users().Create(ctx, newUser(model.RoleUser))
	require.NoError(t, err)
	target := uuid.NewString()

	n, err := s.Notifications().Create(ctx, &model.Notification{
		UserID:   u.UserID,
		Message:  "hello",
		Type:     model.NotifyInfo,
		Role:     model.RoleUser,
		TargetID: target,
	})
	require.NoError(t, err)
	require.NotEmpty(t, n.NotificationID)

	batch := []*model.Notification{
		{UserID: u.UserID, Message: "b1", Type: model.NotifyInfo, Role: model.RoleUser, TargetID: target},
		{UserID: u.UserID, Message: "b2", Type: model.NotifySuccess, Role: model.RoleUser, TargetID: target},
	}
	require.NoError(t, s.Notifications().CreateBatch(ctx, batch))

	list, err := s.Notifications().ListByUser(ctx, u.UserID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	byTarget, err := s.Notifications().ListByTarget(ctx, target)
	require.NoError(t, err)
	assert.Len(t, byTarget, 3)

	unread, err := s.Notifications().UnreadCount(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, 3, unread)

	require.NoError(t, s.Notifications().MarkRead(ctx, u.UserID, n.NotificationID))
	unread, err = s.Notifications().UnreadCount(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	// A user cannot mark someone else's notification.
	other, err := s.Users().Create(ctx, newUser(model.RoleUser))
	require.NoError(t, err)
	err = s.Notifications().MarkRead(ctx, other.UserID, list[0].NotificationID)
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.Notifications().DeleteByTarget(ctx, target))
	list, err = s.Notifications().ListByUser(ctx, u.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testAuditLogs(t *testing.T, s store.Store) {
	ctx := context.Background()

	admin, err := s.Users().Create(ctx, newUser(model.RoleAdmin))
	require.NoError(t, err)
	target := uuid.NewString()

	for i := 0; i < 3; i++ {
		_, err := s.AuditLogs().Append(ctx, &model.AuditLogEntry{
			AdminID:    admin.UserID,
			Action:     model.ActionApproveAgent,
			TargetID:   target,
			TargetType: model.TargetAgent,
			Details:    "entry",
		})
		require.NoError(t, err)
	}

	entries, err := s.AuditLogs().List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	byTarget, err := s.AuditLogs().ListByTarget(ctx, target)
	require.NoError(t, err)
	assert.Len(t, byTarget, 3)
	for _, e := range byTarget {
		assert.Equal(t, admin.UserID, e.AdminID)
		assert.False(t, e.CreationTime.IsZero())
	}
}

func testTransactions(t *testing.T, s store.Store) {
	ctx := context.Background()

	agentID := uuid.NewString()
	vendorID := uuid.NewString()

	txn, err := s.Transactions().Create(ctx, &model.Transaction{
		TransactionID: uuid.NewString(),
		AgentID:       agentID,
		VendorID:      vendorID,
		BuyerID:       uuid.NewString(),
		Amount:        10,
		PlatformFee:   5,
		NetAmount:     5,
		Status:        "completed",
	})
	require.NoError(t, err)
	require.False(t, txn.CreationTime.IsZero())

	byAgent, err := s.Transactions().ListByAgent(ctx, agentID)
	require.NoError(t, err)
	require.Len(t, byAgent, 1)
	assert.Equal(t, 5.0, byAgent[0].NetAmount)

	byVendor, err := s.Transactions().ListByVendor(ctx, vendorID)
	require.NoError(t, err)
	assert.Len(t, byVendor, 1)

	require.NoError(t, s.Transactions().DeleteByAgent(ctx, agentID))
	byAgent, err = s.Transactions().ListByAgent(ctx, agentID)
	require.NoError(t, err)
	assert.Empty(t, byAgent)
}

func testVendorChats(t *testing.T, s store.Store) {
	ctx := context.Background()

	agentID := uuid.NewString()

	_, err := s.VendorChats().Create(ctx, &model.VendorChat{
		ChatID:  uuid.NewString(),
		AgentID: agentID,
		UserID:  uuid.NewString(),
	})
	require.NoError(t, err)

	_, err = s.VendorMessages().Create(ctx, &model.VendorMessage{
		MessageID: uuid.NewString(),
		AgentID:   agentID,
		VendorID:  uuid.NewString(),
		Subject:   "question",
		Message:   "hi",
	})
	require.NoError(t, err)

	chats, err := s.VendorChats().ListByAgent(ctx, agentID)
	require.NoError(t, err)
	assert.Len(t, chats, 1)

	msgs, err := s.VendorMessages().ListByAgent(ctx, agentID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	require.NoError(t, s.VendorChats().DeleteByAgent(ctx, agentID))
	require.NoError(t, s.VendorMessages().DeleteByAgent(ctx, agentID))

	chats, err = s.VendorChats().ListByAgent(ctx, agentID)
	require.NoError(t, err)
	assert.Empty(t, chats)
	msgs, err = s.VendorMessages().ListByAgent(ctx, agentID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
