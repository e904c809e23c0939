package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-mall/backend/internal/model"
)

func liveAgent(t *testing.T, env *moderationEnv, pricing model.Pricing) *model.Agent {
	t.Helper()
	ctx := context.Background()
	a, err := env.catalog.CreateAgent(ctx, env.vendor.UserID, CreateAgentInput{
		Name:    "Paid Agent",
		Pricing: pricing,
	})
	require.NoError(t, err)
	a, err = env.moderation.Approve(ctx, a.AgentID, env.admin.UserID, ApproveInput{})
	require.NoError(t, err)
	return a
}

func TestBuyFreeAgent(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := liveAgent(t, env, model.Pricing{Type: "free"})
	buyer := env.mustCreateUser(t, ctx, "Buyer", model.RoleUser)

	txn, err := env.purchases.Buy(ctx, a.AgentID, buyer.UserID)
	require.NoError(t, err)
	assert.Zero(t, txn.Amount)
	assert.Zero(t, txn.PlatformFee)
	assert.Zero(t, txn.NetAmount)

	owned, err := env.store.Users().Owns(ctx, buyer.UserID, a.AgentID)
	require.NoError(t, err)
	assert.True(t, owned)
}

func TestBuyPaidStructuredPricingRecordsZero(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	// Structured paid pricing carries no price figure, so the ledger
	// records zero rather than any caller-supplied number.
	a := liveAgent(t, env, model.Pricing{Type: "paid", Plans: []string{"Pro"}})
	buyer := env.mustCreateUser(t, ctx, "Buyer", model.RoleUser)

	txn, err := env.purchases.Buy(ctx, a.AgentID, buyer.UserID)
	require.NoError(t, err)
	assert.Zero(t, txn.Amount)
	assert.Zero(t, txn.PlatformFee)
	assert.Zero(t, txn.NetAmount)

	total, _, err := env.purchases.VendorEarnings(ctx, env.vendor.UserID)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestBuyLegacyNumericPricingSplitsRevenue(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	// A legacy listing whose pricing type is a bare numeric literal.
	a := liveAgent(t, env, model.Pricing{Type: "20"})
	buyer := env.mustCreateUser(t, ctx, "Buyer", model.RoleUser)

	txn, err := env.purchases.Buy(ctx, a.AgentID, buyer.UserID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, txn.Amount)
	assert.Equal(t, 10.0, txn.PlatformFee)
	assert.Equal(t, 10.0, txn.NetAmount)
	assert.Equal(t, env.vendor.UserID, txn.VendorID)

	total, txns, err := env.purchases.VendorEarnings(ctx, env.vendor.UserID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, total)
	assert.Len(t, txns, 1)
}

func TestResolveAmount(t *testing.T) {
	cases := []struct {
		name    string
		pricing model.Pricing
		want    float64
	}{
		{"free", model.Pricing{Type: "free"}, 0},
		{"empty", model.Pricing{}, 0},
		{"structured paid", model.Pricing{Type: "paid", Plans: []string{"Pro"}}, 0},
		{"legacy numeric", model.Pricing{Type: "9.99"}, 9.99},
		{"legacy numeric padded", model.Pricing{Type: " 15 "}, 15},
		{"legacy negative", model.Pricing{Type: "-5"}, 0},
		{"plan label with digits", model.Pricing{Type: "plan2"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveAmount(tc.pricing))
		})
	}
}

func TestBuyTwiceRejected(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := liveAgent(t, env, model.Pricing{Type: "free"})
	buyer := env.mustCreateUser(t, ctx, "Buyer", model.RoleUser)

	_, err := env.purchases.Buy(ctx, a.AgentID, buyer.UserID)
	require.NoError(t, err)

	_, err = env.purchases.Buy(ctx, a.AgentID, buyer.UserID)
	require.ErrorIs(t, err, model.ErrConflict)

	txns, err := env.store.Transactions().ListByAgent(ctx, a.AgentID)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestBuyUnavailableAgent(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	buyer := env.mustCreateUser(t, ctx, "Buyer", model.RoleUser)

	// Drafts are not purchasable.
	draft := env.mustCreateAgent(t, ctx)
	_, err := env.purchases.Buy(ctx, draft.AgentID, buyer.UserID)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestOwnedAgentsSkipsDeleted(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := liveAgent(t, env, model.Pricing{Type: "free"})
	b := liveAgent(t, env, model.Pricing{Type: "free"})
	buyer := env.mustCreateUser(t, ctx, "Buyer", model.RoleUser)

	_, err := env.purchases.Buy(ctx, a.AgentID, buyer.UserID)
	require.NoError(t, err)
	_, err = env.purchases.Buy(ctx, b.AgentID, buyer.UserID)
	require.NoError(t, err)

	_, err = env.moderation.DeleteAgent(ctx, b.AgentID, env.admin.UserID, "")
	require.NoError(t, err)

	owned, err := env.purchases.OwnedAgents(ctx, buyer.UserID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, a.AgentID, owned[0].AgentID)
}
