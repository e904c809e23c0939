package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-mall/backend/internal/model"
)

func TestCreateAgentStates(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	// Vendor-created listings start as drafts.
	a, err := env.catalog.CreateAgent(ctx, env.vendor.UserID, CreateAgentInput{Name: "Vendor App"})
	require.NoError(t, err)
	assert.Equal(t, model.ReviewDraft, a.ReviewStatus)
	assert.Equal(t, model.StatusInactive, a.Status)

	// Admin-created listings skip review.
	a, err = env.catalog.CreateAgent(ctx, env.admin.UserID, CreateAgentInput{Name: "House App"})
	require.NoError(t, err)
	assert.Equal(t, model.ReviewApproved, a.ReviewStatus)
	assert.Equal(t, model.StatusLive, a.Status)
}

func TestCreateAgentRequiresApprovedVendor(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	plain := env.mustCreateUser(t, ctx, "Plain", model.RoleUser)
	_, err := env.catalog.CreateAgent(ctx, plain.UserID, CreateAgentInput{Name: "Nope"})
	require.ErrorIs(t, err, model.ErrForbidden)

	pending := env.mustCreateUser(t, ctx, "Pending", model.RoleVendor)
	pending.IsVendor = true
	pending.VendorStatus = model.VendorPending
	_, err = env.store.Users().Update(ctx, pending)
	require.NoError(t, err)
	_, err = env.catalog.CreateAgent(ctx, pending.UserID, CreateAgentInput{Name: "Still Nope"})
	require.ErrorIs(t, err, model.ErrForbidden)
}

func TestCreateAgentRequiresName(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateAgent(ctx, env.vendor.UserID, CreateAgentInput{Name: "   "})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestSlugify(t *testing.T) {
	slug := Slugify("My Cool Agent!!")
	assert.Regexp(t, regexp.MustCompile(`^my-cool-agent-[0-9a-z]+$`), slug)

	// Identical names still yield distinct slugs via the time suffix.
	assert.NotEqual(t, Slugify("Same"), "same")

	assert.Regexp(t, regexp.MustCompile(`^agent-[0-9a-z]+$`), Slugify("!!!"))
}

func TestUpdateAgentOwnerOnly(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.mustCreateAgent(t, ctx)
	other := env.mustCreateUser(t, ctx, "Other", model.RoleUser)

	newDesc := "updated description"
	_, err := env.catalog.UpdateAgent(ctx, a.AgentID, other.UserID, UpdateAgentInput{Description: &newDesc})
	require.ErrorIs(t, err, model.ErrNotFound)

	out, err := env.catalog.UpdateAgent(ctx, a.AgentID, env.vendor.UserID, UpdateAgentInput{Description: &newDesc})
	require.NoError(t, err)
	assert.Equal(t, newDesc, out.Description)
	// Editing never changes review state.
	assert.Equal(t, model.ReviewDraft, out.ReviewStatus)
}

func TestDetailsCountsDistinctBuyers(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := liveAgent(t, env, model.Pricing{Type: "free"})

	for i := 0; i < 3; i++ {
		buyer := env.mustCreateUser(t, ctx, "Buyer", model.RoleUser)
		_, err := env.purchases.Buy(ctx, a.AgentID, buyer.UserID)
		require.NoError(t, err)
	}

	details, err := env.catalog.Details(ctx, a.AgentID, env.vendor.UserID)
	require.NoError(t, err)
	assert.Equal(t, 3, details.Usage.TotalUsers)
	assert.Equal(t, 3, details.Usage.PlanBreakdown["Free"])

	// Only the owner or an admin can read adoption figures.
	stranger := env.mustCreateUser(t, ctx, "Stranger", model.RoleUser)
	_, err = env.catalog.Details(ctx, a.AgentID, stranger.UserID)
	require.ErrorIs(t, err, model.ErrForbidden)

	_, err = env.catalog.Details(ctx, a.AgentID, env.admin.UserID)
	require.NoError(t, err)
}
