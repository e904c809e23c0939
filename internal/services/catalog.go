package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store"
)

// CatalogService handles agent listing CRUD and marketplace reads.
type CatalogService struct {
	store store.Store
	log   zerolog.Logger
}

func NewCatalogService(s store.Store, log zerolog.Logger) *CatalogService {
	return &CatalogService{store: s, log: log}
}

// CreateAgentInput is the vendor-supplied portion of a new listing.
type CreateAgentInput struct {
	Name        string        `json:"agentName"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Avatar      string        `json:"avatar"`
	URL         string        `json:"url"`
	Pricing     model.Pricing `json:"pricing"`
}

// AgentDetails bundles a listing with its adoption figures for the
// vendor dashboard.
type AgentDetails struct {
	Agent *model.Agent      `json:"agent"`
	Usage *model.AgentUsage `json:"usage"`
}

// CreateAgent registers a new listing. Admin-created agents go straight
// to Approved/Live; vendor-created agents start as drafts and must pass
// review. Vendors whose onboarding has not been approved cannot list.
func (s *CatalogService) CreateAgent(ctx context.Context, ownerID string, in CreateAgentInput) (*model.Agent, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("agent name is required: %w", model.ErrValidation)
	}

	owner, err := s.store.Users().Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	a := &model.Agent{
		AgentID:     uuid.NewString(),
		Slug:        Slugify(in.Name),
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Avatar:      in.Avatar,
		URL:         in.URL,
		Pricing:     in.Pricing,
	}

	switch {
	case strings.EqualFold(owner.Role, model.RoleAdmin):
		a.ReviewStatus = model.ReviewApproved
		a.Status = model.StatusLive
	case owner.IsVendor && owner.VendorStatus == model.VendorApproved:
		a.ReviewStatus = model.ReviewDraft
		a.Status = model.StatusInactive
	default:
		return nil, fmt.Errorf("vendor account is not approved to list agents: %w", model.ErrForbidden)
	}

	created, err := s.store.Agents().Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	s.log.Info().Str("agent_id", created.AgentID).Str("owner_id", ownerID).Str("slug", created.Slug).
		Msg("agent created")
	return created, nil
}

// GetAgent returns a listing by id. Soft-deleted listings are hidden.
func (s *CatalogService) GetAgent(ctx context.Context, agentID string) (*model.Agent, error) {
	a, err := s.store.Agents().Get(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if a.IsDeleted {
		return nil, fmt.Errorf("agent %s: %w", agentID, model.ErrNotFound)
	}
	return a, nil
}

// Marketplace lists the public storefront: only listings that are both
// Live and review-approved.
func (s *CatalogService) Marketplace(ctx context.Context, limit int) ([]*model.Agent, error) {
	return s.store.Agents().List(ctx, store.ListAgentsFilter{LiveOnly: true, Limit: limit})
}

// ListByOwner returns every non-deleted listing a vendor owns,
// regardless of state.
func (s *CatalogService) ListByOwner(ctx context.Context, ownerID string) ([]*model.Agent, error) {
	return s.store.Agents().List(ctx, store.ListAgentsFilter{OwnerID: ownerID})
}

// ListAll is the admin moderation queue view: every non-deleted
// listing in any state.
func (s *CatalogService) ListAll(ctx context.Context, limit int) ([]*model.Agent, error) {
	return s.store.Agents().List(ctx, store.ListAgentsFilter{Limit: limit})
}

// UpdateAgentInput carries the fields a vendor may edit on their own
// listing. Nil pointers mean "leave unchanged".
type UpdateAgentInput struct {
	Name        *string        `json:"agentName"`
	Description *string        `json:"description"`
	Category    *string        `json:"category"`
	Avatar      *string        `json:"avatar"`
	URL         *string        `json:"url"`
	Pricing     *model.Pricing `json:"pricing"`
}

// UpdateAgent edits an owned listing. Review state is untouched: a
// vendor cannot promote their own listing by editing it.
func (s *CatalogService) UpdateAgent(ctx context.Context, agentID, ownerID string, in UpdateAgentInput) (*model.Agent, error) {
	a, err := s.store.Agents().Get(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if a.IsDeleted || a.OwnerID != ownerID {
		return nil, fmt.Errorf("agent %s: %w", agentID, model.ErrNotFound)
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		a.Name = *in.Name
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.Category != nil {
		a.Category = *in.Category
	}
	if in.Avatar != nil {
		a.Avatar = *in.Avatar
	}
	if in.URL != nil {
		a.URL = *in.URL
	}
	if in.Pricing != nil {
		a.Pricing = *in.Pricing
	}

	return s.store.Agents().Update(ctx, a)
}

// Details returns a listing with its adoption counts, derived from the
// transaction ledger. Each buyer counts once no matter how many plan
// changes they recorded.
func (s *CatalogService) Details(ctx context.Context, agentID, requesterID string) (*AgentDetails, error) {
	a, err := s.store.Agents().Get(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if a.IsDeleted {
		return nil, fmt.Errorf("agent %s: %w", agentID, model.ErrNotFound)
	}

	requester, err := s.store.Users().Get(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if a.OwnerID != requesterID && !strings.EqualFold(requester.Role, model.RoleAdmin) {
		return nil, fmt.Errorf("agent %s: %w", agentID, model.ErrForbidden)
	}

	txns, err := s.store.Transactions().ListByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	usage := &model.AgentUsage{PlanBreakdown: map[string]int{}}
	buyers := map[string]struct{}{}
	for _, t := range txns {
		if _, seen := buyers[t.BuyerID]; !seen {
			buyers[t.BuyerID] = struct{}{}
			usage.TotalUsers++
		}
		plan := "Free"
		if t.Amount > 0 {
			plan = "Paid"
		}
		usage.PlanBreakdown[plan]++
	}

	return &AgentDetails{Agent: a, Usage: usage}, nil
}

// Slugify turns a display name into a URL-safe slug with a base36 time
// suffix so repeated names never collide.
func Slugify(name string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "agent"
	}
	return slug + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}

// IsFree reports whether a pricing model carries no charge.
func IsFree(p model.Pricing) bool {
	return p.Type == "" || strings.EqualFold(p.Type, "free")
}
