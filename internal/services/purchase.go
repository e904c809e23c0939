package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store"
)

// PlatformFeeRate is the marketplace cut taken from every paid
// transaction.
const PlatformFeeRate = 0.5

// PurchaseService records agent acquisitions and the revenue split.
type PurchaseService struct {
	store  store.Store
	fanout *Fanout
	log    zerolog.Logger
}

func NewPurchaseService(s store.Store, f *Fanout, log zerolog.Logger) *PurchaseService {
	return &PurchaseService{store: s, fanout: f, log: log}
}

// ResolveAmount derives the bookkeeping amount from a listing's pricing.
// Structured pricing carries no price figure, so anything other than a
// legacy pricing type holding a bare numeric literal resolves to 0. This
// is conservative bookkeeping, not a billing engine.
func ResolveAmount(p model.Pricing) float64 {
	if IsFree(p) {
		return 0
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(p.Type), 64); err == nil && v > 0 {
		return v
	}
	return 0
}

// Buy acquires a live agent for the buyer. Buying an agent twice is
// rejected. The amount is resolved from the listing's pricing, never from
// the request; the platform keeps PlatformFeeRate of it and the vendor
// nets the rest.
func (s *PurchaseService) Buy(ctx context.Context, agentID, buyerID string) (*model.Transaction, error) {
	a, err := s.store.Agents().Get(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if a.IsDeleted || a.Status != model.StatusLive {
		return nil, fmt.Errorf("agent %s is not available: %w", agentID, model.ErrNotFound)
	}

	owned, err := s.store.Users().Owns(ctx, buyerID, agentID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, fmt.Errorf("agent %s already owned: %w", agentID, model.ErrConflict)
	}

	amount := ResolveAmount(a.Pricing)
	fee := amount * PlatformFeeRate

	txn := &model.Transaction{
		TransactionID: uuid.NewString(),
		AgentID:       a.AgentID,
		VendorID:      a.OwnerID,
		BuyerID:       buyerID,
		Amount:        amount,
		PlatformFee:   fee,
		NetAmount:     amount - fee,
		Status:        "completed",
	}
	created, err := s.store.Transactions().Create(ctx, txn)
	if err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	if err := s.store.Users().AddOwnedAgent(ctx, buyerID, agentID); err != nil {
		return nil, fmt.Errorf("record ownership: %w", err)
	}

	if err := s.fanout.Notify(ctx, &model.Notification{
		UserID:   buyerID,
		Message:  fmt.Sprintf("You now have access to '%s'. Find it in your dashboard.", a.Name),
		Type:     model.NotifySuccess,
		Role:     model.RoleUser,
		TargetID: a.AgentID,
	}); err != nil {
		s.log.Error().Err(err).Str("agent_id", agentID).Msg("buyer notification failed")
	}
	if err := s.fanout.Notify(ctx, &model.Notification{
		UserID:   a.OwnerID,
		Message:  fmt.Sprintf("New subscriber for '%s'. Net earnings this sale: %.2f.", a.Name, created.NetAmount),
		Type:     model.NotifyInfo,
		Role:     model.RoleVendor,
		TargetID: a.AgentID,
	}); err != nil {
		s.log.Error().Err(err).Str("agent_id", agentID).Msg("vendor sale notification failed")
	}

	return created, nil
}

// OwnedAgents returns the buyer's library, skipping listings deleted
// since purchase.
func (s *PurchaseService) OwnedAgents(ctx context.Context, userID string) ([]*model.Agent, error) {
	ids, err := s.store.Users().OwnedAgentIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Agent, 0, len(ids))
	for _, id := range ids {
		a, err := s.store.Agents().Get(ctx, id)
		if err != nil {
			continue
		}
		if !a.IsDeleted {
			out = append(out, a)
		}
	}
	return out, nil
}

// VendorEarnings sums a vendor's net revenue across all transactions.
func (s *PurchaseService) VendorEarnings(ctx context.Context, vendorID string) (float64, []*model.Transaction, error) {
	txns, err := s.store.Transactions().ListByVendor(ctx, vendorID)
	if err != nil {
		return 0, nil, err
	}
	var total float64
	for _, t := range txns {
		total += t.NetAmount
	}
	return total, txns, nil
}
