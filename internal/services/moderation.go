package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ai-mall/backend/internal/mail"
	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store"
)

// ModerationService orchestrates the review/publish state machine on
// agent listings and the onboarding sub-state on vendor accounts.
//
// Every operation commits its primary state mutation before attempting
// side effects (notifications, email, audit entry), and side-effect
// failures are logged and swallowed: a reader polling the entity will
// never observe a notification for a transition that has not been
// persisted, but a state change may be visible before its notifications
// land.
type ModerationService struct {
	store       store.Store
	fanout      *Fanout
	auditor     *Auditor
	mailer      mail.Mailer
	frontendURL string
	log         zerolog.Logger
}

func NewModerationService(s store.Store, f *Fanout, a *Auditor, m mail.Mailer, frontendURL string, log zerolog.Logger) *ModerationService {
	return &ModerationService{store: s, fanout: f, auditor: a, mailer: m, frontendURL: frontendURL, log: log}
}

// DeleteResult is the success envelope returned by DeleteAgent.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	AgentID string `json:"agentId"`
}

// VendorDecision is the projection returned by vendor approve/reject.
type VendorDecision struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	VendorStatus    string `json:"vendorStatus"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

func validAgentID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid agent id %q: %w", id, model.ErrValidation)
	}
	return nil
}

// requireAdmin re-checks the caller's role against the account store.
// Upstream middleware has already authenticated the request; this is
// defense in depth.
func (s *ModerationService) requireAdmin(ctx context.Context, adminID string) error {
	u, err := s.store.Users().Get(ctx, adminID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("caller is not an admin: %w", model.ErrForbidden)
		}
		return err
	}
	if !strings.EqualFold(u.Role, model.RoleAdmin) {
		return fmt.Errorf("caller is not an admin: %w", model.ErrForbidden)
	}
	return nil
}

// ownedAgent loads an agent and verifies ownership. Missing agent and
// owner mismatch are deliberately indistinguishable to the caller.
func (s *ModerationService) ownedAgent(ctx context.Context, agentID, requesterID string) (*model.Agent, error) {
	a, err := s.store.Agents().Get(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if a.IsDeleted || a.OwnerID != requesterID {
		return nil, fmt.Errorf("agent %s: %w", agentID, model.ErrNotFound)
	}
	return a, nil
}

// SubmitForReview moves an owned agent into Pending Review and notifies
// the admin team plus the submitting vendor.
func (s *ModerationService) SubmitForReview(ctx context.Context, agentID, requesterID string) (*model.Agent, error) {
	a, err := s.ownedAgent(ctx, agentID, requesterID)
	if err != nil {
		return nil, err
	}

	a.ReviewStatus = model.ReviewPending
	// Resubmitting a live agent pulls it from the marketplace until the
	// new review lands, keeping live rows approved.
	a.Status = model.StatusInactive
	updated, err := s.store.Agents().Update(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("submit for review: %w", err)
	}

	// Side effects from here on are best-effort.
	vendorName := "a vendor"
	if vendor, err := s.store.Users().Get(ctx, requesterID); err == nil {
		vendorName = vendor.Name
	}

	// Exclude the requester so an admin submitting their own listing
	// does not notify themselves.
	admins, err := s.store.Users().ListAdmins(ctx, requesterID)
	if err != nil {
		s.log.Error().Err(err).Str("agent_id", agentID).Msg("list admins for review notification failed")
	} else if len(admins) > 0 {
		ids := make([]string, 0, len(admins))
		for _, ad := range admins {
			ids = append(ids, ad.UserID)
		}
		msg := fmt.Sprintf("New App Review Request: '%s' has been submitted by %s.", updated.Name, vendorName)
		if err := s.fanout.NotifyMany(ctx, ids, msg, model.NotifyInfo, model.RoleAdmin, updated.AgentID); err != nil {
			s.log.Error().Err(err).Str("agent_id", agentID).Msg("admin review notification failed")
		}
	}

	confirmation := &model.Notification{
		UserID:   requesterID,
		Message:  fmt.Sprintf("Submission Received: '%s' is now under review. We will notify you once the admin completes the verification.", updated.Name),
		Type:     model.NotifyInfo,
		Role:     model.RoleVendor,
		TargetID: updated.AgentID,
	}
	if err := s.fanout.Notify(ctx, confirmation); err != nil {
		s.log.Error().Err(err).Str("agent_id", agentID).Msg("vendor confirmation notification failed")
	}

	return updated, nil
}

// ApproveInput carries the optional extras an admin can attach to an
// approval.
type ApproveInput struct {
	Note     string
	Avatar   string
	RemoteIP string
}

// Approve marks an agent Approved/Live and fans out the arrival
// announcement. The state transition is committed before any side
// effect; notification failures never roll it back.
func (s *ModerationService) Approve(ctx context.Context, agentID, adminID string, in ApproveInput) (*model.Agent, error) {
	if err := validAgentID(agentID); err != nil {
		return nil, err
	}
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	a, err := s.store.Agents().Get(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if a.IsDeleted {
		return nil, fmt.Errorf("agent %s: %w", agentID, model.ErrNotFound)
	}

	a.ReviewStatus = model.ReviewApproved
	a.Status = model.StatusLive
	a.RejectionReason = ""
	if in.Avatar != "" {
		a.Avatar = in.Avatar
	}
	updated, err := s.store.Agents().Update(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("approve agent: %w", err)
	}

	vendorMsg := fmt.Sprintf("Time to celebrate! '%s' has been approved and is now live on the AI Mall Marketplace.", updated.Name)
	if in.Note != "" {
		vendorMsg += " Note: " + in.Note
	}
	if err := s.fanout.Notify(ctx, &model.Notification{
		UserID:   updated.OwnerID,
		Message:  vendorMsg,
		Type:     model.NotifySuccess,
		Role:     model.RoleVendor,
		TargetID: updated.AgentID,
	}); err != nil {
		s.log.Error().Err(err).Str("agent_id", agentID).Msg("approval vendor notification failed")
	}

	arrival := fmt.Sprintf("New Arrival: '%s' is now available in the marketplace. Check it out!", updated.Name)
	if err := s.fanout.Broadcast(ctx, arrival, model.NotifyInfo, model.RoleUser, updated.AgentID); err != nil {
		s.log.Error().Err(err).Str("agent_id", agentID).Msg("approval broadcast failed")
	}

	note := in.Note
	if note == "" {
		note = "No note"
	}
	s.auditor.Record(ctx, adminID, model.ActionApproveAgent, updated.AgentID, model.TargetAgent,
		fmt.Sprintf("Approved agent: %s. Note: %s", updated.Name, note), in.RemoteIP)

	return updated, nil
}

// Reject marks an agent Rejected/Inactive with a mandatory reason and
// notifies its vendor.
func (s *ModerationService) Reject(ctx context.Context, agentID, adminID, reason, remoteIP string) (*model.Agent, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("rejection reason is required: %w", model.ErrValidation)
	}
	if err := validAgentID(agentID); err != nil {
		return nil, err
	}
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	a, err := s.store.Agents().Get(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if a.IsDeleted {
		return nil, fmt.Errorf("agent %s: %w", agentID, model.ErrNotFound)
	}

	a.ReviewStatus = model.ReviewRejected
	a.Status = model.StatusInactive
	a.RejectionReason = reason
	updated, err := s.store.Agents().Update(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("reject agent: %w", err)
	}

	if err := s.fanout.Notify(ctx, &model.Notification{
		UserID:   updated.OwnerID,
		Message:  fmt.Sprintf("Action Required: '%s' could not be approved. Reason: %s. Please make changes and resubmit.", updated.Name, reason),
		Type:     model.NotifyError,
		Role:     model.RoleVendor,
		TargetID: updated.AgentID,
	}); err != nil {
		s.log.Error().Err(err).Str("agent_id", agentID).Msg("rejection vendor notification failed")
	}

	s.auditor.Record(ctx, adminID, model.ActionRejectAgent, updated.AgentID, model.TargetAgent,
		fmt.Sprintf("Rejected agent: %s. Reason: %s", updated.Name, reason), remoteIP)

	return updated, nil
}

// Deactivate takes an owned agent off the marketplace. A low-stakes
// self-service action: no notification, no audit entry.
func (s *ModerationService) Deactivate(ctx context.Context, agentID, ownerID string) (*model.Agent, error) {
	a, err := s.ownedAgent(ctx, agentID, ownerID)
	if err != nil {
		return nil, err
	}
	a.Status = model.StatusInactive
	return s.store.Agents().Update(ctx, a)
}

// Reactivate puts an owned agent back Live. Refused unless the listing
// has passed review, so Live always implies Approved.
func (s *ModerationService) Reactivate(ctx context.Context, agentID, ownerID string) (*model.Agent, error) {
	a, err := s.ownedAgent(ctx, agentID, ownerID)
	if err != nil {
		return nil, err
	}
	if a.ReviewStatus != model.ReviewApproved {
		return nil, fmt.Errorf("agent %s has not been approved: %w", agentID, model.ErrConflict)
	}
	a.Status = model.StatusLive
	return s.store.Agents().Update(ctx, a)
}

// DeleteAgent hard-deletes an agent and cascades over every collection
// that references it. The cascade is not transactional: each step is
// idempotent and the agent row goes last, so a crash mid-cascade leaves
// an orphaned-but-visible agent rather than dangling references, and a
// retry completes the remaining steps.
func (s *ModerationService) DeleteAgent(ctx context.Context, agentID, adminID, remoteIP string) (*DeleteResult, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	a, err := s.store.Agents().Get(ctx, agentID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("agent_id", agentID).Str("agent_name", a.Name).Str("admin_id", adminID).
		Msg("cascading agent delete")

	if err := s.store.Users().RemoveOwnedAgentAll(ctx, agentID); err != nil {
		return nil, fmt.Errorf("delete cascade (ownership lists): %w", err)
	}
	if err := s.store.Transactions().DeleteByAgent(ctx, agentID); err != nil {
		return nil, fmt.Errorf("delete cascade (transactions): %w", err)
	}
	if err := s.store.VendorChats().DeleteByAgent(ctx, agentID); err != nil {
		return nil, fmt.Errorf("delete cascade (vendor chats): %w", err)
	}
	if err := s.store.VendorMessages().DeleteByAgent(ctx, agentID); err != nil {
		return nil, fmt.Errorf("delete cascade (vendor messages): %w", err)
	}
	if err := s.store.Notifications().DeleteByTarget(ctx, agentID); err != nil {
		return nil, fmt.Errorf("delete cascade (notifications): %w", err)
	}
	if err := s.store.Agents().Delete(ctx, agentID); err != nil {
		return nil, fmt.Errorf("delete agent: %w", err)
	}

	s.auditor.Record(ctx, adminID, model.ActionDeleteAgent, agentID, model.TargetAgent,
		fmt.Sprintf("Deleted agent: %s (with cascade)", a.Name), remoteIP)

	return &DeleteResult{
		Success: true,
		Message: "Agent and all associated data permanently deleted by Admin",
		AgentID: agentID,
	}, nil
}

// ApproveVendor approves a pending vendor account.
func (s *ModerationService) ApproveVendor(ctx context.Context, userID, adminID, remoteIP string) (*VendorDecision, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	vendor, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsVendor {
		return nil, fmt.Errorf("vendor %s: %w", userID, model.ErrNotFound)
	}

	now := nowUTC()
	vendor.VendorStatus = model.VendorApproved
	vendor.VendorApprovedAt = &now
	vendor.RejectionReason = ""
	updated, err := s.store.Users().Update(ctx, vendor)
	if err != nil {
		return nil, fmt.Errorf("approve vendor: %w", err)
	}

	if err := s.mailer.Send(ctx, withTo(mail.VendorApproved(updated.Name, s.frontendURL), updated.Email)); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("vendor approval email failed")
	}
	if err := s.fanout.Notify(ctx, &model.Notification{
		UserID:  updated.UserID,
		Message: "Your vendor account has been approved. Welcome to the AI-MALL vendor community!",
		Type:    model.NotifySuccess,
		Role:    model.RoleVendor,
	}); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("vendor approval notification failed")
	}

	s.auditor.Record(ctx, adminID, model.ActionApproveVendor, updated.UserID, model.TargetUser,
		fmt.Sprintf("Approved vendor account: %s (%s)", updated.Name, updated.Email), remoteIP)

	return &VendorDecision{ID: updated.UserID, Name: updated.Name, Email: updated.Email, VendorStatus: updated.VendorStatus}, nil
}

// RejectVendor rejects a vendor application with a mandatory reason.
func (s *ModerationService) RejectVendor(ctx context.Context, userID, adminID, reason, remoteIP string) (*VendorDecision, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("rejection reason is required: %w", model.ErrValidation)
	}
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	vendor, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsVendor {
		return nil, fmt.Errorf("vendor %s: %w", userID, model.ErrNotFound)
	}

	now := nowUTC()
	vendor.VendorStatus = model.VendorRejected
	vendor.VendorRejectedAt = &now
	vendor.RejectionReason = reason
	updated, err := s.store.Users().Update(ctx, vendor)
	if err != nil {
		return nil, fmt.Errorf("reject vendor: %w", err)
	}

	if err := s.mailer.Send(ctx, withTo(mail.VendorRejected(updated.Name, reason), updated.Email)); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("vendor rejection email failed")
	}
	if err := s.fanout.Notify(ctx, &model.Notification{
		UserID:  updated.UserID,
		Message: fmt.Sprintf("Your vendor application was rejected. Reason: %s", reason),
		Type:    model.NotifyError,
		Role:    model.RoleVendor,
	}); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("vendor rejection notification failed")
	}

	s.auditor.Record(ctx, adminID, model.ActionRejectVendor, updated.UserID, model.TargetUser,
		fmt.Sprintf("Rejected vendor account: %s. Reason: %s", updated.Name, reason), remoteIP)

	return &VendorDecision{ID: updated.UserID, Name: updated.Name, Email: updated.Email,
		VendorStatus: updated.VendorStatus, RejectionReason: updated.RejectionReason}, nil
}

// BlockUser blocks an account from the platform.
func (s *ModerationService) BlockUser(ctx context.Context, userID, adminID, remoteIP string) (*model.User, error) {
	return s.setBlocked(ctx, userID, adminID, remoteIP, true)
}

// UnblockUser restores a blocked account.
func (s *ModerationService) UnblockUser(ctx context.Context, userID, adminID, remoteIP string) (*model.User, error) {
	return s.setBlocked(ctx, userID, adminID, remoteIP, false)
}

func (s *ModerationService) setBlocked(ctx context.Context, userID, adminID, remoteIP string, blocked bool) (*model.User, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	u, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.IsBlocked = blocked
	updated, err := s.store.Users().Update(ctx, u)
	if err != nil {
		return nil, err
	}
	action := model.ActionBlockUser
	verb := "Blocked"
	if !blocked {
		action = model.ActionUnblockUser
		verb = "Unblocked"
	}
	s.auditor.Record(ctx, adminID, action, updated.UserID, model.TargetUser,
		fmt.Sprintf("%s user: %s (%s)", verb, updated.Name, updated.Email), remoteIP)
	return updated, nil
}

func withTo(m mail.Message, to string) mail.Message {
	m.To = to
	return m
}

func nowUTC() time.Time { return time.Now().UTC() }
