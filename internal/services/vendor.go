package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ai-mall/backend/internal/mail"
	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store"
)

// VendorService handles vendor onboarding and vendor-facing reads.
type VendorService struct {
	store       store.Store
	fanout      *Fanout
	mailer      mail.Mailer
	adminEmail  string
	frontendURL string
	log         zerolog.Logger
}

func NewVendorService(s store.Store, f *Fanout, m mail.Mailer, adminEmail, frontendURL string, log zerolog.Logger) *VendorService {
	return &VendorService{store: s, fanout: f, mailer: m, adminEmail: adminEmail, frontendURL: frontendURL, log: log}
}

// RegisterInput is a vendor onboarding application.
type RegisterInput struct {
	CompanyName string `json:"companyName"`
	CompanyType string `json:"companyType"`
}

// VendorOverview pairs a vendor account with its listings for the
// admin review screen.
type VendorOverview struct {
	Vendor *model.User    `json:"vendor"`
	Agents []*model.Agent `json:"agents"`
}

// Register files a vendor application for an existing account. The
// account flips to the vendor role immediately but stays in the
// pending sub-state until an admin decides. Re-applying while pending
// or already approved is a conflict; a rejected applicant may re-apply.
func (s *VendorService) Register(ctx context.Context, userID string, in RegisterInput) (*model.User, error) {
	if strings.TrimSpace(in.CompanyName) == "" {
		return nil, fmt.Errorf("company name is required: %w", model.ErrValidation)
	}

	u, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IsVendor && (u.VendorStatus == model.VendorPending || u.VendorStatus == model.VendorApproved) {
		return nil, fmt.Errorf("vendor application already on file: %w", model.ErrConflict)
	}

	now := nowUTC()
	u.IsVendor = true
	u.Role = model.RoleVendor
	u.VendorStatus = model.VendorPending
	u.VendorRegisteredAt = &now
	u.VendorApprovedAt = nil
	u.VendorRejectedAt = nil
	u.RejectionReason = ""
	u.CompanyName = in.CompanyName
	u.CompanyType = in.CompanyType

	updated, err := s.store.Users().Update(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("register vendor: %w", err)
	}

	// Admin-facing side effects are best-effort.
	if s.adminEmail != "" {
		msg := mail.VendorRegistered(updated.Name, updated.CompanyName, updated.CompanyType, updated.Email, s.frontendURL)
		msg.To = s.adminEmail
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.log.Error().Err(err).Str("user_id", userID).Msg("vendor registration email failed")
		}
	}

	admins, err := s.store.Users().ListAdmins(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Msg("list admins for vendor registration failed")
	} else if len(admins) > 0 {
		ids := make([]string, 0, len(admins))
		for _, ad := range admins {
			ids = append(ids, ad.UserID)
		}
		notice := fmt.Sprintf("New vendor application: %s (%s) has applied to become a vendor.", updated.Name, updated.CompanyName)
		if err := s.fanout.NotifyMany(ctx, ids, notice, model.NotifyInfo, model.RoleAdmin, updated.UserID); err != nil {
			s.log.Error().Err(err).Str("user_id", userID).Msg("admin vendor-application notification failed")
		}
	}

	return updated, nil
}

// StatusByEmail reports an applicant's onboarding state. Accounts that
// never applied report an empty status.
func (s *VendorService) StatusByEmail(ctx context.Context, email string) (string, string, error) {
	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	if !u.IsVendor {
		return "", "", nil
	}
	return u.VendorStatus, u.RejectionReason, nil
}

// ListPending returns vendor applications awaiting a decision.
func (s *VendorService) ListPending(ctx context.Context) ([]*model.User, error) {
	return s.store.Users().ListVendors(ctx, model.VendorPending)
}

// ListAll returns every vendor account together with its listings.
func (s *VendorService) ListAll(ctx context.Context) ([]*VendorOverview, error) {
	vendors, err := s.store.Users().ListVendors(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]*VendorOverview, 0, len(vendors))
	for _, v := range vendors {
		agents, err := s.store.Agents().List(ctx, store.ListAgentsFilter{OwnerID: v.UserID})
		if err != nil {
			return nil, err
		}
		out = append(out, &VendorOverview{Vendor: v, Agents: agents})
	}
	return out, nil
}
