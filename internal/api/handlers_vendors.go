package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ai-mall/backend/internal/api/respond"
	"github.com/ai-mall/backend/internal/api/validate"
	"github.com/ai-mall/backend/internal/services"
)

// VendorHandler covers vendor onboarding and the admin decision
// endpoints.
type VendorHandler struct {
	vendors    *services.VendorService
	moderation *services.ModerationService
}

func NewVendorHandler(v *services.VendorService, m *services.ModerationService) *VendorHandler {
	return &VendorHandler{vendors: v, moderation: m}
}

// Register POST /api/vendors/register
func (h *VendorHandler) Register(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	var req services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.vendors.Register(r.Context(), a.UserID, req)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// Status GET /api/vendors/status?email=...
func (h *VendorHandler) Status(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if err := validate.Email(email); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	status, reason, err := h.vendors.StatusByEmail(r.Context(), email)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{
		"vendorStatus":    status,
		"rejectionReason": reason,
	})
}

// ListPending GET /api/admin/vendors/pending
func (h *VendorHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	if !a.IsAdmin() {
		respond.WriteForbidden(w, "admin role required")
		return
	}
	vendors, err := h.vendors.ListPending(r.Context())
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"vendors": vendors, "count": len(vendors)})
}

// ListAll GET /api/admin/vendors
func (h *VendorHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	if !a.IsAdmin() {
		respond.WriteForbidden(w, "admin role required")
		return
	}
	vendors, err := h.vendors.ListAll(r.Context())
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"vendors": vendors, "count": len(vendors)})
}

// Approve POST /api/admin/vendors/{userId}/approve
func (h *VendorHandler) Approve(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	out, err := h.moderation.ApproveVendor(r.Context(), mux.Vars(r)["userId"], a.UserID, remoteIP(r))
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Reject POST /api/admin/vendors/{userId}/reject
func (h *VendorHandler) Reject(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.moderation.RejectVendor(r.Context(), mux.Vars(r)["userId"], a.UserID, req.Reason, remoteIP(r))
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
