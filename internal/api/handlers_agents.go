package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ai-mall/backend/internal/api/respond"
	"github.com/ai-mall/backend/internal/api/validate"
	"github.com/ai-mall/backend/internal/services"
)

// AgentHandler is a thin HTTP transport over the catalog and moderation
// services.
type AgentHandler struct {
	catalog    *services.CatalogService
	moderation *services.ModerationService
	purchases  *services.PurchaseService
}

func NewAgentHandler(c *services.CatalogService, m *services.ModerationService, p *services.PurchaseService) *AgentHandler {
	return &AgentHandler{catalog: c, moderation: m, purchases: p}
}

// CreateAgent POST /api/agents
func (h *AgentHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	var req services.CreateAgentInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.AgentName(req.Name); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.catalog.CreateAgent(r.Context(), a.UserID, req)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// Marketplace GET /api/agents
func (h *AgentHandler) Marketplace(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	agents, err := h.catalog.Marketplace(r.Context(), limit)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"agents": agents, "count": len(agents)})
}

// ListMine GET /api/agents/mine
func (h *AgentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	agents, err := h.catalog.ListByOwner(r.Context(), a.UserID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"agents": agents, "count": len(agents)})
}

// ListAll GET /api/admin/agents
func (h *AgentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	if !a.IsAdmin() {
		respond.WriteForbidden(w, "admin role required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	agents, err := h.catalog.ListAll(r.Context(), limit)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"agents": agents, "count": len(agents)})
}

// GetAgent GET /api/agents/{agentId}
func (h *AgentHandler) GetAgent(w http.ResponseWriter, r *http.Request) {
	out, err := h.catalog.GetAgent(r.Context(), mux.Vars(r)["agentId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateAgent PATCH /api/agents/{agentId}
func (h *AgentHandler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	var req services.UpdateAgentInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.catalog.UpdateAgent(r.Context(), mux.Vars(r)["agentId"], a.UserID, req)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Details GET /api/agents/{agentId}/details
func (h *AgentHandler) Details(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	out, err := h.catalog.Details(r.Context(), mux.Vars(r)["agentId"], a.UserID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// SubmitForReview POST /api/agents/{agentId}/submit
func (h *AgentHandler) SubmitForReview(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	out, err := h.moderation.SubmitForReview(r.Context(), mux.Vars(r)["agentId"], a.UserID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Approve POST /api/admin/agents/{agentId}/approve
func (h *AgentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	var req struct {
		Note   string `json:"note"`
		Avatar string `json:"avatar"`
	}
	// Body is optional on approval.
	_ = json.NewDecoder(r.Body).Decode(&req)
	out, err := h.moderation.Approve(r.Context(), mux.Vars(r)["agentId"], a.UserID, services.ApproveInput{
		Note:     req.Note,
		Avatar:   req.Avatar,
		RemoteIP: remoteIP(r),
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Reject POST /api/admin/agents/{agentId}/reject
func (h *AgentHandler) Reject(w http.ResponseWriter, r *http.Request) {
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
	out, err := h.moderation.Reject(r.Context(), mux.Vars(r)["agentId"], a.UserID, req.Reason, remoteIP(r))
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Deactivate POST /api/agents/{agentId}/deactivate
func (h *AgentHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	out, err := h.moderation.Deactivate(r.Context(), mux.Vars(r)["agentId"], a.UserID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Reactivate POST /api/agents/{agentId}/reactivate
func (h *AgentHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	out, err := h.moderation.Reactivate(r.Context(), mux.Vars(r)["agentId"], a.UserID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteAgent DELETE /api/admin/agents/{agentId}
func (h *AgentHandler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	out, err := h.moderation.DeleteAgent(r.Context(), mux.Vars(r)["agentId"], a.UserID, remoteIP(r))
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Buy POST /api/agents/{agentId}/buy
func (h *AgentHandler) Buy(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	out, err := h.purchases.Buy(r.Context(), mux.Vars(r)["agentId"], a.UserID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// OwnedAgents GET /api/users/me/agents
func (h *AgentHandler) OwnedAgents(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	agents, err := h.purchases.OwnedAgents(r.Context(), a.UserID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"agents": agents, "count": len(agents)})
}
