package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ai-mall/backend/internal/api/respond"
	"github.com/ai-mall/backend/internal/api/validate"
	"github.com/ai-mall/backend/internal/services"
)

// UserHandler covers account creation and admin account controls.
type UserHandler struct {
	accounts   *services.AccountService
	moderation *services.ModerationService
}

func NewUserHandler(a *services.AccountService, m *services.ModerationService) *UserHandler {
	return &UserHandler{accounts: a, moderation: m}
}

// CreateUser POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req services.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.Email(req.Email); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.accounts.CreateUser(r.Context(), req)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetUser GET /api/users/{userId}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	out, err := h.accounts.Get(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Me GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	out, err := h.accounts.Get(r.Context(), a.UserID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Block POST /api/admin/users/{userId}/block
func (h *UserHandler) Block(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	out, err := h.moderation.BlockUser(r.Context(), mux.Vars(r)["userId"], a.UserID, remoteIP(r))
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Unblock POST /api/admin/users/{userId}/unblock
func (h *UserHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	out, err := h.moderation.UnblockUser(r.Context(), mux.Vars(r)["userId"], a.UserID, remoteIP(r))
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
