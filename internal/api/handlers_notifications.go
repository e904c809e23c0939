package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ai-mall/backend/internal/api/respond"
	"github.com/ai-mall/backend/internal/services"
)

// NotificationHandler serves the caller's notification feed.
type NotificationHandler struct {
	svc *services.NotificationService
}

func NewNotificationHandler(svc *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	ns, err := h.svc.List(r.Context(), a.UserID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"notifications": ns, "count": len(ns)})
}

// UnreadCount GET /api/notifications/unread
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	n, err := h.svc.UnreadCount(r.Context(), a.UserID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]int{"unread": n})
}

// MarkRead POST /api/notifications/{notificationId}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	if err := h.svc.MarkRead(r.Context(), a.UserID, mux.Vars(r)["notificationId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AuditHandler serves the admin audit trail.
type AuditHandler struct {
	auditor *services.Auditor
}

func NewAuditHandler(a *services.Auditor) *AuditHandler { return &AuditHandler{auditor: a} }

// Recent GET /api/admin/audit-logs
func (h *AuditHandler) Recent(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	if !a.IsAdmin() {
		respond.WriteForbidden(w, "admin role required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 100
	}
	entries, err := h.auditor.Recent(r.Context(), limit)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": entries, "count": len(entries)})
}

// ForTarget GET /api/admin/audit-logs/{targetId}
func (h *AuditHandler) ForTarget(w http.ResponseWriter, r *http.Request) {
	a := actor(w, r)
	if a == nil {
		return
	}
	if !a.IsAdmin() {
		respond.WriteForbidden(w, "admin role required")
		return
	}
	entries, err := h.auditor.ForTarget(r.Context(), mux.Vars(r)["targetId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": entries, "count": len(entries)})
}
