package api

import (
	"github.com/gorilla/mux"

	"github.com/ai-mall/backend/internal/api/recovery"
	"github.com/ai-mall/backend/internal/auth"
	"github.com/ai-mall/backend/internal/services"
)

// Deps carries the constructed services the router exposes.
type Deps struct {
	Accounts      *services.AccountService
	Catalog       *services.CatalogService
	Moderation    *services.ModerationService
	Purchases     *services.PurchaseService
	Vendors       *services.VendorService
	Notifications *services.NotificationService
	Auditor       *services.Auditor
	Authorizer    auth.Authorizer
	IsHealthy     func() bool
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	healthHandler := NewHealthHandler(d.IsHealthy)
	userHandler := NewUserHandler(d.Accounts, d.Moderation)
	agentHandler := NewAgentHandler(d.Catalog, d.Moderation, d.Purchases)
	vendorHandler := NewVendorHandler(d.Vendors, d.Moderation)
	notificationHandler := NewNotificationHandler(d.Notifications)
	auditHandler := NewAuditHandler(d.Auditor)

	// Unauthenticated endpoints
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/api/users", userHandler.CreateUser).Methods("POST")
	router.HandleFunc("/api/vendors/status", vendorHandler.Status).Methods("GET")

	// Everything else requires a resolved actor.
	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(AuthMiddleware(d.Authorizer))

	// User endpoints
	authed.HandleFunc("/users/me", userHandler.Me).Methods("GET")
	authed.HandleFunc("/users/me/agents", agentHandler.OwnedAgents).Methods("GET")
	authed.HandleFunc("/users/{userId}", userHandler.GetUser).Methods("GET")

	// Marketplace and listing endpoints
	authed.HandleFunc("/agents", agentHandler.Marketplace).Methods("GET")
	authed.HandleFunc("/agents", agentHandler.CreateAgent).Methods("POST")
	authed.HandleFunc("/agents/mine", agentHandler.ListMine).Methods("GET")
	authed.HandleFunc("/agents/{agentId}", agentHandler.GetAgent).Methods("GET")
	authed.HandleFunc("/agents/{agentId}", agentHandler.UpdateAgent).Methods("PATCH")
	authed.HandleFunc("/agents/{agentId}/details", agentHandler.Details).Methods("GET")
	authed.HandleFunc("/agents/{agentId}/submit", agentHandler.SubmitForReview).Methods("POST")
	authed.HandleFunc("/agents/{agentId}/deactivate", agentHandler.Deactivate).Methods("POST")
	authed.HandleFunc("/agents/{agentId}/reactivate", agentHandler.Reactivate).Methods("POST")
	authed.HandleFunc("/agents/{agentId}/buy", agentHandler.Buy).Methods("POST")

	// Notification feed
	authed.HandleFunc("/notifications", notificationHandler.List).Methods("GET")
	authed.HandleFunc("/notifications/unread", notificationHandler.UnreadCount).Methods("GET")
	authed.HandleFunc("/notifications/{notificationId}/read", notificationHandler.MarkRead).Methods("POST")

	// Vendor onboarding
	authed.HandleFunc("/vendors/register", vendorHandler.Register).Methods("POST")

	// Admin endpoints. Handlers and services re-check the admin role.
	authed.HandleFunc("/admin/agents", agentHandler.ListAll).Methods("GET")
	authed.HandleFunc("/admin/agents/{agentId}/approve", agentHandler.Approve).Methods("POST")
	authed.HandleFunc("/admin/agents/{agentId}/reject", agentHandler.Reject).Methods("POST")
	authed.HandleFunc("/admin/agents/{agentId}", agentHandler.DeleteAgent).Methods("DELETE")
	authed.HandleFunc("/admin/vendors", vendorHandler.ListAll).Methods("GET")
	authed.HandleFunc("/admin/vendors/pending", vendorHandler.ListPending).Methods("GET")
	authed.HandleFunc("/admin/vendors/{userId}/approve", vendorHandler.Approve).Methods("POST")
	authed.HandleFunc("/admin/vendors/{userId}/reject", vendorHandler.Reject).Methods("POST")
	authed.HandleFunc("/admin/users/{userId}/block", userHandler.Block).Methods("POST")
	authed.HandleFunc("/admin/users/{userId}/unblock", userHandler.Unblock).Methods("POST")
	authed.HandleFunc("/admin/audit-logs", auditHandler.Recent).Methods("GET")
	authed.HandleFunc("/admin/audit-logs/{targetId}", auditHandler.ForTarget).Methods("GET")

	return router
}
