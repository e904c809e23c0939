package store

import (
	"context"

	"github.com/ai-mall/backend/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., postgres, sqlite).
type Store interface {
	Users() Users
	Agents() Agents
	Notifications() Notifications
	AuditLogs() AuditLogs
	Transactions() Transactions
	VendorChats() VendorChats
	VendorMessages() VendorMessages
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Update persists mutable fields (role, block flag, vendor sub-state)
	// for an existing user.
	Update(ctx context.Context, u *model.User) (*model.User, error)
	// ListAdmins returns admin accounts, excluding excludeID when non-empty.
	ListAdmins(ctx context.Context, excludeID string) ([]*model.User, error)
	// ListIDs returns every user id; feeds broadcast fan-out.
	ListIDs(ctx context.Context) ([]string, error)
	ListVendors(ctx context.Context, vendorStatus string) ([]*model.User, error)

	// Ownership list (purchased/subscribed agents).
	Owns(ctx context.Context, userID, agentID string) (bool, error)
	AddOwnedAgent(ctx context.Context, userID, agentID string) error
	OwnedAgentIDs(ctx context.Context, userID string) ([]string, error)
	// RemoveOwnedAgentAll pulls the agent id from every user's owned list.
	// Removing an absent reference is a no-op.
	RemoveOwnedAgentAll(ctx context.Context, agentID string) error
}

// ListAgentsFilter narrows Agents.List. Zero value lists every
// non-deleted agent.
type ListAgentsFilter struct {
	OwnerID        string
	LiveOnly       bool
	IncludeDeleted bool
	Limit          int
}

type Agents interface {
	Create(ctx context.Context, a *model.Agent) (*model.Agent, error)
	Get(ctx context.Context, agentID string) (*model.Agent, error)
	Update(ctx context.Context, a *model.Agent) (*model.Agent, error)
	List(ctx context.Context, f ListAgentsFilter) ([]*model.Agent, error)
	// Delete hard-deletes; deleting an absent agent is a no-op.
	Delete(ctx context.Context, agentID string) error
}

type Notifications interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	// CreateBatch inserts the given notifications in one statement.
	// Callers are expected to chunk large fan-outs.
	CreateBatch(ctx context.Context, ns []*model.Notification) error
	ListByUser(ctx context.Context, userID string) ([]*model.Notification, error)
	ListByTarget(ctx context.Context, targetID string) ([]*model.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	DeleteByTarget(ctx context.Context, targetID string) error
}

type AuditLogs interface {
	Append(ctx context.Context, e *model.AuditLogEntry) (*model.AuditLogEntry, error)
	List(ctx context.Context, limit int) ([]*model.AuditLogEntry, error)
	ListByTarget(ctx context.Context, targetID string) ([]*model.AuditLogEntry, error)
}

type Transactions interface {
	Create(ctx context.Context, t *model.Transaction) (*model.Transaction, error)
	ListByAgent(ctx context.Context, agentID string) ([]*model.Transaction, error)
	ListByVendor(ctx context.Context, vendorID string) ([]*model.Transaction, error)
	DeleteByAgent(ctx context.Context, agentID string) error
}

type VendorChats interface {
	Create(ctx context.Context, c *model.VendorChat) (*model.VendorChat, error)
	ListByAgent(ctx context.Context, agentID string) ([]*model.VendorChat, error)
	DeleteByAgent(ctx context.Context, agentID string) error
}

type VendorMessages interface {
	Create(ctx context.Context, m *model.VendorMessage) (*model.VendorMessage, error)
	ListByAgent(ctx context.Context, agentID string) ([]*model.VendorMessage, error)
	DeleteByAgent(ctx context.Context, agentID string) error
}
