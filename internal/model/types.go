package model

import "time"

// Agent review states. Draft moves to PendingReview when the vendor
// submits; an admin resolves it to Approved or Rejected. Rejected agents
// can be edited and resubmitted.
const (
	ReviewDraft    = "Draft"
	ReviewPending  = "Pending Review"
	ReviewApproved = "Approved"
	ReviewRejected = "Rejected"
)

// Agent publication states. Live must only be reachable once the review
// state is Approved; the workflow enforces this, not the schema.
const (
	StatusInactive = "Inactive"
	StatusLive     = "Live"
)

// Vendor onboarding states. An empty VendorStatus means the account has
// never applied for vendorship.
const (
	VendorPending  = "pending"
	VendorApproved = "approved"
	VendorRejected = "rejected"
)

// Roles stored on a User. The role string is free text in the legacy
// data; comparisons are case-insensitive.
const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// Pricing is the tagged pricing structure attached to an agent listing.
// Type is "free" or "paid"; Plans holds the selectable plan names.
type Pricing struct {
	Type  string   `json:"type"`
	Plans []string `json:"plans,omitempty"`
}

// Agent is a vendor's published listing.
type Agent struct {
	AgentID         string    `json:"agentId"`
	Slug            string    `json:"slug"`
	OwnerID         string    `json:"ownerId"`
	Name            string    `json:"agentName"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	Avatar          string    `json:"avatar,omitempty"`
	URL             string    `json:"url,omitempty"`
	Pricing         Pricing   `json:"pricing"`
	Status          string    `json:"status"`
	ReviewStatus    string    `json:"reviewStatus"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	IsDeleted       bool      `json:"isDeleted"`
	CreationTime    time.Time `json:"creationTime"`
	UpdateTime      time.Time `json:"updateTime"`
}

// User is an account. Vendor fields are populated only for accounts that
// registered as vendors; IsVendor and Role are redundant and kept
// consistent by the workflow.
type User struct {
	UserID             string     `json:"userId"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	Avatar             string     `json:"avatar,omitempty"`
	IsBlocked          bool       `json:"isBlocked"`
	IsVendor           bool       `json:"isVendor"`
	VendorStatus       string     `json:"vendorStatus,omitempty"`
	CompanyName        string     `json:"companyName,omitempty"`
	CompanyType        string     `json:"companyType,omitempty"`
	RejectionReason    string     `json:"rejectionReason,omitempty"`
	VendorRegisteredAt *time.Time `json:"vendorRegisteredAt,omitempty"`
	VendorApprovedAt   *time.Time `json:"vendorApprovedAt,omitempty"`
	VendorRejectedAt   *time.Time `json:"vendorRejectedAt,omitempty"`
	CreationTime       time.Time  `json:"creationTime"`
}

// Audit actions recorded for privileged admin mutations.
const (
	ActionApproveAgent   = "APPROVE_AGENT"
	ActionRejectAgent    = "REJECT_AGENT"
	ActionApproveVendor  = "APPROVE_VENDOR"
	ActionRejectVendor   = "REJECT_VENDOR"
	ActionDeleteAgent    = "DELETE_AGENT"
	ActionBlockUser      = "BLOCK_USER"
	ActionUnblockUser    = "UNBLOCK_USER"
	ActionChangeSettings = "CHANGE_PLATFORM_SETTINGS"
)

// Audit target types.
const (
	TargetAgent    = "Agent"
	TargetUser     = "User"
	TargetReport   = "Report"
	TargetSettings = "Settings"
)

// AuditLogEntry is an immutable record of a privileged admin action.
// Details carry denormalized context (target name, reason) so the entry
// stays readable after the target is hard-deleted.
type AuditLogEntry struct {
	EntryID      string    `json:"entryId"`
	AdminID      string    `json:"adminId"`
	Action       string    `json:"action"`
	TargetID     string    `json:"targetId"`
	TargetType   string    `json:"targetType"`
	Details      string    `json:"details,omitempty"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// Notification severities.
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyError   = "error"
	NotifyWarning = "warning"
)

// Notification is an ephemeral per-recipient message. Role tags the
// dashboard surface that should display it. Delivery is best-effort.
type Notification struct {
	NotificationID string    `json:"notificationId"`
	UserID         string    `json:"userId"`
	Message        string    `json:"message"`
	Type           string    `json:"type"`
	Role           string    `json:"role"`
	TargetID       string    `json:"targetId,omitempty"`
	Read           bool      `json:"read"`
	CreationTime   time.Time `json:"creationTime"`
}

// Transaction records a subscription/purchase tying a buyer to an agent.
// Never mutated after creation; free acquisitions are recorded with
// amount 0.
type Transaction struct {
	TransactionID string    `json:"transactionId"`
	AgentID       string    `json:"agentId"`
	VendorID      string    `json:"vendorId"`
	BuyerID       string    `json:"buyerId"`
	Amount        float64   `json:"amount"`
	PlatformFee   float64   `json:"platformFee"`
	NetAmount     float64   `json:"netAmount"`
	Status        string    `json:"status"`
	CreationTime  time.Time `json:"creationTime"`
}

// VendorChat is a user/vendor conversation about an agent. Modeled here
// only as far as the delete cascade needs it.
type VendorChat struct {
	ChatID       string    `json:"chatId"`
	UserID       string    `json:"userId"`
	VendorID     string    `json:"vendorId"`
	AgentID      string    `json:"agentId"`
	Status       string    `json:"status"`
	CreationTime time.Time `json:"creationTime"`
}

// VendorMessage is a one-off contact message sent to a vendor about an
// agent listing.
type VendorMessage struct {
	MessageID    string    `json:"messageId"`
	UserID       string    `json:"userId,omitempty"`
	VendorID     string    `json:"vendorId"`
	AgentID      string    `json:"agentId"`
	Subject      string    `json:"subject"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	CreationTime time.Time `json:"creationTime"`
}

// AgentUsage aggregates read-side subscription stats for one agent.
type AgentUsage struct {
	TotalUsers    int            `json:"totalUsers"`
	PlanBreakdown map[string]int `json:"planBreakdown"`
}
