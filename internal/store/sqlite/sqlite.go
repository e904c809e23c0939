package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store"
)

// Open opens (or creates) a SQLite database at the given path and enables
// WAL journal mode for better concurrency under read-heavy workloads.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens a SQLite database, ensures the schema, and returns a store.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an existing connection (used by tests and the factory).
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Users() store.Users                   { return &users{db: s.db} }
func (s *sqliteStore) Agents() store.Agents                 { return &agents{db: s.db} }
func (s *sqliteStore) Notifications() store.Notifications   { return &notifications{db: s.db} }
func (s *sqliteStore) AuditLogs() store.AuditLogs           { return &auditLogs{db: s.db} }
func (s *sqliteStore) Transactions() store.Transactions     { return &transactions{db: s.db} }
func (s *sqliteStore) VendorChats() store.VendorChats       { return &vendorChats{db: s.db} }
func (s *sqliteStore) VendorMessages() store.VendorMessages { return &vendorMessages{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

// --- Users ---

type users struct{ db *sql.DB }

const userCols = `UserId, Name, Email, Role, Avatar, IsBlocked, IsVendor, VendorStatus,
        CompanyName, CompanyType, RejectionReason, VendorRegisteredAt, VendorApprovedAt,
        VendorRejectedAt, CreationTime`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	var u model.User
	var avatar, vstatus, company, ctype, reason sql.NullString
	var reg, app, rej sql.NullTime
	if err := row.Scan(&u.UserID, &u.Name, &u.Email, &u.Role, &avatar, &u.IsBlocked, &u.IsVendor,
		&vstatus, &company, &ctype, &reason, &reg, &app, &rej, &u.CreationTime); err != nil {
		return nil, notFound(err)
	}
	u.Avatar = avatar.String
	u.VendorStatus = vstatus.String
	u.CompanyName = company.String
	u.CompanyType = ctype.String
	u.RejectionReason = reason.String
	if reg.Valid {
		t := reg.Time
		u.VendorRegisteredAt = &t
	}
	if app.Valid {
		t := app.Time
		u.VendorApprovedAt = &t
	}
	if rej.Valid {
		t := rej.Time
		u.VendorRejectedAt = &t
	}
	return &u, nil
}

func (r *users) Create(ctx context.Context, u *model.User) (*model.User, error) {
	out := *u
	if out.UserID == "" {
		out.UserID = uuid.New().String()
	}
	if out.Role == "" {
		out.Role = model.RoleUser
	}
	out.Email = strings.ToLower(out.Email)
	out.CreationTime = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO Users (`+userCols+`)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		out.UserID, out.Name, out.Email, out.Role, nullStr(out.Avatar), out.IsBlocked, out.IsVendor,
		nullStr(out.VendorStatus), nullStr(out.CompanyName), nullStr(out.CompanyType),
		nullStr(out.RejectionReason), nullTime(out.VendorRegisteredAt), nullTime(out.VendorApprovedAt),
		nullTime(out.VendorRejectedAt), out.CreationTime)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("email already registered: %w", model.ErrConflict)
		}
		return nil, err
	}
	return &out, nil
}

func (r *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM Users WHERE UserId = ?`, userID)
	return scanUser(row)
}

func (r *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM Users WHERE Email = ?`, strings.ToLower(email))
	return scanUser(row)
}

func (r *users) Update(ctx context.Context, u *model.User) (*model.User, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE Users SET Name=?, Role=?, Avatar=?, IsBlocked=?, IsVendor=?,
        VendorStatus=?, CompanyName=?, CompanyType=?, RejectionReason=?,
        VendorRegisteredAt=?, VendorApprovedAt=?, VendorRejectedAt=?
        WHERE UserId=?`,
		u.Name, u.Role, nullStr(u.Avatar), u.IsBlocked, u.IsVendor,
		nullStr(u.VendorStatus), nullStr(u.CompanyName), nullStr(u.CompanyType), nullStr(u.RejectionReason),
		nullTime(u.VendorRegisteredAt), nullTime(u.VendorApprovedAt), nullTime(u.VendorRejectedAt),
		u.UserID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return r.Get(ctx, u.UserID)
}

func (r *users) ListAdmins(ctx context.Context, excludeID string) ([]*model.User, error) {
	q := `SELECT ` + userCols + ` FROM Users WHERE LOWER(Role) = 'admin'`
	args := []interface{}{}
	if excludeID != "" {
		q += ` AND UserId <> ?`
		args = append(args, excludeID)
	}
	return r.list(ctx, q, args...)
}

func (r *users) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT UserId FROM Users`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *users) ListVendors(ctx context.Context, vendorStatus string) ([]*model.User, error) {
	q := `SELECT ` + userCols + ` FROM Users WHERE IsVendor = 1`
	args := []interface{}{}
	if vendorStatus != "" {
		q += ` AND VendorStatus = ?`
		args = append(args, vendorStatus)
	}
	q += ` ORDER BY VendorRegisteredAt DESC`
	return r.list(ctx, q, args...)
}

func (r *users) list(ctx context.Context, q string, args ...interface{}) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *users) Owns(ctx context.Context, userID, agentID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM UserAgents WHERE UserId=? AND AgentId=?`, userID, agentID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *users) AddOwnedAgent(ctx context.Context, userID, agentID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO UserAgents (UserId, AgentId) VALUES (?,?)`, userID, agentID)
	return err
}

func (r *users) OwnedAgentIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT AgentId FROM UserAgents WHERE UserId=?`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *users) RemoveOwnedAgentAll(ctx context.Context, agentID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM UserAgents WHERE AgentId=?`, agentID)
	return err
}

// --- Agents ---

type agents struct{ db *sql.DB }

const agentCols = `AgentId, Slug, OwnerId, Name, Description, Category, Avatar, Url,
        PricingType, PricingPlans, Status, ReviewStatus, RejectionReason, IsDeleted,
        CreationTime, UpdateTime`

func scanAgent(row interface{ Scan(...interface{}) error }) (*model.Agent, error) {
	var a model.Agent
	var desc, cat, avatar, url, plans, reason sql.NullString
	if err := row.Scan(&a.AgentID, &a.Slug, &a.OwnerID, &a.Name, &desc, &cat, &avatar, &url,
		&a.Pricing.Type, &plans, &a.Status, &a.ReviewStatus, &reason, &a.IsDeleted,
		&a.CreationTime, &a.UpdateTime); err != nil {
		return nil, notFound(err)
	}
	a.Description = desc.String
	a.Category = cat.String
	a.Avatar = avatar.String
	a.URL = url.String
	a.RejectionReason = reason.String
	if plans.Valid && plans.String != "" {
		_ = json.Unmarshal([]byte(plans.String), &a.Pricing.Plans)
	}
	return &a, nil
}

func plansJSON(plans []string) interface{} {
	if len(plans) == 0 {
		return nil
	}
	b, _ := json.Marshal(plans)
	return string(b)
}

func (r *agents) Create(ctx context.Context, a *model.Agent) (*model.Agent, error) {
	out := *a
	if out.AgentID == "" {
		out.AgentID = uuid.New().String()
	}
	if out.Pricing.Type == "" {
		out.Pricing.Type = "free"
	}
	now := time.Now().UTC()
	out.CreationTime = now
	out.UpdateTime = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO Agents (`+agentCols+`)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		out.AgentID, out.Slug, out.OwnerID, out.Name, nullStr(out.Description), nullStr(out.Category),
		nullStr(out.Avatar), nullStr(out.URL), out.Pricing.Type, plansJSON(out.Pricing.Plans),
		out.Status, out.ReviewStatus, nullStr(out.RejectionReason), out.IsDeleted,
		out.CreationTime, out.UpdateTime)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *agents) Get(ctx context.Context, agentID string) (*model.Agent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+agentCols+` FROM Agents WHERE AgentId = ?`, agentID)
	return scanAgent(row)
}

func (r *agents) Update(ctx context.Context, a *model.Agent) (*model.Agent, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE Agents SET Slug=?, Name=?, Description=?, Category=?,
        Avatar=?, Url=?, PricingType=?, PricingPlans=?, Status=?, ReviewStatus=?,
        RejectionReason=?, IsDeleted=?, UpdateTime=? WHERE AgentId=?`,
		a.Slug, a.Name, nullStr(a.Description), nullStr(a.Category), nullStr(a.Avatar), nullStr(a.URL),
		a.Pricing.Type, plansJSON(a.Pricing.Plans), a.Status, a.ReviewStatus,
		nullStr(a.RejectionReason), a.IsDeleted, time.Now().UTC(), a.AgentID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return r.Get(ctx, a.AgentID)
}

func (r *agents) List(ctx context.Context, f store.ListAgentsFilter) ([]*model.Agent, error) {
	q := `SELECT ` + agentCols + ` FROM Agents WHERE 1=1`
	args := []interface{}{}
	if !f.IncludeDeleted {
		q += ` AND IsDeleted = 0`
	}
	if f.OwnerID != "" {
		q += ` AND OwnerId = ?`
		args = append(args, f.OwnerID)
	}
	if f.LiveOnly {
		q += ` AND Status = ? AND ReviewStatus = ?`
		args = append(args, model.StatusLive, model.ReviewApproved)
	}
	q += ` ORDER BY CreationTime DESC`
	if f.Limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *agents) Delete(ctx context.Context, agentID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM Agents WHERE AgentId=?`, agentID)
	return err
}

// --- Notifications ---

type notifications struct{ db *sql.DB }

const notificationCols = `NotificationId, UserId, Message, Type, Role, TargetId, IsRead, CreationTime`

func scanNotification(row interface{ Scan(...interface{}) error }) (*model.Notification, error) {
	var n model.Notification
	var target sql.NullString
	if err := row.Scan(&n.NotificationID, &n.UserID, &n.Message, &n.Type, &n.Role, &target,
		&n.Read, &n.CreationTime); err != nil {
		return nil, notFound(err)
	}
	n.TargetID = target.String
	return &n, nil
}

func (r *notifications) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	out := *n
	if out.NotificationID == "" {
		out.NotificationID = uuid.New().String()
	}
	out.CreationTime = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO Notifications (`+notificationCols+`)
        VALUES (?,?,?,?,?,?,?,?)`,
		out.NotificationID, out.UserID, out.Message, out.Type, out.Role,
		nullStr(out.TargetID), out.Read, out.CreationTime)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *notifications) CreateBatch(ctx context.Context, ns []*model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO Notifications (` + notificationCols + `) VALUES `)
	args := make([]interface{}, 0, len(ns)*8)
	now := time.Now().UTC()
	for i, n := range ns {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?,?,?,?,?)")
		id := n.NotificationID
		if id == "" {
			id = uuid.New().String()
		}
		args = append(args, id, n.UserID, n.Message, n.Type, n.Role, nullStr(n.TargetID), n.Read, now)
	}
	_, err := r.db.ExecContext(ctx, sb.String(), args...)
	return err
}

func (r *notifications) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	return r.list(ctx, `SELECT `+notificationCols+` FROM Notifications WHERE UserId=? ORDER BY CreationTime DESC`, userID)
}

func (r *notifications) ListByTarget(ctx context.Context, targetID string) ([]*model.Notification, error) {
	return r.list(ctx, `SELECT `+notificationCols+` FROM Notifications WHERE TargetId=?`, targetID)
}

func (r *notifications) list(ctx context.Context, q string, args ...interface{}) ([]*model.Notification, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notifications) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Notifications WHERE UserId=? AND IsRead=0`, userID).Scan(&n)
	return n, err
}

func (r *notifications) MarkRead(ctx context.Context, userID, notificationID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE Notifications SET IsRead=1 WHERE UserId=? AND NotificationId=?`, userID, notificationID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *notifications) DeleteByTarget(ctx context.Context, targetID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM Notifications WHERE TargetId=?`, targetID)
	return err
}

// --- Audit logs ---

type auditLogs struct{ db *sql.DB }

const auditCols = `EntryId, AdminId, Action, TargetId, TargetType, Details, IpAddress, CreationTime`

func scanAudit(row interface{ Scan(...interface{}) error }) (*model.AuditLogEntry, error) {
	var e model.AuditLogEntry
	var details, ip sql.NullString
	if err := row.Scan(&e.EntryID, &e.AdminID, &e.Action, &e.TargetID, &e.TargetType,
		&details, &ip, &e.CreationTime); err != nil {
		return nil, notFound(err)
	}
	e.Details = details.String
	e.IPAddress = ip.String
	return &e, nil
}

func (r *auditLogs) Append(ctx context.Context, e *model.AuditLogEntry) (*model.AuditLogEntry, error) {
	out := *e
	if out.EntryID == "" {
		out.EntryID = uuid.New().String()
	}
	out.CreationTime = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO AuditLogs (`+auditCols+`) VALUES (?,?,?,?,?,?,?,?)`,
		out.EntryID, out.AdminID, out.Action, out.TargetID, out.TargetType,
		nullStr(out.Details), nullStr(out.IPAddress), out.CreationTime)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *auditLogs) List(ctx context.Context, limit int) ([]*model.AuditLogEntry, error) {
	q := `SELECT ` + auditCols + ` FROM AuditLogs ORDER BY CreationTime DESC`
	if limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, limit)
	}
	return r.list(ctx, q)
}

func (r *auditLogs) ListByTarget(ctx context.Context, targetID string) ([]*model.AuditLogEntry, error) {
	return r.list(ctx, `SELECT `+auditCols+` FROM AuditLogs WHERE TargetId=? ORDER BY CreationTime DESC`, targetID)
}

func (r *auditLogs) list(ctx context.Context, q string, args ...interface{}) ([]*model.AuditLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.AuditLogEntry
	for rows.Next() {
		e, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// --- Transactions ---

type transactions struct{ db *sql.DB }

const txCols = `TransactionId, AgentId, VendorId, BuyerId, Amount, PlatformFee, NetAmount, Status, CreationTime`

func scanTransaction(row interface{ Scan(...interface{}) error }) (*model.Transaction, error) {
	var t model.Transaction
	if err := row.Scan(&t.TransactionID, &t.AgentID, &t.VendorID, &t.BuyerID,
		&t.Amount, &t.PlatformFee, &t.NetAmount, &t.Status, &t.CreationTime); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *transactions) Create(ctx context.Context, t *model.Transaction) (*model.Transaction, error) {
	out := *t
	if out.TransactionID == "" {
		out.TransactionID = uuid.New().String()
	}
	out.CreationTime = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO Transactions (`+txCols+`) VALUES (?,?,?,?,?,?,?,?,?)`,
		out.TransactionID, out.AgentID, out.VendorID, out.BuyerID,
		out.Amount, out.PlatformFee, out.NetAmount, out.Status, out.CreationTime)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *transactions) ListByAgent(ctx context.Context, agentID string) ([]*model.Transaction, error) {
	return r.list(ctx, `SELECT `+txCols+` FROM Transactions WHERE AgentId=?`, agentID)
}

func (r *transactions) ListByVendor(ctx context.Context, vendorID string) ([]*model.Transaction, error) {
	return r.list(ctx, `SELECT `+txCols+` FROM Transactions WHERE VendorId=? ORDER BY CreationTime DESC`, vendorID)
}

func (r *transactions) list(ctx context.Context, q string, args ...interface{}) ([]*model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *transactions) DeleteByAgent(ctx context.Context, agentID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM Transactions WHERE AgentId=?`, agentID)
	return err
}

// --- Vendor chats ---

type vendorChats struct{ db *sql.DB }

func (r *vendorChats) Create(ctx context.Context, c *model.VendorChat) (*model.VendorChat, error) {
	out := *c
	if out.ChatID == "" {
		out.ChatID = uuid.New().String()
	}
	if out.Status == "" {
		out.Status = "active"
	}
	out.CreationTime = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO VendorChats (ChatId, UserId, VendorId, AgentId, Status, CreationTime)
        VALUES (?,?,?,?,?,?)`,
		out.ChatID, out.UserID, out.VendorID, out.AgentID, out.Status, out.CreationTime)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *vendorChats) ListByAgent(ctx context.Context, agentID string) ([]*model.VendorChat, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ChatId, UserId, VendorId, AgentId, Status, CreationTime
        FROM VendorChats WHERE AgentId=?`, agentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.VendorChat
	for rows.Next() {
		var c model.VendorChat
		if err := rows.Scan(&c.ChatID, &c.UserID, &c.VendorID, &c.AgentID, &c.Status, &c.CreationTime); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *vendorChats) DeleteByAgent(ctx context.Context, agentID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM VendorChats WHERE AgentId=?`, agentID)
	return err
}

// --- Vendor messages ---

type vendorMessages struct{ db *sql.DB }

func (r *vendorMessages) Create(ctx context.Context, m *model.VendorMessage) (*model.VendorMessage, error) {
	out := *m
	if out.MessageID == "" {
		out.MessageID = uuid.New().String()
	}
	if out.Status == "" {
		out.Status = "New"
	}
	out.CreationTime = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO VendorMessages (MessageId, UserId, VendorId, AgentId, Subject, Message, Status, CreationTime)
        VALUES (?,?,?,?,?,?,?,?)`,
		out.MessageID, nullStr(out.UserID), out.VendorID, out.AgentID, out.Subject, out.Message, out.Status, out.CreationTime)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *vendorMessages) ListByAgent(ctx context.Context, agentID string) ([]*model.VendorMessage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT MessageId, UserId, VendorId, AgentId, Subject, Message, Status, CreationTime
        FROM VendorMessages WHERE AgentId=?`, agentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.VendorMessage
	for rows.Next() {
		var m model.VendorMessage
		var userID sql.NullString
		if err := rows.Scan(&m.MessageID, &userID, &m.VendorID, &m.AgentID, &m.Subject, &m.Message, &m.Status, &m.CreationTime); err != nil {
			return nil, err
		}
		m.UserID = userID.String
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *vendorMessages) DeleteByAgent(ctx context.Context, agentID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM VendorMessages WHERE AgentId=?`, agentID)
	return err
}
