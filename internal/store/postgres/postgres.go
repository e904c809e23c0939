package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
// Schema setup is handled by migrations, not by the adapter.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users                   { return &users{db: s.db} }
func (s *pgStore) Agents() store.Agents                 { return &agents{db: s.db} }
func (s *pgStore) Notifications() store.Notifications   { return &notifications{db: s.db} }
func (s *pgStore) AuditLogs() store.AuditLogs           { return &auditLogs{db: s.db} }
func (s *pgStore) Transactions() store.Transactions     { return &transactions{db: s.db} }
func (s *pgStore) VendorChats() store.VendorChats       { return &vendorChats{db: s.db} }
func (s *pgStore) VendorMessages() store.VendorMessages { return &vendorMessages{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
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

const userCols = `user_id, name, email, role, avatar, is_blocked, is_vendor, vendor_status,
        company_name, company_type, rejection_reason, vendor_registered_at, vendor_approved_at,
        vendor_rejected_at, creation_time`

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
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, name, email, role, avatar, is_blocked, is_vendor, vendor_status,
            company_name, company_type, rejection_reason, vendor_registered_at, vendor_approved_at, vendor_rejected_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING creation_time
    `, out.UserID, out.Name, out.Email, out.Role, nullStr(out.Avatar), out.IsBlocked, out.IsVendor,
		nullStr(out.VendorStatus), nullStr(out.CompanyName), nullStr(out.CompanyType),
		nullStr(out.RejectionReason), nullTime(out.VendorRegisteredAt), nullTime(out.VendorApprovedAt),
		nullTime(out.VendorRejectedAt))
	if err := row.Scan(&out.CreationTime); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, fmt.Errorf("email already registered: %w", model.ErrConflict)
		}
		return nil, err
	}
	return &out, nil
}

func (r *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE user_id=$1`, userID)
	return scanUser(row)
}

func (r *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, strings.ToLower(email))
	return scanUser(row)
}

func (r *users) Update(ctx context.Context, u *model.User) (*model.User, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET name=$1, role=$2, avatar=$3, is_blocked=$4,
        is_vendor=$5, vendor_status=$6, company_name=$7, company_type=$8, rejection_reason=$9,
        vendor_registered_at=$10, vendor_approved_at=$11, vendor_rejected_at=$12
        WHERE user_id=$13`,
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
	q := `SELECT ` + userCols + ` FROM users WHERE LOWER(role)='admin'`
	args := []interface{}{}
	if excludeID != "" {
		q += ` AND user_id <> $1`
		args = append(args, excludeID)
	}
	return r.list(ctx, q, args...)
}

func (r *users) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM users`)
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
	q := `SELECT ` + userCols + ` FROM users WHERE is_vendor`
	args := []interface{}{}
	if vendorStatus != "" {
		q += ` AND vendor_status=$1`
		args = append(args, vendorStatus)
	}
	q += ` ORDER BY vendor_registered_at DESC NULLS LAST`
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
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM user_agents WHERE user_id=$1 AND agent_id=$2`, userID, agentID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *users) AddOwnedAgent(ctx context.Context, userID, agentID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO user_agents (user_id, agent_id) VALUES ($1,$2)
        ON CONFLICT DO NOTHING`, userID, agentID)
	return err
}

func (r *users) OwnedAgentIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT agent_id FROM user_agents WHERE user_id=$1`, userID)
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
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_agents WHERE agent_id=$1`, agentID)
	return err
}

// --- Agents ---

type agents struct{ db *sql.DB }

const agentCols = `agent_id, slug, owner_id, name, description, category, avatar, url,
        pricing_type, pricing_plans, status, review_status, rejection_reason, is_deleted,
        creation_time, update_time`

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
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO agents (agent_id, slug, owner_id, name, description, category, avatar, url,
            pricing_type, pricing_plans, status, review_status, rejection_reason, is_deleted)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING creation_time, update_time
    `, out.AgentID, out.Slug, out.OwnerID, out.Name, nullStr(out.Description), nullStr(out.Category),
		nullStr(out.Avatar), nullStr(out.URL), out.Pricing.Type, plansJSON(out.Pricing.Plans),
		out.Status, out.ReviewStatus, nullStr(out.RejectionReason), out.IsDeleted)
	if err := row.Scan(&out.CreationTime, &out.UpdateTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *agents) Get(ctx context.Context, agentID string) (*model.Agent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+agentCols+` FROM agents WHERE agent_id=$1`, agentID)
	return scanAgent(row)
}

func (r *agents) Update(ctx context.Context, a *model.Agent) (*model.Agent, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE agents SET slug=$1, name=$2, description=$3, category=$4,
        avatar=$5, url=$6, pricing_type=$7, pricing_plans=$8, status=$9, review_status=$10,
        rejection_reason=$11, is_deleted=$12, update_time=now() WHERE agent_id=$13`,
		a.Slug, a.Name, nullStr(a.Description), nullStr(a.Category), nullStr(a.Avatar), nullStr(a.URL),
		a.Pricing.Type, plansJSON(a.Pricing.Plans), a.Status, a.ReviewStatus,
		nullStr(a.RejectionReason), a.IsDeleted, a.AgentID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return r.Get(ctx, a.AgentID)
}

func (r *agents) List(ctx context.Context, f store.ListAgentsFilter) ([]*model.Agent, error) {
	q := `SELECT ` + agentCols + ` FROM agents WHERE true`
	args := []interface{}{}
	n := 0
	if !f.IncludeDeleted {
		q += ` AND NOT is_deleted`
	}
	if f.OwnerID != "" {
		n++
		q += fmt.Sprintf(` AND owner_id=$%d`, n)
		args = append(args, f.OwnerID)
	}
	if f.LiveOnly {
		q += fmt.Sprintf(` AND status=$%d AND review_status=$%d`, n+1, n+2)
		args = append(args, model.StatusLive, model.ReviewApproved)
	}
	q += ` ORDER BY creation_time DESC`
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
	_, err := r.db.ExecContext(ctx, `DELETE FROM agents WHERE agent_id=$1`, agentID)
	return err
}

// --- Notifications ---

type notifications struct{ db *sql.DB }

const notificationCols = `notification_id, user_id, message, type, role, target_id, is_read, creation_time`

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
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO notifications (notification_id, user_id, message, type, role, target_id, is_read)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING creation_time
    `, out.NotificationID, out.UserID, out.Message, out.Type, out.Role, nullStr(out.TargetID), out.Read)
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *notifications) CreateBatch(ctx context.Context, ns []*model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO notifications (notification_id, user_id, message, type, role, target_id, is_read) VALUES `)
	args := make([]interface{}, 0, len(ns)*7)
	for i, n := range ns {
		if i > 0 {
			sb.WriteString(",")
		}
		base := i * 7
		sb.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		id := n.NotificationID
		if id == "" {
			id = uuid.New().String()
		}
		args = append(args, id, n.UserID, n.Message, n.Type, n.Role, nullStr(n.TargetID), n.Read)
	}
	_, err := r.db.ExecContext(ctx, sb.String(), args...)
	return err
}

func (r *notifications) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	return r.list(ctx, `SELECT `+notificationCols+` FROM notifications WHERE user_id=$1 ORDER BY creation_time DESC`, userID)
}

func (r *notifications) ListByTarget(ctx context.Context, targetID string) ([]*model.Notification, error) {
	return r.list(ctx, `SELECT `+notificationCols+` FROM notifications WHERE target_id=$1`, targetID)
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
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND NOT is_read`, userID).Scan(&n)
	return n, err
}

func (r *notifications) MarkRead(ctx context.Context, userID, notificationID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read=true WHERE user_id=$1 AND notification_id=$2`, userID, notificationID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *notifications) DeleteByTarget(ctx context.Context, targetID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE target_id=$1`, targetID)
	return err
}

// --- Audit logs ---

type auditLogs struct{ db *sql.DB }

const auditCols = `entry_id, admin_id, action, target_id, target_type, details, ip_address, creation_time`

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
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO audit_logs (entry_id, admin_id, action, target_id, target_type, details, ip_address)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING creation_time
    `, out.EntryID, out.AdminID, out.Action, out.TargetID, out.TargetType,
		nullStr(out.Details), nullStr(out.IPAddress))
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *auditLogs) List(ctx context.Context, limit int) ([]*model.AuditLogEntry, error) {
	q := `SELECT ` + auditCols + ` FROM audit_logs ORDER BY creation_time DESC`
	if limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, limit)
	}
	return r.list(ctx, q)
}

func (r *auditLogs) ListByTarget(ctx context.Context, targetID string) ([]*model.AuditLogEntry, error) {
	return r.list(ctx, `SELECT `+auditCols+` FROM audit_logs WHERE target_id=$1 ORDER BY creation_time DESC`, targetID)
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

const txCols = `transaction_id, agent_id, vendor_id, buyer_id, amount, platform_fee, net_amount, status, creation_time`

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
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO transactions (transaction_id, agent_id, vendor_id, buyer_id, amount, platform_fee, net_amount, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING creation_time
    `, out.TransactionID, out.AgentID, out.VendorID, out.BuyerID,
		out.Amount, out.PlatformFee, out.NetAmount, out.Status)
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *transactions) ListByAgent(ctx context.Context, agentID string) ([]*model.Transaction, error) {
	return r.list(ctx, `SELECT `+txCols+` FROM transactions WHERE agent_id=$1`, agentID)
}

func (r *transactions) ListByVendor(ctx context.Context, vendorID string) ([]*model.Transaction, error) {
	return r.list(ctx, `SELECT `+txCols+` FROM transactions WHERE vendor_id=$1 ORDER BY creation_time DESC`, vendorID)
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
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE agent_id=$1`, agentID)
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
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO vendor_chats (chat_id, user_id, vendor_id, agent_id, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING creation_time
    `, out.ChatID, out.UserID, out.VendorID, out.AgentID, out.Status)
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *vendorChats) ListByAgent(ctx context.Context, agentID string) ([]*model.VendorChat, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT chat_id, user_id, vendor_id, agent_id, status, creation_time
        FROM vendor_chats WHERE agent_id=$1`, agentID)
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
	_, err := r.db.ExecContext(ctx, `DELETE FROM vendor_chats WHERE agent_id=$1`, agentID)
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
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO vendor_messages (message_id, user_id, vendor_id, agent_id, subject, message, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING creation_time
    `, out.MessageID, nullStr(out.UserID), out.VendorID, out.AgentID, out.Subject, out.Message, out.Status)
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *vendorMessages) ListByAgent(ctx context.Context, agentID string) ([]*model.VendorMessage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT message_id, user_id, vendor_id, agent_id, subject, message, status, creation_time
        FROM vendor_messages WHERE agent_id=$1`, agentID)
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
	_, err := r.db.ExecContext(ctx, `DELETE FROM vendor_messages WHERE agent_id=$1`, agentID)
	return err
}
