package sqlite

import "database/sql"

// EnsureSchema creates marketplace tables if they do not exist.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS Users (
            UserId TEXT PRIMARY KEY,
            Name TEXT NOT NULL,
            Email TEXT NOT NULL UNIQUE,
            Role TEXT NOT NULL DEFAULT 'user',
            Avatar TEXT,
            IsBlocked BOOLEAN NOT NULL DEFAULT 0,
            IsVendor BOOLEAN NOT NULL DEFAULT 0,
            VendorStatus TEXT,
            CompanyName TEXT,
            CompanyType TEXT,
            RejectionReason TEXT,
            VendorRegisteredAt TIMESTAMP,
            VendorApprovedAt TIMESTAMP,
            VendorRejectedAt TIMESTAMP,
            CreationTime TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS UserAgents (
            UserId TEXT NOT NULL,
            AgentId TEXT NOT NULL,
            PRIMARY KEY(UserId, AgentId)
        );`,
		`CREATE TABLE IF NOT EXISTS Agents (
            AgentId TEXT PRIMARY KEY,
            Slug TEXT NOT NULL,
            OwnerId TEXT NOT NULL,
            Name TEXT NOT NULL,
            Description TEXT,
            Category TEXT,
            Avatar TEXT,
            Url TEXT,
            PricingType TEXT NOT NULL DEFAULT 'free',
            PricingPlans TEXT,
            Status TEXT NOT NULL,
            ReviewStatus TEXT NOT NULL,
            RejectionReason TEXT,
            IsDeleted BOOLEAN NOT NULL DEFAULT 0,
            CreationTime TIMESTAMP NOT NULL,
            UpdateTime TIMESTAMP NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS AgentsOwnerIdx ON Agents(OwnerId);`,
		`CREATE TABLE IF NOT EXISTS Notifications (
            NotificationId TEXT PRIMARY KEY,
            UserId TEXT NOT NULL,
            Message TEXT NOT NULL,
            Type TEXT NOT NULL,
            Role TEXT NOT NULL,
            TargetId TEXT,
            IsRead BOOLEAN NOT NULL DEFAULT 0,
            CreationTime TIMESTAMP NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS NotificationsUserIdx ON Notifications(UserId, CreationTime);`,
		`CREATE INDEX IF NOT EXISTS NotificationsTargetIdx ON Notifications(TargetId);`,
		`CREATE TABLE IF NOT EXISTS AuditLogs (
            EntryId TEXT PRIMARY KEY,
            AdminId TEXT NOT NULL,
            Action TEXT NOT NULL,
            TargetId TEXT NOT NULL,
            TargetType TEXT NOT NULL,
            Details TEXT,
            IpAddress TEXT,
            CreationTime TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS Transactions (
            TransactionId TEXT PRIMARY KEY,
            AgentId TEXT NOT NULL,
            VendorId TEXT NOT NULL,
            BuyerId TEXT NOT NULL,
            Amount REAL NOT NULL,
            PlatformFee REAL NOT NULL,
            NetAmount REAL NOT NULL,
            Status TEXT NOT NULL,
            CreationTime TIMESTAMP NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS TransactionsAgentIdx ON Transactions(AgentId);`,
		`CREATE TABLE IF NOT EXISTS VendorChats (
            ChatId TEXT PRIMARY KEY,
            UserId TEXT NOT NULL,
            VendorId TEXT NOT NULL,
            AgentId TEXT NOT NULL,
            Status TEXT NOT NULL,
            CreationTime TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS VendorMessages (
            MessageId TEXT PRIMARY KEY,
            UserId TEXT,
            VendorId TEXT NOT NULL,
            AgentId TEXT NOT NULL,
            Subject TEXT NOT NULL,
            Message TEXT NOT NULL,
            Status TEXT NOT NULL,
            CreationTime TIMESTAMP NOT NULL
        );`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
