package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Config struct {
	DSN        string
	SchemaFile string
}

func main() {
	var config Config
	var operation string

	flag.StringVar(&config.DSN, "dsn", os.Getenv("AIMALL_POSTGRES_DSN"), "Postgres connection string")
	flag.StringVar(&config.SchemaFile, "schema", "internal/store/postgres/schema.sql", "Path to schema file")
	flag.StringVar(&operation, "operation", "", "Operation: create-tables, drop-tables, validate-schema")
	flag.Parse()

	if operation == "" {
		fmt.Println("Usage: schema-manager [flags] -operation <operation>")
		fmt.Println("\nOperations:")
		fmt.Println("  create-tables    Create tables from schema file")
		fmt.Println("  drop-tables      Drop all tables (MANUAL CONFIRMATION REQUIRED)")
		fmt.Println("  validate-schema  Validate current schema against file")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if config.DSN == "" {
		log.Fatal("❌ Postgres DSN is required (-dsn or AIMALL_POSTGRES_DSN)")
	}

	ctx := context.Background()

	db, err := sql.Open("pgx", config.DSN)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	manager := &SchemaManager{config: config, db: db}

	switch operation {
	case "create-tables":
		if err := manager.CreateTables(ctx); err != nil {
			log.Fatalf("❌ Failed to create tables: %v", err)
		}
	case "drop-tables":
		if err := manager.DropTables(ctx); err != nil {
			log.Fatalf("❌ Failed to drop tables: %v", err)
		}
	case "validate-schema":
		if err := manager.ValidateSchema(ctx); err != nil {
			log.Fatalf("❌ Schema validation failed: %v", err)
		}
	default:
		log.Fatalf("❌ Unknown operation: %s", operation)
	}
}

type SchemaManager struct {
	config Config
	db     *sql.DB
}

func (sm *SchemaManager) CreateTables(ctx context.Context) error {
	fmt.Println("🏗️  Creating tables from schema file...")

	schemaPath, err := filepath.Abs(sm.config.SchemaFile)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}

	schemaContent, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file %s: %w", schemaPath, err)
	}

	fmt.Printf("📄 Reading schema from: %s\n", schemaPath)

	statements := sm.parseDDLStatements(string(schemaContent))
	if len(statements) == 0 {
		return fmt.Errorf("no DDL statements found in schema file")
	}

	fmt.Printf("📋 Found %d DDL statements\n", len(statements))

	fmt.Println("⚡ Applying DDL statements...")
	for i, stmt := range statements {
		fmt.Printf("  %d. %s\n", i+1, sm.truncateStatement(stmt))
		if _, err := sm.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d failed: %w", i+1, err)
		}
	}

	fmt.Println("✅ Tables created successfully!")
	return nil
}

func (sm *SchemaManager) DropTables(ctx context.Context) error {
	fmt.Println("🚨 WARNING: This will DROP ALL TABLES in the database!")
	fmt.Println("🚨 This operation is IRREVERSIBLE and will DELETE ALL DATA!")
	fmt.Print("Type 'DELETE ALL TABLES' to confirm: ")

	var confirmation string
	_, _ = fmt.Scanln(&confirmation)

	if confirmation != "DELETE ALL TABLES" {
		fmt.Println("❌ Operation cancelled")
		return nil
	}

	tables, err := sm.currentTables(ctx)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		fmt.Println("📭 No tables found to drop")
		return nil
	}

	fmt.Printf("🗑️  Dropping %d tables...\n", len(tables))
	for _, table := range tables {
		fmt.Printf("  - %s\n", table)
		if _, err := sm.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q CASCADE`, table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	fmt.Println("✅ All tables dropped successfully!")
	return nil
}

func (sm *SchemaManager) ValidateSchema(ctx context.Context) error {
	fmt.Println("🔍 Validating current schema against file...")

	schemaContent, err := os.ReadFile(sm.config.SchemaFile)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	expectedStatements := sm.parseDDLStatements(string(schemaContent))
	fmt.Printf("📄 Expected %d DDL statements from schema file\n", len(expectedStatements))

	currentTables, err := sm.currentTables(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("🏗️  Current database has %d tables\n", len(currentTables))
	for _, table := range currentTables {
		fmt.Printf("  - %s\n", table)
	}

	// Keep this list in sync with internal/store/postgres/schema.sql top-level tables
	expectedTables := []string{
		"users", "user_agents", "agents", "notifications",
		"audit_logs", "transactions", "vendor_chats", "vendor_messages",
	}
	var missingTables []string

	for _, expected := range expectedTables {
		found := false
		for _, current := range currentTables {
			if current == expected {
				found = true
				break
			}
		}
		if !found {
			missingTables = append(missingTables, expected)
		}
	}

	if len(missingTables) > 0 {
		fmt.Printf("❌ Missing tables: %v\n", missingTables)
		fmt.Println("💡 Run with -operation create-tables to create missing tables")
		return fmt.Errorf("schema validation failed")
	}

	fmt.Println("✅ Schema validation passed!")
	return nil
}

func (sm *SchemaManager) currentTables(ctx context.Context) ([]string, error) {
	rows, err := sm.db.QueryContext(ctx, `SELECT table_name FROM information_schema.tables
        WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
        ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, tableName)
	}
	return tables, rows.Err()
}

func (sm *SchemaManager) parseDDLStatements(schema string) []string {
	// Remove comments but preserve statement structure
	lines := strings.Split(schema, "\n")
	var cleanLines []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if commentPos := strings.Index(line, "--"); commentPos != -1 {
			line = strings.TrimSpace(line[:commentPos])
			if line == "" {
				continue
			}
		}
		cleanLines = append(cleanLines, line)
	}

	fullSchema := strings.Join(cleanLines, "\n")
	statements := strings.Split(fullSchema, ";")

	var ddlStatements []string
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			ddlStatements = append(ddlStatements, stmt)
		}
	}

	return ddlStatements
}

func (sm *SchemaManager) truncateStatement(stmt string) string {
	if len(stmt) > 80 {
		return stmt[:77] + "..."
	}
	return stmt
}
