// Package testdb opens throwaway in-memory databases for repository and
// service tests. The schema mirrors the postgres migrations with sqlite
// types; production always runs the SQL in internal/db.
package testdb

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var schemaStatements = []string{
	`CREATE TABLE contracts (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		unit_id TEXT,
		property_id TEXT,
		owner_id TEXT,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		duration_months INTEGER NOT NULL,
		frequency TEXT NOT NULL,
		rate NUMERIC NOT NULL,
		maintenance_deduction NUMERIC NOT NULL DEFAULT 0,
		other_deduction NUMERIC NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'DRAFT',
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE payment_line_items (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		due_period_start DATETIME NOT NULL,
		due_period_end DATETIME NOT NULL,
		amount NUMERIC NOT NULL DEFAULT 0,
		gross NUMERIC NOT NULL DEFAULT 0,
		commission NUMERIC NOT NULL DEFAULT 0,
		maintenance_deduction NUMERIC NOT NULL DEFAULT 0,
		other_deduction NUMERIC NOT NULL DEFAULT 0,
		net NUMERIC NOT NULL DEFAULT 0,
		settlement_date DATETIME,
		settled_by TEXT,
		delay_duration INTEGER,
		delay_reason TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
}

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	for _, stmt := range schemaStatements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create test schema: %v", err)
		}
	}
	return db
}
