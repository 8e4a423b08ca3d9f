package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_kind') THEN
			CREATE TYPE contract_kind AS ENUM ('TENANCY', 'OWNERSHIP');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_status') THEN
			CREATE TYPE contract_status AS ENUM ('DRAFT', 'ACTIVE', 'SUSPENDED', 'EXPIRED', 'COMPLETED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'payment_frequency') THEN
			CREATE TYPE payment_frequency AS ENUM ('MONTHLY', 'QUARTERLY', 'SEMI_ANNUALLY', 'ANNUALLY');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'payment_kind') THEN
			CREATE TYPE payment_kind AS ENUM ('COLLECTION', 'SUPPLY');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		kind contract_kind NOT NULL,
		unit_id UUID,
		property_id UUID,
		owner_id UUID,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		duration_months INT NOT NULL CHECK (duration_months > 0),
		frequency payment_frequency NOT NULL,
		rate NUMERIC(18,2) NOT NULL,
		maintenance_deduction NUMERIC(18,2) NOT NULL DEFAULT 0,
		other_deduction NUMERIC(18,2) NOT NULL DEFAULT 0,
		status contract_status NOT NULL DEFAULT 'DRAFT',
		version INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS payment_line_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		kind payment_kind NOT NULL,
		due_period_start DATE NOT NULL,
		due_period_end DATE NOT NULL,
		amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		gross NUMERIC(18,2) NOT NULL DEFAULT 0,
		commission NUMERIC(18,2) NOT NULL DEFAULT 0,
		maintenance_deduction NUMERIC(18,2) NOT NULL DEFAULT 0,
		other_deduction NUMERIC(18,2) NOT NULL DEFAULT 0,
		net NUMERIC(18,2) NOT NULL DEFAULT 0,
		settlement_date DATE,
		settled_by UUID,
		delay_duration INT,
		delay_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_unit_id ON contracts (unit_id) WHERE unit_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_owner_property ON contracts (owner_id, property_id) WHERE owner_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts (status);`,
	`CREATE INDEX IF NOT EXISTS idx_line_items_contract_id ON payment_line_items (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_line_items_settlement ON payment_line_items (contract_id, settlement_date);`,
	`CREATE INDEX IF NOT EXISTS idx_line_items_due_period ON payment_line_items (due_period_start, due_period_end);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
