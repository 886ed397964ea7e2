package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		username VARCHAR(64) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		initials VARCHAR(8) NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role VARCHAR(16) NOT NULL DEFAULT 'SALES',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS quotations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		quotation_no VARCHAR(64),
		doc_type VARCHAR(32) NOT NULL DEFAULT 'standard',
		quotation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		sales_person_id UUID NOT NULL REFERENCES users(id),
		bill_to JSONB NOT NULL DEFAULT '{}',
		ship_to JSONB NOT NULL DEFAULT '{}',
		email_to TEXT[] NOT NULL DEFAULT '{}',
		note TEXT NOT NULL DEFAULT '',
		work_order_no VARCHAR(64) NOT NULL DEFAULT '',
		work_order_date TIMESTAMPTZ,
		gst_no VARCHAR(32) NOT NULL DEFAULT '',
		payment_terms TEXT NOT NULL DEFAULT '',
		approved BOOLEAN NOT NULL DEFAULT FALSE,
		contractified BOOLEAN NOT NULL DEFAULT FALSE,
		print_count INTEGER NOT NULL DEFAULT 0,
		version BIGINT NOT NULL DEFAULT 1,
		created_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		quotation_id UUID REFERENCES quotations(id),
		contract_no VARCHAR(64),
		doc_type VARCHAR(32) NOT NULL DEFAULT 'standard',
		contract_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		sales_person_id UUID NOT NULL REFERENCES users(id),
		bill_to JSONB NOT NULL DEFAULT '{}',
		ship_to JSONB NOT NULL DEFAULT '{}',
		email_to TEXT[] NOT NULL DEFAULT '{}',
		note TEXT NOT NULL DEFAULT '',
		work_order_no VARCHAR(64) NOT NULL DEFAULT '',
		work_order_date TIMESTAMPTZ,
		gst_no VARCHAR(32) NOT NULL DEFAULT '',
		payment_terms TEXT NOT NULL DEFAULT '',
		approved BOOLEAN NOT NULL DEFAULT FALSE,
		print_count INTEGER NOT NULL DEFAULT 0,
		version BIGINT NOT NULL DEFAULT 1,
		created_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contracts_contract_no
		ON contracts (contract_no) WHERE contract_no IS NOT NULL;`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_quotations_quotation_no
		ON quotations (quotation_no) WHERE quotation_no IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_created_by ON contracts (created_by);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_contract_date ON contracts (contract_date);`,
	`CREATE TABLE IF NOT EXISTS quote_infos (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		chemical VARCHAR(128) NOT NULL DEFAULT '',
		work_area VARCHAR(128) NOT NULL DEFAULT '',
		work_area_unit VARCHAR(32) NOT NULL DEFAULT '',
		service_rate NUMERIC(12,2) NOT NULL DEFAULT 0,
		service_rate_unit VARCHAR(32) NOT NULL DEFAULT '',
		packaging VARCHAR(64) NOT NULL DEFAULT '',
		batch_nos TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS contract_quote_infos (
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		quote_info_id UUID NOT NULL REFERENCES quote_infos(id),
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (contract_id, quote_info_id)
	);`,
	`CREATE TABLE IF NOT EXISTS quotation_quote_infos (
		quotation_id UUID NOT NULL REFERENCES quotations(id) ON DELETE CASCADE,
		quote_info_id UUID NOT NULL REFERENCES quote_infos(id),
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (quotation_id, quote_info_id)
	);`,
	`CREATE TABLE IF NOT EXISTS work_logs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		work_area_type VARCHAR(64) NOT NULL DEFAULT '',
		chemical VARCHAR(128) NOT NULL DEFAULT '',
		chemical_used VARCHAR(64) NOT NULL DEFAULT '',
		area_treated VARCHAR(64) NOT NULL DEFAULT '',
		area_treated_unit VARCHAR(32) NOT NULL DEFAULT '',
		remark TEXT NOT NULL DEFAULT '',
		entry_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_work_logs_contract_id ON work_logs (contract_id);`,
	`CREATE TABLE IF NOT EXISTS dcs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		chemical VARCHAR(128) NOT NULL DEFAULT '',
		batch_number VARCHAR(64) NOT NULL DEFAULT '',
		chemical_qty VARCHAR(64) NOT NULL DEFAULT '',
		packaging VARCHAR(64) NOT NULL DEFAULT '',
		entry_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_dcs_contract_id ON dcs (contract_id);`,
	`CREATE TABLE IF NOT EXISTS chemical_batch_nos (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		chemical VARCHAR(128) NOT NULL UNIQUE,
		batch_nos TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS revisions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		doc_type VARCHAR(16) NOT NULL,
		doc_id UUID NOT NULL,
		snapshot JSONB NOT NULL,
		author_id UUID NOT NULL REFERENCES users(id),
		message TEXT NOT NULL DEFAULT '',
		modified_fields TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_revisions_doc ON revisions (doc_type, doc_id, created_at);`,
	`CREATE TABLE IF NOT EXISTS counters (
		doc_type VARCHAR(16) NOT NULL,
		year INTEGER NOT NULL,
		seq BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (doc_type, year)
	);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
