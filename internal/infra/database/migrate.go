package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              UUID PRIMARY KEY,
		email           TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		full_name       TEXT,
		is_active       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id                 UUID PRIMARY KEY,
		user_id            UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		contact_name       TEXT NOT NULL,
		contact_email      TEXT NOT NULL,
		company            TEXT,
		phone              TEXT,
		source             TEXT NOT NULL DEFAULT 'manual',
		last_email_snippet TEXT,
		lead_score         INTEGER NOT NULL DEFAULT 0 CHECK (lead_score BETWEEN 0 AND 100),
		status             TEXT NOT NULL DEFAULT 'new',
		next_followup_at   TIMESTAMPTZ,
		notes              TEXT,
		is_active          BOOLEAN NOT NULL DEFAULT TRUE,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_user_id ON leads(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_contact_email ON leads(contact_email)`,
	`CREATE TABLE IF NOT EXISTS followup_suggestions (
		id            UUID PRIMARY KEY,
		lead_id       UUID NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
		variant_index INTEGER NOT NULL CHECK (variant_index BETWEEN 0 AND 2),
		subject       TEXT NOT NULL,
		body          TEXT NOT NULL,
		tone          TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (lead_id, variant_index)
	)`,
	`CREATE TABLE IF NOT EXISTS sent_email_logs (
		id       UUID PRIMARY KEY,
		user_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		lead_id  UUID NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
		to_email TEXT NOT NULL,
		subject  TEXT NOT NULL,
		body     TEXT NOT NULL,
		provider TEXT NOT NULL DEFAULT 'gmail',
		status   TEXT NOT NULL DEFAULT 'sent',
		sent_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sent_email_logs_lead_id ON sent_email_logs(lead_id)`,
}

// Migrate creates the tables the API needs. Safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i, err)
		}
	}
	return nil
}
