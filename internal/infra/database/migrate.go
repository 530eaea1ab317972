package database

import (
	"context"
	"database/sql"
)

// The partial unique index on clients.source_lead_id is the backstop for
// concurrent conversions of the same lead: the second insert fails with a
// unique violation instead of producing a duplicate client.
const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	business   TEXT NOT NULL DEFAULT '',
	message    TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'new',
	source     TEXT NOT NULL DEFAULT 'website',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at DESC);

CREATE TABLE IF NOT EXISTS clients (
	id             UUID PRIMARY KEY,
	name           TEXT NOT NULL,
	email          TEXT NOT NULL,
	business       TEXT NOT NULL DEFAULT '',
	notes          TEXT NOT NULL DEFAULT '',
	source         TEXT NOT NULL DEFAULT 'converted',
	source_lead_id UUID,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS uniq_clients_source_lead_id
	ON clients (source_lead_id) WHERE source_lead_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_clients_created_at ON clients (created_at DESC);

CREATE TABLE IF NOT EXISTS activities (
	id         UUID PRIMARY KEY,
	type       TEXT NOT NULL,
	message    TEXT NOT NULL,
	lead_id    UUID,
	client_id  UUID,
	meta       JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities (created_at DESC);
`

// Migrate applies the schema at startup. Idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
