package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// schemaDDL is idempotent: every statement tolerates re-runs so the
// bootstrap can execute on each startup.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'recepcionista'
		              CHECK (role IN ('admin', 'doctor', 'nurse', 'recepcionista')),
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS patients (
		id                BIGSERIAL PRIMARY KEY,
		identification    TEXT NOT NULL UNIQUE,
		document_type     TEXT NOT NULL DEFAULT 'CC'
		                  CHECK (document_type IN ('CC', 'CE', 'TI', 'PASAPORTE', 'OTRO')),
		first_name        TEXT NOT NULL,
		last_name         TEXT NOT NULL,
		date_of_birth     DATE NOT NULL,
		gender            TEXT NOT NULL CHECK (gender IN ('M', 'F', 'Otro')),
		phone             TEXT NOT NULL DEFAULT '',
		email             TEXT NOT NULL DEFAULT '',
		address           TEXT NOT NULL DEFAULT '',
		emergency_contact TEXT NOT NULL DEFAULT '',
		emergency_phone   TEXT NOT NULL DEFAULT '',
		blood_type        TEXT NOT NULL DEFAULT '',
		allergies         TEXT NOT NULL DEFAULT '',
		created_by        BIGINT REFERENCES users(id),
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS clinical_histories (
		id               BIGSERIAL PRIMARY KEY,
		patient_id       BIGINT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
		doctor_id        BIGINT NOT NULL REFERENCES users(id),
		visit_date       TIMESTAMPTZ NOT NULL DEFAULT now(),
		reason_for_visit TEXT NOT NULL,
		symptoms         TEXT NOT NULL DEFAULT '',
		diagnosis        TEXT NOT NULL DEFAULT '',
		treatment        TEXT NOT NULL DEFAULT '',
		prescriptions    TEXT NOT NULL DEFAULT '',
		observations     TEXT NOT NULL DEFAULT '',
		vital_signs      JSONB,
		next_appointment DATE,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_histories_patient_visit
		ON clinical_histories (patient_id, visit_date DESC)`,
}

// Bootstrap applies the schema DDL.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaDDL {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// SeedAdmin inserts the default admin account when no user with that
// email exists yet, so a fresh deployment is immediately usable.
func SeedAdmin(ctx context.Context, pool *pgxpool.Pool, name, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, 'admin')
		ON CONFLICT (email) DO NOTHING`,
		name, email, string(hash),
	)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
