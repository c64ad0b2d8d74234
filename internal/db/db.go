package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"featreq/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDemoData inserts a few clients, requests, and open entries for
// development. Fixed ids so reruns skip rows that already exist.
func (d *DB) SeedDemoData(ctx context.Context) error {
	clients := []struct {
		id, name, conName, conMail string
	}{
		{"4aad8ac7-2326-4ecb-b1a0-000000000001", "Acme Corp", "Jo Smith", "jo@acme.example"},
		{"4aad8ac7-2326-4ecb-b1a0-000000000002", "Globex", "", ""},
	}

	clientQuery := `
		INSERT INTO clients (id, name, con_name, con_mail, date_add)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO NOTHING
	`
	for _, cl := range clients {
		if _, err := d.Pool.Exec(ctx, clientQuery, cl.id, cl.name, cl.conName, cl.conMail); err != nil {
			return fmt.Errorf("failed to seed client %s: %w", cl.name, err)
		}
	}

	requests := []struct {
		id, title, description, area string
	}{
		{"9c1e5f00-0000-4000-8000-000000000001", "Export claims to CSV", "Monthly claims export for the finance team.", "CL"},
		{"9c1e5f00-0000-4000-8000-000000000002", "Invoice PDF download", "Download rendered invoices from the billing page.", "BI"},
		{"9c1e5f00-0000-4000-8000-000000000003", "Policy renewal reminders", "Email reminders 30 days before policy renewal.", "PO"},
	}

	reqQuery := `
		INSERT INTO featreqs (id, title, description, ref_url, prod_area, date_cr, user_cr, date_up, user_up)
		VALUES ($1, $2, $3, '', $4, NOW(), 'seed', NOW(), 'seed')
		ON CONFLICT (id) DO NOTHING
	`
	for _, fr := range requests {
		if _, err := d.Pool.Exec(ctx, reqQuery, fr.id, fr.title, fr.description, fr.area); err != nil {
			return fmt.Errorf("failed to seed request %q: %w", fr.title, err)
		}
	}

	entries := []struct {
		reqID, clientID string
		priority        *int16
	}{
		{requests[0].id, clients[0].id, int16Ptr(1)},
		{requests[1].id, clients[0].id, int16Ptr(2)},
		{requests[2].id, clients[1].id, nil},
	}

	entryQuery := `
		INSERT INTO openreqs (req_id, client_id, priority, opened_at, opened_by)
		VALUES ($1, $2, $3, NOW(), 'seed')
		ON CONFLICT (req_id, client_id) DO NOTHING
	`
	for _, e := range entries {
		if _, err := d.Pool.Exec(ctx, entryQuery, e.reqID, e.clientID, e.priority); err != nil {
			return fmt.Errorf("failed to seed open entry: %w", err)
		}
	}

	return nil
}

func int16Ptr(v int16) *int16 {
	return &v
}
