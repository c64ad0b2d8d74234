package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"featreq/internal/models"
)

// clientColumns is the standard column list for client queries.
const clientColumns = `id, name, con_name, con_mail, date_add`

// scanClient scans a row into a ClientInfo struct.
func scanClient(row pgx.Row) (*models.ClientInfo, error) {
	var cl models.ClientInfo
	err := row.Scan(&cl.ID, &cl.Name, &cl.ConName, &cl.ConMail, &cl.DateAdd)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

// CreateClient inserts a new client record.
func (d *DB) CreateClient(ctx context.Context, cl *models.ClientInfo) error {
	query := `
		INSERT INTO clients (id, name, con_name, con_mail, date_add)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := d.Pool.Exec(ctx, query, cl.ID, cl.Name, cl.ConName, cl.ConMail, cl.DateAdd)
	if pgErrCode(err) == pgUniqueViolation {
		return ErrDuplicateID
	}
	return err
}

// GetClientByID retrieves a client by its id.
func (d *DB) GetClientByID(ctx context.Context, id uuid.UUID) (*models.ClientInfo, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return scanClient(d.Pool.QueryRow(ctx, query, id))
}

// ListClients retrieves the id+name summaries of all clients, sorted by
// name.
func (d *DB) ListClients(ctx context.Context) ([]models.ClientSummary, error) {
	query := `SELECT id, name FROM clients ORDER BY name ASC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.ClientSummary
	for rows.Next() {
		var c models.ClientSummary
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// UpdateClient applies fn to the current row inside a transaction and
// persists the result.
func (d *DB) UpdateClient(ctx context.Context, id uuid.UUID, fn func(*models.ClientInfo) error) (*models.ClientInfo, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 FOR UPDATE`
	cl, err := scanClient(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := fn(cl); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE clients SET name = $1, con_name = $2, con_mail = $3 WHERE id = $4
	`, cl.Name, cl.ConName, cl.ConMail, cl.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return cl, nil
}
