package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"featreq/internal/models"
)

// requestColumns is the standard column list for feature request queries.
const requestColumns = `id, title, description, ref_url, prod_area, date_cr, user_cr, date_up, user_up`

// scanRequest scans a row into a FeatureReq struct.
func scanRequest(row pgx.Row) (*models.FeatureReq, error) {
	var fr models.FeatureReq
	err := row.Scan(
		&fr.ID,
		&fr.Title,
		&fr.Desc,
		&fr.RefURL,
		&fr.ProdArea,
		&fr.DateCr,
		&fr.UserCr,
		&fr.DateUp,
		&fr.UserUp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

// CreateRequest inserts a new feature request. The caller supplies the id
// and the created/updated timestamps.
func (d *DB) CreateRequest(ctx context.Context, fr *models.FeatureReq) error {
	query := `
		INSERT INTO featreqs (id, title, description, ref_url, prod_area, date_cr, user_cr, date_up, user_up)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := d.Pool.Exec(ctx, query,
		fr.ID, fr.Title, fr.Desc, fr.RefURL, fr.ProdArea,
		fr.DateCr, fr.UserCr, fr.DateUp, fr.UserUp,
	)
	if pgErrCode(err) == pgUniqueViolation {
		return ErrDuplicateID
	}
	return err
}

// GetRequestByID retrieves a feature request by its id.
func (d *DB) GetRequestByID(ctx context.Context, id uuid.UUID) (*models.FeatureReq, error) {
	query := `SELECT ` + requestColumns + ` FROM featreqs WHERE id = $1`
	return scanRequest(d.Pool.QueryRow(ctx, query, id))
}

// ListRequests retrieves the id+title summaries of all feature requests,
// oldest first.
func (d *DB) ListRequests(ctx context.Context) ([]models.RequestSummary, error) {
	query := `SELECT id, title FROM featreqs ORDER BY date_cr ASC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []models.RequestSummary
	for rows.Next() {
		var r models.RequestSummary
		if err := rows.Scan(&r.ID, &r.Title); err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}

// UpdateRequest applies fn to the current row inside a transaction and
// persists the result. The row is locked for the duration so concurrent
// description appends cannot drop each other's audit lines.
func (d *DB) UpdateRequest(ctx context.Context, id uuid.UUID, fn func(*models.FeatureReq) error) (*models.FeatureReq, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + requestColumns + ` FROM featreqs WHERE id = $1 FOR UPDATE`
	fr, err := scanRequest(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := fn(fr); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE featreqs
		SET title = $1, description = $2, ref_url = $3, prod_area = $4, date_up = $5, user_up = $6
		WHERE id = $7
	`, fr.Title, fr.Desc, fr.RefURL, fr.ProdArea, fr.DateUp, fr.UserUp, fr.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return fr, nil
}
