package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"featreq/internal/models"
)

// closedReqColumns is the standard column list for closed request queries.
const closedReqColumns = `id, req_id, client_id, priority, date_tgt, opened_at, opened_by, closed_at, closed_by, status, reason`

// CloseSelector identifies the open entries a close operation targets:
// one exact row, every open entry for a request, or the single entry for
// a (request, client) pair.
type CloseSelector struct {
	RowID    int64
	ReqID    uuid.UUID
	ClientID uuid.UUID
}

// scanClosedReqs scans multiple rows into a slice of ClosedReqs.
func scanClosedReqs(rows pgx.Rows) ([]models.ClosedReq, error) {
	defer rows.Close()

	var reqs []models.ClosedReq
	for rows.Next() {
		var cr models.ClosedReq
		if err := rows.Scan(
			&cr.ID, &cr.ReqID, &cr.ClientID, &cr.Priority, &cr.DateTgt,
			&cr.OpenedAt, &cr.OpenedBy, &cr.ClosedAt, &cr.ClosedBy, &cr.Status, &cr.Reason,
		); err != nil {
			return nil, err
		}
		reqs = append(reqs, cr)
	}
	return reqs, rows.Err()
}

// CloseOpenReqs archives every open entry matched by sel and deletes the
// originals, all in one transaction. Each archive row copies the entry's
// priority, target date, and open metadata exactly as they stood. The
// archive insert happens before the delete so a request is never in
// neither table, even mid-transaction. Returns the number of entries
// closed; ErrOpenReqNotFound if sel matches nothing.
func (d *DB) CloseOpenReqs(ctx context.Context, sel CloseSelector, closedBy, status, reason string, closedAt time.Time) (int64, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var where string
	var args []any
	switch {
	case sel.RowID != 0:
		where = `id = $1`
		args = []any{sel.RowID}
	case sel.ClientID != uuid.Nil:
		where = `req_id = $1 AND client_id = $2`
		args = []any{sel.ReqID, sel.ClientID}
	default:
		where = `req_id = $1`
		args = []any{sel.ReqID}
	}

	// Lock the victims so a concurrent priority update can't slip in
	// between the archive copy and the delete.
	rows, err := tx.Query(ctx, `SELECT id FROM openreqs WHERE `+where+` FOR UPDATE`, args...)
	if err != nil {
		return 0, err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrOpenReqNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO closedreqs (req_id, client_id, priority, date_tgt, opened_at, opened_by, closed_at, closed_by, status, reason)
		SELECT req_id, client_id, priority, date_tgt, opened_at, opened_by, $2, $3, $4, $5
		FROM openreqs WHERE id = ANY($1)
	`, ids, closedAt, closedBy, status, reason)
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx, `DELETE FROM openreqs WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// ListClosedByClient retrieves a client's archive entries, oldest close
// first.
func (d *DB) ListClosedByClient(ctx context.Context, clientID uuid.UUID) ([]models.ClosedReq, error) {
	query := `SELECT ` + closedReqColumns + ` FROM closedreqs WHERE client_id = $1 ORDER BY closed_at ASC, id ASC`
	rows, err := d.Pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	return scanClosedReqs(rows)
}

// ListClosedByRequest retrieves a request's archive entries across all
// clients.
func (d *DB) ListClosedByRequest(ctx context.Context, reqID uuid.UUID) ([]models.ClosedReq, error) {
	query := `SELECT ` + closedReqColumns + ` FROM closedreqs WHERE req_id = $1 ORDER BY closed_at ASC, id ASC`
	rows, err := d.Pool.Query(ctx, query, reqID)
	if err != nil {
		return nil, err
	}
	return scanClosedReqs(rows)
}

// ClosedCountsByClient retrieves per-client archive entry counts.
func (d *DB) ClosedCountsByClient(ctx context.Context) ([]models.ClientClosedCount, error) {
	query := `
		SELECT client_id, COUNT(*) AS closed_count
		FROM closedreqs
		GROUP BY client_id
		ORDER BY closed_count DESC
	`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.ClientClosedCount
	for rows.Next() {
		var c models.ClientClosedCount
		if err := rows.Scan(&c.ClientID, &c.ClosedCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ClosedCountsByStatus retrieves archive entry counts grouped by closing
// status.
func (d *DB) ClosedCountsByStatus(ctx context.Context) ([]models.StatusCount, error) {
	rows, err := d.Pool.Query(ctx, `SELECT status, COUNT(*) FROM closedreqs GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
