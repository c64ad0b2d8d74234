package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"featreq/internal/models"
)

// openReqColumns is the standard column list for open request queries.
const openReqColumns = `id, req_id, client_id, priority, date_tgt, opened_at, opened_by`

// OpenReqSelector identifies one open entry, either by its numeric row id
// or by its (request, client) pair.
type OpenReqSelector struct {
	RowID    int64
	ReqID    uuid.UUID
	ClientID uuid.UUID
}

// scanOpenReq scans a row into an OpenReq struct.
func scanOpenReq(row pgx.Row) (*models.OpenReq, error) {
	var or models.OpenReq
	err := row.Scan(&or.ID, &or.ReqID, &or.ClientID, &or.Priority, &or.DateTgt, &or.OpenedAt, &or.OpenedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOpenReqNotFound
	}
	if err != nil {
		return nil, err
	}
	return &or, nil
}

// scanOpenReqs scans multiple rows into a slice of OpenReqs.
func scanOpenReqs(rows pgx.Rows) ([]models.OpenReq, error) {
	defer rows.Close()

	var reqs []models.OpenReq
	for rows.Next() {
		var or models.OpenReq
		if err := rows.Scan(&or.ID, &or.ReqID, &or.ClientID, &or.Priority, &or.DateTgt, &or.OpenedAt, &or.OpenedBy); err != nil {
			return nil, err
		}
		reqs = append(reqs, or)
	}
	return reqs, rows.Err()
}

// lockClient takes a row lock on the client record, serializing all
// priority-writing transactions for that client. Every operation that
// reads-then-writes priority state must call this first; without it two
// concurrent attaches at the same rank could both pass the "is rank
// taken" check and break per-client uniqueness.
func lockClient(ctx context.Context, tx pgx.Tx, clientID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM clients WHERE id = $1 FOR UPDATE`, clientID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrClientNotFound
	}
	return err
}

// shiftLocked makes room at rank p for one client: if some entry already
// holds priority p, any entry at the reserved maximum is bumped to null
// and every entry with priority >= p is incremented by one. Reports
// whether any rows were shifted. The caller must hold the client lock.
func shiftLocked(ctx context.Context, tx pgx.Tx, clientID uuid.UUID, p int16) (bool, error) {
	var taken bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM openreqs WHERE client_id = $1 AND priority = $2)`,
		clientID, p,
	).Scan(&taken)
	if err != nil {
		return false, err
	}
	if !taken {
		return false, nil
	}

	// An entry at the top of the range would overflow; it loses its
	// priority instead.
	_, err = tx.Exec(ctx,
		`UPDATE openreqs SET priority = NULL WHERE client_id = $1 AND priority = $2`,
		clientID, int16(models.PrioritySentinel),
	)
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE openreqs SET priority = priority + 1 WHERE client_id = $1 AND priority >= $2`,
		clientID, p,
	)
	if err != nil {
		return false, err
	}
	return true, nil
}

// ShiftPriorities runs the shift algorithm for a client as a standalone
// transaction. Reports whether any rows were shifted.
func (d *DB) ShiftPriorities(ctx context.Context, clientID uuid.UUID, p int16) (bool, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if err := lockClient(ctx, tx, clientID); err != nil {
		return false, err
	}
	shifted, err := shiftLocked(ctx, tx, clientID, p)
	if err != nil {
		return false, err
	}
	return shifted, tx.Commit(ctx)
}

// AttachOpenReq opens a request for a client. If a priority is set, the
// shift algorithm runs first inside the same transaction, so the new
// entry's rank is never duplicated. The caller supplies opened_at and
// opened_by; the generated row id is written back.
func (d *DB) AttachOpenReq(ctx context.Context, or *models.OpenReq) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockClient(ctx, tx, or.ClientID); err != nil {
		return err
	}

	if or.Priority != nil {
		if _, err := shiftLocked(ctx, tx, or.ClientID, *or.Priority); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO openreqs (req_id, client_id, priority, date_tgt, opened_at, opened_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, or.ReqID, or.ClientID, or.Priority, or.DateTgt, or.OpenedAt, or.OpenedBy).Scan(&or.ID)
	if err != nil {
		switch pgErrCode(err) {
		case pgUniqueViolation:
			return ErrDuplicateOpenReq
		case pgForeignKeyViolation:
			// The client row is already locked and known to exist, so
			// only the request reference can be dangling.
			return ErrRequestNotFound
		}
		return err
	}

	return tx.Commit(ctx)
}

// selectOpenReq fetches one open entry by selector within q.
func selectOpenReq(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, sel OpenReqSelector, forUpdate bool) (*models.OpenReq, error) {
	var query string
	var args []any
	if sel.RowID != 0 {
		query = `SELECT ` + openReqColumns + ` FROM openreqs WHERE id = $1`
		args = []any{sel.RowID}
	} else {
		query = `SELECT ` + openReqColumns + ` FROM openreqs WHERE req_id = $1 AND client_id = $2`
		args = []any{sel.ReqID, sel.ClientID}
	}
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanOpenReq(q.QueryRow(ctx, query, args...))
}

// GetOpenReq retrieves one open entry by selector.
func (d *DB) GetOpenReq(ctx context.Context, sel OpenReqSelector) (*models.OpenReq, error) {
	return selectOpenReq(ctx, d.Pool, sel, false)
}

// UpdateOpenReq changes an open entry's priority and/or target date in
// one transaction: lookup, shift (if a new live rank is being assigned),
// assign, persist. Unset fields are left alone; null fields are cleared.
func (d *DB) UpdateOpenReq(ctx context.Context, sel OpenReqSelector, priority models.Opt[int16], dateTgt models.Opt[time.Time]) (*models.OpenReq, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Find the row first to learn its client, then take the client lock
	// before re-reading, keeping the lock order identical to attach.
	or, err := selectOpenReq(ctx, tx, sel, false)
	if err != nil {
		return nil, err
	}
	if err := lockClient(ctx, tx, or.ClientID); err != nil {
		return nil, err
	}
	or, err = selectOpenReq(ctx, tx, OpenReqSelector{RowID: or.ID}, true)
	if err != nil {
		return nil, err
	}

	if priority.Set {
		if priority.Null {
			or.Priority = nil
		} else if or.Priority == nil || *or.Priority != priority.Value {
			if _, err := shiftLocked(ctx, tx, or.ClientID, priority.Value); err != nil {
				return nil, err
			}
			p := priority.Value
			or.Priority = &p
		}
	}

	if dateTgt.Set {
		if dateTgt.Null {
			or.DateTgt = nil
		} else {
			t := dateTgt.Value
			or.DateTgt = &t
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE openreqs SET priority = $1, date_tgt = $2 WHERE id = $3`,
		or.Priority, or.DateTgt, or.ID,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return or, nil
}

// ListOpenByClient retrieves a client's open entries, ranked first,
// unranked last by open date.
func (d *DB) ListOpenByClient(ctx context.Context, clientID uuid.UUID) ([]models.OpenReq, error) {
	query := `
		SELECT ` + openReqColumns + `
		FROM openreqs
		WHERE client_id = $1
		ORDER BY priority ASC NULLS LAST, opened_at ASC
	`
	rows, err := d.Pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	return scanOpenReqs(rows)
}

// ListOpenByRequest retrieves all open entries for a request.
func (d *DB) ListOpenByRequest(ctx context.Context, reqID uuid.UUID) ([]models.OpenReq, error) {
	query := `SELECT ` + openReqColumns + ` FROM openreqs WHERE req_id = $1 ORDER BY opened_at ASC`
	rows, err := d.Pool.Query(ctx, query, reqID)
	if err != nil {
		return nil, err
	}
	return scanOpenReqs(rows)
}

// CountOpenByClient counts a client's open entries.
func (d *DB) CountOpenByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM openreqs WHERE client_id = $1`, clientID).Scan(&count)
	return count, err
}

// OpenCountsByClient retrieves per-client open entry counts for clients
// with at least one open entry.
func (d *DB) OpenCountsByClient(ctx context.Context) ([]models.ClientOpenCount, error) {
	query := `
		SELECT client_id, COUNT(*) AS open_count
		FROM openreqs
		GROUP BY client_id
		ORDER BY open_count DESC
	`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.ClientOpenCount
	for rows.Next() {
		var c models.ClientOpenCount
		if err := rows.Scan(&c.ClientID, &c.OpenCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
