package featreq

import (
	"errors"
	"fmt"

	"featreq/internal/db"
	"featreq/internal/validation"
)

// Typed errors surfaced by the core operations. Validation failures are
// detected before any mutation; multi-step failures roll back completely.
// Nothing is retried here; the caller decides.
var (
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidProductArea = errors.New("invalid product area")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidReason      = errors.New("invalid reason")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrTxFailure          = errors.New("transaction failure")

	ErrInvalidType       = validation.ErrInvalidInputType
	ErrInvalidTargetDate = validation.ErrInvalidTargetDate
)

// missingField reports a MissingField error naming the field.
func missingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}

// mapStoreErr translates store errors into the core taxonomy. Anything
// unrecognized is reported as a transaction failure.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, db.ErrRequestNotFound),
		errors.Is(err, db.ErrClientNotFound),
		errors.Is(err, db.ErrOpenReqNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, db.ErrDuplicateOpenReq),
		errors.Is(err, db.ErrDuplicateID):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return fmt.Errorf("%w: %v", ErrTxFailure, err)
	}
}
