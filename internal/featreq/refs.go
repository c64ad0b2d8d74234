package featreq

import (
	"fmt"

	"github.com/google/uuid"

	"featreq/internal/db"
	"featreq/internal/models"
	"featreq/internal/validation"
)

// Ref is a polymorphic entity reference: an entity instance, a
// uuid.UUID, or a UUID string. Each public operation resolves its refs
// to canonical ids up front, so type dispatch never reaches the
// algorithm bodies.
type Ref = any

// OpenReqKey identifies an open entry by its (request, client) pair, for
// operations that accept an entry reference without the row itself.
type OpenReqKey struct {
	ReqID    uuid.UUID
	ClientID uuid.UUID
}

func resolveClientRef(ref Ref) (uuid.UUID, error) {
	switch v := ref.(type) {
	case *models.ClientInfo:
		if v == nil {
			return uuid.Nil, fmt.Errorf("%w: nil client", ErrInvalidType)
		}
		return v.ID, nil
	case models.ClientInfo:
		return v.ID, nil
	case uuid.UUID:
		return v, nil
	case string:
		id, ok := validation.ValidUUID(v)
		if !ok {
			return uuid.Nil, fmt.Errorf("%w: client %q", ErrInvalidID, v)
		}
		return id, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: client reference %T", ErrInvalidType, ref)
	}
}

func resolveRequestRef(ref Ref) (uuid.UUID, error) {
	switch v := ref.(type) {
	case *models.FeatureReq:
		if v == nil {
			return uuid.Nil, fmt.Errorf("%w: nil request", ErrInvalidType)
		}
		return v.ID, nil
	case models.FeatureReq:
		return v.ID, nil
	case uuid.UUID:
		return v, nil
	case string:
		id, ok := validation.ValidUUID(v)
		if !ok {
			return uuid.Nil, fmt.Errorf("%w: request %q", ErrInvalidID, v)
		}
		return id, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: request reference %T", ErrInvalidType, ref)
	}
}

func resolveEntryRef(ref Ref) (db.OpenReqSelector, error) {
	switch v := ref.(type) {
	case *models.OpenReq:
		if v == nil {
			return db.OpenReqSelector{}, fmt.Errorf("%w: nil open entry", ErrInvalidType)
		}
		return db.OpenReqSelector{RowID: v.ID}, nil
	case models.OpenReq:
		return db.OpenReqSelector{RowID: v.ID}, nil
	case int64:
		return db.OpenReqSelector{RowID: v}, nil
	case int:
		return db.OpenReqSelector{RowID: int64(v)}, nil
	case OpenReqKey:
		return db.OpenReqSelector{ReqID: v.ReqID, ClientID: v.ClientID}, nil
	default:
		return db.OpenReqSelector{}, fmt.Errorf("%w: entry reference %T", ErrInvalidType, ref)
	}
}
