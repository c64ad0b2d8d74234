package featreq

import (
	"context"

	"featreq/internal/db"
	"featreq/internal/models"
	"featreq/internal/validation"
)

// Close resolves open entries into the archive. The request reference
// may be an open entry itself (closing exactly that one) or a request
// reference, closing every open entry for the request — narrowed to one
// client if clientRef is non-nil. Status accepts a short code or full
// name. Archive rows copy the open state exactly as it stood; the open
// rows are deleted in the same transaction. Returns the number of
// entries closed; closing a request with no matching open entries is
// NotFound.
func (s *Service) Close(ctx context.Context, user string, requestRef Ref, status, reason string, clientRef Ref) (int64, error) {
	if user == "" {
		return 0, missingField("user")
	}
	code, ok := models.NormalizeStatus(status)
	if !ok {
		return 0, ErrInvalidStatus
	}
	if reason == "" {
		return 0, ErrInvalidReason
	}

	var sel db.CloseSelector
	switch v := requestRef.(type) {
	case *models.OpenReq:
		if v == nil {
			return 0, missingField("request")
		}
		sel.RowID = v.ID
	case models.OpenReq:
		sel.RowID = v.ID
	default:
		reqID, err := resolveRequestRef(requestRef)
		if err != nil {
			return 0, err
		}
		sel.ReqID = reqID
		if clientRef != nil {
			clientID, err := resolveClientRef(clientRef)
			if err != nil {
				return 0, err
			}
			sel.ClientID = clientID
		}
	}

	closed, err := s.db.CloseOpenReqs(ctx, sel, user, code, reason, validation.TruncatedNow())
	if err != nil {
		return 0, mapStoreErr(err)
	}
	return closed, nil
}

// ListClosedForClient retrieves a client's archive entries.
func (s *Service) ListClosedForClient(ctx context.Context, clientRef Ref) ([]models.ClosedReq, error) {
	clientID, err := resolveClientRef(clientRef)
	if err != nil {
		return nil, err
	}
	reqs, err := s.db.ListClosedByClient(ctx, clientID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return reqs, nil
}

// ListClosedForRequest retrieves a request's archive entries across all
// clients.
func (s *Service) ListClosedForRequest(ctx context.Context, requestRef Ref) ([]models.ClosedReq, error) {
	reqID, err := resolveRequestRef(requestRef)
	if err != nil {
		return nil, err
	}
	reqs, err := s.db.ListClosedByRequest(ctx, reqID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return reqs, nil
}

// ClosedCountsByClient retrieves per-client archive entry counts.
func (s *Service) ClosedCountsByClient(ctx context.Context) ([]models.ClientClosedCount, error) {
	counts, err := s.db.ClosedCountsByClient(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return counts, nil
}
