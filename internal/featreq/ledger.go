package featreq

import (
	"context"
	"fmt"
	"time"

	"featreq/internal/models"
	"featreq/internal/validation"
)

// Attach opens a request for a client at an optional priority rank and
// target date. A priority of 0 means unranked. If a rank is given, the
// shift algorithm runs first inside the same transaction, so two
// concurrent attaches at the same rank for one client can never both
// land on it.
func (s *Service) Attach(ctx context.Context, user string, clientRef, requestRef Ref, priority int, targetDate any) (*models.OpenReq, error) {
	if user == "" {
		return nil, missingField("user")
	}

	clientID, err := resolveClientRef(clientRef)
	if err != nil {
		return nil, err
	}
	reqID, err := resolveRequestRef(requestRef)
	if err != nil {
		return nil, err
	}

	if priority < 0 || priority > models.MaxPriority {
		return nil, fmt.Errorf("%w: %d not in 0..%d", ErrInvalidPriority, priority, models.MaxPriority)
	}
	var prio *int16
	if priority > 0 {
		p := int16(priority)
		prio = &p
	}

	tgt, err := validation.ResolveTargetDate(targetDate)
	if err != nil {
		return nil, err
	}

	or := &models.OpenReq{
		ReqID:    reqID,
		ClientID: clientID,
		Priority: prio,
		DateTgt:  tgt,
		OpenedAt: validation.TruncatedNow(),
		OpenedBy: user,
	}
	if err := s.db.AttachOpenReq(ctx, or); err != nil {
		return nil, mapStoreErr(err)
	}
	return or, nil
}

// ShiftPriorities makes room at the given rank for a client, shifting
// equal-or-lower-ranked entries down by one. A zero or negative priority
// is a no-op. Reports whether any rows were shifted.
func (s *Service) ShiftPriorities(ctx context.Context, clientRef Ref, priority int) (bool, error) {
	if priority <= 0 {
		return false, nil
	}
	if priority > models.PrioritySentinel {
		return false, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidPriority, priority, models.PrioritySentinel)
	}

	clientID, err := resolveClientRef(clientRef)
	if err != nil {
		return false, err
	}

	shifted, err := s.db.ShiftPriorities(ctx, clientID, int16(priority))
	if err != nil {
		return false, mapStoreErr(err)
	}
	return shifted, nil
}

// UpdatePriorityOrDate changes an open entry's priority and/or target
// date. The entry reference may be the entity, a numeric row key, or an
// OpenReqKey. Both fields are tri-state: unset leaves the field alone,
// null clears it. Setting priority to 0 clears it without shifting;
// setting a new live rank shifts first. The whole operation runs as one
// transaction.
func (s *Service) UpdatePriorityOrDate(ctx context.Context, entry Ref, priority models.Opt[int], targetDate models.Opt[any]) (*models.OpenReq, error) {
	sel, err := resolveEntryRef(entry)
	if err != nil {
		return nil, err
	}

	var prio models.Opt[int16]
	if priority.Set {
		switch {
		case priority.Null, priority.Value == 0:
			prio = models.Null[int16]()
		case priority.Value < 1 || priority.Value > models.MaxPriority:
			return nil, fmt.Errorf("%w: %d not in 0..%d", ErrInvalidPriority, priority.Value, models.MaxPriority)
		default:
			prio = models.Some(int16(priority.Value))
		}
	}

	var tgt models.Opt[time.Time]
	if targetDate.Set {
		if targetDate.Null {
			tgt = models.Null[time.Time]()
		} else {
			resolved, err := validation.ResolveTargetDate(targetDate.Value)
			if err != nil {
				return nil, err
			}
			if resolved == nil {
				tgt = models.Null[time.Time]()
			} else {
				tgt = models.Some(*resolved)
			}
		}
	}

	or, err := s.db.UpdateOpenReq(ctx, sel, prio, tgt)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return or, nil
}

// CountOpenForClient counts a client's open entries.
func (s *Service) CountOpenForClient(ctx context.Context, clientRef Ref) (int64, error) {
	clientID, err := resolveClientRef(clientRef)
	if err != nil {
		return 0, err
	}
	count, err := s.db.CountOpenByClient(ctx, clientID)
	if err != nil {
		return 0, mapStoreErr(err)
	}
	return count, nil
}

// ListOpenForClient retrieves a client's open entries, ranked first.
func (s *Service) ListOpenForClient(ctx context.Context, clientRef Ref) ([]models.OpenReq, error) {
	clientID, err := resolveClientRef(clientRef)
	if err != nil {
		return nil, err
	}
	reqs, err := s.db.ListOpenByClient(ctx, clientID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return reqs, nil
}

// OpenCountsByClient retrieves per-client open entry counts.
func (s *Service) OpenCountsByClient(ctx context.Context) ([]models.ClientOpenCount, error) {
	counts, err := s.db.OpenCountsByClient(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return counts, nil
}

// OpenNewRequest creates a request and immediately opens it for a client
// in one call. The catalog insert and the attach are separate
// transactions; if the attach fails the request still exists in the
// catalog, unattached.
func (s *Service) OpenNewRequest(ctx context.Context, clientRef Ref, priority int, targetDate any, p CreateRequestParams) (*models.FeatureReq, *models.OpenReq, error) {
	fr, err := s.CreateRequest(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	or, err := s.Attach(ctx, p.User, clientRef, fr, priority, targetDate)
	if err != nil {
		return fr, nil, err
	}
	return fr, or, nil
}
