package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority bounds. MaxPriority is the highest value accepted on input;
// PrioritySentinel is reserved: a row already holding it loses its
// priority (set to null) rather than overflowing during a shift.
const (
	MaxPriority      = 32766
	PrioritySentinel = 32767
)

// OpenReq is an active association between a feature request and a
// client, awaiting resolution. Priority is nullable and unique per
// client while the entry is open.
type OpenReq struct {
	ID       int64      `json:"id"`
	ReqID    uuid.UUID  `json:"req_id"`
	ClientID uuid.UUID  `json:"client_id"`
	Priority *int16     `json:"priority"`
	DateTgt  *time.Time `json:"date_tgt"`
	OpenedAt time.Time  `json:"opened_at"`
	OpenedBy string     `json:"opened_by"`
}

// ClientOpenCount pairs a client id with its number of open entries.
type ClientOpenCount struct {
	ClientID  uuid.UUID `json:"client_id"`
	OpenCount int64     `json:"open_count"`
}
