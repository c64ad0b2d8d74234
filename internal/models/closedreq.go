package models

import (
	"time"

	"github.com/google/uuid"
)

// Closing status short codes.
const (
	StatusComplete = "C"
	StatusRejected = "R"
	StatusDeferred = "D"
)

// StatusByName maps full status names to their short codes.
var StatusByName = map[string]string{
	"Complete": StatusComplete,
	"Rejected": StatusRejected,
	"Deferred": StatusDeferred,
}

// StatusByCode maps status short codes to their full names.
var StatusByCode = map[string]string{
	StatusComplete: "Complete",
	StatusRejected: "Rejected",
	StatusDeferred: "Deferred",
}

// NormalizeStatus accepts a status as either a short code or a full name
// and returns the short code. Returns false for anything else.
func NormalizeStatus(status string) (string, bool) {
	if _, ok := StatusByCode[status]; ok {
		return status, true
	}
	if code, ok := StatusByName[status]; ok {
		return code, true
	}
	return "", false
}

// ClosedReq is an immutable archive record of a resolved request-client
// association. Priority and target date are kept as they stood at close
// time; they are no longer unique or live. The same (request, client)
// pair may accumulate several archive rows over time.
type ClosedReq struct {
	ID       int64      `json:"-"`
	ReqID    uuid.UUID  `json:"req_id"`
	ClientID uuid.UUID  `json:"client_id"`
	Priority *int16     `json:"priority"`
	DateTgt  *time.Time `json:"date_tgt"`
	OpenedAt time.Time  `json:"opened_at"`
	OpenedBy string     `json:"opened_by"`
	ClosedAt time.Time  `json:"closed_at"`
	ClosedBy string     `json:"closed_by"`
	Status   string     `json:"status"`
	Reason   string     `json:"reason"`
}

// ClientClosedCount pairs a client id with its number of archive entries.
type ClientClosedCount struct {
	ClientID    uuid.UUID `json:"client_id"`
	ClosedCount int64     `json:"closed_count"`
}

// StatusCount pairs a closing status with the number of archive entries
// closed under it.
type StatusCount struct {
	Status string
	Count  int64
}
