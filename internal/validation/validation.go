// Package validation provides identifier and date utilities shared by the
// catalog, ledger, and archive operations.
package validation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Timestamp formats. Same layout as the audit log and the JSON views,
// deliberately without subsecond resolution.
const (
	DateTimeFormat = "2006-01-02T15:04:05"
	DateOnlyFormat = "2006-01-02"
)

var (
	// ErrInvalidTargetDate is returned for target dates in the past or
	// unparseable date strings.
	ErrInvalidTargetDate = errors.New("invalid target date")
	// ErrInvalidInputType is returned when a value's type is not one the
	// operation accepts.
	ErrInvalidInputType = errors.New("invalid input type")
)

// ValidUUID accepts an already-typed uuid.UUID or a string and returns
// the parsed identifier. Strings must conform to UUID version 4 layout.
// Returns false instead of an error on malformation; callers substitute
// a default or reject as appropriate.
func ValidUUID(v any) (uuid.UUID, bool) {
	switch id := v.(type) {
	case uuid.UUID:
		return id, true
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil || parsed.Version() != 4 {
			return uuid.Nil, false
		}
		return parsed, true
	default:
		return uuid.Nil, false
	}
}

// TruncatedNow returns the current UTC time truncated to whole seconds.
// Nothing in the system stores subsecond precision.
func TruncatedNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// ResolveTargetDate validates and normalizes a target date input.
//
// Accepts nil (no target date), an absolute time.Time (or *time.Time), a
// relative time.Duration added to now, or a string in DateTimeFormat with
// DateOnlyFormat as fallback. Any resolved date earlier than now fails
// with ErrInvalidTargetDate; any other input type fails with
// ErrInvalidInputType.
func ResolveTargetDate(v any) (*time.Time, error) {
	now := TruncatedNow()

	var tgt time.Time
	switch d := v.(type) {
	case nil:
		return nil, nil
	case *time.Time:
		if d == nil {
			return nil, nil
		}
		tgt = *d
	case time.Time:
		tgt = d
	case time.Duration:
		tgt = now.Add(d)
	case string:
		if d == "" {
			return nil, nil
		}
		parsed, err := time.ParseInLocation(DateTimeFormat, d, time.UTC)
		if err != nil {
			parsed, err = time.ParseInLocation(DateOnlyFormat, d, time.UTC)
			if err != nil {
				return nil, ErrInvalidTargetDate
			}
		}
		tgt = parsed
	default:
		return nil, ErrInvalidInputType
	}

	if tgt.Before(now) {
		return nil, ErrInvalidTargetDate
	}
	tgt = tgt.UTC().Truncate(time.Second)
	return &tgt, nil
}
