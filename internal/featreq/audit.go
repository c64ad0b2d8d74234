package featreq

import (
	"fmt"
	"strings"
	"time"

	"featreq/internal/validation"
)

// Audit lines embedded in a request's description. Kept as a growing
// text blob; these helpers exist so the exact strings and their ordering
// can be tested independent of storage.

// auditHeader formats the timestamped attribution line that precedes an
// audit block, e.g. "2026-08-31T14:07:00, alice:".
func auditHeader(ts time.Time, user string) string {
	return ts.Format(validation.DateTimeFormat) + ", " + user + ":"
}

// changeLine formats one field change, e.g. `[Changed title to "New"]`.
func changeLine(field, value string) string {
	return fmt.Sprintf("[Changed %s to %q]", field, value)
}

// appendAuditBlock appends a header plus one or more lines to desc,
// separated from the existing text by a blank line.
func appendAuditBlock(desc string, ts time.Time, user string, lines ...string) string {
	return desc + "\n\n" + auditHeader(ts, user) + "\n" + strings.Join(lines, "\n")
}
