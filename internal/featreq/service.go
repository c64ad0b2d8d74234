// Package featreq implements the feature request lifecycle: the catalog
// of requests, the client directory, the priority-ordered open ledger,
// and the closed archive. Operations take already-parsed arguments and
// return entities or typed errors; HTTP, JSON, and identity concerns
// belong to the caller.
package featreq

import "featreq/internal/db"

// Service exposes the core operations over the persistent store.
type Service struct {
	db *db.DB
}

// New creates a Service backed by database.
func New(database *db.DB) *Service {
	return &Service{db: database}
}
