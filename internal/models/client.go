package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientInfo is a client contact record. Clients rank their open requests
// independently of each other.
type ClientInfo struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	ConName string    `json:"con_name"`
	ConMail string    `json:"con_mail"`
	DateAdd time.Time `json:"date_add"`
}

// ClientSummary is the id+name projection used by index listings.
type ClientSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
