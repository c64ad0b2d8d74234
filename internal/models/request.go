package models

import (
	"time"

	"github.com/google/uuid"
)

// Product area short codes.
const (
	AreaPolicies = "PO"
	AreaBilling  = "BI"
	AreaClaims   = "CL"
	AreaReports  = "RE"
)

// AreaByName maps full product area names to their short codes.
var AreaByName = map[string]string{
	"Policies": AreaPolicies,
	"Billing":  AreaBilling,
	"Claims":   AreaClaims,
	"Reports":  AreaReports,
}

// AreaByCode maps product area short codes to their full names.
var AreaByCode = map[string]string{
	AreaPolicies: "Policies",
	AreaBilling:  "Billing",
	AreaClaims:   "Claims",
	AreaReports:  "Reports",
}

// NormalizeArea accepts a product area as either a short code or a full
// name and returns the short code. Returns false for anything else.
func NormalizeArea(area string) (string, bool) {
	if _, ok := AreaByCode[area]; ok {
		return area, true
	}
	if code, ok := AreaByName[area]; ok {
		return code, true
	}
	return "", false
}

// FeatureReq is a feature request raised against the product. The
// description carries an append-only audit log of edits. Creator and
// updater usernames are stored as plain strings so history survives
// departed users.
type FeatureReq struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Desc     string    `json:"desc"`
	RefURL   string    `json:"ref_url"`
	ProdArea string    `json:"prod_area"`
	DateCr   time.Time `json:"date_cr"`
	UserCr   string    `json:"user_cr"`
	DateUp   time.Time `json:"date_up"`
	UserUp   string    `json:"user_up"`
}

// RequestSummary is the id+title projection used by index listings.
type RequestSummary struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}
