package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"featreq/internal/featreq"
	"featreq/internal/middleware"
	"featreq/internal/models"
)

// OpenReqHandler handles open ledger operations.
type OpenReqHandler struct {
	svc *featreq.Service
}

// NewOpenReqHandler creates a new open request handler.
func NewOpenReqHandler(svc *featreq.Service) *OpenReqHandler {
	return &OpenReqHandler{svc: svc}
}

// Counts returns per-client open entry counts.
func (h *OpenReqHandler) Counts(c fiber.Ctx) error {
	counts, err := h.svc.OpenCountsByClient(c.Context())
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, fiber.Map{
		"open_client_count": len(counts),
		"open_client_list":  counts,
	})
}

// ListByClient returns a client's open entries, ranked first.
func (h *OpenReqHandler) ListByClient(c fiber.Ctx) error {
	clientID := c.Params("client_id")
	reqs, err := h.svc.ListOpenForClient(c.Context(), clientID)
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, fiber.Map{
		"client_id":      clientID,
		"open_req_count": len(reqs),
		"open_req_list":  reqs,
	})
}

// Attach opens a request for a client.
func (h *OpenReqHandler) Attach(c fiber.Ctx) error {
	var body struct {
		ClientID   string `json:"client_id"`
		ReqID      string `json:"req_id"`
		Priority   int    `json:"priority"`
		TargetDate string `json:"target_date"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var tgt any
	if body.TargetDate != "" {
		tgt = body.TargetDate
	}
	or, err := h.svc.Attach(c.Context(), middleware.Username(c), body.ClientID, body.ReqID, body.Priority, tgt)
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, or)
}

// Update changes an open entry's priority and/or target date. Omitted
// fields are left alone; null fields are cleared.
func (h *OpenReqHandler) Update(c fiber.Ctx) error {
	rowID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	priority, err := optField[int](fields, "priority")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid priority")
	}
	tgtStr, err := optField[string](fields, "target_date")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid target_date")
	}

	var tgt models.Opt[any]
	if tgtStr.Set {
		if tgtStr.Null {
			tgt = models.Null[any]()
		} else {
			tgt = models.Some[any](tgtStr.Value)
		}
	}

	or, err := h.svc.UpdatePriorityOrDate(c.Context(), rowID, priority, tgt)
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, or)
}
