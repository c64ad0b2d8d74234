package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"featreq/internal/featreq"
	"featreq/internal/middleware"
)

// ClosedReqHandler handles archive operations.
type ClosedReqHandler struct {
	svc *featreq.Service
}

// NewClosedReqHandler creates a new closed request handler.
func NewClosedReqHandler(svc *featreq.Service) *ClosedReqHandler {
	return &ClosedReqHandler{svc: svc}
}

// Counts returns per-client archive entry counts.
func (h *ClosedReqHandler) Counts(c fiber.Ctx) error {
	counts, err := h.svc.ClosedCountsByClient(c.Context())
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, fiber.Map{
		"closed_client_count": len(counts),
		"closed_client_list":  counts,
	})
}

// ListByClient returns a client's archive entries.
func (h *ClosedReqHandler) ListByClient(c fiber.Ctx) error {
	clientID := c.Params("client_id")
	reqs, err := h.svc.ListClosedForClient(c.Context(), clientID)
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, fiber.Map{
		"client_id":        clientID,
		"closed_req_count": len(reqs),
		"closed_req_list":  reqs,
	})
}

// Close archives open entries for a request: all of them, or just the
// one for client_id when given.
func (h *ClosedReqHandler) Close(c fiber.Ctx) error {
	var body struct {
		ReqID    string `json:"req_id"`
		ClientID string `json:"client_id"`
		Status   string `json:"status"`
		Reason   string `json:"reason"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var clientRef featreq.Ref
	if body.ClientID != "" {
		clientRef = body.ClientID
	}
	closed, err := h.svc.Close(c.Context(), middleware.Username(c), body.ReqID, body.Status, body.Reason, clientRef)
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, fiber.Map{"closed_count": closed})
}
