package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"featreq/internal/featreq"
	"featreq/internal/models"
)

// ClientHandler handles client directory operations.
type ClientHandler struct {
	svc *featreq.Service
}

// NewClientHandler creates a new client handler.
func NewClientHandler(svc *featreq.Service) *ClientHandler {
	return &ClientHandler{svc: svc}
}

// List returns the id+name summaries of all clients.
func (h *ClientHandler) List(c fiber.Ctx) error {
	clients, err := h.svc.ListClients(c.Context())
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, fiber.Map{
		"client_count": len(clients),
		"client_list":  clients,
	})
}

// Get returns a single client by id.
func (h *ClientHandler) Get(c fiber.Ctx) error {
	cl, err := h.svc.GetClient(c.Context(), c.Params("id"))
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, cl)
}

// Create creates a new client record.
func (h *ClientHandler) Create(c fiber.Ctx) error {
	var body struct {
		Name    string `json:"name"`
		ConName string `json:"con_name"`
		ConMail string `json:"con_mail"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var id featreq.Ref
	if body.ID != "" {
		id = body.ID
	}
	cl, err := h.svc.CreateClient(c.Context(), body.Name, body.ConName, body.ConMail, id)
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, cl)
}

// Update revises a client's name and/or contact fields. Omitting a
// contact field leaves it unchanged; sending it as null or "" clears it.
func (h *ClientHandler) Update(c fiber.Ctx) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var name string
	if raw, ok := fields["name"]; ok {
		if err := json.Unmarshal(raw, &name); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid name")
		}
	}
	conName, err := optField[string](fields, "con_name")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid con_name")
	}
	conMail, err := optField[string](fields, "con_mail")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid con_mail")
	}

	cl, err := h.svc.UpdateClient(c.Context(), c.Params("id"), name, conName, conMail)
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, cl)
}

// optField reads a tri-state field from a decoded JSON object: absent is
// unset, JSON null clears, anything else sets a value.
func optField[T any](fields map[string]json.RawMessage, key string) (models.Opt[T], error) {
	raw, ok := fields[key]
	if !ok {
		return models.Unset[T](), nil
	}
	if string(raw) == "null" {
		return models.Null[T](), nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return models.Unset[T](), err
	}
	return models.Some(v), nil
}
