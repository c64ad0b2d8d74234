package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"featreq/internal/featreq"
	"featreq/internal/middleware"
	"featreq/internal/models"
)

// RequestHandler handles feature request catalog operations.
type RequestHandler struct {
	svc *featreq.Service
}

// NewRequestHandler creates a new request handler.
func NewRequestHandler(svc *featreq.Service) *RequestHandler {
	return &RequestHandler{svc: svc}
}

// List returns the id+title summaries of all requests.
func (h *RequestHandler) List(c fiber.Ctx) error {
	reqs, err := h.svc.ListRequests(c.Context())
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, fiber.Map{
		"req_count": len(reqs),
		"req_list":  reqs,
	})
}

// Get returns a single request by id.
func (h *RequestHandler) Get(c fiber.Ctx) error {
	fr, err := h.svc.GetRequest(c.Context(), c.Params("id"))
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, fr)
}

// Create creates a new feature request.
func (h *RequestHandler) Create(c fiber.Ctx) error {
	var body struct {
		Title    string `json:"title"`
		Desc     string `json:"desc"`
		RefURL   string `json:"ref_url"`
		ProdArea string `json:"prod_area"`
		ID       string `json:"id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.ProdArea == "" {
		body.ProdArea = models.AreaByCode[models.AreaPolicies]
	}

	params := featreq.CreateRequestParams{
		User:     middleware.Username(c),
		Title:    body.Title,
		Desc:     body.Desc,
		RefURL:   body.RefURL,
		ProdArea: body.ProdArea,
	}
	if body.ID != "" {
		params.ID = body.ID
	}

	fr, err := h.svc.CreateRequest(c.Context(), params)
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, fr)
}

// Update revises a request and/or appends to its description.
func (h *RequestHandler) Update(c fiber.Ctx) error {
	var body struct {
		Desc     string `json:"desc"`
		Title    string `json:"title"`
		RefURL   string `json:"ref_url"`
		ProdArea string `json:"prod_area"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	fr, err := h.svc.UpdateRequest(c.Context(), c.Params("id"), middleware.Username(c), featreq.UpdateRequestParams{
		DescAppend:  body.Desc,
		NewTitle:    body.Title,
		NewRefURL:   body.RefURL,
		NewProdArea: body.ProdArea,
	})
	if err != nil {
		return coreError(c, err)
	}
	return jsonSuccess(c, fr)
}
