package featreq

import (
	"context"

	"github.com/google/uuid"

	"featreq/internal/models"
	"featreq/internal/validation"
)

// CreateRequestParams holds the inputs for CreateRequest. ID is optional
// and used only if it validates as a UUIDv4; otherwise a fresh id is
// generated.
type CreateRequestParams struct {
	User     string
	Title    string
	Desc     string
	RefURL   string
	ProdArea string
	ID       Ref
}

// CreateRequest adds a feature request to the catalog. The created and
// updated timestamps are set equal, truncated to whole seconds.
func (s *Service) CreateRequest(ctx context.Context, p CreateRequestParams) (*models.FeatureReq, error) {
	if p.User == "" {
		return nil, missingField("user")
	}
	if p.Title == "" {
		return nil, missingField("title")
	}
	if p.Desc == "" {
		return nil, missingField("description")
	}
	area, ok := models.NormalizeArea(p.ProdArea)
	if !ok {
		return nil, ErrInvalidProductArea
	}

	id := uuid.Nil
	if p.ID != nil {
		if supplied, ok := validation.ValidUUID(p.ID); ok {
			id = supplied
		}
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	now := validation.TruncatedNow()
	fr := &models.FeatureReq{
		ID:       id,
		Title:    p.Title,
		Desc:     p.Desc,
		RefURL:   p.RefURL,
		ProdArea: area,
		DateCr:   now,
		UserCr:   p.User,
		DateUp:   now,
		UserUp:   p.User,
	}
	if err := s.db.CreateRequest(ctx, fr); err != nil {
		return nil, mapStoreErr(err)
	}
	return fr, nil
}

// UpdateRequestParams holds the optional inputs for UpdateRequest. Empty
// strings leave the corresponding field unchanged.
type UpdateRequestParams struct {
	DescAppend  string
	NewTitle    string
	NewRefURL   string
	NewProdArea string
}

// UpdateRequest revises a request's title, reference URL, and/or product
// area and appends timestamped audit lines to the description: one block
// recording the field changes (area first, then URL, then title) and,
// separately, any free-text append under its own header. With nothing
// supplied the request is returned unchanged.
func (s *Service) UpdateRequest(ctx context.Context, req Ref, user string, p UpdateRequestParams) (*models.FeatureReq, error) {
	if p.DescAppend == "" && p.NewTitle == "" && p.NewRefURL == "" && p.NewProdArea == "" {
		return s.GetRequest(ctx, req)
	}
	if user == "" {
		return nil, missingField("user")
	}

	var area, areaName string
	if p.NewProdArea != "" {
		var ok bool
		area, ok = models.NormalizeArea(p.NewProdArea)
		if !ok {
			return nil, ErrInvalidProductArea
		}
		areaName = models.AreaByCode[area]
	}

	id, err := resolveRequestRef(req)
	if err != nil {
		return nil, err
	}

	fr, err := s.db.UpdateRequest(ctx, id, func(fr *models.FeatureReq) error {
		now := validation.TruncatedNow()

		var lines []string
		if area != "" {
			fr.ProdArea = area
			lines = append(lines, changeLine("product area", areaName))
		}
		if p.NewRefURL != "" {
			fr.RefURL = p.NewRefURL
			lines = append(lines, changeLine("reference URL", p.NewRefURL))
		}
		if p.NewTitle != "" {
			fr.Title = p.NewTitle
			lines = append(lines, changeLine("title", p.NewTitle))
		}
		if len(lines) > 0 {
			fr.Desc = appendAuditBlock(fr.Desc, now, user, lines...)
		}
		if p.DescAppend != "" {
			fr.Desc = appendAuditBlock(fr.Desc, now, user, p.DescAppend)
		}

		fr.DateUp = now
		fr.UserUp = user
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return fr, nil
}

// GetRequest retrieves a request by reference. An entity reference is
// returned as-is.
func (s *Service) GetRequest(ctx context.Context, req Ref) (*models.FeatureReq, error) {
	if fr, ok := req.(*models.FeatureReq); ok && fr != nil {
		return fr, nil
	}
	id, err := resolveRequestRef(req)
	if err != nil {
		return nil, err
	}
	fr, err := s.db.GetRequestByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return fr, nil
}

// ListRequests retrieves the id+title summaries of all requests.
func (s *Service) ListRequests(ctx context.Context) ([]models.RequestSummary, error) {
	reqs, err := s.db.ListRequests(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return reqs, nil
}
