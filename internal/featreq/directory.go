package featreq

import (
	"context"

	"github.com/google/uuid"

	"featreq/internal/models"
	"featreq/internal/validation"
)

// CreateClient adds a client record. Contact name and mail are optional.
// ID is optional and used only if it validates as a UUIDv4.
func (s *Service) CreateClient(ctx context.Context, name, conName, conMail string, id Ref) (*models.ClientInfo, error) {
	if name == "" {
		return nil, missingField("name")
	}

	clientID := uuid.Nil
	if id != nil {
		if supplied, ok := validation.ValidUUID(id); ok {
			clientID = supplied
		}
	}
	if clientID == uuid.Nil {
		clientID = uuid.New()
	}

	cl := &models.ClientInfo{
		ID:      clientID,
		Name:    name,
		ConName: conName,
		ConMail: conMail,
		DateAdd: validation.TruncatedNow(),
	}
	if err := s.db.CreateClient(ctx, cl); err != nil {
		return nil, mapStoreErr(err)
	}
	return cl, nil
}

// UpdateClient revises a client's name and/or contact fields. An empty
// name leaves it unchanged. The contact fields are tri-state: unset
// leaves the field alone, null (or an explicit empty value) clears it.
// With nothing supplied the client is returned unchanged.
func (s *Service) UpdateClient(ctx context.Context, client Ref, name string, conName, conMail models.Opt[string]) (*models.ClientInfo, error) {
	if name == "" && !conName.Set && !conMail.Set {
		return s.GetClient(ctx, client)
	}

	id, err := resolveClientRef(client)
	if err != nil {
		return nil, err
	}

	cl, err := s.db.UpdateClient(ctx, id, func(cl *models.ClientInfo) error {
		if name != "" {
			cl.Name = name
		}
		if conName.Set {
			if conName.Null {
				cl.ConName = ""
			} else {
				cl.ConName = conName.Value
			}
		}
		if conMail.Set {
			if conMail.Null {
				cl.ConMail = ""
			} else {
				cl.ConMail = conMail.Value
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return cl, nil
}

// GetClient retrieves a client by reference. An entity reference is
// returned as-is.
func (s *Service) GetClient(ctx context.Context, client Ref) (*models.ClientInfo, error) {
	if cl, ok := client.(*models.ClientInfo); ok && cl != nil {
		return cl, nil
	}
	id, err := resolveClientRef(client)
	if err != nil {
		return nil, err
	}
	cl, err := s.db.GetClientByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return cl, nil
}

// ListClients retrieves the id+name summaries of all clients.
func (s *Service) ListClients(ctx context.Context) ([]models.ClientSummary, error) {
	clients, err := s.db.ListClients(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return clients, nil
}
