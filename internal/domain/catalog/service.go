package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Svc struct {
	services Repository
}

func NewSvc(services Repository) *Svc {
	return &Svc{services: services}
}

func (s *Svc) Create(ctx context.Context, in *CreateInput) (*Service, error) {
	orgID, err := uuid.Parse(in.OrganisationID)
	if err != nil {
		return nil, fmt.Errorf("invalid organisation_id")
	}
	price, err := decimal.NewFromString(in.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", in.Price)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative")
	}

	svc := &Service{
		OrganisationID: orgID,
		Name:           in.Name,
		Description:    in.Description,
		Price:          price,
		Active:         true,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Svc) Get(ctx context.Context, id uuid.UUID) (*Service, error) {
	return s.services.GetByID(ctx, id)
}

func (s *Svc) Update(ctx context.Context, id uuid.UUID, in *UpdateInput) (*Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(in.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", in.Price)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative")
	}

	svc.Name = in.Name
	svc.Description = in.Description
	svc.Price = price
	if in.Active != nil {
		svc.Active = *in.Active
	}
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Svc) ListByOrganisation(ctx context.Context, orgID uuid.UUID, activeOnly bool, limit, offset int) ([]*Service, int, error) {
	if orgID == uuid.Nil {
		return nil, 0, fmt.Errorf("organisation_id is required")
	}
	return s.services.ListByOrganisation(ctx, orgID, activeOnly, limit, offset)
}
