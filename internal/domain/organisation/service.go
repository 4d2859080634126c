package organisation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	orgs Repository
}

func NewService(orgs Repository) *Service {
	return &Service{orgs: orgs}
}

func (s *Service) Create(ctx context.Context, o *Organisation) error {
	if o.Name == "" {
		return fmt.Errorf("name is required")
	}
	o.Active = true
	return s.orgs.Create(ctx, o)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Organisation, error) {
	return s.orgs.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, o *Organisation) error {
	if o.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if o.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.orgs.Update(ctx, o)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Organisation, int, error) {
	return s.orgs.List(ctx, limit, offset)
}
