package catalog

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	Update(ctx context.Context, s *Service) error
	ListByOrganisation(ctx context.Context, orgID uuid.UUID, activeOnly bool, limit, offset int) ([]*Service, int, error)
}
