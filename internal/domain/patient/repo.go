package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByOrganisation(ctx context.Context, orgID uuid.UUID, name string, limit, offset int) ([]*Patient, int, error)
}
