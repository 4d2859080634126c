package practitioner

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Practitioner) error
	GetByID(ctx context.Context, id uuid.UUID) (*Practitioner, error)
	Update(ctx context.Context, p *Practitioner) error
	ListByOrganisation(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Practitioner, int, error)
	ListWorkingHours(ctx context.Context, practitionerID uuid.UUID) ([]*WorkingHour, error)
	ReplaceWorkingHours(ctx context.Context, practitionerID uuid.UUID, hours []*WorkingHour) error
}
