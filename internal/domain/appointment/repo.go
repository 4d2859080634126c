package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	// ListByPractitionerBetween returns appointments starting in [from, to),
	// excluding cancelled ones. Used for slot subtraction.
	ListByPractitionerBetween(ctx context.Context, practitionerID uuid.UUID, from, to time.Time) ([]*Appointment, error)
	ListByOrganisation(ctx context.Context, orgID uuid.UUID, status string, limit, offset int) ([]*Appointment, int, error)
}
