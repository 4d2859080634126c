package organisation

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *Organisation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Organisation, error)
	Update(ctx context.Context, o *Organisation) error
	List(ctx context.Context, limit, offset int) ([]*Organisation, int, error)
}
