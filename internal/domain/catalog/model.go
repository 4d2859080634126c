package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service maps to the service table. It is the billable catalog entry whose
// canonical name takes precedence over free-text invoice line names in
// revenue breakdowns.
type Service struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	OrganisationID uuid.UUID       `db:"organisation_id" json:"organisation_id"`
	Name           string          `db:"name" json:"name"`
	Description    *string         `db:"description" json:"description,omitempty"`
	Price          decimal.Decimal `db:"price" json:"price"`
	Active         bool            `db:"active" json:"active"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// CreateInput is the request body for creating a catalog service.
type CreateInput struct {
	OrganisationID string  `json:"organisation_id" validate:"required,uuid"`
	Name           string  `json:"name" validate:"required,min=2"`
	Description    *string `json:"description"`
	Price          string  `json:"price" validate:"required"`
}

// UpdateInput is the request body for updating a catalog service.
type UpdateInput struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Description *string `json:"description"`
	Price       string  `json:"price" validate:"required"`
	Active      *bool   `json:"active"`
}
