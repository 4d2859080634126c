package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicbase/clinic/pkg/civil"
)

// Record statuses shared by patient, invoice and certificate records.
// Deletion is always a status transition, never a row removal.
const (
	StatusActive   = "ACTIVE"
	StatusArchived = "ARCHIVED"
	StatusDeleted  = "DELETED"
)

// Patient maps to the patient table.
type Patient struct {
	ID             uuid.UUID   `db:"id" json:"id"`
	OrganisationID uuid.UUID   `db:"organisation_id" json:"organisation_id"`
	FullName       string      `db:"full_name" json:"full_name"`
	Document       *string     `db:"document" json:"document,omitempty"`
	BirthDate      *civil.Date `db:"birth_date" json:"birth_date,omitempty"`
	Gender         *string     `db:"gender" json:"gender,omitempty"`
	Email          *string     `db:"email" json:"email,omitempty"`
	Phone          *string     `db:"phone" json:"phone,omitempty"`
	Address        *string     `db:"address" json:"address,omitempty"`
	Notes          *string     `db:"notes" json:"notes,omitempty"`
	Status         string      `db:"status" json:"status"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// CreateInput is the request body for creating a patient.
type CreateInput struct {
	OrganisationID string  `json:"organisation_id" validate:"required,uuid"`
	FullName       string  `json:"full_name" validate:"required,min=2"`
	Document       *string `json:"document"`
	BirthDate      *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Gender         *string `json:"gender" validate:"omitempty,oneof=male female other"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	Notes          *string `json:"notes"`
}

// UpdateInput is the request body for updating a patient.
type UpdateInput struct {
	FullName  string  `json:"full_name" validate:"required,min=2"`
	Document  *string `json:"document"`
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=male female other"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Notes     *string `json:"notes"`
	Status    string  `json:"status" validate:"omitempty,oneof=ACTIVE ARCHIVED DELETED"`
}
