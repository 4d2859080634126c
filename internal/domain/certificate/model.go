package certificate

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicbase/clinic/pkg/civil"
)

const (
	StatusIssued  = "ISSUED"
	StatusRevoked = "REVOKED"
)

// Certificate maps to the certificate table. A certificate is a signed-off
// statement by a doctor about a patient, typically excusing absence.
type Certificate struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	OrganisationID uuid.UUID  `db:"organisation_id" json:"organisation_id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	PractitionerID uuid.UUID  `db:"practitioner_id" json:"practitioner_id"`
	IssueDate      civil.Date `db:"issue_date" json:"issue_date"`
	RestDays       int        `db:"rest_days" json:"rest_days"`
	Content        string     `db:"content" json:"content"`
	Status         string     `db:"status" json:"status"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// CreateInput is the request body for issuing a certificate.
type CreateInput struct {
	OrganisationID string `json:"organisation_id" validate:"required,uuid"`
	PatientID      string `json:"patient_id" validate:"required,uuid"`
	PractitionerID string `json:"practitioner_id" validate:"required,uuid"`
	IssueDate      string `json:"issue_date" validate:"required,datetime=2006-01-02"`
	RestDays       int    `json:"rest_days" validate:"gte=0"`
	Content        string `json:"content" validate:"required"`
}
