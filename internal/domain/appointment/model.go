package appointment

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled  = "SCHEDULED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"

	TypeConsultation      = "CONSULTATION"
	TypeMedicalCheck      = "MEDICAL_CHECK"
	TypeClinicalProcedure = "CLINICAL_PROCEDURE"
	TypeOther             = "OTHER"
)

var validStatuses = map[string]bool{
	StatusScheduled:  true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

var validTypes = map[string]bool{
	TypeConsultation:      true,
	TypeMedicalCheck:      true,
	TypeClinicalProcedure: true,
	TypeOther:             true,
}

// Appointment maps to the appointment table. Appointments are never deleted;
// cancellation is a status transition and cancelled rows release their slot.
type Appointment struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrganisationID uuid.UUID `db:"organisation_id" json:"organisation_id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	PractitionerID uuid.UUID `db:"practitioner_id" json:"practitioner_id"`
	StartsAt       time.Time `db:"starts_at" json:"starts_at"`
	Type           string    `db:"type" json:"type"`
	Status         string    `db:"status" json:"status"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// CreateInput is the request body for booking an appointment. The
// appointment date is an RFC 3339 instant; the wall-clock slot is derived in
// the clinic's timezone.
type CreateInput struct {
	OrganisationID  string  `json:"organisation_id" validate:"required,uuid"`
	PatientID       string  `json:"patient_id" validate:"required,uuid"`
	PractitionerID  string  `json:"practitioner_id" validate:"required,uuid"`
	AppointmentDate string  `json:"appointment_date" validate:"required"`
	Type            string  `json:"type" validate:"required,oneof=CONSULTATION MEDICAL_CHECK CLINICAL_PROCEDURE OTHER"`
	Notes           *string `json:"notes"`
}

// UpdateStatusInput is the request body for a status transition.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
}
