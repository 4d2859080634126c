package practitioner

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicbase/clinic/pkg/civil"
)

// Practitioner maps to the practitioner table.
type Practitioner struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrganisationID uuid.UUID `db:"organisation_id" json:"organisation_id"`
	FullName       string    `db:"full_name" json:"full_name"`
	Specialty      *string   `db:"specialty" json:"specialty,omitempty"`
	LicenseNumber  *string   `db:"license_number" json:"license_number,omitempty"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// WorkingHour maps to the working_hour table. One row is a recurring weekly
// interval during which a practitioner takes appointments. Weekday follows
// time.Weekday numbering (Sunday = 0).
type WorkingHour struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	PractitionerID uuid.UUID       `db:"practitioner_id" json:"practitioner_id"`
	Weekday        time.Weekday    `db:"weekday" json:"weekday"`
	StartTime      civil.TimeOfDay `db:"start_time" json:"start_time"`
	EndTime        civil.TimeOfDay `db:"end_time" json:"end_time"`
	SlotMinutes    int             `db:"slot_minutes" json:"slot_minutes"`
}

// Slots expands the interval into its bookable start times: every
// SlotMinutes from StartTime while the slot still begins before EndTime.
func (w WorkingHour) Slots() []civil.TimeOfDay {
	if w.SlotMinutes <= 0 {
		return nil
	}
	var out []civil.TimeOfDay
	for t := w.StartTime; t.Before(w.EndTime); t = t.AddMinutes(w.SlotMinutes) {
		out = append(out, t)
	}
	return out
}

// CreateInput is the request body for creating a practitioner.
type CreateInput struct {
	OrganisationID string  `json:"organisation_id" validate:"required,uuid"`
	FullName       string  `json:"full_name" validate:"required,min=2"`
	Specialty      *string `json:"specialty"`
	LicenseNumber  *string `json:"license_number"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
}

// WorkingHourInput is one weekly interval in a working-hours replacement.
type WorkingHourInput struct {
	Weekday     int    `json:"weekday" validate:"gte=0,lte=6"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
	SlotMinutes int    `json:"slot_minutes" validate:"omitempty,gt=0"`
}
