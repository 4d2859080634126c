package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbase/clinic/pkg/civil"
)

type Service struct {
	appointments Repository
	hours        HoursProvider
	loc          *time.Location
	now          func() time.Time
}

func NewService(appointments Repository, hours HoursProvider, loc *time.Location) *Service {
	return &Service{
		appointments: appointments,
		hours:        hours,
		loc:          loc,
		now:          time.Now,
	}
}

// Today is the current calendar date on the service clock, in the clinic's
// timezone.
func (s *Service) Today() civil.Date {
	return civil.DateOf(s.now().In(s.loc))
}

// Availability computes the remaining bookable slots for each working day of
// the window. Days the practitioner does not work are omitted; fully booked
// days stay in the result with an empty slot list.
func (s *Service) Availability(ctx context.Context, practitionerID uuid.UUID, window WeekWindow) ([]DayAvailability, error) {
	if practitionerID == uuid.Nil {
		return nil, fmt.Errorf("practitioner_id is required")
	}

	days := make([]DayAvailability, 0, 6)
	for _, date := range window.Days() {
		slots, err := s.hours.SlotsOn(ctx, practitionerID, date)
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}

		dayStart := date.In(s.loc)
		booked, err := s.appointments.ListByPractitionerBetween(ctx, practitionerID, dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		taken := make(map[civil.TimeOfDay]bool, len(booked))
		for _, a := range booked {
			taken[civil.TimeOfDayOf(a.StartsAt.In(s.loc))] = true
		}

		free := slots[:0]
		for _, t := range slots {
			if !taken[t] {
				free = append(free, t)
			}
		}
		sortSlots(free)
		days = append(days, DayAvailability{Date: date, Slots: free})
	}
	return days, nil
}

// Book creates a scheduled appointment after verifying the chosen slot is
// still offered and has not passed.
func (s *Service) Book(ctx context.Context, in *CreateInput) (*Appointment, error) {
	orgID, err := uuid.Parse(in.OrganisationID)
	if err != nil {
		return nil, fmt.Errorf("invalid organisation_id")
	}
	patientID, err := uuid.Parse(in.PatientID)
	if err != nil {
		return nil, fmt.Errorf("invalid patient_id")
	}
	practitionerID, err := uuid.Parse(in.PractitionerID)
	if err != nil {
		return nil, fmt.Errorf("invalid practitioner_id")
	}
	if !validTypes[in.Type] {
		return nil, fmt.Errorf("invalid appointment type %q", in.Type)
	}

	instant, err := time.Parse(time.RFC3339, in.AppointmentDate)
	if err != nil {
		return nil, fmt.Errorf("invalid appointment_date %q", in.AppointmentDate)
	}
	local := instant.In(s.loc)
	date := civil.DateOf(local)
	slot := civil.TimeOfDayOf(local)

	// Days before today are never bookable; the time-of-day check below
	// only covers today itself.
	if date.Before(s.Today()) {
		return nil, fmt.Errorf("date %s has already passed", date)
	}

	days, err := s.Availability(ctx, practitionerID, WeekOf(date))
	if err != nil {
		return nil, err
	}
	switch CheckSelection(days, date, slot, s.now().In(s.loc)) {
	case SlotPast:
		return nil, fmt.Errorf("slot %s %s has already passed", date, slot)
	case SlotUnavailable:
		return nil, fmt.Errorf("slot %s %s is not available", date, slot)
	}

	a := &Appointment{
		OrganisationID: orgID,
		PatientID:      patientID,
		PractitionerID: practitionerID,
		StartsAt:       local,
		Type:           in.Type,
		Status:         StatusScheduled,
		Notes:          in.Notes,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

// UpdateStatus transitions an appointment. Completed and cancelled are
// terminal.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusCompleted || a.Status == StatusCancelled {
		return nil, fmt.Errorf("appointment is already %s", a.Status)
	}
	if err := s.appointments.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status
	return a, nil
}

func (s *Service) ListByOrganisation(ctx context.Context, orgID uuid.UUID, status string, limit, offset int) ([]*Appointment, int, error) {
	if orgID == uuid.Nil {
		return nil, 0, fmt.Errorf("organisation_id is required")
	}
	if status != "" && !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid status %q", status)
	}
	return s.appointments.ListByOrganisation(ctx, orgID, status, limit, offset)
}
