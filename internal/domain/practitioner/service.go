package practitioner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbase/clinic/pkg/civil"
)

const defaultSlotMinutes = 30

type Service struct {
	practitioners Repository
}

func NewService(practitioners Repository) *Service {
	return &Service{practitioners: practitioners}
}

func (s *Service) Create(ctx context.Context, in *CreateInput) (*Practitioner, error) {
	orgID, err := uuid.Parse(in.OrganisationID)
	if err != nil {
		return nil, fmt.Errorf("invalid organisation_id")
	}

	p := &Practitioner{
		OrganisationID: orgID,
		FullName:       in.FullName,
		Specialty:      in.Specialty,
		LicenseNumber:  in.LicenseNumber,
		Email:          in.Email,
		Phone:          in.Phone,
		Active:         true,
	}
	if err := s.practitioners.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	return s.practitioners.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Practitioner) error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if p.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	return s.practitioners.Update(ctx, p)
}

func (s *Service) ListByOrganisation(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Practitioner, int, error) {
	if orgID == uuid.Nil {
		return nil, 0, fmt.Errorf("organisation_id is required")
	}
	return s.practitioners.ListByOrganisation(ctx, orgID, limit, offset)
}

func (s *Service) WorkingHours(ctx context.Context, practitionerID uuid.UUID) ([]*WorkingHour, error) {
	return s.practitioners.ListWorkingHours(ctx, practitionerID)
}

// SetWorkingHours replaces the practitioner's weekly schedule with the given
// intervals. Intervals must not cross midnight and must not overlap on the
// same weekday.
func (s *Service) SetWorkingHours(ctx context.Context, practitionerID uuid.UUID, inputs []*WorkingHourInput) ([]*WorkingHour, error) {
	if practitionerID == uuid.Nil {
		return nil, fmt.Errorf("practitioner_id is required")
	}

	hours := make([]*WorkingHour, 0, len(inputs))
	for _, in := range inputs {
		start, err := civil.ParseTimeOfDay(in.StartTime)
		if err != nil {
			return nil, fmt.Errorf("invalid start_time %q", in.StartTime)
		}
		end, err := civil.ParseTimeOfDay(in.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid end_time %q", in.EndTime)
		}
		if !start.Before(end) {
			return nil, fmt.Errorf("start_time %s must be before end_time %s", start, end)
		}
		slotMinutes := in.SlotMinutes
		if slotMinutes == 0 {
			slotMinutes = defaultSlotMinutes
		}
		hours = append(hours, &WorkingHour{
			Weekday:     time.Weekday(in.Weekday),
			StartTime:   start,
			EndTime:     end,
			SlotMinutes: slotMinutes,
		})
	}

	for i, a := range hours {
		for _, b := range hours[i+1:] {
			if a.Weekday == b.Weekday && a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime) {
				return nil, fmt.Errorf("overlapping intervals on %s", a.Weekday)
			}
		}
	}

	if err := s.practitioners.ReplaceWorkingHours(ctx, practitionerID, hours); err != nil {
		return nil, err
	}
	return hours, nil
}

// SlotsOn returns the practitioner's bookable start times for the weekday of
// the given date, before any bookings are subtracted.
func (s *Service) SlotsOn(ctx context.Context, practitionerID uuid.UUID, date civil.Date) ([]civil.TimeOfDay, error) {
	hours, err := s.practitioners.ListWorkingHours(ctx, practitionerID)
	if err != nil {
		return nil, err
	}
	var out []civil.TimeOfDay
	for _, w := range hours {
		if w.Weekday == date.Weekday() {
			out = append(out, w.Slots()...)
		}
	}
	return out, nil
}
