package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicbase/clinic/pkg/civil"
)

var validStatuses = map[string]bool{
	StatusActive: true, StatusArchived: true, StatusDeleted: true,
}

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func (s *Service) Create(ctx context.Context, in *CreateInput) (*Patient, error) {
	orgID, err := uuid.Parse(in.OrganisationID)
	if err != nil {
		return nil, fmt.Errorf("invalid organisation_id")
	}

	p := &Patient{
		OrganisationID: orgID,
		FullName:       in.FullName,
		Document:       in.Document,
		Gender:         in.Gender,
		Email:          in.Email,
		Phone:          in.Phone,
		Address:        in.Address,
		Notes:          in.Notes,
		Status:         StatusActive,
	}
	if in.BirthDate != nil {
		bd, err := civil.ParseDate(*in.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("invalid birth_date")
		}
		p.BirthDate = &bd
	}

	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in *UpdateInput) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.FullName = in.FullName
	p.Document = in.Document
	p.Gender = in.Gender
	p.Email = in.Email
	p.Phone = in.Phone
	p.Address = in.Address
	p.Notes = in.Notes
	if in.BirthDate != nil {
		bd, err := civil.ParseDate(*in.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("invalid birth_date")
		}
		p.BirthDate = &bd
	} else {
		p.BirthDate = nil
	}
	if in.Status != "" {
		if !validStatuses[in.Status] {
			return nil, fmt.Errorf("invalid status: %s", in.Status)
		}
		p.Status = in.Status
	}

	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete marks the patient record deleted. Rows are never removed.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	return s.patients.SetStatus(ctx, id, StatusDeleted)
}

func (s *Service) ListByOrganisation(ctx context.Context, orgID uuid.UUID, name string, limit, offset int) ([]*Patient, int, error) {
	if orgID == uuid.Nil {
		return nil, 0, fmt.Errorf("organisation_id is required")
	}
	return s.patients.ListByOrganisation(ctx, orgID, name, limit, offset)
}
