package certificate

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicbase/clinic/pkg/civil"
)

type Service struct {
	certificates Repository
}

func NewService(certificates Repository) *Service {
	return &Service{certificates: certificates}
}

// Issue creates a certificate in ISSUED status. Certificates are immutable
// once issued; the only later transition is revocation.
func (s *Service) Issue(ctx context.Context, in *CreateInput) (*Certificate, error) {
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
	issueDate, err := civil.ParseDate(in.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid issue_date %q", in.IssueDate)
	}

	c := &Certificate{
		OrganisationID: orgID,
		PatientID:      patientID,
		PractitionerID: practitionerID,
		IssueDate:      issueDate,
		RestDays:       in.RestDays,
		Content:        in.Content,
		Status:         StatusIssued,
	}
	if err := s.certificates.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Certificate, error) {
	return s.certificates.GetByID(ctx, id)
}

func (s *Service) Revoke(ctx context.Context, id uuid.UUID) error {
	c, err := s.certificates.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.Status == StatusRevoked {
		return fmt.Errorf("certificate already revoked")
	}
	return s.certificates.SetStatus(ctx, id, StatusRevoked)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Certificate, int, error) {
	if patientID == uuid.Nil {
		return nil, 0, fmt.Errorf("patient_id is required")
	}
	return s.certificates.ListByPatient(ctx, patientID, limit, offset)
}
