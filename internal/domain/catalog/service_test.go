package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	services map[uuid.UUID]*Service
}

func newMockRepo() *mockRepo {
	return &mockRepo{services: make(map[uuid.UUID]*Service)}
}

func (m *mockRepo) Create(_ context.Context, s *Service) error {
	s.ID = uuid.New()
	m.services[s.ID] = s
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Service, error) {
	s, ok := m.services[id]
	if !ok {
		return nil, fmt.Errorf("service not found")
	}
	return s, nil
}

func (m *mockRepo) Update(_ context.Context, s *Service) error {
	m.services[s.ID] = s
	return nil
}

func (m *mockRepo) ListByOrganisation(_ context.Context, orgID uuid.UUID, activeOnly bool, limit, offset int) ([]*Service, int, error) {
	var items []*Service
	for _, s := range m.services {
		if s.OrganisationID != orgID {
			continue
		}
		if activeOnly && !s.Active {
			continue
		}
		items = append(items, s)
	}
	return items, len(items), nil
}

func TestSvc_Create(t *testing.T) {
	svc := NewSvc(newMockRepo())

	created, err := svc.Create(context.Background(), &CreateInput{
		OrganisationID: uuid.New().String(),
		Name:           "General Consultation",
		Price:          "150.00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
	if !created.Active {
		t.Error("new service should be active")
	}
	if created.Price.String() != "150" {
		t.Errorf("price = %s, want 150", created.Price)
	}
}

func TestSvc_Create_InvalidPrice(t *testing.T) {
	svc := NewSvc(newMockRepo())

	_, err := svc.Create(context.Background(), &CreateInput{
		OrganisationID: uuid.New().String(),
		Name:           "General Consultation",
		Price:          "abc",
	})
	if err == nil {
		t.Fatal("expected error for unparseable price")
	}

	_, err = svc.Create(context.Background(), &CreateInput{
		OrganisationID: uuid.New().String(),
		Name:           "General Consultation",
		Price:          "-10",
	})
	if err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestSvc_Update_Deactivate(t *testing.T) {
	repo := newMockRepo()
	svc := NewSvc(repo)
	orgID := uuid.New()

	created, err := svc.Create(context.Background(), &CreateInput{
		OrganisationID: orgID.String(),
		Name:           "Blood Panel",
		Price:          "80",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	inactive := false
	updated, err := svc.Update(context.Background(), created.ID, &UpdateInput{
		Name:   "Blood Panel",
		Price:  "90",
		Active: &inactive,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Active {
		t.Error("expected service to be inactive")
	}
	if updated.Price.String() != "90" {
		t.Errorf("price = %s, want 90", updated.Price)
	}

	items, _, err := svc.ListByOrganisation(context.Background(), orgID, true, 20, 0)
	if err != nil {
		t.Fatalf("ListByOrganisation: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("active-only list should exclude deactivated service, got %d", len(items))
	}
}
