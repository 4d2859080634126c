package practitioner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbase/clinic/pkg/civil"
)

type mockRepo struct {
	practitioners map[uuid.UUID]*Practitioner
	hours         map[uuid.UUID][]*WorkingHour
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		practitioners: make(map[uuid.UUID]*Practitioner),
		hours:         make(map[uuid.UUID][]*WorkingHour),
	}
}

func (m *mockRepo) Create(_ context.Context, p *Practitioner) error {
	p.ID = uuid.New()
	m.practitioners[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Practitioner, error) {
	p, ok := m.practitioners[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Practitioner) error {
	m.practitioners[p.ID] = p
	return nil
}

func (m *mockRepo) ListByOrganisation(_ context.Context, orgID uuid.UUID, limit, offset int) ([]*Practitioner, int, error) {
	var items []*Practitioner
	for _, p := range m.practitioners {
		if p.OrganisationID == orgID {
			items = append(items, p)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListWorkingHours(_ context.Context, practitionerID uuid.UUID) ([]*WorkingHour, error) {
	return m.hours[practitionerID], nil
}

func (m *mockRepo) ReplaceWorkingHours(_ context.Context, practitionerID uuid.UUID, hours []*WorkingHour) error {
	for _, w := range hours {
		w.ID = uuid.New()
		w.PractitionerID = practitionerID
	}
	m.hours[practitionerID] = hours
	return nil
}

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "not found" }

func TestService_Create(t *testing.T) {
	svc := NewService(newMockRepo())

	orgID := uuid.New()
	p, err := svc.Create(context.Background(), &CreateInput{
		OrganisationID: orgID.String(),
		FullName:       "Dr. Helena Costa",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
	if p.OrganisationID != orgID {
		t.Errorf("organisation_id = %s, want %s", p.OrganisationID, orgID)
	}
	if !p.Active {
		t.Error("new practitioner should be active")
	}
}

func TestService_Create_InvalidOrganisation(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Create(context.Background(), &CreateInput{
		OrganisationID: "not-a-uuid",
		FullName:       "Dr. Helena Costa",
	})
	if err == nil {
		t.Fatal("expected error for invalid organisation_id")
	}
}

func TestService_SetWorkingHours(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	id := uuid.New()

	hours, err := svc.SetWorkingHours(context.Background(), id, []*WorkingHourInput{
		{Weekday: 1, StartTime: "09:00", EndTime: "12:00", SlotMinutes: 30},
		{Weekday: 1, StartTime: "14:00", EndTime: "18:00", SlotMinutes: 30},
	})
	if err != nil {
		t.Fatalf("SetWorkingHours: %v", err)
	}
	if len(hours) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(hours))
	}
	if hours[0].StartTime.String() != "09:00" {
		t.Errorf("start_time = %s, want 09:00", hours[0].StartTime)
	}
	if len(repo.hours[id]) != 2 {
		t.Errorf("expected 2 stored intervals, got %d", len(repo.hours[id]))
	}
}

func TestService_SetWorkingHours_DefaultSlotMinutes(t *testing.T) {
	svc := NewService(newMockRepo())

	hours, err := svc.SetWorkingHours(context.Background(), uuid.New(), []*WorkingHourInput{
		{Weekday: 2, StartTime: "08:00", EndTime: "10:00"},
	})
	if err != nil {
		t.Fatalf("SetWorkingHours: %v", err)
	}
	if hours[0].SlotMinutes != defaultSlotMinutes {
		t.Errorf("slot_minutes = %d, want %d", hours[0].SlotMinutes, defaultSlotMinutes)
	}
}

func TestService_SetWorkingHours_RejectsInvertedInterval(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.SetWorkingHours(context.Background(), uuid.New(), []*WorkingHourInput{
		{Weekday: 1, StartTime: "12:00", EndTime: "09:00"},
	})
	if err == nil {
		t.Fatal("expected error for start after end")
	}
}

func TestService_SetWorkingHours_RejectsOverlap(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.SetWorkingHours(context.Background(), uuid.New(), []*WorkingHourInput{
		{Weekday: 3, StartTime: "09:00", EndTime: "12:00"},
		{Weekday: 3, StartTime: "11:00", EndTime: "14:00"},
	})
	if err == nil {
		t.Fatal("expected error for overlapping intervals")
	}
	if !strings.Contains(err.Error(), "overlapping") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestService_SetWorkingHours_AllowsSameTimesOnDifferentDays(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.SetWorkingHours(context.Background(), uuid.New(), []*WorkingHourInput{
		{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
		{Weekday: 2, StartTime: "09:00", EndTime: "12:00"},
	})
	if err != nil {
		t.Fatalf("SetWorkingHours: %v", err)
	}
}

func TestWorkingHour_Slots(t *testing.T) {
	w := WorkingHour{
		StartTime:   civil.TimeOfDay{Hour: 9, Minute: 0},
		EndTime:     civil.TimeOfDay{Hour: 11, Minute: 0},
		SlotMinutes: 30,
	}
	slots := w.Slots()
	want := []string{"09:00", "09:30", "10:00", "10:30"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i, s := range slots {
		if s.String() != want[i] {
			t.Errorf("slot %d = %s, want %s", i, s, want[i])
		}
	}
}

func TestService_SlotsOn_FiltersByWeekday(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	id := uuid.New()

	repo.hours[id] = []*WorkingHour{
		{Weekday: time.Monday, StartTime: civil.TimeOfDay{Hour: 9}, EndTime: civil.TimeOfDay{Hour: 10}, SlotMinutes: 30},
		{Weekday: time.Tuesday, StartTime: civil.TimeOfDay{Hour: 14}, EndTime: civil.TimeOfDay{Hour: 15}, SlotMinutes: 30},
	}

	// 2024-06-10 is a Monday.
	monday, _ := civil.ParseDate("2024-06-10")
	slots, err := svc.SlotsOn(context.Background(), id, monday)
	if err != nil {
		t.Fatalf("SlotsOn: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].Hour != 9 || slots[1].Minute != 30 {
		t.Errorf("unexpected slots: %v", slots)
	}

	// Sunday has no working hours.
	sunday, _ := civil.ParseDate("2024-06-09")
	slots, err = svc.SlotsOn(context.Background(), id, sunday)
	if err != nil {
		t.Fatalf("SlotsOn: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected no slots on sunday, got %d", len(slots))
	}
}
