package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinicbase/clinic/internal/platform/validate"
)

type mockRepo struct {
	invoices     map[uuid.UUID]*Invoice
	lines        map[uuid.UUID]*InvoiceLine
	payments     map[uuid.UUID]*Payment
	applications map[uuid.UUID]*PaymentApplication
	nextNumber   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		invoices:     make(map[uuid.UUID]*Invoice),
		lines:        make(map[uuid.UUID]*InvoiceLine),
		payments:     make(map[uuid.UUID]*Payment),
		applications: make(map[uuid.UUID]*PaymentApplication),
	}
}

func (m *mockRepo) CreateInvoice(_ context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	m.invoices[inv.ID] = inv
	return nil
}

func (m *mockRepo) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, fmt.Errorf("invoice not found")
	}
	lines, _ := m.ListLines(ctx, id)
	cp := *inv
	cp.Lines = lines
	return &cp, nil
}

func (m *mockRepo) UpdateInvoice(_ context.Context, inv *Invoice) error {
	stored, ok := m.invoices[inv.ID]
	if !ok {
		return fmt.Errorf("invoice not found")
	}
	stored.Status = inv.Status
	stored.Total = inv.Total
	return nil
}

func (m *mockRepo) SetInvoiceRecordStatus(_ context.Context, id uuid.UUID, status string) error {
	inv, ok := m.invoices[id]
	if !ok {
		return fmt.Errorf("invoice not found")
	}
	inv.RecordStatus = status
	return nil
}

func (m *mockRepo) ListInvoicesByOrganisation(_ context.Context, orgID uuid.UUID, status string, limit, offset int) ([]*Invoice, int, error) {
	var items []*Invoice
	for _, inv := range m.invoices {
		if inv.OrganisationID != orgID || inv.RecordStatus == RecordDeleted {
			continue
		}
		if status != "" && inv.Status != status {
			continue
		}
		items = append(items, inv)
	}
	return items, len(items), nil
}

func (m *mockRepo) NextInvoiceNumber(_ context.Context) (int64, error) {
	m.nextNumber++
	return m.nextNumber, nil
}

func (m *mockRepo) CreateLine(_ context.Context, line *InvoiceLine) error {
	line.ID = uuid.New()
	m.lines[line.ID] = line
	return nil
}

func (m *mockRepo) GetLine(_ context.Context, id uuid.UUID) (*InvoiceLine, error) {
	l, ok := m.lines[id]
	if !ok {
		return nil, fmt.Errorf("line not found")
	}
	return l, nil
}

func (m *mockRepo) UpdateLine(_ context.Context, line *InvoiceLine) error {
	if _, ok := m.lines[line.ID]; !ok {
		return fmt.Errorf("line not found")
	}
	m.lines[line.ID] = line
	return nil
}

func (m *mockRepo) DeleteLine(_ context.Context, id uuid.UUID) error {
	delete(m.lines, id)
	return nil
}

func (m *mockRepo) ListLines(_ context.Context, invoiceID uuid.UUID) ([]*InvoiceLine, error) {
	var items []*InvoiceLine
	for _, l := range m.lines {
		if l.InvoiceID == invoiceID {
			items = append(items, l)
		}
	}
	return items, nil
}

func (m *mockRepo) CreatePayment(_ context.Context, p *Payment) error {
	p.ID = uuid.New()
	m.payments[p.ID] = p
	return nil
}

func (m *mockRepo) CreateApplication(_ context.Context, a *PaymentApplication) error {
	a.ID = uuid.New()
	m.applications[a.ID] = a
	return nil
}

func (m *mockRepo) CountApplicationsByLine(_ context.Context, lineID uuid.UUID) (int, error) {
	n := 0
	for _, a := range m.applications {
		if a.InvoiceLineID == lineID {
			n++
		}
	}
	return n, nil
}

func (m *mockRepo) AppliedToInvoice(_ context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, a := range m.applications {
		line, ok := m.lines[a.InvoiceLineID]
		if ok && line.InvoiceID == invoiceID {
			sum = sum.Add(a.AmountApplied)
		}
	}
	return sum, nil
}

func newInvoice(t *testing.T, svc *Service) *Invoice {
	t.Helper()
	inv, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		OrganisationID: uuid.New().String(),
		PatientID:      uuid.New().String(),
		IssueDate:      "2024-01-05",
		Lines: []*LineInput{
			{ServiceName: "Consultation", UnitPrice: "150.00", Quantity: 1},
			{ServiceName: "Blood Panel", UnitPrice: "40.00", Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	return inv
}

func TestService_CreateInvoice(t *testing.T) {
	svc := NewService(newMockRepo())
	inv := newInvoice(t, svc)

	if inv.Number != "INV-000001" {
		t.Errorf("number = %s, want INV-000001", inv.Number)
	}
	if inv.Status != StatusPending {
		t.Errorf("status = %s, want %s", inv.Status, StatusPending)
	}
	// 150 + 2*40
	if !inv.Total.Equal(decimal.NewFromInt(230)) {
		t.Errorf("total = %s, want 230", inv.Total)
	}
	if len(inv.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(inv.Lines))
	}
	for _, line := range inv.Lines {
		want := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		if !line.LineTotal.Equal(want) {
			t.Errorf("line_total = %s, want %s", line.LineTotal, want)
		}
	}

	second := newInvoice(t, svc)
	if second.Number != "INV-000002" {
		t.Errorf("number = %s, want INV-000002", second.Number)
	}
}

func TestService_LineEdits_RecomputeTotal(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	inv := newInvoice(t, svc)

	// Bump the blood panel quantity from 2 to 3.
	var panel *InvoiceLine
	for _, l := range inv.Lines {
		if l.ServiceName == "Blood Panel" {
			panel = l
		}
	}
	updated, err := svc.UpdateLine(context.Background(), panel.ID, &LineInput{
		ServiceName: "Blood Panel", UnitPrice: "40.00", Quantity: 3,
	})
	if err != nil {
		t.Fatalf("UpdateLine: %v", err)
	}
	if !updated.Total.Equal(decimal.NewFromInt(270)) {
		t.Errorf("total = %s, want 270", updated.Total)
	}

	updated, err = svc.AddLine(context.Background(), inv.ID, &LineInput{
		ServiceName: "X-Ray", UnitPrice: "95.50", Quantity: 2,
	})
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if !updated.Total.Equal(decimal.RequireFromString("461")) {
		t.Errorf("total = %s, want 461", updated.Total)
	}

	// The grand total always equals the sum of the current line totals.
	sum := decimal.Zero
	for _, l := range updated.Lines {
		sum = sum.Add(l.LineTotal)
	}
	if !updated.Total.Equal(sum) {
		t.Errorf("total %s != line sum %s", updated.Total, sum)
	}

	updated, err = svc.DeleteLine(context.Background(), panel.ID)
	if err != nil {
		t.Fatalf("DeleteLine: %v", err)
	}
	if !updated.Total.Equal(decimal.RequireFromString("341")) {
		t.Errorf("total after delete = %s, want 341", updated.Total)
	}
}

func TestService_DeleteLine_BlockedByPayments(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	inv := newInvoice(t, svc)
	line := inv.Lines[0]

	_, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrganisationID: inv.OrganisationID.String(),
		PatientID:      inv.PatientID.String(),
		Amount:         "50",
		Method:         "CASH",
		PaymentDate:    "2024-01-10",
		Applications: []*ApplicationInput{
			{InvoiceLineID: line.ID.String(), Amount: "50"},
		},
	})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	if _, err := svc.DeleteLine(context.Background(), line.ID); !errors.Is(err, ErrLineHasPayments) {
		t.Fatalf("DeleteLine error = %v, want ErrLineHasPayments", err)
	}
	// The other line is still deletable.
	if _, err := svc.DeleteLine(context.Background(), inv.Lines[1].ID); err != nil {
		t.Fatalf("DeleteLine on unpaid line: %v", err)
	}
}

func TestService_RecordPayment_StatusDerivation(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	inv := newInvoice(t, svc) // total 230

	pay := func(amount string) {
		t.Helper()
		_, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
			OrganisationID: inv.OrganisationID.String(),
			PatientID:      inv.PatientID.String(),
			Amount:         amount,
			Method:         "CARD",
			PaymentDate:    "2024-01-10",
			Applications: []*ApplicationInput{
				{InvoiceLineID: inv.Lines[0].ID.String(), Amount: amount},
			},
		})
		if err != nil {
			t.Fatalf("RecordPayment(%s): %v", amount, err)
		}
	}

	pay("100")
	got, _ := svc.GetInvoice(context.Background(), inv.ID)
	if got.Status != StatusPartial {
		t.Errorf("status after partial payment = %s, want %s", got.Status, StatusPartial)
	}

	pay("130")
	got, _ = svc.GetInvoice(context.Background(), inv.ID)
	if got.Status != StatusPaid {
		t.Errorf("status after full payment = %s, want %s", got.Status, StatusPaid)
	}
}

func TestService_InvoiceRecordStatus_Lifecycle(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	inv := newInvoice(t, svc)

	if inv.RecordStatus != RecordActive {
		t.Fatalf("record status = %s, want %s", inv.RecordStatus, RecordActive)
	}

	archived, err := svc.ArchiveInvoice(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("ArchiveInvoice: %v", err)
	}
	if archived.RecordStatus != RecordArchived {
		t.Errorf("record status = %s, want %s", archived.RecordStatus, RecordArchived)
	}
	// Archived invoices stay listed.
	items, _, err := svc.ListInvoicesByOrganisation(context.Background(), inv.OrganisationID, "", 20, 0)
	if err != nil {
		t.Fatalf("ListInvoicesByOrganisation: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected archived invoice in list, got %d items", len(items))
	}

	if err := svc.DeleteInvoice(context.Background(), inv.ID); err != nil {
		t.Fatalf("DeleteInvoice: %v", err)
	}
	// Deletion is a status transition; the row and its lines survive.
	if repo.invoices[inv.ID] == nil {
		t.Fatal("invoice row should not be removed")
	}
	if repo.invoices[inv.ID].RecordStatus != RecordDeleted {
		t.Errorf("record status = %s, want %s", repo.invoices[inv.ID].RecordStatus, RecordDeleted)
	}
	if len(repo.lines) == 0 {
		t.Error("invoice lines should survive soft deletion")
	}
	items, _, err = svc.ListInvoicesByOrganisation(context.Background(), inv.OrganisationID, "", 20, 0)
	if err != nil {
		t.Fatalf("ListInvoicesByOrganisation: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("deleted invoice should be excluded from lists, got %d items", len(items))
	}

	// A deleted invoice cannot be archived afterwards.
	if _, err := svc.ArchiveInvoice(context.Background(), inv.ID); err == nil {
		t.Fatal("expected error archiving a deleted invoice")
	}
}

func TestRecordPaymentInput_MethodValidation(t *testing.T) {
	in := RecordPaymentInput{
		OrganisationID: uuid.New().String(),
		PatientID:      uuid.New().String(),
		Amount:         "50",
		Method:         "BANK_TRANSFER",
		PaymentDate:    "2024-01-10",
		Applications: []*ApplicationInput{
			{InvoiceLineID: uuid.New().String(), Amount: "50"},
		},
	}
	if errs := validate.Struct(in); errs != nil {
		t.Fatalf("BANK_TRANSFER should be a valid method: %v", errs)
	}
	in.Method = "TRANSFER"
	if errs := validate.Struct(in); errs == nil {
		t.Fatal("TRANSFER is not a documented method and should fail validation")
	}
}

func TestService_RecordPayment_RejectsOverAllocation(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	inv := newInvoice(t, svc)

	_, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrganisationID: inv.OrganisationID.String(),
		PatientID:      inv.PatientID.String(),
		Amount:         "50",
		Method:         "CASH",
		PaymentDate:    "2024-01-10",
		Applications: []*ApplicationInput{
			{InvoiceLineID: inv.Lines[0].ID.String(), Amount: "40"},
			{InvoiceLineID: inv.Lines[1].ID.String(), Amount: "20"},
		},
	})
	if err == nil {
		t.Fatal("expected error when applications exceed the payment amount")
	}
	if len(repo.payments) != 0 {
		t.Errorf("no payment should be stored, got %d", len(repo.payments))
	}
}
