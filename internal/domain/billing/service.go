package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinicbase/clinic/internal/platform/db"
	"github.com/clinicbase/clinic/pkg/civil"
)

// ErrLineHasPayments blocks deletion of an invoice line that a payment has
// already been applied to.
var ErrLineHasPayments = errors.New("invoice line has payments applied")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// inTx runs fn inside a transaction on the tenant connection. Without a
// pinned connection, as in unit tests, fn runs directly.
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, tx, err := db.WithTx(ctx)
	if err != nil {
		return fn(ctx)
	}
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func buildLine(invoiceID uuid.UUID, in *LineInput) (*InvoiceLine, error) {
	price, err := decimal.NewFromString(in.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid unit_price %q", in.UnitPrice)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("unit_price must not be negative")
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	line := &InvoiceLine{
		InvoiceID:   invoiceID,
		ServiceName: in.ServiceName,
		UnitPrice:   price,
		Quantity:    in.Quantity,
		LineTotal:   price.Mul(decimal.NewFromInt(int64(in.Quantity))),
	}
	if in.ServiceID != nil {
		serviceID, err := uuid.Parse(*in.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("invalid service_id")
		}
		line.ServiceID = &serviceID
	}
	return line, nil
}

func (s *Service) CreateInvoice(ctx context.Context, in *CreateInvoiceInput) (*Invoice, error) {
	orgID, err := uuid.Parse(in.OrganisationID)
	if err != nil {
		return nil, fmt.Errorf("invalid organisation_id")
	}
	patientID, err := uuid.Parse(in.PatientID)
	if err != nil {
		return nil, fmt.Errorf("invalid patient_id")
	}
	issueDate, err := civil.ParseDate(in.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid issue_date %q", in.IssueDate)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("invoice needs at least one line")
	}

	inv := &Invoice{
		OrganisationID: orgID,
		PatientID:      patientID,
		IssueDate:      issueDate,
		Status:         StatusPending,
		RecordStatus:   RecordActive,
		Total:          decimal.Zero,
	}
	err = s.inTx(ctx, func(ctx context.Context) error {
		n, err := s.repo.NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}
		inv.Number = fmt.Sprintf("INV-%06d", n)
		if err := s.repo.CreateInvoice(ctx, inv); err != nil {
			return err
		}
		for _, li := range in.Lines {
			line, err := buildLine(inv.ID, li)
			if err != nil {
				return err
			}
			if err := s.repo.CreateLine(ctx, line); err != nil {
				return err
			}
			inv.Lines = append(inv.Lines, line)
			inv.Total = inv.Total.Add(line.LineTotal)
		}
		return s.repo.UpdateInvoice(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) ListInvoicesByOrganisation(ctx context.Context, orgID uuid.UUID, status string, limit, offset int) ([]*Invoice, int, error) {
	if orgID == uuid.Nil {
		return nil, 0, fmt.Errorf("organisation_id is required")
	}
	return s.repo.ListInvoicesByOrganisation(ctx, orgID, status, limit, offset)
}

// ArchiveInvoice moves the invoice out of the working set. Its lines and
// any applied payments stay intact for the revenue reports.
func (s *Service) ArchiveInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.RecordStatus == RecordDeleted {
		return nil, fmt.Errorf("invoice is deleted")
	}
	if err := s.repo.SetInvoiceRecordStatus(ctx, id, RecordArchived); err != nil {
		return nil, err
	}
	inv.RecordStatus = RecordArchived
	return inv, nil
}

// DeleteInvoice marks the invoice record deleted. Rows are never removed.
func (s *Service) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if _, err := s.repo.GetInvoice(ctx, id); err != nil {
		return err
	}
	return s.repo.SetInvoiceRecordStatus(ctx, id, RecordDeleted)
}

// refresh recomputes the invoice total from its current lines and derives
// the status from the applied payments.
func (s *Service) refresh(ctx context.Context, invoiceID uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, line := range inv.Lines {
		total = total.Add(line.LineTotal)
	}
	applied, err := s.repo.AppliedToInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	inv.Total = total
	switch {
	case applied.LessThanOrEqual(decimal.Zero):
		inv.Status = StatusPending
	case applied.LessThan(total):
		inv.Status = StatusPartial
	default:
		inv.Status = StatusPaid
	}
	if err := s.repo.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) AddLine(ctx context.Context, invoiceID uuid.UUID, in *LineInput) (*Invoice, error) {
	var inv *Invoice
	err := s.inTx(ctx, func(ctx context.Context) error {
		line, err := buildLine(invoiceID, in)
		if err != nil {
			return err
		}
		if err := s.repo.CreateLine(ctx, line); err != nil {
			return err
		}
		inv, err = s.refresh(ctx, invoiceID)
		return err
	})
	return inv, err
}

func (s *Service) UpdateLine(ctx context.Context, lineID uuid.UUID, in *LineInput) (*Invoice, error) {
	var inv *Invoice
	err := s.inTx(ctx, func(ctx context.Context) error {
		line, err := s.repo.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		updated, err := buildLine(line.InvoiceID, in)
		if err != nil {
			return err
		}
		updated.ID = line.ID
		if err := s.repo.UpdateLine(ctx, updated); err != nil {
			return err
		}
		inv, err = s.refresh(ctx, line.InvoiceID)
		return err
	})
	return inv, err
}

func (s *Service) DeleteLine(ctx context.Context, lineID uuid.UUID) (*Invoice, error) {
	var inv *Invoice
	err := s.inTx(ctx, func(ctx context.Context) error {
		line, err := s.repo.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		n, err := s.repo.CountApplicationsByLine(ctx, lineID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrLineHasPayments
		}
		if err := s.repo.DeleteLine(ctx, lineID); err != nil {
			return err
		}
		inv, err = s.refresh(ctx, line.InvoiceID)
		return err
	})
	return inv, err
}

// RecordPayment stores a payment with its allocation across invoice lines
// and rederives the status of every touched invoice. The allocations must
// not exceed the payment amount.
func (s *Service) RecordPayment(ctx context.Context, in *RecordPaymentInput) (*Payment, error) {
	orgID, err := uuid.Parse(in.OrganisationID)
	if err != nil {
		return nil, fmt.Errorf("invalid organisation_id")
	}
	patientID, err := uuid.Parse(in.PatientID)
	if err != nil {
		return nil, fmt.Errorf("invalid patient_id")
	}
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, fmt.Errorf("invalid amount %q", in.Amount)
	}
	paidOn, err := civil.ParseDate(in.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("invalid payment_date %q", in.PaymentDate)
	}

	type allocation struct {
		lineID uuid.UUID
		amount decimal.Decimal
	}
	allocations := make([]allocation, 0, len(in.Applications))
	allocated := decimal.Zero
	for _, a := range in.Applications {
		lineID, err := uuid.Parse(a.InvoiceLineID)
		if err != nil {
			return nil, fmt.Errorf("invalid invoice_line_id")
		}
		amt, err := decimal.NewFromString(a.Amount)
		if err != nil || !amt.IsPositive() {
			return nil, fmt.Errorf("invalid application amount %q", a.Amount)
		}
		allocations = append(allocations, allocation{lineID: lineID, amount: amt})
		allocated = allocated.Add(amt)
	}
	if allocated.GreaterThan(amount) {
		return nil, fmt.Errorf("applications total %s exceeds payment amount %s", allocated, amount)
	}

	p := &Payment{
		OrganisationID: orgID,
		PatientID:      patientID,
		Amount:         amount,
		Method:         in.Method,
		PaymentDate:    paidOn.In(time.UTC),
	}
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.CreatePayment(ctx, p); err != nil {
			return err
		}
		touched := make(map[uuid.UUID]bool)
		for _, a := range allocations {
			line, err := s.repo.GetLine(ctx, a.lineID)
			if err != nil {
				return fmt.Errorf("invoice line %s: %w", a.lineID, err)
			}
			app := &PaymentApplication{
				PaymentID:     p.ID,
				InvoiceLineID: a.lineID,
				AmountApplied: a.amount,
			}
			if err := s.repo.CreateApplication(ctx, app); err != nil {
				return err
			}
			p.Applications = append(p.Applications, app)
			touched[line.InvoiceID] = true
		}
		for invoiceID := range touched {
			if _, err := s.refresh(ctx, invoiceID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
