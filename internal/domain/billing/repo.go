package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// UpdateInvoice persists the recomputed total and derived status.
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	// SetInvoiceRecordStatus archives or soft-deletes the invoice row.
	SetInvoiceRecordStatus(ctx context.Context, id uuid.UUID, status string) error
	// ListInvoicesByOrganisation excludes DELETED records.
	ListInvoicesByOrganisation(ctx context.Context, orgID uuid.UUID, status string, limit, offset int) ([]*Invoice, int, error)
	// NextInvoiceNumber returns the next value of the per-tenant invoice
	// sequence.
	NextInvoiceNumber(ctx context.Context) (int64, error)

	CreateLine(ctx context.Context, line *InvoiceLine) error
	GetLine(ctx context.Context, id uuid.UUID) (*InvoiceLine, error)
	UpdateLine(ctx context.Context, line *InvoiceLine) error
	DeleteLine(ctx context.Context, id uuid.UUID) error
	ListLines(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceLine, error)

	CreatePayment(ctx context.Context, p *Payment) error
	CreateApplication(ctx context.Context, a *PaymentApplication) error
	// CountApplicationsByLine reports how many payment applications
	// reference the line. A non-zero count blocks line deletion.
	CountApplicationsByLine(ctx context.Context, lineID uuid.UUID) (int, error)
	// AppliedToInvoice returns the sum of application amounts across the
	// invoice's lines.
	AppliedToInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
}
