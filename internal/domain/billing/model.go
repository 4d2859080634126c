package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinicbase/clinic/pkg/civil"
)

const (
	StatusPending = "PENDING"
	StatusPartial = "PARTIAL"
	StatusPaid    = "PAID"
)

// Record statuses, separate from the derived payment status. Deleting an
// invoice is a status transition, never a row removal.
const (
	RecordActive   = "ACTIVE"
	RecordArchived = "ARCHIVED"
	RecordDeleted  = "DELETED"
)

// Invoice maps to the invoice table. Total is always the sum of the current
// line totals; it is recomputed on every line change.
type Invoice struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	OrganisationID uuid.UUID       `db:"organisation_id" json:"organisation_id"`
	PatientID      uuid.UUID       `db:"patient_id" json:"patient_id"`
	Number         string          `db:"number" json:"number"`
	IssueDate      civil.Date      `db:"issue_date" json:"issue_date"`
	Status         string          `db:"status" json:"status"`
	RecordStatus   string          `db:"record_status" json:"record_status"`
	Total          decimal.Decimal `db:"total" json:"total"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`

	Lines []*InvoiceLine `db:"-" json:"lines,omitempty"`
}

// InvoiceLine maps to the invoice_line table. ServiceID links to the billing
// catalog when the line was picked from it; ServiceName is the free-text
// fallback. LineTotal is always UnitPrice times Quantity.
type InvoiceLine struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	InvoiceID   uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	ServiceID   *uuid.UUID      `db:"service_id" json:"service_id,omitempty"`
	ServiceName string          `db:"service_name" json:"service_name"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Quantity    int             `db:"quantity" json:"quantity"`
	LineTotal   decimal.Decimal `db:"line_total" json:"line_total"`
}

// Payment maps to the payment table. Amount is what the payer handed over;
// how it is split across invoice lines lives in the applications.
type Payment struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	OrganisationID uuid.UUID       `db:"organisation_id" json:"organisation_id"`
	PatientID      uuid.UUID       `db:"patient_id" json:"patient_id"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	Method         string          `db:"method" json:"method"`
	PaymentDate    time.Time       `db:"payment_date" json:"payment_date"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`

	Applications []*PaymentApplication `db:"-" json:"applications,omitempty"`
}

// PaymentApplication maps to the payment_application table. Revenue
// aggregation sums AmountApplied, never the payment's Amount.
type PaymentApplication struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	PaymentID     uuid.UUID       `db:"payment_id" json:"payment_id"`
	InvoiceLineID uuid.UUID       `db:"invoice_line_id" json:"invoice_line_id"`
	AmountApplied decimal.Decimal `db:"amount_applied" json:"amount_applied"`
}

// LineInput is one line in an invoice create or line edit request.
type LineInput struct {
	ServiceID   *string `json:"service_id" validate:"omitempty,uuid"`
	ServiceName string  `json:"service_name" validate:"required"`
	UnitPrice   string  `json:"unit_price" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
}

// CreateInvoiceInput is the request body for creating an invoice with its
// initial lines.
type CreateInvoiceInput struct {
	OrganisationID string       `json:"organisation_id" validate:"required,uuid"`
	PatientID      string       `json:"patient_id" validate:"required,uuid"`
	IssueDate      string       `json:"issue_date" validate:"required,datetime=2006-01-02"`
	Lines          []*LineInput `json:"lines" validate:"required,min=1,dive"`
}

// ApplicationInput allocates part of a payment to an invoice line.
type ApplicationInput struct {
	InvoiceLineID string `json:"invoice_line_id" validate:"required,uuid"`
	Amount        string `json:"amount" validate:"required"`
}

// RecordPaymentInput is the request body for recording a payment and its
// allocation across invoice lines.
type RecordPaymentInput struct {
	OrganisationID string              `json:"organisation_id" validate:"required,uuid"`
	PatientID      string              `json:"patient_id" validate:"required,uuid"`
	Amount         string              `json:"amount" validate:"required"`
	Method         string              `json:"method" validate:"required,oneof=CASH CARD BANK_TRANSFER"`
	PaymentDate    string              `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Applications   []*ApplicationInput `json:"applications" validate:"required,min=1,dive"`
}
