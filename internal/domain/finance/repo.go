package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// ApplicationsBetween returns the organisation's payment applications
	// whose payment date falls in [from, to).
	ApplicationsBetween(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]*ApplicationRecord, error)
	// InvoiceTotals returns the organisation's total invoiced amount and
	// the total applied against it. Soft-deleted invoices are excluded
	// from both sums.
	InvoiceTotals(ctx context.Context, orgID uuid.UUID) (invoiced, paid decimal.Decimal, err error)
}
