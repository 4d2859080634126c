package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"

	FilterDaily   = "daily"
	FilterWeekly  = "weekly"
	FilterMonthly = "monthly"
)

// UnknownService labels application revenue whose invoice line carries
// neither a catalog link nor a free-text service name.
const UnknownService = "Unknown Service"

// Bucket is one time-windowed sum of applied payment amounts.
type Bucket struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// RevenueReport is a time-bucketed revenue breakdown with a comparison to
// the reference prior period. GrowthIsPercent distinguishes the yearly
// percentage growth from the plain difference used by the other periods.
type RevenueReport struct {
	Period          string          `json:"period"`
	Filter          string          `json:"filter"`
	Buckets         []Bucket        `json:"buckets"`
	CurrentTotal    decimal.Decimal `json:"current_total"`
	PreviousTotal   decimal.Decimal `json:"previous_total"`
	Growth          decimal.Decimal `json:"growth"`
	GrowthIsPercent bool            `json:"growth_is_percent"`
}

// ServiceRevenue is the aggregate revenue of one service with its monthly
// trend for the requested year.
type ServiceRevenue struct {
	Name    string          `json:"name"`
	Total   decimal.Decimal `json:"total"`
	Monthly []Bucket        `json:"monthly"`
}

// Stats are the collection-rate percentages for an organisation. All
// percentages are rounded to whole numbers and are 0 when nothing has been
// invoiced.
type Stats struct {
	TotalInvoiced     decimal.Decimal `json:"total_invoiced"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	TotalPending      decimal.Decimal `json:"total_pending"`
	PaidPercentage    int             `json:"paid_percentage"`
	PendingPercentage int             `json:"pending_percentage"`
	CollectionRate    int             `json:"collection_rate"`
}

// ApplicationRecord is one payment application joined with its payment date
// and resolved service name. The name preference is catalog name, then the
// invoice line's free text, then UnknownService.
type ApplicationRecord struct {
	PaymentDate time.Time
	ServiceName string
	Amount      decimal.Decimal
}
