package finance

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc, now: time.Now}
}

var hundred = decimal.NewFromInt(100)

func sumBetween(records []*ApplicationRecord, from, to time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, rec := range records {
		if !rec.PaymentDate.Before(from) && rec.PaymentDate.Before(to) {
			sum = sum.Add(rec.Amount)
		}
	}
	return sum
}

// percent returns round(part / whole * 100), or 0 when whole is zero.
func percent(part, whole decimal.Decimal) int {
	if whole.IsZero() {
		return 0
	}
	return int(part.Div(whole).Mul(hundred).Round(0).IntPart())
}

func (s *Service) midnight(t time.Time) time.Time {
	y, m, d := t.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// Revenue produces the bucketed revenue report for the period. Bucket values
// sum application amounts, never the payments' own amounts.
func (s *Service) Revenue(ctx context.Context, orgID uuid.UUID, period, filter string) (*RevenueReport, error) {
	if orgID == uuid.Nil {
		return nil, fmt.Errorf("organisation_id is required")
	}
	switch period {
	case PeriodWeek:
		return s.weekRevenue(ctx, orgID)
	case PeriodMonth:
		if filter == "" {
			filter = FilterWeekly
		}
		if filter != FilterDaily && filter != FilterWeekly {
			return nil, fmt.Errorf("invalid filter %q for period %q", filter, period)
		}
		return s.monthRevenue(ctx, orgID, filter)
	case PeriodYear:
		if filter == "" {
			filter = FilterMonthly
		}
		if filter != FilterDaily && filter != FilterMonthly {
			return nil, fmt.Errorf("invalid filter %q for period %q", filter, period)
		}
		return s.yearRevenue(ctx, orgID, filter)
	default:
		return nil, fmt.Errorf("invalid period %q", period)
	}
}

// weekRevenue buckets the current Sunday-to-Saturday week into 7 daily
// buckets. Growth is the plain difference against the previous week.
func (s *Service) weekRevenue(ctx context.Context, orgID uuid.UUID) (*RevenueReport, error) {
	now := s.now().In(s.loc)
	weekStart := s.midnight(now).AddDate(0, 0, -int(now.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 7)
	prevStart := weekStart.AddDate(0, 0, -7)

	records, err := s.repo.ApplicationsBetween(ctx, orgID, prevStart, weekEnd)
	if err != nil {
		return nil, err
	}

	buckets := make([]Bucket, 7)
	for i := 0; i < 7; i++ {
		dayStart := weekStart.AddDate(0, 0, i)
		buckets[i] = Bucket{
			Label: dayStart.Weekday().String()[:3],
			Total: sumBetween(records, dayStart, dayStart.AddDate(0, 0, 1)),
		}
	}

	current := sumBetween(records, weekStart, weekEnd)
	previous := sumBetween(records, prevStart, weekStart)
	return &RevenueReport{
		Period:        PeriodWeek,
		Filter:        FilterDaily,
		Buckets:       buckets,
		CurrentTotal:  current,
		PreviousTotal: previous,
		Growth:        current.Sub(previous),
	}, nil
}

// monthRevenue buckets the current month daily or in 7-day weeks counted
// from day 1. Growth is the difference against the average monthly total
// over the year's previous months.
func (s *Service) monthRevenue(ctx context.Context, orgID uuid.UUID, filter string) (*RevenueReport, error) {
	now := s.now().In(s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	nextMonth := monthStart.AddDate(0, 1, 0)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, s.loc)

	records, err := s.repo.ApplicationsBetween(ctx, orgID, yearStart, nextMonth)
	if err != nil {
		return nil, err
	}

	var buckets []Bucket
	if filter == FilterDaily {
		daysInMonth := nextMonth.AddDate(0, 0, -1).Day()
		for day := 1; day <= daysInMonth; day++ {
			dayStart := monthStart.AddDate(0, 0, day-1)
			buckets = append(buckets, Bucket{
				Label: fmt.Sprintf("%d", day),
				Total: sumBetween(records, dayStart, dayStart.AddDate(0, 0, 1)),
			})
		}
	} else {
		offset := int(monthStart.Weekday())
		weeks := int(math.Ceil(float64(now.Day()+offset) / 7))
		for i := 0; i < weeks; i++ {
			from := monthStart.AddDate(0, 0, i*7)
			to := monthStart.AddDate(0, 0, (i+1)*7)
			if to.After(nextMonth) {
				to = nextMonth
			}
			buckets = append(buckets, Bucket{
				Label: fmt.Sprintf("Week %d", i+1),
				Total: sumBetween(records, from, to),
			})
		}
	}

	current := sumBetween(records, monthStart, nextMonth)
	previous := sumBetween(records, yearStart, monthStart)
	monthsElapsed := int(now.Month()) - 1
	average := decimal.Zero
	if monthsElapsed > 0 {
		average = previous.Div(decimal.NewFromInt(int64(monthsElapsed)))
	}
	return &RevenueReport{
		Period:        PeriodMonth,
		Filter:        filter,
		Buckets:       buckets,
		CurrentTotal:  current,
		PreviousTotal: previous,
		Growth:        current.Sub(average),
	}, nil
}

// yearRevenue buckets the year to date monthly, or the current month daily.
// Growth is the percentage change against the preceding calendar year.
func (s *Service) yearRevenue(ctx context.Context, orgID uuid.UUID, filter string) (*RevenueReport, error) {
	now := s.now().In(s.loc)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, s.loc)
	prevYearStart := yearStart.AddDate(-1, 0, 0)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	nextMonth := monthStart.AddDate(0, 1, 0)

	records, err := s.repo.ApplicationsBetween(ctx, orgID, prevYearStart, nextMonth)
	if err != nil {
		return nil, err
	}

	var buckets []Bucket
	if filter == FilterDaily {
		// Daily granularity stays bounded to the current month.
		daysInMonth := nextMonth.AddDate(0, 0, -1).Day()
		for day := 1; day <= daysInMonth; day++ {
			dayStart := monthStart.AddDate(0, 0, day-1)
			buckets = append(buckets, Bucket{
				Label: fmt.Sprintf("%d", day),
				Total: sumBetween(records, dayStart, dayStart.AddDate(0, 0, 1)),
			})
		}
	} else {
		for m := time.January; m <= now.Month(); m++ {
			from := time.Date(now.Year(), m, 1, 0, 0, 0, 0, s.loc)
			buckets = append(buckets, Bucket{
				Label: m.String()[:3],
				Total: sumBetween(records, from, from.AddDate(0, 1, 0)),
			})
		}
	}

	current := sumBetween(records, yearStart, nextMonth)
	previous := sumBetween(records, prevYearStart, yearStart)
	var growth decimal.Decimal
	switch {
	case previous.IsZero() && current.IsZero():
		growth = decimal.Zero
	case previous.IsZero():
		growth = hundred
	default:
		growth = current.Sub(previous).Div(previous).Mul(hundred)
	}
	return &RevenueReport{
		Period:          PeriodYear,
		Filter:          filter,
		Buckets:         buckets,
		CurrentTotal:    current,
		PreviousTotal:   previous,
		Growth:          growth,
		GrowthIsPercent: true,
	}, nil
}

// ServiceBreakdown groups applied amounts by resolved service name for the
// year, with a monthly trend per service. Services with no revenue are
// dropped; results are ordered by total descending.
func (s *Service) ServiceBreakdown(ctx context.Context, orgID uuid.UUID, year int) ([]*ServiceRevenue, error) {
	if orgID == uuid.Nil {
		return nil, fmt.Errorf("organisation_id is required")
	}
	now := s.now().In(s.loc)
	if year == 0 {
		year = now.Year()
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(1, 0, 0)
	lastMonth := time.December
	if year == now.Year() {
		// Bound the current year to the end of the current month.
		to = time.Date(year, now.Month(), 1, 0, 0, 0, 0, s.loc).AddDate(0, 1, 0)
		lastMonth = now.Month()
	}

	records, err := s.repo.ApplicationsBetween(ctx, orgID, from, to)
	if err != nil {
		return nil, err
	}

	byService := make(map[string]*ServiceRevenue)
	for _, rec := range records {
		name := rec.ServiceName
		if name == "" {
			name = UnknownService
		}
		sr, ok := byService[name]
		if !ok {
			sr = &ServiceRevenue{Name: name, Total: decimal.Zero}
			for m := time.January; m <= lastMonth; m++ {
				sr.Monthly = append(sr.Monthly, Bucket{Label: m.String()[:3], Total: decimal.Zero})
			}
			byService[name] = sr
		}
		sr.Total = sr.Total.Add(rec.Amount)
		month := rec.PaymentDate.In(s.loc).Month()
		sr.Monthly[int(month)-1].Total = sr.Monthly[int(month)-1].Total.Add(rec.Amount)
	}

	out := make([]*ServiceRevenue, 0, len(byService))
	for _, sr := range byService {
		if sr.Total.IsZero() {
			continue
		}
		out = append(out, sr)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Stats returns the collection-rate percentages. Nothing invoiced means
// every percentage is 0.
func (s *Service) Stats(ctx context.Context, orgID uuid.UUID) (*Stats, error) {
	if orgID == uuid.Nil {
		return nil, fmt.Errorf("organisation_id is required")
	}
	invoiced, paid, err := s.repo.InvoiceTotals(ctx, orgID)
	if err != nil {
		return nil, err
	}
	pending := invoiced.Sub(paid)
	return &Stats{
		TotalInvoiced:     invoiced,
		TotalPaid:         paid,
		TotalPending:      pending,
		PaidPercentage:    percent(paid, invoiced),
		PendingPercentage: percent(pending, invoiced),
		CollectionRate:    percent(paid, invoiced),
	}, nil
}
