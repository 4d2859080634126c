package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/clinicbase/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) ApplicationsBetween(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]*ApplicationRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.payment_date,
			COALESCE(s.name, NULLIF(il.service_name, ''), $4) AS service_name,
			pa.amount_applied
		FROM payment_application pa
		JOIN payment p ON p.id = pa.payment_id
		JOIN invoice_line il ON il.id = pa.invoice_line_id
		LEFT JOIN service s ON s.id = il.service_id
		WHERE p.organisation_id = $1 AND p.payment_date >= $2 AND p.payment_date < $3
		ORDER BY p.payment_date ASC`,
		orgID, from, to, UnknownService)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*ApplicationRecord
	for rows.Next() {
		var rec ApplicationRecord
		if err := rows.Scan(&rec.PaymentDate, &rec.ServiceName, &rec.Amount); err != nil {
			return nil, err
		}
		items = append(items, &rec)
	}
	return items, nil
}

func (r *repoPG) InvoiceTotals(ctx context.Context, orgID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var invoiced, paid decimal.Decimal
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(i.total), 0),
			COALESCE((
				SELECT SUM(pa.amount_applied)
				FROM payment_application pa
				JOIN invoice_line il ON il.id = pa.invoice_line_id
				JOIN invoice i2 ON i2.id = il.invoice_id
				WHERE i2.organisation_id = $1 AND i2.record_status <> 'DELETED'
			), 0)
		FROM invoice i
		WHERE i.organisation_id = $1 AND i.record_status <> 'DELETED'`, orgID).Scan(&invoiced, &paid)
	return invoiced, paid, err
}
