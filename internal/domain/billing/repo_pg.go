package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/clinicbase/clinic/internal/platform/db"
	"github.com/clinicbase/clinic/pkg/civil"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const invoiceCols = `id, organisation_id, patient_id, number, issue_date, status, record_status, total, created_at, updated_at`

func (r *repoPG) scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var issued time.Time
	err := row.Scan(&inv.ID, &inv.OrganisationID, &inv.PatientID, &inv.Number, &issued,
		&inv.Status, &inv.RecordStatus, &inv.Total, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.IssueDate = civil.DateOf(issued)
	return &inv, nil
}

func (r *repoPG) CreateInvoice(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO invoice (id, organisation_id, patient_id, number, issue_date, status, record_status, total)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		inv.ID, inv.OrganisationID, inv.PatientID, inv.Number,
		inv.IssueDate.In(time.UTC), inv.Status, inv.RecordStatus, inv.Total)
	return err
}

func (r *repoPG) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := r.scanInvoice(r.conn(ctx).QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoice WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	inv.Lines, err = r.ListLines(ctx, id)
	return inv, err
}

func (r *repoPG) UpdateInvoice(ctx context.Context, inv *Invoice) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE invoice SET status = $2, total = $3, updated_at = NOW() WHERE id = $1`,
		inv.ID, inv.Status, inv.Total)
	return err
}

func (r *repoPG) SetInvoiceRecordStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE invoice SET record_status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	return err
}

func (r *repoPG) ListInvoicesByOrganisation(ctx context.Context, orgID uuid.UUID, status string, limit, offset int) ([]*Invoice, int, error) {
	where := ` WHERE organisation_id = $1 AND record_status <> 'DELETED'`
	args := []interface{}{orgID}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM invoice`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+invoiceCols+` FROM invoice`+where+
			fmt.Sprintf(` ORDER BY issue_date DESC, number DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Invoice
	for rows.Next() {
		inv, err := r.scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	return items, total, nil
}

func (r *repoPG) NextInvoiceNumber(ctx context.Context) (int64, error) {
	var n int64
	err := r.conn(ctx).QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&n)
	return n, err
}

const lineCols = `id, invoice_id, service_id, service_name, unit_price, quantity, line_total`

func (r *repoPG) scanLine(row pgx.Row) (*InvoiceLine, error) {
	var l InvoiceLine
	err := row.Scan(&l.ID, &l.InvoiceID, &l.ServiceID, &l.ServiceName,
		&l.UnitPrice, &l.Quantity, &l.LineTotal)
	return &l, err
}

func (r *repoPG) CreateLine(ctx context.Context, line *InvoiceLine) error {
	line.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO invoice_line (id, invoice_id, service_id, service_name, unit_price, quantity, line_total)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		line.ID, line.InvoiceID, line.ServiceID, line.ServiceName,
		line.UnitPrice, line.Quantity, line.LineTotal)
	return err
}

func (r *repoPG) GetLine(ctx context.Context, id uuid.UUID) (*InvoiceLine, error) {
	return r.scanLine(r.conn(ctx).QueryRow(ctx, `SELECT `+lineCols+` FROM invoice_line WHERE id = $1`, id))
}

func (r *repoPG) UpdateLine(ctx context.Context, line *InvoiceLine) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE invoice_line SET service_id=$2, service_name=$3, unit_price=$4, quantity=$5, line_total=$6
		WHERE id = $1`,
		line.ID, line.ServiceID, line.ServiceName, line.UnitPrice, line.Quantity, line.LineTotal)
	return err
}

func (r *repoPG) DeleteLine(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoice_line WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListLines(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceLine, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+lineCols+` FROM invoice_line WHERE invoice_id = $1 ORDER BY service_name ASC, id ASC`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*InvoiceLine
	for rows.Next() {
		l, err := r.scanLine(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, nil
}

func (r *repoPG) CreatePayment(ctx context.Context, p *Payment) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO payment (id, organisation_id, patient_id, amount, method, payment_date)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.OrganisationID, p.PatientID, p.Amount, p.Method, p.PaymentDate)
	return err
}

func (r *repoPG) CreateApplication(ctx context.Context, a *PaymentApplication) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO payment_application (id, payment_id, invoice_line_id, amount_applied)
		VALUES ($1,$2,$3,$4)`,
		a.ID, a.PaymentID, a.InvoiceLineID, a.AmountApplied)
	return err
}

func (r *repoPG) CountApplicationsByLine(ctx context.Context, lineID uuid.UUID) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM payment_application WHERE invoice_line_id = $1`, lineID).Scan(&n)
	return n, err
}

func (r *repoPG) AppliedToInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var applied decimal.Decimal
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(pa.amount_applied), 0)
		FROM payment_application pa
		JOIN invoice_line il ON il.id = pa.invoice_line_id
		WHERE il.invoice_id = $1`, invoiceID).Scan(&applied)
	return applied, err
}
