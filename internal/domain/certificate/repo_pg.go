package certificate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

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
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const certCols = `id, organisation_id, patient_id, practitioner_id, issue_date,
	rest_days, content, status, created_at, updated_at`

func (r *repoPG) scanCertificate(row pgx.Row) (*Certificate, error) {
	var c Certificate
	var issued time.Time
	err := row.Scan(&c.ID, &c.OrganisationID, &c.PatientID, &c.PractitionerID, &issued,
		&c.RestDays, &c.Content, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.IssueDate = civil.DateOf(issued)
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Certificate) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO certificate (id, organisation_id, patient_id, practitioner_id,
			issue_date, rest_days, content, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.OrganisationID, c.PatientID, c.PractitionerID,
		c.IssueDate.In(time.UTC), c.RestDays, c.Content, c.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Certificate, error) {
	return r.scanCertificate(r.conn(ctx).QueryRow(ctx, `SELECT `+certCols+` FROM certificate WHERE id = $1`, id))
}

func (r *repoPG) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE certificate SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Certificate, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM certificate WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+certCols+` FROM certificate WHERE patient_id = $1 ORDER BY issue_date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Certificate
	for rows.Next() {
		c, err := r.scanCertificate(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}
