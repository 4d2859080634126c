package patient

import (
	"context"
	"fmt"
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

const patientCols = `id, organisation_id, full_name, document, birth_date, gender,
	email, phone, address, notes, status, created_at, updated_at`

// birth_date is a DATE column; conversion to the calendar type happens here,
// at the database boundary.
func dateParam(d *civil.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.In(time.UTC)
	return &t
}

func dateValue(t *time.Time) *civil.Date {
	if t == nil {
		return nil
	}
	d := civil.DateOf(*t)
	return &d
}

func (r *repoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var bd *time.Time
	err := row.Scan(&p.ID, &p.OrganisationID, &p.FullName, &p.Document, &bd, &p.Gender,
		&p.Email, &p.Phone, &p.Address, &p.Notes, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	p.BirthDate = dateValue(bd)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, organisation_id, full_name, document, birth_date, gender,
			email, phone, address, notes, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.OrganisationID, p.FullName, p.Document, dateParam(p.BirthDate), p.Gender,
		p.Email, p.Phone, p.Address, p.Notes, p.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET full_name=$2, document=$3, birth_date=$4, gender=$5,
			email=$6, phone=$7, address=$8, notes=$9, status=$10, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FullName, p.Document, dateParam(p.BirthDate), p.Gender,
		p.Email, p.Phone, p.Address, p.Notes, p.Status)
	return err
}

func (r *repoPG) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE patient SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) ListByOrganisation(ctx context.Context, orgID uuid.UUID, name string, limit, offset int) ([]*Patient, int, error) {
	query := `SELECT ` + patientCols + ` FROM patient WHERE organisation_id = $1 AND status <> 'DELETED'`
	countQuery := `SELECT COUNT(*) FROM patient WHERE organisation_id = $1 AND status <> 'DELETED'`
	args := []interface{}{orgID}
	idx := 2

	if name != "" {
		query += fmt.Sprintf(` AND full_name ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND full_name ILIKE $%d`, idx)
		args = append(args, "%"+name+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY full_name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}
