package practitioner

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

const practCols = `id, organisation_id, full_name, specialty, license_number,
	email, phone, active, created_at, updated_at`

func (r *repoPG) scanPractitioner(row pgx.Row) (*Practitioner, error) {
	var p Practitioner
	err := row.Scan(&p.ID, &p.OrganisationID, &p.FullName, &p.Specialty, &p.LicenseNumber,
		&p.Email, &p.Phone, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Practitioner) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO practitioner (id, organisation_id, full_name, specialty, license_number,
			email, phone, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.OrganisationID, p.FullName, p.Specialty, p.LicenseNumber,
		p.Email, p.Phone, p.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	return r.scanPractitioner(r.conn(ctx).QueryRow(ctx, `SELECT `+practCols+` FROM practitioner WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Practitioner) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE practitioner SET full_name=$2, specialty=$3, license_number=$4,
			email=$5, phone=$6, active=$7, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FullName, p.Specialty, p.LicenseNumber, p.Email, p.Phone, p.Active)
	return err
}

func (r *repoPG) ListByOrganisation(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Practitioner, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM practitioner WHERE organisation_id = $1`, orgID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+practCols+` FROM practitioner WHERE organisation_id = $1 ORDER BY full_name ASC LIMIT $2 OFFSET $3`, orgID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Practitioner
	for rows.Next() {
		p, err := r.scanPractitioner(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

// Working-hour times live in TIME columns; the calendar types convert at the
// scan/param boundary.
func (r *repoPG) ListWorkingHours(ctx context.Context, practitionerID uuid.UUID) ([]*WorkingHour, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, practitioner_id, weekday, start_time, end_time, slot_minutes
		FROM working_hour WHERE practitioner_id = $1
		ORDER BY weekday ASC, start_time ASC`, practitionerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*WorkingHour
	for rows.Next() {
		var w WorkingHour
		var weekday int
		var start, end time.Time
		if err := rows.Scan(&w.ID, &w.PractitionerID, &weekday, &start, &end, &w.SlotMinutes); err != nil {
			return nil, err
		}
		w.Weekday = time.Weekday(weekday)
		w.StartTime = civil.TimeOfDayOf(start)
		w.EndTime = civil.TimeOfDayOf(end)
		items = append(items, &w)
	}
	return items, nil
}

func (r *repoPG) ReplaceWorkingHours(ctx context.Context, practitionerID uuid.UUID, hours []*WorkingHour) error {
	conn := r.conn(ctx)
	if _, err := conn.Exec(ctx, `DELETE FROM working_hour WHERE practitioner_id = $1`, practitionerID); err != nil {
		return err
	}
	for _, w := range hours {
		w.ID = uuid.New()
		w.PractitionerID = practitionerID
		if _, err := conn.Exec(ctx, `
			INSERT INTO working_hour (id, practitioner_id, weekday, start_time, end_time, slot_minutes)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			w.ID, w.PractitionerID, int(w.Weekday), w.StartTime.String(), w.EndTime.String(), w.SlotMinutes); err != nil {
			return err
		}
	}
	return nil
}
