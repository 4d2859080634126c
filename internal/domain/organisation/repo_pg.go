package organisation

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

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

const orgCols = `id, name, tax_id, email, phone, address, city, country, active, created_at, updated_at`

func (r *repoPG) scanOrg(row pgx.Row) (*Organisation, error) {
	var o Organisation
	err := row.Scan(&o.ID, &o.Name, &o.TaxID, &o.Email, &o.Phone, &o.Address,
		&o.City, &o.Country, &o.Active, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *repoPG) Create(ctx context.Context, o *Organisation) error {
	o.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO organisation (id, name, tax_id, email, phone, address, city, country, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		o.ID, o.Name, o.TaxID, o.Email, o.Phone, o.Address, o.City, o.Country, o.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Organisation, error) {
	return r.scanOrg(r.conn(ctx).QueryRow(ctx, `SELECT `+orgCols+` FROM organisation WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, o *Organisation) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE organisation SET name=$2, tax_id=$3, email=$4, phone=$5, address=$6,
			city=$7, country=$8, active=$9, updated_at=NOW()
		WHERE id = $1`,
		o.ID, o.Name, o.TaxID, o.Email, o.Phone, o.Address, o.City, o.Country, o.Active)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Organisation, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM organisation`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+orgCols+` FROM organisation ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Organisation
	for rows.Next() {
		o, err := r.scanOrg(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, nil
}
