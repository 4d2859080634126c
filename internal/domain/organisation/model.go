package organisation

import (
	"time"

	"github.com/google/uuid"
)

// Organisation maps to the organisation table. Each row is a clinic or
// practice that owns patients, appointments and invoices.
type Organisation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TaxID     *string   `db:"tax_id" json:"tax_id,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	City      *string   `db:"city" json:"city,omitempty"`
	Country   *string   `db:"country" json:"country,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
