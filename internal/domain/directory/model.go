package directory

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctor table.
type Doctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Fees           float64   `db:"fees" json:"fees"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Patient maps to the patient table.
type Patient struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Gender     *string    `db:"gender" json:"gender,omitempty"`
	BirthDate  *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Phone      *string    `db:"phone" json:"phone,omitempty"`
	Email      *string    `db:"email" json:"email,omitempty"`
	Address    *string    `db:"address" json:"address,omitempty"`
	BloodGroup *string    `db:"blood_group" json:"blood_group,omitempty"`
	Active     bool       `db:"active" json:"active"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
