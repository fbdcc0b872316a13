package patient

import "time"

// Patient maps to the patient table. IDs are operator-facing strings ("P1").
type Patient struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Age       int       `db:"age" json:"age"`
	Gender    string    `db:"gender" json:"gender"`
	BloodType string    `db:"blood_type" json:"blood_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
