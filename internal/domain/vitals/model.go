package vitals

import (
	"time"

	"github.com/google/uuid"
)

// Record maps to the vitals_record table. Rows are append-only: one row per
// vitals edit, never updated or deleted. The ID doubles as the idempotency
// key for the insert, so a retried write cannot create a second row.
type Record struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID string    `db:"patient_id" json:"patient_id"`
	HR        int       `db:"hr" json:"hr"`
	SpO2      int       `db:"spo2" json:"spo2"`
	SBP       int       `db:"sbp" json:"sbp"`
	DBP       int       `db:"dbp" json:"dbp"`
	Temp      float64   `db:"temp" json:"temp"`
	Glucose   float64   `db:"glucose" json:"glucose"`
	GCS       int       `db:"gcs" json:"gcs"`
	TakenAt   time.Time `db:"taken_at" json:"taken_at"`
}
