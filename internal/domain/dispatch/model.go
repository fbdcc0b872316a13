package dispatch

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// Request maps to the dispatch_request table. A request moves
// pending -> accepted|declined exactly once; the terminal state is final
// even if the patient's prediction changes afterwards.
type Request struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	AmbulanceID    string     `db:"ambulance_id" json:"ambulance_id"`
	HospitalID     string     `db:"hospital_id" json:"hospital_id"`
	PatientID      string     `db:"patient_id" json:"patient_id"`
	PredictionID   string     `db:"prediction_id" json:"prediction_id,omitempty"`
	Status         string     `db:"status" json:"status"`
	IdempotencyKey uuid.UUID  `db:"idempotency_key" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt     *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}

// Resolved reports whether the request has reached a terminal state.
func (r *Request) Resolved() bool {
	return r.Status != StatusPending
}
