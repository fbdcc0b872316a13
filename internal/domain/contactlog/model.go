package contactlog

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeCall    = "call"
	TypeMessage = "message"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// Entry maps to the contact_log table. Entries record informal outreach
// (a phone call or message to a hospital) and are append-only: immutable
// once created, never deleted, and independent of any dispatch request.
type Entry struct {
	ID          uuid.UUID `db:"id" json:"id"`
	HospitalID  string    `db:"hospital_id" json:"hospital_id"`
	AmbulanceID string    `db:"ambulance_id" json:"ambulance_id"`
	Type        string    `db:"type" json:"type"`
	Status      string    `db:"status" json:"status"`
	Response    *string   `db:"response" json:"response,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
