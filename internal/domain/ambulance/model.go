package ambulance

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Ambulance maps to the ambulance table. The location columns mirror the
// session's in-memory position; they are best-effort and may lag live state.
type Ambulance struct {
	ID        string    `db:"id" json:"id"`
	Callsign  string    `db:"callsign" json:"callsign"`
	Lat       float64   `db:"current_lat" json:"lat"`
	Lng       float64   `db:"current_lng" json:"lng"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Status    string    `db:"status" json:"status"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
