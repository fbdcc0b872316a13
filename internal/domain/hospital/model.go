package hospital

import "time"

// Hospital maps to the hospital directory table. Contact, address,
// coordinates and type may be absent in the source directory.
type Hospital struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	ContactNo     *string   `db:"contact_no" json:"contact_no,omitempty"`
	Address       *string   `db:"address" json:"address,omitempty"`
	Lat           *float64  `db:"lat" json:"lat,omitempty"`
	Lng           *float64  `db:"lng" json:"lng,omitempty"`
	Type          *string   `db:"type" json:"type,omitempty"`
	EmergencyCare bool      `db:"emergency_care" json:"emergency_care"`
	BedsICU       int       `db:"beds_icu" json:"beds_icu"`
	Facilities    *string   `db:"facilities" json:"facilities,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
