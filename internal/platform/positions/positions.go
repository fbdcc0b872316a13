// Package positions feeds live GPS fixes from ambulance hardware into a
// session's location tracker.
package positions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Fix is a single GPS observation.
type Fix struct {
	Lat float64   `json:"lat"`
	Lng float64   `json:"lng"`
	At  time.Time `json:"timestamp"`
}

// Source delivers a stream of fixes for one ambulance until the context is
// cancelled. Implementations close the returned channel on teardown.
type Source interface {
	Watch(ctx context.Context, ambulanceID string) (<-chan Fix, error)
}

type fixPayload struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp string  `json:"timestamp"`
}

// ParseFix decodes and validates one published position payload.
func ParseFix(payload []byte) (Fix, error) {
	var p fixPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return Fix{}, fmt.Errorf("decode position payload: %w", err)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return Fix{}, fmt.Errorf("latitude %v out of range", p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return Fix{}, fmt.Errorf("longitude %v out of range", p.Lng)
	}

	fix := Fix{Lat: p.Lat, Lng: p.Lng, At: time.Now().UTC()}
	if p.Timestamp != "" {
		if at, err := time.Parse(time.RFC3339, p.Timestamp); err == nil {
			fix.At = at
		}
	}
	return fix, nil
}
