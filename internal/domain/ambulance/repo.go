package ambulance

import "context"

type Repository interface {
	Create(ctx context.Context, a *Ambulance) error
	GetByID(ctx context.Context, id string) (*Ambulance, error)
	Exists(ctx context.Context, id string) (bool, error)
	// UpsertLocation records the latest known position. One logical fix maps
	// to one upsert; replaying the same fix is harmless.
	UpsertLocation(ctx context.Context, id string, lat, lng float64, address *string) error
	SetStatus(ctx context.Context, id, status string) error
}
