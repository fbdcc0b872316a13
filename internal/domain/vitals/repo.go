package vitals

import "context"

type Repository interface {
	// Append inserts one record. Re-appending the same record ID is a no-op.
	Append(ctx context.Context, rec *Record) error
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Record, int, error)
	LatestByPatient(ctx context.Context, patientID string) (*Record, error)
}
