package contactlog

import "context"

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListByHospital(ctx context.Context, hospitalID string, limit, offset int) ([]*Entry, int, error)
	ListByAmbulance(ctx context.Context, ambulanceID string, limit, offset int) ([]*Entry, int, error)
}
