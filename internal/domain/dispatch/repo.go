package dispatch

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Insert persists a new request. It reports ErrDuplicateRequest when the
	// patient already has a pending request to the same hospital, and must
	// be a no-op when a row with the same idempotency key already exists.
	Insert(ctx context.Context, req *Request) error

	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*Request, error)

	// MarkResolved moves a pending request to the given terminal status.
	// It reports ErrAlreadyResolved when the request is no longer pending.
	MarkResolved(ctx context.Context, id uuid.UUID, status string) (*Request, error)

	ListByHospital(ctx context.Context, hospitalID, status string, limit, offset int) ([]*Request, int, error)
	ListByAmbulance(ctx context.Context, ambulanceID string, limit, offset int) ([]*Request, int, error)
}
