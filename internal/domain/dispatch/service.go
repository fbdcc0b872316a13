package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AmbulanceDirectory and PatientDirectory are the slices of the ambulance
// and patient repositories the dispatch service needs for validation.
type AmbulanceDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type PatientDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo       Repository
	ambulances AmbulanceDirectory
	patients   PatientDirectory
}

func NewService(repo Repository, ambulances AmbulanceDirectory, patients PatientDirectory) *Service {
	return &Service{repo: repo, ambulances: ambulances, patients: patients}
}

// SendCommand carries one logical send. Key identifies the send across
// retries; callers that retry a failed send reuse the same key and get the
// original request back.
type SendCommand struct {
	AmbulanceID  string
	HospitalID   string
	PatientID    string
	PredictionID string
	Key          uuid.UUID
}

// Send creates a pending dispatch request, exactly once per idempotency key.
// The prediction attached is the one current at send time; later prediction
// changes do not touch the request.
func (s *Service) Send(ctx context.Context, cmd SendCommand) (*Request, error) {
	if cmd.AmbulanceID == "" {
		return nil, fmt.Errorf("ambulance_id is required")
	}
	if cmd.HospitalID == "" {
		return nil, fmt.Errorf("hospital_id is required")
	}
	if cmd.PatientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	if cmd.Key == uuid.Nil {
		return nil, fmt.Errorf("idempotency key is required")
	}

	ok, err := s.ambulances.Exists(ctx, cmd.AmbulanceID)
	if err != nil {
		return nil, fmt.Errorf("checking ambulance: %w", err)
	}
	if !ok {
		return nil, ErrUnknownAmbulance
	}
	ok, err = s.patients.Exists(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("checking patient: %w", err)
	}
	if !ok {
		return nil, ErrUnknownPatient
	}

	req := &Request{
		ID:             uuid.New(),
		AmbulanceID:    cmd.AmbulanceID,
		HospitalID:     cmd.HospitalID,
		PatientID:      cmd.PatientID,
		PredictionID:   cmd.PredictionID,
		Status:         StatusPending,
		IdempotencyKey: cmd.Key,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, req); err != nil {
		return nil, err
	}
	// The insert is a no-op when this key was already used; the fetch returns
	// the row from the first send either way.
	return s.repo.GetByIdempotencyKey(ctx, cmd.Key)
}

// Resolve moves a pending request to accepted or declined. The first resolve
// wins; any later attempt reports ErrAlreadyResolved.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, status string) (*Request, error) {
	if status != StatusAccepted && status != StatusDeclined {
		return nil, fmt.Errorf("status must be %q or %q", StatusAccepted, StatusDeclined)
	}
	return s.repo.MarkResolved(ctx, id, status)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByHospital(ctx context.Context, hospitalID, status string, limit, offset int) ([]*Request, int, error) {
	if status != "" && status != StatusPending && status != StatusAccepted && status != StatusDeclined {
		return nil, 0, fmt.Errorf("invalid status %q", status)
	}
	return s.repo.ListByHospital(ctx, hospitalID, status, limit, offset)
}

func (s *Service) ListByAmbulance(ctx context.Context, ambulanceID string, limit, offset int) ([]*Request, int, error) {
	return s.repo.ListByAmbulance(ctx, ambulanceID, limit, offset)
}
