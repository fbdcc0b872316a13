package contactlog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends one contact attempt. It never mutates prior entries; a
// hospital may be contacted with or without a formal dispatch request.
func (s *Service) Record(ctx context.Context, e *Entry) error {
	if e.HospitalID == "" {
		return fmt.Errorf("hospital_id is required")
	}
	if e.AmbulanceID == "" {
		return fmt.Errorf("ambulance_id is required")
	}
	if e.Type != TypeCall && e.Type != TypeMessage {
		return fmt.Errorf("type must be %q or %q", TypeCall, TypeMessage)
	}
	switch e.Status {
	case StatusPending, StatusAccepted, StatusDeclined:
	case "":
		e.Status = StatusPending
	default:
		return fmt.Errorf("invalid status %q", e.Status)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return s.repo.Append(ctx, e)
}

func (s *Service) ListByHospital(ctx context.Context, hospitalID string, limit, offset int) ([]*Entry, int, error) {
	return s.repo.ListByHospital(ctx, hospitalID, limit, offset)
}

func (s *Service) ListByAmbulance(ctx context.Context, ambulanceID string, limit, offset int) ([]*Entry, int, error) {
	return s.repo.ListByAmbulance(ctx, ambulanceID, limit, offset)
}
