package vitals

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

// Append persists one vitals snapshot. The caller may pre-assign the record
// ID to make retries idempotent; otherwise one is generated here.
func (s *Service) Append(ctx context.Context, rec *Record) error {
	if rec.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if rec.GCS < 0 || rec.GCS > 15 {
		return fmt.Errorf("gcs must be within 0..15")
	}
	if rec.SpO2 < 0 || rec.SpO2 > 100 {
		return fmt.Errorf("spo2 must be within 0..100")
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.TakenAt.IsZero() {
		rec.TakenAt = time.Now().UTC()
	}
	return s.repo.Append(ctx, rec)
}

func (s *Service) History(ctx context.Context, patientID string, limit, offset int) ([]*Record, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) Latest(ctx context.Context, patientID string) (*Record, error) {
	return s.repo.LatestByPatient(ctx, patientID)
}
